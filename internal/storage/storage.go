package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindwellhq/mindwell-backend/internal/database"
)

var (
	// ErrNotFound is returned when no record matches the given identifier.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user insert/update collides with
	// the unique email index.
	ErrDuplicateEmail = errors.New("email already registered")
)

const (
	usersCollection    = "users"
	moodsCollection    = "moods"
	journalsCollection = "journals"
)

// EnsureIndexes creates the indexes the stores rely on: the unique email
// index on users and the owner+date indexes backing list and range queries.
func EnsureIndexes(ctx context.Context, db *database.Mongo) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	for _, name := range []string{moodsCollection, journalsCollection} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
