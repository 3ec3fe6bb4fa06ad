package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindwellhq/mindwell-backend/internal/database"
	"github.com/mindwellhq/mindwell-backend/internal/models"
)

// MoodQuery filters a mood listing. Owner is always set; the handlers fill
// it from the verified session identity.
type MoodQuery struct {
	Owner     primitive.ObjectID
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int64
	Ascending bool
}

func (q MoodQuery) filter() bson.M {
	filter := bson.M{"user_id": q.Owner}
	if q.StartDate != nil || q.EndDate != nil {
		dateFilter := bson.M{}
		if q.StartDate != nil {
			dateFilter["$gte"] = *q.StartDate
		}
		if q.EndDate != nil {
			dateFilter["$lte"] = *q.EndDate
		}
		filter["date"] = dateFilter
	}
	return filter
}

func (q MoodQuery) findOptions() *options.FindOptions {
	order := -1
	if q.Ascending {
		order = 1
	}
	findOptions := options.Find()
	findOptions.SetSort(bson.M{"date": order})
	if q.Limit > 0 {
		findOptions.SetLimit(q.Limit)
	}
	return findOptions
}

// MoodUpdate is a partial update: only mood and note are mutable.
type MoodUpdate struct {
	Mood *models.Mood
	Note *string
}

// MoodStore persists mood entries in MongoDB.
type MoodStore struct {
	db *database.Mongo
}

func NewMoodStore(db *database.Mongo) *MoodStore {
	return &MoodStore{db: db}
}

func (s *MoodStore) Insert(ctx context.Context, entry *models.MoodEntry) error {
	_, err := s.db.Collection(moodsCollection).InsertOne(ctx, entry)
	return err
}

func (s *MoodStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MoodEntry, error) {
	var entry models.MoodEntry
	err := s.db.Collection(moodsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *MoodStore) List(ctx context.Context, q MoodQuery) ([]models.MoodEntry, error) {
	cursor, err := s.db.Collection(moodsCollection).Find(ctx, q.filter(), q.findOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.MoodEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Update applies a partial update and returns the updated entry.
func (s *MoodStore) Update(ctx context.Context, id primitive.ObjectID, upd MoodUpdate) (*models.MoodEntry, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.Mood != nil {
		set["mood"] = *upd.Mood
	}
	if upd.Note != nil {
		set["note"] = *upd.Note
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var entry models.MoodEntry
	err := s.db.Collection(moodsCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *MoodStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(moodsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
