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

// JournalQuery filters a journal listing, same shape as MoodQuery.
type JournalQuery struct {
	Owner     primitive.ObjectID
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int64
}

func (q JournalQuery) filter() bson.M {
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

// JournalUpdate is a partial update: content and date are mutable.
type JournalUpdate struct {
	Content *string
	Date    *time.Time
}

// JournalStore persists journal entries in MongoDB.
type JournalStore struct {
	db *database.Mongo
}

func NewJournalStore(db *database.Mongo) *JournalStore {
	return &JournalStore{db: db}
}

func (s *JournalStore) Insert(ctx context.Context, entry *models.JournalEntry) error {
	_, err := s.db.Collection(journalsCollection).InsertOne(ctx, entry)
	return err
}

func (s *JournalStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := s.db.Collection(journalsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *JournalStore) List(ctx context.Context, q JournalQuery) ([]models.JournalEntry, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.M{"date": -1})
	if q.Limit > 0 {
		findOptions.SetLimit(q.Limit)
	}

	cursor, err := s.db.Collection(journalsCollection).Find(ctx, q.filter(), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.JournalEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindToday returns the owner's newest entry with a date in [dayStart,
// dayEnd), or ErrNotFound when the day has no entries.
func (s *JournalStore) FindToday(ctx context.Context, owner primitive.ObjectID, dayStart, dayEnd time.Time) (*models.JournalEntry, error) {
	filter := bson.M{
		"user_id": owner,
		"date":    bson.M{"$gte": dayStart, "$lt": dayEnd},
	}
	opts := options.FindOne().SetSort(bson.M{"date": -1})

	var entry models.JournalEntry
	err := s.db.Collection(journalsCollection).FindOne(ctx, filter, opts).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update applies a partial update and returns the updated entry.
func (s *JournalStore) Update(ctx context.Context, id primitive.ObjectID, upd JournalUpdate) (*models.JournalEntry, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var entry models.JournalEntry
	err := s.db.Collection(journalsCollection).
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

func (s *JournalStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(journalsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
