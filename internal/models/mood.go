package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mood is one of the fixed self-reported mood categories.
type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodOkay      Mood = "okay"
	MoodBad       Mood = "bad"
	MoodTerrible  Mood = "terrible"
)

// Moods lists every valid category, best to worst.
var Moods = []Mood{MoodExcellent, MoodGood, MoodOkay, MoodBad, MoodTerrible}

// MaxNoteLength is the maximum length of a mood note.
const MaxNoteLength = 500

// Valid reports whether m is one of the fixed mood categories.
func (m Mood) Valid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

// MoodEntry is a timestamped record of a user's self-reported mood.
type MoodEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Mood      Mood               `bson:"mood" json:"mood"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	Date      time.Time          `bson:"date" json:"date"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// MoodCounts is a per-category histogram over the fixed mood set.
type MoodCounts map[Mood]int

// CountMoods builds a histogram over entries. Every category is present in
// the result, including categories with zero entries.
func CountMoods(entries []MoodEntry) MoodCounts {
	counts := make(MoodCounts, len(Moods))
	for _, m := range Moods {
		counts[m] = 0
	}
	for _, e := range entries {
		if _, ok := counts[e.Mood]; ok {
			counts[e.Mood]++
		}
	}
	return counts
}
