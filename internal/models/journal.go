package models

import "time"

// MoodType tags a journal entry with how the recipient was feeling.
type MoodType string

const (
	MoodHappy   MoodType = "happy"
	MoodSad     MoodType = "sad"
	MoodNeutral MoodType = "neutral"
	MoodExcited MoodType = "excited"
	MoodAngry   MoodType = "angry"
	MoodAnxious MoodType = "anxious"
)

// JournalEntry is a mood-tagged diary entry written by a recipient,
// stored in MongoDB.
type JournalEntry struct {
	ID          string    `json:"id" bson:"_id"`
	RecipientID uint      `json:"recipientId" bson:"recipient_id"`
	Content     string    `json:"content" bson:"content"`
	Mood        MoodType  `json:"mood" bson:"mood"`
	AudioURL    string    `json:"audioUrl,omitempty" bson:"audio_url,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// CreateJournalEntryRequest defines the request body for creating a new entry.
type CreateJournalEntryRequest struct {
	RecipientID uint     `json:"recipientId" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	Mood        MoodType `json:"mood" validate:"required,oneof=happy sad neutral excited angry anxious"`
	AudioURL    string   `json:"audioUrl,omitempty" validate:"omitempty,uri"`
}

// UpdateJournalEntryRequest defines the request body for editing an entry.
type UpdateJournalEntryRequest struct {
	Content *string   `json:"content,omitempty" validate:"omitempty,min=1"`
	Mood    *MoodType `json:"mood,omitempty" validate:"omitempty,oneof=happy sad neutral excited angry anxious"`
}
