package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carelink-app/backend/internal/models"
)

// JournalRepository defines the interface for journal entry data operations
type JournalRepository interface {
	CreateEntry(ctx context.Context, entry *models.JournalEntry) error
	GetEntryByID(ctx context.Context, id string) (*models.JournalEntry, error)
	GetEntriesByRecipient(ctx context.Context, recipientID uint) ([]models.JournalEntry, error)
	GetEntriesByRecipients(ctx context.Context, recipientIDs []uint) ([]models.JournalEntry, error)
	UpdateEntry(ctx context.Context, id string, content *string, mood *models.MoodType) (*models.JournalEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// MongoJournalRepository implements JournalRepository for MongoDB
type MongoJournalRepository struct {
	collection *mongo.Collection
}

// NewMongoJournalRepository creates a new MongoJournalRepository
func NewMongoJournalRepository(db *mongo.Database) *MongoJournalRepository {
	return &MongoJournalRepository{collection: db.Collection("journal_entries")}
}

// CreateEntry creates a new journal entry in MongoDB
func (r *MongoJournalRepository) CreateEntry(ctx context.Context, entry *models.JournalEntry) error {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// GetEntryByID retrieves a journal entry by ID from MongoDB
func (r *MongoJournalRepository) GetEntryByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("journal entry not found")
		}
		return nil, err
	}
	return &entry, nil
}

// GetEntriesByRecipient retrieves all entries for one recipient, newest first
func (r *MongoJournalRepository) GetEntriesByRecipient(ctx context.Context, recipientID uint) ([]models.JournalEntry, error) {
	return r.findEntries(ctx, bson.M{"recipient_id": recipientID})
}

// GetEntriesByRecipients retrieves entries across several recipients, newest
// first. Used for a caregiver's combined feed over their accepted recipients.
func (r *MongoJournalRepository) GetEntriesByRecipients(ctx context.Context, recipientIDs []uint) ([]models.JournalEntry, error) {
	if len(recipientIDs) == 0 {
		return []models.JournalEntry{}, nil
	}
	return r.findEntries(ctx, bson.M{"recipient_id": bson.M{"$in": recipientIDs}})
}

func (r *MongoJournalRepository) findEntries(ctx context.Context, filter bson.M) ([]models.JournalEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.JournalEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateEntry patches content and/or mood of an existing entry
func (r *MongoJournalRepository) UpdateEntry(ctx context.Context, id string, content *string, mood *models.MoodType) (*models.JournalEntry, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if content != nil {
		set["content"] = *content
	}
	if mood != nil {
		set["mood"] = *mood
	}

	res := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var entry models.JournalEntry
	if err := res.Decode(&entry); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("journal entry not found")
		}
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry deletes a journal entry by ID from MongoDB
func (r *MongoJournalRepository) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("journal entry not found")
	}
	return nil
}
