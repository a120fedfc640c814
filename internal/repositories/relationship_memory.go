package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carelink-app/backend/internal/models"
)

// MemoryRelationshipRepository is a mutex-guarded in-memory implementation of
// RelationshipRepository with the same semantics as the Postgres one. Used in
// tests and for running the server without a database.
type MemoryRelationshipRepository struct {
	mu     sync.Mutex
	nextID uint
	rels   []models.CareRelationship
}

// NewMemoryRelationshipRepository creates an empty in-memory store.
func NewMemoryRelationshipRepository() *MemoryRelationshipRepository {
	return &MemoryRelationshipRepository{nextID: 1}
}

func (r *MemoryRelationshipRepository) Create(ctx context.Context, caregiverID, recipientID uint) (*models.CareRelationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rels {
		if r.rels[i].CaregiverID == caregiverID && r.rels[i].RecipientID == recipientID && r.rels[i].IsActive() {
			return nil, ErrRelationshipConflict
		}
	}

	rel := models.CareRelationship{
		ID:          r.nextID,
		CaregiverID: caregiverID,
		RecipientID: recipientID,
		Status:      models.RelationshipPending,
		RequestedAt: time.Now().UTC(),
	}
	r.nextID++
	r.rels = append(r.rels, rel)

	out := rel
	return &out, nil
}

func (r *MemoryRelationshipRepository) FindByPair(ctx context.Context, caregiverID, recipientID uint) (*models.CareRelationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *models.CareRelationship
	for i := range r.rels {
		rel := &r.rels[i]
		if rel.CaregiverID != caregiverID || rel.RecipientID != recipientID {
			continue
		}
		if rel.IsActive() {
			out := *rel
			return &out, nil
		}
		if latest == nil || rel.RequestedAt.After(latest.RequestedAt) {
			latest = rel
		}
	}
	if latest == nil {
		return nil, ErrRelationshipNotFound
	}
	out := *latest
	return &out, nil
}

func (r *MemoryRelationshipRepository) ListPendingForRecipient(ctx context.Context, recipientID uint) ([]models.CareRelationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.CareRelationship
	for i := range r.rels {
		if r.rels[i].RecipientID == recipientID && r.rels[i].Status == models.RelationshipPending {
			out = append(out, r.rels[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (r *MemoryRelationshipRepository) ListAcceptedForCaregiver(ctx context.Context, caregiverID uint) ([]models.CareRelationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.CareRelationship
	for i := range r.rels {
		if r.rels[i].CaregiverID == caregiverID && r.rels[i].Status == models.RelationshipAccepted {
			out = append(out, r.rels[i])
		}
	}
	return out, nil
}

func (r *MemoryRelationshipRepository) ListAcceptedForRecipient(ctx context.Context, recipientID uint) ([]models.CareRelationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.CareRelationship
	for i := range r.rels {
		if r.rels[i].RecipientID == recipientID && r.rels[i].Status == models.RelationshipAccepted {
			out = append(out, r.rels[i])
		}
	}
	return out, nil
}

func (r *MemoryRelationshipRepository) Respond(ctx context.Context, id uint, decision models.CareRelationshipStatus) (*models.CareRelationship, error) {
	if !models.ValidDecision(decision) {
		return nil, ErrRelationshipNotPending
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rels {
		if r.rels[i].ID != id {
			continue
		}
		if !r.rels[i].Status.CanRespond() {
			return nil, ErrRelationshipNotPending
		}
		now := time.Now().UTC()
		r.rels[i].Status = decision
		r.rels[i].RespondedAt = &now

		out := r.rels[i]
		return &out, nil
	}
	return nil, ErrRelationshipNotFound
}
