package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/carelink-app/backend/internal/models"
)

// RelationshipRepository is the canonical store of caregiver-recipient
// pairings. It is the only component that mutates relationship records.
type RelationshipRepository interface {
	// Create inserts a new pending relationship for the pair. It fails with
	// ErrRelationshipConflict if a pending or accepted record already exists,
	// atomically with respect to concurrent calls for the same pair.
	Create(ctx context.Context, caregiverID, recipientID uint) (*models.CareRelationship, error)

	// FindByPair returns the record that currently governs the pair: the
	// active (pending or accepted) one if present, otherwise the most recent
	// rejected one. ErrRelationshipNotFound when the pair has no history.
	FindByPair(ctx context.Context, caregiverID, recipientID uint) (*models.CareRelationship, error)

	// ListPendingForRecipient returns pending requests for the recipient,
	// oldest first, so the longest-waiting requests show up on top.
	ListPendingForRecipient(ctx context.Context, recipientID uint) ([]models.CareRelationship, error)

	// ListAcceptedForCaregiver is the authorization source for which
	// recipients a caregiver may see.
	ListAcceptedForCaregiver(ctx context.Context, caregiverID uint) ([]models.CareRelationship, error)

	// ListAcceptedForRecipient is the symmetric view.
	ListAcceptedForRecipient(ctx context.Context, recipientID uint) ([]models.CareRelationship, error)

	// Respond moves a pending record to accepted or rejected, setting
	// RespondedAt. ErrRelationshipNotFound if no such record exists,
	// ErrRelationshipNotPending if it was already decided. Only one
	// concurrent response can win.
	Respond(ctx context.Context, id uint, decision models.CareRelationshipStatus) (*models.CareRelationship, error)
}

// PostgresRelationshipRepository implements RelationshipRepository on GORM.
// Pair uniqueness is enforced by a partial unique index over active rows
// (see Migrate), so the insert itself is the atomicity point.
type PostgresRelationshipRepository struct {
	db *gorm.DB
}

// NewPostgresRelationshipRepository creates a new PostgresRelationshipRepository
func NewPostgresRelationshipRepository(db *gorm.DB) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{db: db}
}

// MigrateRelationshipIndexes creates the partial unique index that backs the
// "at most one active record per pair" invariant. AutoMigrate cannot express
// a predicate index, so it is issued directly.
func MigrateRelationshipIndexes(db *gorm.DB) error {
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_care_pair
		 ON care_relationships (caregiver_id, recipient_id)
		 WHERE status IN ('pending', 'accepted')`,
	).Error
}

func (r *PostgresRelationshipRepository) Create(ctx context.Context, caregiverID, recipientID uint) (*models.CareRelationship, error) {
	rel := models.CareRelationship{
		CaregiverID: caregiverID,
		RecipientID: recipientID,
		Status:      models.RelationshipPending,
		RequestedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&rel).Error; err != nil {
		// Requires gorm.Config{TranslateError: true} on the connection.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRelationshipConflict
		}
		return nil, err
	}
	return &rel, nil
}

func (r *PostgresRelationshipRepository) FindByPair(ctx context.Context, caregiverID, recipientID uint) (*models.CareRelationship, error) {
	var rel models.CareRelationship
	err := r.db.WithContext(ctx).
		Where("caregiver_id = ? AND recipient_id = ?", caregiverID, recipientID).
		Order("CASE WHEN status IN ('pending','accepted') THEN 0 ELSE 1 END, requested_at DESC").
		First(&rel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}
	return &rel, nil
}

func (r *PostgresRelationshipRepository) ListPendingForRecipient(ctx context.Context, recipientID uint) ([]models.CareRelationship, error) {
	var rels []models.CareRelationship
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", recipientID, models.RelationshipPending).
		Order("requested_at asc").
		Find(&rels).Error
	return rels, err
}

func (r *PostgresRelationshipRepository) ListAcceptedForCaregiver(ctx context.Context, caregiverID uint) ([]models.CareRelationship, error) {
	var rels []models.CareRelationship
	err := r.db.WithContext(ctx).
		Where("caregiver_id = ? AND status = ?", caregiverID, models.RelationshipAccepted).
		Order("responded_at asc").
		Find(&rels).Error
	return rels, err
}

func (r *PostgresRelationshipRepository) ListAcceptedForRecipient(ctx context.Context, recipientID uint) ([]models.CareRelationship, error) {
	var rels []models.CareRelationship
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", recipientID, models.RelationshipAccepted).
		Order("responded_at asc").
		Find(&rels).Error
	return rels, err
}

func (r *PostgresRelationshipRepository) Respond(ctx context.Context, id uint, decision models.CareRelationshipStatus) (*models.CareRelationship, error) {
	if !models.ValidDecision(decision) {
		return nil, ErrRelationshipNotPending
	}

	var rel models.CareRelationship
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		// The status guard in the WHERE clause makes the transition atomic:
		// a concurrent response that lost the race matches zero rows.
		res := tx.Model(&models.CareRelationship{}).
			Where("id = ? AND status = ?", id, models.RelationshipPending).
			Updates(map[string]interface{}{"status": decision, "responded_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&models.CareRelationship{}, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRelationshipNotFound
				}
				return err
			}
			return ErrRelationshipNotPending
		}
		return tx.First(&rel, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &rel, nil
}
