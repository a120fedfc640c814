package repositories

import (
	"github.com/carelink-app/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByEntryID(entryID string) ([]models.CommentView, error)
	UpdateComment(comment *models.Comment) error
	DeleteComment(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByEntryID retrieves all comments on a journal entry joined with
// the author's name and role, oldest first.
func (r *PostgresCommentRepository) GetCommentsByEntryID(entryID string) ([]models.CommentView, error) {
	var views []models.CommentView
	err := r.db.Model(&models.Comment{}).
		Select("comments.id, comments.journal_entry_id, comments.author_id, comments.content, comments.created_at, users.name AS author_name, users.role AS author_role").
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.journal_entry_id = ?", entryID).
		Order("comments.created_at asc").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

// UpdateComment updates an existing comment in PostgreSQL
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}
