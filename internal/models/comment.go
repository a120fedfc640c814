package models

import "time"

// Comment is a reply on a journal entry, written by the recipient or one of
// their caregivers. Entries live in MongoDB, so the journal entry is
// referenced by its string id.
type Comment struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	JournalEntryID string    `json:"journalEntryId" gorm:"not null;index;size:64"`
	AuthorID       uint      `json:"authorId" gorm:"not null;index"` // users.id
	Content        string    `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CommentView is a comment joined with its author's display fields.
type CommentView struct {
	ID             uint      `json:"id"`
	JournalEntryID string    `json:"journalEntryId"`
	AuthorID       uint      `json:"authorId"`
	AuthorName     string    `json:"authorName"`
	AuthorRole     UserRole  `json:"authorRole"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	JournalEntryID string `json:"journalEntryId" validate:"required"`
	Content        string `json:"content" validate:"required,min=1,max=500"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
