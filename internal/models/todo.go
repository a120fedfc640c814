package models

import "time"

// TodoPriority orders tasks on the dashboards.
type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

// Todo is a task a caregiver assigns to a recipient.
type Todo struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	DueDate     time.Time `json:"dueDate" gorm:"not null;index"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`

	RecipientID uint `json:"recipientId" gorm:"not null;index"`
	CaregiverID uint `json:"caregiverId" gorm:"not null;index"`

	Priority TodoPriority `json:"priority" gorm:"type:varchar(10);not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateTodoRequest defines the request body for creating a task.
type CreateTodoRequest struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description" validate:"required"`
	DueDate     string       `json:"dueDate" validate:"required"` // RFC3339
	RecipientID uint         `json:"recipientId" validate:"required"`
	CaregiverID uint         `json:"caregiverId" validate:"required"`
	Priority    TodoPriority `json:"priority" validate:"required,oneof=low medium high"`
}

// UpdateTodoRequest defines the request body for editing a task.
type UpdateTodoRequest struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	DueDate     *string       `json:"dueDate,omitempty"` // RFC3339
	Completed   *bool         `json:"completed,omitempty"`
	Priority    *TodoPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}
