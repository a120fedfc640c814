package models

import "time"

// Notification types written by the relationship workflow.
const (
	NotificationCareRequest  = "care_request"
	NotificationCareResponse = "care_response"
)

// Notification is an in-app notification row (PostgreSQL). UserID is the
// users.id of the person who should see it.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Type      string    `json:"type" gorm:"size:30;index"`
	ActorID   uint      `json:"actorId" gorm:"index"` // users.id of who triggered it
	UserID    uint      `json:"userId" gorm:"index"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead" gorm:"default:false;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}
