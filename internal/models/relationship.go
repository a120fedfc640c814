package models

import "time"

// CareRelationshipStatus is the lifecycle state of a caregiver-recipient pairing.
type CareRelationshipStatus string

const (
	RelationshipPending  CareRelationshipStatus = "pending"
	RelationshipAccepted CareRelationshipStatus = "accepted"
	RelationshipRejected CareRelationshipStatus = "rejected"
)

// IsTerminal reports whether no further transition is defined out of s.
// Accepted and rejected records are permanent; re-establishing a link after a
// rejection goes through a brand-new request.
func (s CareRelationshipStatus) IsTerminal() bool {
	return s == RelationshipAccepted || s == RelationshipRejected
}

// CanRespond reports whether a response may be applied to a record in state s.
func (s CareRelationshipStatus) CanRespond() bool {
	return s == RelationshipPending
}

// ValidDecision reports whether d is a legal outcome of responding to a
// pending relationship.
func ValidDecision(d CareRelationshipStatus) bool {
	return d == RelationshipAccepted || d == RelationshipRejected
}

// CareRelationship links a caregiver and a recipient. A record is created in
// pending state and transitions exactly once, to accepted or rejected. An
// accepted relationship is what authorizes the caregiver to read the
// recipient's journals, todos and profile.
type CareRelationship struct {
	ID uint `json:"id" gorm:"primaryKey"`

	CaregiverID uint `json:"caregiverId" gorm:"not null;index"`
	RecipientID uint `json:"recipientId" gorm:"not null;index"`

	Status CareRelationshipStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`

	RequestedAt time.Time  `json:"requestedAt" gorm:"not null"`
	RespondedAt *time.Time `json:"respondedAt"`
}

// IsActive reports whether the record blocks a new request for the same pair.
func (r *CareRelationship) IsActive() bool {
	return r.Status == RelationshipPending || r.Status == RelationshipAccepted
}

// CreateRelationshipRequest defines the request body for sending a care request.
// Either party may originate the request; both identifiers are explicit.
type CreateRelationshipRequest struct {
	CaregiverID uint `json:"caregiverId" validate:"required"`
	RecipientID uint `json:"recipientId" validate:"required"`
}

// RespondRelationshipRequest defines the request body for deciding a pending request.
type RespondRelationshipRequest struct {
	Decision CareRelationshipStatus `json:"decision" validate:"required,oneof=accepted rejected"`
}
