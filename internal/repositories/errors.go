package repositories

import "errors"

// Domain errors surfaced by the relationship store. Handlers map these to
// HTTP statuses; nothing below this layer swallows them.
var (
	// ErrRelationshipConflict: a new request collides with an existing
	// pending or accepted relationship for the same pair.
	ErrRelationshipConflict = errors.New("relationship already exists or request already pending")

	// ErrRelationshipNotFound: no relationship with the given id (or pair).
	ErrRelationshipNotFound = errors.New("relationship not found")

	// ErrRelationshipNotPending: a response targeted a record that already
	// left the pending state.
	ErrRelationshipNotPending = errors.New("relationship is no longer pending")

	// ErrNotAuthorized: a read was attempted without an accepted relationship.
	ErrNotAuthorized = errors.New("not authorized for this recipient")
)
