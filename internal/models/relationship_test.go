package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCareRelationshipStatusTransitions(t *testing.T) {
	tests := []struct {
		status     CareRelationshipStatus
		terminal   bool
		canRespond bool
	}{
		{RelationshipPending, false, true},
		{RelationshipAccepted, true, false},
		{RelationshipRejected, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.canRespond, tt.status.CanRespond())
		})
	}
}

func TestValidDecision(t *testing.T) {
	assert.True(t, ValidDecision(RelationshipAccepted))
	assert.True(t, ValidDecision(RelationshipRejected))
	assert.False(t, ValidDecision(RelationshipPending))
	assert.False(t, ValidDecision(CareRelationshipStatus("blocked")))
	assert.False(t, ValidDecision(CareRelationshipStatus("")))
}

func TestCareRelationshipIsActive(t *testing.T) {
	assert.True(t, (&CareRelationship{Status: RelationshipPending}).IsActive())
	assert.True(t, (&CareRelationship{Status: RelationshipAccepted}).IsActive())
	assert.False(t, (&CareRelationship{Status: RelationshipRejected}).IsActive())
}
