package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink-app/backend/internal/models"
)

func TestCreateStartsPending(t *testing.T) {
	repo := NewMemoryRelationshipRepository()
	ctx := context.Background()

	rel, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipPending, rel.Status)
	assert.Equal(t, uint(1), rel.CaregiverID)
	assert.Equal(t, uint(2), rel.RecipientID)
	assert.False(t, rel.RequestedAt.IsZero())
	assert.Nil(t, rel.RespondedAt)
}

func TestCreateConflictsWhileActive(t *testing.T) {
	repo := NewMemoryRelationshipRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)

	// pending record blocks a duplicate
	_, err = repo.Create(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrRelationshipConflict)

	// accepted record still blocks
	_, err = repo.Respond(ctx, first.ID, models.RelationshipAccepted)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrRelationshipConflict)

	// a different pair is unaffected
	_, err = repo.Create(ctx, 1, 3)
	assert.NoError(t, err)
}

func TestCreateAllowedAfterRejection(t *testing.T) {
	repo := NewMemoryRelationshipRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	_, err = repo.Respond(ctx, first.ID, models.RelationshipRejected)
	require.NoError(t, err)

	second, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.RelationshipPending, second.Status)
}

func TestRespondDecidesOnce(t *testing.T) {
	repo := NewMemoryRelationshipRepository()
	ctx := context.Background()

	rel, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)

	decided, err := repo.Respond(ctx, rel.ID, models.RelationshipAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipAccepted, decided.Status)
	require.NotNil(t, decided.RespondedAt)

	// decided records are immutable
	_, err = repo.Respond(ctx, rel.ID, models.RelationshipRejected)
	assert.ErrorIs(t, err, ErrRelationshipNotPending)

	again, err := repo.FindByPair(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipAccepted, again.Status)
	assert.Equal(t, decided.RespondedAt.Unix(), again.RespondedAt.Unix())
}

func TestRespondUnknownID(t *testing.T) {
	repo := NewMemoryRelationshipRepository()

	_, err := repo.Respond(context.Background(), 99, models.RelationshipAccepted)
	assert.ErrorIs(t, err, ErrRelationshipNotFound)
}

func TestFindByPairPrefersActiveRecord(t *testing.T) {
	repo := NewMemoryRelationshipRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	_, err = repo.Respond(ctx, first.ID, models.RelationshipRejected)
	require.NoError(t, err)

	second, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)

	found, err := repo.FindByPair(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)
	assert.Equal(t, models.RelationshipPending, found.Status)

	_, err = repo.FindByPair(ctx, 3, 4)
	assert.ErrorIs(t, err, ErrRelationshipNotFound)
}

func TestListPendingForRecipientOldestFirst(t *testing.T) {
	repo := NewMemoryRelationshipRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, 1, 9)
	require.NoError(t, err)
	b, err := repo.Create(ctx, 2, 9)
	require.NoError(t, err)
	decided, err := repo.Create(ctx, 3, 9)
	require.NoError(t, err)
	_, err = repo.Respond(ctx, decided.ID, models.RelationshipRejected)
	require.NoError(t, err)

	pending, err := repo.ListPendingForRecipient(ctx, 9)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, a.ID, pending[0].ID)
	assert.Equal(t, b.ID, pending[1].ID)
}

func TestListAcceptedByParty(t *testing.T) {
	repo := NewMemoryRelationshipRepository()
	ctx := context.Background()

	accepted, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	_, err = repo.Respond(ctx, accepted.ID, models.RelationshipAccepted)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 1, 3) // still pending
	require.NoError(t, err)

	forCaregiver, err := repo.ListAcceptedForCaregiver(ctx, 1)
	require.NoError(t, err)
	require.Len(t, forCaregiver, 1)
	assert.Equal(t, uint(2), forCaregiver[0].RecipientID)

	forRecipient, err := repo.ListAcceptedForRecipient(ctx, 2)
	require.NoError(t, err)
	require.Len(t, forRecipient, 1)
	assert.Equal(t, uint(1), forRecipient[0].CaregiverID)

	none, err := repo.ListAcceptedForRecipient(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestConcurrentCreateSamePair(t *testing.T) {
	repo := NewMemoryRelationshipRepository()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, 7, 8)
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case assert.ErrorIs(t, err, ErrRelationshipConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, created, "exactly one request must win")
	assert.Equal(t, n-1, conflicts)
}
