package access

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink-app/backend/internal/models"
	"github.com/carelink-app/backend/internal/repositories"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// brokenRelationshipRepo fails every lookup, simulating a store outage.
type brokenRelationshipRepo struct {
	repositories.RelationshipRepository
}

func (brokenRelationshipRepo) FindByPair(ctx context.Context, caregiverID, recipientID uint) (*models.CareRelationship, error) {
	return nil, errors.New("store unavailable")
}

func TestIsAuthorizedOnlyForAccepted(t *testing.T) {
	repo := repositories.NewMemoryRelationshipRepository()
	guard := NewGuard(repo, NewMemoryAuthzCache(), newTestLogger())
	ctx := context.Background()

	// no relationship at all
	assert.False(t, guard.IsAuthorized(ctx, 1, 2))

	rel, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	guard.Invalidate(ctx, 1, 2)

	// pending is not enough
	assert.False(t, guard.IsAuthorized(ctx, 1, 2))

	_, err = repo.Respond(ctx, rel.ID, models.RelationshipAccepted)
	require.NoError(t, err)
	guard.Invalidate(ctx, 1, 2)

	assert.True(t, guard.IsAuthorized(ctx, 1, 2))
}

func TestIsAuthorizedDeniesRejected(t *testing.T) {
	repo := repositories.NewMemoryRelationshipRepository()
	guard := NewGuard(repo, NewMemoryAuthzCache(), newTestLogger())
	ctx := context.Background()

	rel, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	_, err = repo.Respond(ctx, rel.ID, models.RelationshipRejected)
	require.NoError(t, err)

	assert.False(t, guard.IsAuthorized(ctx, 1, 2))
}

func TestIsAuthorizedFailsClosedOnStoreError(t *testing.T) {
	cache := NewMemoryAuthzCache()
	guard := NewGuard(brokenRelationshipRepo{}, cache, newTestLogger())
	ctx := context.Background()

	assert.False(t, guard.IsAuthorized(ctx, 1, 2))

	// an error outcome must not be cached
	_, cached := cache.Get(ctx, pairKey(1, 2))
	assert.False(t, cached)
}

func TestInvalidateDropsStaleDecision(t *testing.T) {
	repo := repositories.NewMemoryRelationshipRepository()
	cache := NewMemoryAuthzCache()
	guard := NewGuard(repo, cache, newTestLogger())
	ctx := context.Background()

	rel, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)

	// first lookup caches the deny for the pending record
	require.False(t, guard.IsAuthorized(ctx, 1, 2))

	_, err = repo.Respond(ctx, rel.ID, models.RelationshipAccepted)
	require.NoError(t, err)

	// without invalidation the stale deny is still served
	assert.False(t, guard.IsAuthorized(ctx, 1, 2))

	guard.Invalidate(ctx, 1, 2)
	assert.True(t, guard.IsAuthorized(ctx, 1, 2))
}
