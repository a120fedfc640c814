package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carelink-app/backend/internal/models"
	"github.com/carelink-app/backend/internal/repositories"
)

const (
	decisionAllow = "allow"
	decisionDeny  = "deny"

	// TTL is a backstop only; every relationship mutation invalidates the
	// affected pair explicitly.
	defaultDecisionTTL = 5 * time.Minute
)

// Guard answers "may caregiver C read recipient R's protected data". The
// answer is true only for an accepted relationship; every other case,
// including lookup failures, denies.
type Guard struct {
	repo   repositories.RelationshipRepository
	cache  AuthzCache
	logger *logrus.Logger
	ttl    time.Duration
}

// NewGuard creates a Guard over the given store and cache.
func NewGuard(repo repositories.RelationshipRepository, cache AuthzCache, logger *logrus.Logger) *Guard {
	return &Guard{repo: repo, cache: cache, logger: logger, ttl: defaultDecisionTTL}
}

func pairKey(caregiverID, recipientID uint) string {
	return fmt.Sprintf("care:authz:%d:%d", caregiverID, recipientID)
}

// IsAuthorized reports whether the caregiver has an accepted relationship
// with the recipient. Fails closed: any store error denies and is not cached.
func (g *Guard) IsAuthorized(ctx context.Context, caregiverID, recipientID uint) bool {
	key := pairKey(caregiverID, recipientID)
	if v, ok := g.cache.Get(ctx, key); ok {
		return v == decisionAllow
	}

	rel, err := g.repo.FindByPair(ctx, caregiverID, recipientID)
	if err != nil {
		if errors.Is(err, repositories.ErrRelationshipNotFound) {
			g.cache.Set(ctx, key, decisionDeny, g.ttl)
			return false
		}
		g.logger.WithFields(logrus.Fields{
			"caregiver_id": caregiverID,
			"recipient_id": recipientID,
			"error":        err,
		}).Warn("authorization lookup failed, denying")
		return false
	}

	decision := decisionDeny
	if rel.Status == models.RelationshipAccepted {
		decision = decisionAllow
	}
	g.cache.Set(ctx, key, decision, g.ttl)
	return decision == decisionAllow
}

// Invalidate drops the cached decision for the pair. Must be called after
// every relationship create or respond so dependent reads recompute from the
// store instead of serving a stale decision.
func (g *Guard) Invalidate(ctx context.Context, caregiverID, recipientID uint) {
	g.cache.Delete(ctx, pairKey(caregiverID, recipientID))
}
