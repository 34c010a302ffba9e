package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"progpath.app/api-server/internal/store"
)

// MembershipOracle answers whether a user currently holds a premium
// subscription. Stores are passed per call so the check can run inside the
// caller's transaction.
type MembershipOracle interface {
	HasActivePremium(ctx context.Context, subscriptions store.SubscriptionStore, userID int64) (bool, error)
}

type membershipOracle struct {
	clock func() time.Time
}

func NewMembershipOracle(clock func() time.Time) MembershipOracle {
	return &membershipOracle{clock: clock}
}

func (o *membershipOracle) HasActivePremium(ctx context.Context, subscriptions store.SubscriptionStore, userID int64) (bool, error) {
	_, err := subscriptions.GetActiveForUser(ctx, userID, o.clock())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking premium membership: %w", err)
	}
	return true, nil
}
