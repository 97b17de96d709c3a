package repository

import (
	"context"

	"github.com/formworks/payments/internal/domain/entity"
)

// SubscriptionCorrelator maps a gateway subscription id to the
// submission that initiated it. The mapping is written at
// subscription-creation time and consumed by the settlement engine
// when lifecycle events arrive. Entries are scoped per mode so sandbox
// correlations never leak into live processing.
type SubscriptionCorrelator interface {
	// Get returns the submission id for a subscription id, or "" when
	// no correlation exists.
	Get(ctx context.Context, mode entity.Mode, subscriptionID string) (string, error)

	// Set records the correlation.
	Set(ctx context.Context, mode entity.Mode, subscriptionID, submissionID string) error
}
