package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/formworks/payments/internal/domain/entity"
	domainRepo "github.com/formworks/payments/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

type redisCorrelator struct {
	client *redis.Client
}

// NewRedisCorrelator creates a redis-backed subscription correlator.
func NewRedisCorrelator(client *redis.Client) domainRepo.SubscriptionCorrelator {
	return &redisCorrelator{client: client}
}

func correlationKey(mode entity.Mode, subscriptionID string) string {
	return fmt.Sprintf("payments:subscription:%s:%s", mode, subscriptionID)
}

func (c *redisCorrelator) Get(ctx context.Context, mode entity.Mode, subscriptionID string) (string, error) {
	value, err := c.client.Get(ctx, correlationKey(mode, subscriptionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read subscription correlation %s: %w", subscriptionID, err)
	}
	return value, nil
}

func (c *redisCorrelator) Set(ctx context.Context, mode entity.Mode, subscriptionID, submissionID string) error {
	if err := c.client.Set(ctx, correlationKey(mode, subscriptionID), submissionID, 0).Err(); err != nil {
		return fmt.Errorf("failed to store subscription correlation %s: %w", subscriptionID, err)
	}
	return nil
}
