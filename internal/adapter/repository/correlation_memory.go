package repository

import (
	"context"
	"sync"

	"github.com/formworks/payments/internal/domain/entity"
	domainRepo "github.com/formworks/payments/internal/domain/repository"
)

type memoryCorrelator struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryCorrelator creates an in-process subscription correlator,
// used when no redis address is configured (single-instance setups).
func NewMemoryCorrelator() domainRepo.SubscriptionCorrelator {
	return &memoryCorrelator{values: make(map[string]string)}
}

func memoryKey(mode entity.Mode, subscriptionID string) string {
	return string(mode) + ":" + subscriptionID
}

func (c *memoryCorrelator) Get(_ context.Context, mode entity.Mode, subscriptionID string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[memoryKey(mode, subscriptionID)], nil
}

func (c *memoryCorrelator) Set(_ context.Context, mode entity.Mode, subscriptionID, submissionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[memoryKey(mode, subscriptionID)] = submissionID
	return nil
}
