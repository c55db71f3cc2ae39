// Package redis implements message deduplication on top of Redis SET NX.
package redis

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultNamespace = "orders"
	DefaultTTL       = 24 * time.Hour
)

// Deduplicator claims message keys of the form "{namespace}:{scope}:{id}".
// A key lives for ttl and is never deleted explicitly.
type Deduplicator struct {
	client    redis.Cmdable
	namespace string
	ttl       time.Duration
}

// NewDeduplicator creates a deduplicator whose keys expire after ttl.
func NewDeduplicator(client redis.Cmdable, namespace string, ttl time.Duration) (*Deduplicator, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("ttl", ttl, "1ns", "unbounded")
	}

	return &Deduplicator{client: client, namespace: namespace, ttl: ttl}, nil
}

// Claim sets the key of messageID if absent. Only the first caller gets true.
func (d *Deduplicator) Claim(ctx context.Context, scope string, messageID kernel.UUID) (bool, error) {
	if err := messageID.Validate(); err != nil {
		return false, err
	}
	return d.client.SetNX(ctx, d.Key(scope, messageID), time.Now().UTC().Format(time.RFC3339Nano), d.ttl).Result()
}

// Key returns the Redis key of messageID within scope.
func (d *Deduplicator) Key(scope string, messageID kernel.UUID) string {
	return d.namespace + ":" + scope + ":" + messageID.String()
}
