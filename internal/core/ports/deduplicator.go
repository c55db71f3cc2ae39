package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
)

// Deduplicator records that a message was seen by a processor.
//
// Claim atomically marks (scope, messageID) as seen for a limited time and
// returns true only to the first caller. Every later call for the same pair
// returns false until the mark expires. There is no way to release a claim.
type Deduplicator interface {
	Claim(ctx context.Context, scope string, messageID kernel.UUID) (bool, error)
}
