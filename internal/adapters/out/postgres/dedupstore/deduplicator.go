// Package dedupstore keeps processed message identifiers in PostgreSQL. It is
// the fallback deduplicator when no Redis address is configured.
package dedupstore

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

type ProcessedMessageDTO struct {
	MessageKey string    `gorm:"primaryKey;type:varchar(255)"`
	ExpiresAt  time.Time `gorm:"index;not null"`
}

func (ProcessedMessageDTO) TableName() string {
	return "processed_messages"
}

// GormDeduplicator claims message ids in the processed_messages table.
type GormDeduplicator struct {
	db        *gorm.DB
	namespace string
	ttl       time.Duration
	now       func() time.Time
}

// NewGormDeduplicator creates a deduplicator whose keys expire after ttl.
func NewGormDeduplicator(db *gorm.DB, namespace string, ttl time.Duration) (*GormDeduplicator, error) {
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("ttl", ttl, "1ns", "unbounded")
	}

	return &GormDeduplicator{db: db, namespace: namespace, ttl: ttl, now: time.Now}, nil
}

// Claim inserts the key or takes over an expired one. Exactly one of several
// concurrent callers sees a row affected.
func (d *GormDeduplicator) Claim(ctx context.Context, scope string, messageID kernel.UUID) (bool, error) {
	if err := messageID.Validate(); err != nil {
		return false, err
	}

	now := d.now().UTC()
	result := d.db.WithContext(ctx).Exec(`
		INSERT INTO processed_messages (message_key, expires_at)
		VALUES (?, ?)
		ON CONFLICT (message_key) DO UPDATE
			SET expires_at = EXCLUDED.expires_at
			WHERE processed_messages.expires_at < ?
	`, d.key(scope, messageID), now.Add(d.ttl), now)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// Purge deletes expired keys and returns how many were removed.
func (d *GormDeduplicator) Purge(ctx context.Context) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("expires_at < ?", d.now().UTC()).
		Delete(&ProcessedMessageDTO{})
	return result.RowsAffected, result.Error
}

func (d *GormDeduplicator) key(scope string, messageID kernel.UUID) string {
	return d.namespace + ":" + scope + ":" + messageID.String()
}
