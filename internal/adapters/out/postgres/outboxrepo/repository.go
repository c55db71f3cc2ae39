package outboxrepo

import (
	"context"
	"time"

	"orders/internal/adapters/contracts"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

// relayLockKey identifies the advisory lock shared by all relay instances.
const relayLockKey int64 = 7_310_452_001

// GormOutboxRepository stores events as contracts.EventMessage JSON.
type GormOutboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormOutboxRepository creates an outbox on db, which may be a transaction.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db, now: time.Now}
}

// Add encodes events and inserts them in order.
func (r *GormOutboxRepository) Add(ctx context.Context, events ...order.Event) error {
	if len(events) == 0 {
		return nil
	}

	now := r.now().UTC()
	dtos := make([]OutboxDTO, 0, len(events))
	for _, event := range events {
		if event == nil {
			return errs.NewValueIsRequiredError("event")
		}

		payload, err := contracts.EncodeEvent(event)
		if err != nil {
			return err
		}

		dtos = append(dtos, OutboxDTO{
			EventID:   event.EventID().Bytes(),
			Key:       event.OrderID().String(),
			EventType: string(event.EventType()),
			Payload:   string(payload),
			CreatedAt: now,
		})
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// TryLock takes pg_try_advisory_xact_lock, which is released at the end of
// the surrounding transaction.
func (r *GormOutboxRepository) TryLock(ctx context.Context) (bool, error) {
	var locked bool
	err := r.db.WithContext(ctx).Raw("SELECT pg_try_advisory_xact_lock(?)", relayLockKey).Scan(&locked).Error
	if err != nil {
		return false, err
	}
	return locked, nil
}

// GetPending returns up to limit unsent messages, oldest first.
func (r *GormOutboxRepository) GetPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []OutboxDTO
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		messages = append(messages, toMessage(dto))
	}
	return messages, nil
}

// MarkSent stamps sent_at on the given rows that are still pending.
func (r *GormOutboxRepository) MarkSent(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&OutboxDTO{}).
		Where("id IN ? AND sent_at IS NULL", ids).
		Update("sent_at", r.now().UTC()).Error
}
