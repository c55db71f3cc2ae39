package outboxrepo

import (
	"time"

	"orders/internal/core/ports"

	"github.com/google/uuid"
)

// OutboxDTO is one encoded event waiting for the relay. SentAt stays NULL
// until the event was published.
type OutboxDTO struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	EventID   uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	Key       string     `gorm:"column:aggregate_key;not null"`
	EventType string     `gorm:"type:varchar(64);not null"`
	Payload   string     `gorm:"type:jsonb;not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime:false;not null"`
	SentAt    *time.Time `gorm:"index"`
}

func (OutboxDTO) TableName() string {
	return "outbox"
}

func toMessage(dto OutboxDTO) ports.OutboxMessage {
	return ports.OutboxMessage{
		ID:        dto.ID,
		EventID:   dto.EventID.String(),
		Key:       dto.Key,
		EventType: dto.EventType,
		Payload:   []byte(dto.Payload),
		CreatedAt: dto.CreatedAt.UTC(),
	}
}
