package postgres

import (
	"orders/internal/adapters/out/postgres/dedupstore"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/adapters/out/postgres/outboxrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables of the order service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&outboxrepo.OutboxDTO{},
		&dedupstore.ProcessedMessageDTO{},
	)
}
