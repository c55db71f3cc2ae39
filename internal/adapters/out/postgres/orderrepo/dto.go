package orderrepo

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the storage form of an order. Items are kept in their own table
// and removed together with the order.
type OrderDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Status    int            `gorm:"index"`
	Items     []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:false"`
	Version   int            `gorm:"not null;default:0"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO keeps the unit price as amount and currency code. Position
// preserves insertion order of the items.
type OrderItemDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity          int             `gorm:"not null"`
	UnitPriceAmount   decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	UnitPriceCurrency string          `gorm:"type:varchar(3);not null"`
	Position          int             `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	items := aggregate.Items()
	dtoItems := make([]OrderItemDTO, 0, len(items))
	for i, item := range items {
		dtoItems = append(dtoItems, OrderItemDTO{
			ID:                item.ID().Bytes(),
			OrderID:           aggregate.ID().Bytes(),
			ProductID:         item.ProductID().Bytes(),
			Quantity:          item.Quantity().Value(),
			UnitPriceAmount:   item.UnitPrice().Amount(),
			UnitPriceCurrency: item.UnitPrice().Currency(),
			Position:          i,
		})
	}

	return OrderDTO{
		ID:        aggregate.ID().Bytes(),
		Status:    int(aggregate.Status()),
		Items:     dtoItems,
		CreatedAt: aggregate.CreatedAt(),
		UpdatedAt: aggregate.UpdatedAt(),
		Version:   aggregate.Version(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]*order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		order.Status(dto.Status),
		items,
		dto.CreatedAt.UTC(),
		dto.UpdatedAt.UTC(),
		dto.Version,
	)
}

func itemToDomain(dto OrderItemDTO) (*order.LineItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	quantity, err := kernel.NewQuantity(dto.Quantity)
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewMoney(dto.UnitPriceAmount, dto.UnitPriceCurrency)
	if err != nil {
		return nil, err
	}

	return order.RestoreLineItem(id, productID, quantity, price)
}
