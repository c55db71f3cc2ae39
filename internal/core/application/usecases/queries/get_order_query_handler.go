package queries

import (
	"context"
	"database/sql"
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order and its items and computes the total
// from the stored line prices.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler reading from db.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when no order has the requested id.
// An order without items reports a zero total in order.DefaultCurrency.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	resp := GetOrderQueryResponse{ID: query.OrderID()}

	var status int
	err := db.Raw(`
		SELECT
			status,
			created_at,
			updated_at,
			version
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row().Scan(&status, &resp.CreatedAt, &resp.UpdatedAt, &resp.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}
	resp.Status = order.Status(status).String()
	resp.CreatedAt = resp.CreatedAt.UTC()
	resp.UpdatedAt = resp.UpdatedAt.UTC()

	rows, err := db.Raw(`
		SELECT
			id,
			product_id,
			quantity,
			unit_price_amount,
			unit_price_currency
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	resp.Items = make([]GetOrderQueryItem, 0)
	resp.Total = decimal.Zero
	for rows.Next() {
		var (
			item          GetOrderQueryItem
			id, productID uuid.UUID
			currency      string
		)

		if err = rows.Scan(&id, &productID, &item.Quantity, &item.UnitPrice, &currency); err != nil {
			return GetOrderQueryResponse{}, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return GetOrderQueryResponse{}, err
		}
		if item.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return GetOrderQueryResponse{}, err
		}

		price, priceErr := kernel.NewMoney(item.UnitPrice, currency)
		if priceErr != nil {
			return GetOrderQueryResponse{}, priceErr
		}
		quantity, qtyErr := kernel.NewQuantity(item.Quantity)
		if qtyErr != nil {
			return GetOrderQueryResponse{}, qtyErr
		}

		item.UnitPrice = price.Amount()
		item.LineTotal = price.Multiply(quantity).Amount()
		resp.Total = resp.Total.Add(item.LineTotal)
		resp.Currency = currency
		resp.Items = append(resp.Items, item)
	}

	if err = rows.Err(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if resp.Currency == "" {
		resp.Currency = order.DefaultCurrency
	}
	total, err := kernel.NewMoney(resp.Total, resp.Currency)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Total = total.Amount()

	return resp, nil
}
