package main

import (
	"fmt"
	"strconv"
	"strings"

	"orders/internal/adapters/contracts"
	"orders/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// itemsFlag collects repeated -item values of the form
// quantity:price:currency[:productId]. A missing product id is generated.
type itemsFlag []contracts.OrderItem

func (f *itemsFlag) String() string {
	parts := make([]string, 0, len(*f))
	for _, item := range *f {
		parts = append(parts, fmt.Sprintf("%d:%s:%s:%s", item.Quantity, item.Price.String(), item.Currency, item.ProductID))
	}
	return strings.Join(parts, ",")
}

func (f *itemsFlag) Set(value string) error {
	item, err := parseItem(value)
	if err != nil {
		return err
	}
	*f = append(*f, item)
	return nil
}

func parseItem(value string) (contracts.OrderItem, error) {
	fields := strings.Split(value, ":")
	if len(fields) < 3 || len(fields) > 4 {
		return contracts.OrderItem{}, fmt.Errorf("item %q: want quantity:price:currency[:productId]", value)
	}

	quantity, err := strconv.Atoi(fields[0])
	if err != nil {
		return contracts.OrderItem{}, fmt.Errorf("item %q: quantity: %w", value, err)
	}
	price, err := decimal.NewFromString(fields[1])
	if err != nil {
		return contracts.OrderItem{}, fmt.Errorf("item %q: price: %w", value, err)
	}

	productID := kernel.NewUUID()
	if len(fields) == 4 {
		if productID, err = kernel.UUIDFromString(fields[3]); err != nil {
			return contracts.OrderItem{}, fmt.Errorf("item %q: product id: %w", value, err)
		}
	}

	return contracts.OrderItem{
		ProductID: productID.String(),
		Quantity:  quantity,
		Price:     contracts.NewPrice(price),
		Currency:  strings.ToUpper(fields[2]),
	}, nil
}
