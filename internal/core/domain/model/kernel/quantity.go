package kernel

import (
	"errors"
	"fmt"

	"orders/internal/pkg/errs"
)

// ErrQuantityBelowZero is returned when a subtraction would produce a negative quantity.
var ErrQuantityBelowZero = errors.New("quantity cannot drop below zero")

// Quantity is a non-negative number of units. The zero value is a valid
// quantity of zero. Arithmetic never produces a negative result: Subtract
// below zero is reported as an error instead of being clamped.
type Quantity struct {
	value int
}

// NewQuantity validates that value is not negative.
func NewQuantity(value int) (Quantity, error) {
	if value < 0 {
		return Quantity{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is negative", value),
		)
	}
	return Quantity{value: value}, nil
}

// Value returns the number of units.
func (q Quantity) Value() int {
	return q.value
}

// Add returns q + other.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value + other.value}
}

// Subtract returns q - other, or ErrQuantityBelowZero if other is larger than q.
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	if other.value > q.value {
		return Quantity{}, errs.NewValueIsOutOfRangeErrorWithCause(
			"quantity", q.value-other.value, 0, q.value, ErrQuantityBelowZero,
		)
	}
	return Quantity{value: q.value - other.value}, nil
}

// IsZero reports whether the quantity is zero.
func (q Quantity) IsZero() bool {
	return q.value == 0
}

// IsPositive reports whether the quantity is greater than zero.
func (q Quantity) IsPositive() bool {
	return q.value > 0
}

func (q Quantity) String() string {
	return fmt.Sprintf("%d", q.value)
}
