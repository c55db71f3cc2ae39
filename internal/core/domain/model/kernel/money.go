package kernel

import (
	"errors"
	"fmt"
	"strings"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	// ErrMoneyIsNotConstructed is returned when validating a zero-value Money.
	ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney or NewMoneyFromString")

	// ErrCurrencyMismatch is returned by arithmetic on amounts of different currencies.
	ErrCurrencyMismatch = errors.New("currencies do not match")
)

// Money is an immutable amount in a single ISO 4217 currency.
//
// Invariants:
//   - amount is never negative
//   - amount is rounded half-up to the currency's canonical fraction digits
//     (2 for USD and EUR, 0 for JPY, 3 for BHD...)
//   - Add, Subtract and Compare require both operands to share the currency
//
// Example:
//
//	price, err := kernel.NewMoneyFromString("100.00", "USD")
//	if err != nil {
//	    return err
//	}
//	qty, _ := kernel.NewQuantity(2)
//	fmt.Println(price.Multiply(qty)) // 200.00 USD
type Money struct {
	amount   decimal.Decimal
	currency string
	scale    int32

	guard guard.ConstructorGuard
}

// NewMoney validates the currency code and the sign of amount, then rounds
// amount to the currency's fraction digits.
func NewMoney(amount decimal.Decimal, currencyCode string) (Money, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(currencyCode)))
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency", err)
	}

	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}

	scale, _ := currency.Standard.Rounding(unit)
	return Money{
		amount:   amount.Round(int32(scale)),
		currency: unit.String(),
		scale:    int32(scale),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// NewMoneyFromString parses amount as a decimal literal.
func NewMoneyFromString(amount string, currencyCode string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d, currencyCode)
}

// ZeroMoney returns a zero amount in currencyCode.
func ZeroMoney(currencyCode string) (Money, error) {
	return NewMoney(decimal.Zero, currencyCode)
}

// Validate ensures the value was created through a constructor.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the rounded amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the upper-case ISO 4217 code.
func (m Money) Currency() string {
	return m.currency
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Subtract returns m - other. A negative result is an error.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency)
}

// Multiply returns m × q.
func (m Money) Multiply(q Quantity) Money {
	return m.withAmount(m.amount.Mul(decimal.NewFromInt(int64(q.Value()))))
}

// MultiplyBy returns m × factor. Negative factors are rejected.
func (m Money) MultiplyBy(factor decimal.Decimal) (Money, error) {
	return NewMoney(m.amount.Mul(factor), m.currency)
}

// Compare returns -1, 0 or 1 as m is less than, equal to or greater than other.
func (m Money) Compare(other Money) (int, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

// IsEqual reports whether both amount and currency match.
func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// String renders the amount with the currency's fraction digits, e.g. "200.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(m.scale), m.currency)
}

func (m Money) withAmount(amount decimal.Decimal) Money {
	return Money{
		amount:   amount.Round(m.scale),
		currency: m.currency,
		scale:    m.scale,
		guard:    m.guard,
	}
}

func (m Money) assertSameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}
