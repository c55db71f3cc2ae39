package contracts

import (
	"github.com/shopspring/decimal"
)

// Price is a decimal amount written as a plain JSON number. Quoted numbers are
// accepted on input.
type Price struct {
	decimal.Decimal
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}
