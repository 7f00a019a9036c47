package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrPriceNotPositive rejects zero or negative amounts.
	ErrPriceNotPositive = errors.New("price must be positive")

	// ErrPriceUnrepresentable rejects inputs with no exact decimal form.
	ErrPriceUnrepresentable = errors.New("price cannot be represented as a decimal")

	// ErrPriceOverflow signals the minor-unit value does not fit int64.
	ErrPriceOverflow = errors.New("price overflows the minor-unit range")
)

// Price is a strictly positive fixed-point decimal amount.
type Price struct {
	amount decimal.Decimal
}

func NewPrice(raw float64) (Price, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return Price{}, ErrPriceUnrepresentable
	}
	amount := decimal.NewFromFloat(raw)
	if amount.Sign() <= 0 {
		return Price{}, ErrPriceNotPositive
	}
	return Price{amount: amount}, nil
}

func NewPriceFromDecimal(amount decimal.Decimal) (Price, error) {
	if amount.Sign() <= 0 {
		return Price{}, ErrPriceNotPositive
	}
	return Price{amount: amount}, nil
}

// Cents returns the amount in minor units for the payment gateway.
// Sub-cent precision rounds half up.
func (p Price) Cents() (int64, error) {
	cents := p.amount.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrPriceOverflow, p.amount)
	}
	return cents.IntPart(), nil
}

func (p Price) Decimal() decimal.Decimal { return p.amount }

func (p Price) Equal(other Price) bool { return p.amount.Equal(other.amount) }

func (p Price) String() string { return p.amount.String() }
