// Package pricing computes challan line amounts and document totals.
// All arithmetic is exact decimal arithmetic; the package performs no I/O.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoItems is returned when totals are requested for an empty item list
	ErrNoItems = errors.New("pricing: at least one item is required")
	// ErrInvalidQuantity is returned for a zero or negative quantity
	ErrInvalidQuantity = errors.New("pricing: quantity must be greater than zero")
	// ErrInvalidRate is returned for a negative rate
	ErrInvalidRate = errors.New("pricing: rate must not be negative")
	// ErrInvalidTaxRate is returned for a tax percentage outside [0, 100]
	ErrInvalidTaxRate = errors.New("pricing: tax percentage must be between 0 and 100")
)

// Line is one priced row: a quantity at a unit rate
type Line struct {
	Quantity decimal.Decimal
	Rate     decimal.Decimal
}

// Totals holds the computed document totals
type Totals struct {
	SubTotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// LineAmount returns quantity * rate after validating both operands
func LineAmount(quantity, rate decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, ErrInvalidQuantity
	}
	if rate.IsNegative() {
		return decimal.Zero, ErrInvalidRate
	}
	return quantity.Mul(rate), nil
}

// ComputeTotals sums the line amounts and applies the tax percentage.
// The tax division by 100 is a decimal shift, so it is always exact.
func ComputeTotals(lines []Line, taxPercentage decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, ErrNoItems
	}
	if taxPercentage.IsNegative() || taxPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return Totals{}, ErrInvalidTaxRate
	}

	subTotal := decimal.Zero
	for i, line := range lines {
		amount, err := LineAmount(line.Quantity, line.Rate)
		if err != nil {
			return Totals{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		subTotal = subTotal.Add(amount)
	}

	taxAmount := subTotal.Mul(taxPercentage).Shift(-2)
	return Totals{
		SubTotal:   subTotal,
		TaxAmount:  taxAmount,
		GrandTotal: subTotal.Add(taxAmount),
	}, nil
}
