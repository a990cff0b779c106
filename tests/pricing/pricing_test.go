package pricing_test

import (
	"testing"

	"github.com/dispatchbook/challan-api/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TestLineAmount tests quantity * rate with operand validation
func TestLineAmount(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		rate     string
		expected string
		wantErr  error
	}{
		{
			name:     "whole numbers",
			quantity: "2",
			rate:     "2500",
			expected: "5000",
		},
		{
			name:     "fractional quantity",
			quantity: "2.5",
			rate:     "100",
			expected: "250",
		},
		{
			name:     "fractional rate stays exact",
			quantity: "3",
			rate:     "0.10",
			expected: "0.30",
		},
		{
			name:     "zero rate is allowed",
			quantity: "5",
			rate:     "0",
			expected: "0",
		},
		{
			name:     "zero quantity is rejected",
			quantity: "0",
			rate:     "100",
			wantErr:  pricing.ErrInvalidQuantity,
		},
		{
			name:     "negative quantity is rejected",
			quantity: "-1",
			rate:     "100",
			wantErr:  pricing.ErrInvalidQuantity,
		},
		{
			name:     "negative rate is rejected",
			quantity: "1",
			rate:     "-0.01",
			wantErr:  pricing.ErrInvalidRate,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := pricing.LineAmount(dec(tc.quantity), dec(tc.rate))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, amount.Equal(dec(tc.expected)),
				"LineAmount = %s, want %s", amount, tc.expected)
		})
	}
}

// TestComputeTotals tests document totals across tax rates
func TestComputeTotals(t *testing.T) {
	t.Run("two items at 18 percent", func(t *testing.T) {
		lines := []pricing.Line{
			{Quantity: dec("2"), Rate: dec("2500")},
			{Quantity: dec("3"), Rate: dec("1200")},
		}

		totals, err := pricing.ComputeTotals(lines, dec("18"))
		require.NoError(t, err)

		assert.True(t, totals.SubTotal.Equal(dec("8600")), "SubTotal = %s", totals.SubTotal)
		assert.True(t, totals.TaxAmount.Equal(dec("1548")), "TaxAmount = %s", totals.TaxAmount)
		assert.True(t, totals.GrandTotal.Equal(dec("10148")), "GrandTotal = %s", totals.GrandTotal)
	})

	t.Run("zero tax", func(t *testing.T) {
		lines := []pricing.Line{{Quantity: dec("4"), Rate: dec("250.50")}}

		totals, err := pricing.ComputeTotals(lines, dec("0"))
		require.NoError(t, err)

		assert.True(t, totals.SubTotal.Equal(dec("1002")))
		assert.True(t, totals.TaxAmount.IsZero())
		assert.True(t, totals.GrandTotal.Equal(totals.SubTotal))
	})

	t.Run("hundred percent tax doubles the total", func(t *testing.T) {
		lines := []pricing.Line{{Quantity: dec("1"), Rate: dec("500")}}

		totals, err := pricing.ComputeTotals(lines, dec("100"))
		require.NoError(t, err)

		assert.True(t, totals.TaxAmount.Equal(dec("500")))
		assert.True(t, totals.GrandTotal.Equal(dec("1000")))
	})

	t.Run("fractional tax rate stays exact", func(t *testing.T) {
		// 0.1 is not representable in binary floats; the decimal shift
		// keeps the division by 100 exact
		lines := []pricing.Line{{Quantity: dec("1"), Rate: dec("1000")}}

		totals, err := pricing.ComputeTotals(lines, dec("12.5"))
		require.NoError(t, err)

		assert.True(t, totals.TaxAmount.Equal(dec("125")), "TaxAmount = %s", totals.TaxAmount)
		assert.True(t, totals.GrandTotal.Equal(dec("1125")))
	})

	t.Run("empty item list is rejected", func(t *testing.T) {
		_, err := pricing.ComputeTotals(nil, dec("18"))
		assert.ErrorIs(t, err, pricing.ErrNoItems)
	})

	t.Run("negative tax is rejected", func(t *testing.T) {
		lines := []pricing.Line{{Quantity: dec("1"), Rate: dec("100")}}
		_, err := pricing.ComputeTotals(lines, dec("-1"))
		assert.ErrorIs(t, err, pricing.ErrInvalidTaxRate)
	})

	t.Run("tax above hundred is rejected", func(t *testing.T) {
		lines := []pricing.Line{{Quantity: dec("1"), Rate: dec("100")}}
		_, err := pricing.ComputeTotals(lines, dec("100.01"))
		assert.ErrorIs(t, err, pricing.ErrInvalidTaxRate)
	})

	t.Run("bad line is reported with its position", func(t *testing.T) {
		lines := []pricing.Line{
			{Quantity: dec("1"), Rate: dec("100")},
			{Quantity: dec("0"), Rate: dec("100")},
		}
		_, err := pricing.ComputeTotals(lines, dec("18"))
		require.Error(t, err)
		assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)
		assert.Contains(t, err.Error(), "item 2")
	})
}
