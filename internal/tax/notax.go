package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// NoTaxCalculator returns zero tax for all calculations.
// Used for tax-exempt accounts.
type NoTaxCalculator struct{}

// NewNoTaxCalculator creates a new no-tax calculator.
func NewNoTaxCalculator() Calculator {
	return &NoTaxCalculator{}
}

// ComputeTax always returns zero tax with an empty breakdown.
func (c *NoTaxCalculator) ComputeTax(ctx context.Context, subtotal decimal.Decimal, regionCode string) (*Result, error) {
	return &Result{TotalTax: decimal.Zero}, nil
}
