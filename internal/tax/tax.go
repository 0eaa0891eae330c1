package tax

import (
	"context"

	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/shopspring/decimal"
)

// Calculator defines the interface for tax calculation.
// Implementations: RegionalCalculator, NoTaxCalculator.
type Calculator interface {
	// ComputeTax computes the tax lines for a subtotal in a jurisdiction.
	ComputeTax(ctx context.Context, subtotal decimal.Decimal, regionCode string) (*Result, error)
}

// Result contains the computed tax lines and their sum.
//
// TotalTax is the sum of the individually rounded component lines. For
// split-rate regions this can differ by up to one cent from
// subtotal * combined rate; that drift matches historically displayed
// figures and is kept on purpose.
type Result struct {
	Lines    []domain.TaxLine `json:"lines"`
	TotalTax decimal.Decimal  `json:"total_tax"`
}

// Component is one tax levied by a jurisdiction, e.g. the federal GST or a
// provincial PST/TVQ. Combined-rate jurisdictions (HST) use a single
// component.
type Component struct {
	Label string
	Rate  decimal.Decimal
}

// Region is the active rate set for one jurisdiction code.
// A region has exactly one active rate set at any time.
type Region struct {
	Code       string
	Name       string
	Components []Component
}

// TotalRate returns the sum of the component rates.
func (r Region) TotalRate() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Components {
		total = total.Add(c.Rate)
	}
	return total
}
