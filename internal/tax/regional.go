package tax

import (
	"context"
	"strings"

	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/shopspring/decimal"
)

// RegionalCalculator computes tax from a static region-to-rates table.
// It is pure and stateless: safe for concurrent use.
type RegionalCalculator struct {
	regions map[string]Region
}

// NewRegionalCalculator creates a calculator over the given region table.
func NewRegionalCalculator(regions map[string]Region) *RegionalCalculator {
	return &RegionalCalculator{regions: regions}
}

// ComputeTax emits one tax line per component of the region's rate set.
// Each component is computed independently on the subtotal (not cascaded)
// and rounded to 2 decimal places on its own; TotalTax is the sum of the
// rounded lines. An unknown region is rejected, never taxed at 0%.
func (c *RegionalCalculator) ComputeTax(ctx context.Context, subtotal decimal.Decimal, regionCode string) (*Result, error) {
	const op = "tax.compute"

	region, ok := c.regions[strings.ToUpper(regionCode)]
	if !ok {
		return nil, unknownRegion(op, regionCode)
	}

	result := &Result{
		Lines:    make([]domain.TaxLine, 0, len(region.Components)),
		TotalTax: decimal.Zero,
	}

	for _, component := range region.Components {
		amount := subtotal.Mul(component.Rate).Round(2)
		result.Lines = append(result.Lines, domain.TaxLine{
			Label:  component.Label,
			Rate:   component.Rate,
			Amount: amount,
		})
		result.TotalTax = result.TotalTax.Add(amount)
	}

	return result, nil
}

// Region returns the rate set for a jurisdiction code.
func (c *RegionalCalculator) Region(code string) (Region, bool) {
	region, ok := c.regions[strings.ToUpper(code)]
	return region, ok
}

// DefaultRegions returns the Canadian provincial/territorial rate table.
// HST provinces carry a single combined line; the rest split the federal
// GST from their provincial component.
func DefaultRegions() map[string]Region {
	gst := Component{Label: "GST", Rate: decimal.NewFromFloat(0.05)}

	pst := func(rate float64) Component {
		return Component{Label: "PST", Rate: decimal.NewFromFloat(rate)}
	}
	hst := func(rate float64) []Component {
		return []Component{{Label: "HST", Rate: decimal.NewFromFloat(rate)}}
	}

	regions := []Region{
		{Code: "AB", Name: "Alberta", Components: []Component{gst}},
		{Code: "BC", Name: "British Columbia", Components: []Component{gst, pst(0.07)}},
		{Code: "MB", Name: "Manitoba", Components: []Component{gst, pst(0.07)}},
		{Code: "NB", Name: "New Brunswick", Components: hst(0.15)},
		{Code: "NL", Name: "Newfoundland and Labrador", Components: hst(0.15)},
		{Code: "NS", Name: "Nova Scotia", Components: hst(0.15)},
		{Code: "NT", Name: "Northwest Territories", Components: []Component{gst}},
		{Code: "NU", Name: "Nunavut", Components: []Component{gst}},
		{Code: "ON", Name: "Ontario", Components: hst(0.13)},
		{Code: "PE", Name: "Prince Edward Island", Components: hst(0.15)},
		{Code: "QC", Name: "Quebec", Components: []Component{gst, {Label: "TVQ", Rate: decimal.NewFromFloat(0.09975)}}},
		{Code: "SK", Name: "Saskatchewan", Components: []Component{gst, pst(0.06)}},
		{Code: "YT", Name: "Yukon", Components: []Component{gst}},
	}

	table := make(map[string]Region, len(regions))
	for _, r := range regions {
		table[r.Code] = r
	}
	return table
}
