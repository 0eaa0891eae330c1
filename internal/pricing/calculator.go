package pricing

import (
	"fmt"

	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/shopspring/decimal"
)

// Calculator prices a catalog service against situational factors.
// It is pure and stateless: safe for concurrent use without coordination.
type Calculator struct {
	tables Tables
}

// NewCalculator creates a calculator with the given rate tables.
func NewCalculator(tables Tables) *Calculator {
	return &Calculator{tables: tables}
}

// Price computes the dynamic price for one service.
//
// Every adjustment is computed against the ORIGINAL base price,
// base * (multiplier - 1), and added to a running total. Adjustments do
// not compound on each other; changing this would alter historically
// displayed prices. Each non-zero step is recorded with its
// customer-facing label. The final price is rounded to 2 decimal places
// once, at the end, so per-step rounding error cannot accumulate.
func (c *Calculator) Price(service domain.SupportService, factors domain.PricingFactors) (*domain.PriceBreakdown, error) {
	const op = "pricing.price"

	factors, err := normalize(op, factors)
	if err != nil {
		return nil, err
	}

	base := service.BasePrice
	one := decimal.NewFromInt(1)

	breakdown := &domain.PriceBreakdown{
		ServiceID: service.ID,
		BasePrice: base,
	}

	total := base

	record := func(label string, amount decimal.Decimal) {
		if amount.IsZero() {
			return
		}
		breakdown.Adjustments = append(breakdown.Adjustments, domain.Adjustment{
			Label:  label,
			Amount: amount.Round(2),
		})
		total = total.Add(amount)
	}

	// 1. Time of day.
	timeMult, ok := c.tables.TimeOfDay[factors.TimeOfDay]
	if !ok {
		return nil, domain.InvalidFactor(op, "time of day", factors.TimeOfDay)
	}
	record(fmt.Sprintf("Time of day (%s)", factors.TimeOfDay), base.Mul(timeMult.Sub(one)))

	// 2. Urgency.
	urgencyMult, ok := c.tables.Urgency[factors.Urgency]
	if !ok {
		return nil, domain.InvalidFactor(op, "urgency", factors.Urgency)
	}
	record(fmt.Sprintf("Urgency (%s)", factors.Urgency), base.Mul(urgencyMult.Sub(one)))

	// 3. Weekend.
	if factors.Day == domain.DayWeekend {
		record("Weekend service", base.Mul(c.tables.Weekend.Sub(one)))
	}

	// 4. Demand.
	record("Peak demand", base.Mul(factors.DemandMultiplier.Sub(one)))

	// 5 & 6. Traffic and distance, only when travel is involved.
	if factors.DistanceMiles.IsPositive() {
		record("Traffic conditions", base.Mul(factors.TrafficFactor.Sub(one)).Mul(c.tables.TrafficWeight))

		billable := factors.DistanceMiles.Sub(c.tables.FreeMiles)
		if billable.IsPositive() {
			record("Travel distance", billable.Mul(c.tables.PerMile))
			if factors.OutOfTown {
				record("Out-of-town travel", billable.Mul(c.tables.OutOfTownPerMile))
			}
		}
	}

	// 7. Extended duration: extra minutes billed at the service's implied
	// hourly rate (base per minimum-duration block), pro-rated per minute.
	if factors.EstimatedDuration > service.MinimumDuration {
		extra := decimal.NewFromInt(int64(factors.EstimatedDuration - service.MinimumDuration))
		perMinute := base.Div(decimal.NewFromInt(int64(service.MinimumDuration)))
		record("Extended duration", extra.Mul(perMinute))
	}

	breakdown.FinalPrice = total.Round(2)

	return breakdown, nil
}

// normalize validates factors and fills in neutral values for unset
// multipliers. Enum fields are never defaulted: an unknown value is a
// mispricing risk and is rejected outright.
func normalize(op string, f domain.PricingFactors) (domain.PricingFactors, error) {
	one := decimal.NewFromInt(1)

	if !f.TimeOfDay.Valid() {
		return f, domain.InvalidFactor(op, "time of day", f.TimeOfDay)
	}
	if !f.Day.Valid() {
		return f, domain.InvalidFactor(op, "day class", f.Day)
	}
	if !f.Urgency.Valid() {
		return f, domain.InvalidFactor(op, "urgency", f.Urgency)
	}
	if f.EstimatedDuration <= 0 {
		return f, domain.ErrInvalidDuration
	}
	if f.DistanceMiles.IsNegative() {
		return f, domain.Invalid(op, "distance cannot be negative")
	}

	if f.TrafficFactor.IsZero() {
		f.TrafficFactor = one
	}
	if f.DemandMultiplier.IsZero() {
		f.DemandMultiplier = one
	}

	// No discounting in the current rule set.
	if f.TrafficFactor.LessThan(one) {
		return f, domain.Invalid(op, "traffic factor must be at least 1.0")
	}
	if f.DemandMultiplier.LessThan(one) {
		return f, domain.Invalid(op, "demand multiplier must be at least 1.0")
	}

	return f, nil
}
