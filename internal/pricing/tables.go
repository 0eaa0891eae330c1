package pricing

import (
	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/shopspring/decimal"
)

// Tables holds the rate configuration for the dynamic price calculator.
// Rates are injected rather than hardcoded in the calculation so rule
// changes never touch calculator logic.
type Tables struct {
	// TimeOfDay maps each bucket to its price multiplier.
	TimeOfDay map[domain.TimeOfDay]decimal.Decimal

	// Urgency maps each urgency level to its price multiplier.
	Urgency map[domain.Urgency]decimal.Decimal

	// Weekend is the multiplier applied on weekend days.
	Weekend decimal.Decimal

	// TrafficWeight scales how much the traffic factor affects price.
	// Traffic only partially affects price, so this stays well below 1.
	TrafficWeight decimal.Decimal

	// FreeMiles is the distance included in the base price.
	FreeMiles decimal.Decimal

	// PerMile is the charge per billable mile.
	PerMile decimal.Decimal

	// OutOfTownPerMile is the extra charge per billable mile for
	// out-of-town jobs.
	OutOfTownPerMile decimal.Decimal
}

// DefaultTables returns the production rate set.
func DefaultTables() Tables {
	return Tables{
		TimeOfDay: map[domain.TimeOfDay]decimal.Decimal{
			domain.TimeMorning:   decimal.NewFromFloat(1.0),
			domain.TimeMidday:    decimal.NewFromFloat(1.1),
			domain.TimeAfternoon: decimal.NewFromFloat(1.0),
			domain.TimeEvening:   decimal.NewFromFloat(1.2),
			domain.TimeMidnight:  decimal.NewFromFloat(1.5),
		},
		Urgency: map[domain.Urgency]decimal.Decimal{
			domain.UrgencyLow:    decimal.NewFromFloat(1.0),
			domain.UrgencyMedium: decimal.NewFromFloat(1.2),
			domain.UrgencyHigh:   decimal.NewFromFloat(1.5),
			domain.UrgencyUrgent: decimal.NewFromFloat(2.0),
		},
		Weekend:          decimal.NewFromFloat(1.3),
		TrafficWeight:    decimal.NewFromFloat(0.1),
		FreeMiles:        decimal.NewFromInt(10),
		PerMile:          decimal.NewFromFloat(2.50),
		OutOfTownPerMile: decimal.NewFromFloat(0.50),
	}
}
