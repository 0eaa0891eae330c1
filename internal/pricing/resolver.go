package pricing

import (
	"time"

	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/shopspring/decimal"
)

// Resolve derives situational pricing factors from an explicit timestamp.
// It is a pure function: the caller supplies the clock, never this package,
// so pricing stays deterministic and testable.
//
// The returned factors are partial. Urgency, duration, and distance are
// request properties the caller must fill in. The demand multiplier is a
// deterministic step function of hour-of-day, a placeholder for a measured
// demand feed; callers with a real signal should override it.
func Resolve(t time.Time) domain.PricingFactors {
	return domain.PricingFactors{
		TimeOfDay:        BucketTimeOfDay(t.Hour()),
		Day:              ClassifyDay(t.Weekday()),
		DemandMultiplier: DemandMultiplier(t.Hour()),
		TrafficFactor:    decimal.NewFromInt(1),
	}
}

// BucketTimeOfDay maps an hour [0,24) to its pricing bucket.
func BucketTimeOfDay(hour int) domain.TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return domain.TimeMorning
	case hour >= 12 && hour < 14:
		return domain.TimeMidday
	case hour >= 14 && hour < 18:
		return domain.TimeAfternoon
	case hour >= 18 && hour < 22:
		return domain.TimeEvening
	default:
		return domain.TimeMidnight
	}
}

// ClassifyDay maps a weekday to the weekday/weekend pricing class.
func ClassifyDay(day time.Weekday) domain.DayClass {
	if day == time.Saturday || day == time.Sunday {
		return domain.DayWeekend
	}
	return domain.DayWeekday
}

// DemandMultiplier returns the demand step for an hour of the day:
// business hours get a moderate bump, the evening peak a larger one.
func DemandMultiplier(hour int) decimal.Decimal {
	switch {
	case hour >= 9 && hour < 17:
		return decimal.NewFromFloat(1.2)
	case hour >= 18 && hour < 21:
		return decimal.NewFromFloat(1.3)
	default:
		return decimal.NewFromInt(1)
	}
}
