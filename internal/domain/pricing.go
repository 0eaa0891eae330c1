package domain

import (
	"github.com/shopspring/decimal"
)

// TimeOfDay buckets an hour of the day for pricing purposes.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"   // [06:00, 12:00)
	TimeMidday    TimeOfDay = "midday"    // [12:00, 14:00)
	TimeAfternoon TimeOfDay = "afternoon" // [14:00, 18:00)
	TimeEvening   TimeOfDay = "evening"   // [18:00, 22:00)
	TimeMidnight  TimeOfDay = "midnight"  // [22:00, 06:00)
)

// Valid reports whether the bucket is a known value.
func (t TimeOfDay) Valid() bool {
	switch t {
	case TimeMorning, TimeMidday, TimeAfternoon, TimeEvening, TimeMidnight:
		return true
	}
	return false
}

// DayClass distinguishes weekday from weekend pricing.
type DayClass string

const (
	DayWeekday DayClass = "weekday"
	DayWeekend DayClass = "weekend"
)

// Valid reports whether the day class is a known value.
func (d DayClass) Valid() bool {
	return d == DayWeekday || d == DayWeekend
}

// Urgency expresses how quickly the customer needs a technician.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// Valid reports whether the urgency is a known value.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}

// PricingFactors carries the situational context for one pricing request.
// Resolved from a timestamp by the context resolver, or supplied explicitly
// by the caller. Multipliers never discount: values below 1.0 are rejected.
type PricingFactors struct {
	TimeOfDay         TimeOfDay       `json:"time_of_day"`
	Day               DayClass        `json:"day"`
	Urgency           Urgency         `json:"urgency"`
	EstimatedDuration int             `json:"estimated_duration_minutes"`
	DistanceMiles     decimal.Decimal `json:"distance_miles"`
	OutOfTown         bool            `json:"out_of_town"`
	TrafficFactor     decimal.Decimal `json:"traffic_factor"`
	DemandMultiplier  decimal.Decimal `json:"demand_multiplier"`
}

// Adjustment is one named, signed amount applied on top of the base price.
// Labels are shown verbatim in customer-facing breakdowns.
type Adjustment struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// PriceBreakdown is the auditable result of pricing one service.
// Invariant: FinalPrice = BasePrice + sum(Adjustments), rounded once to
// 2 decimal places at the final step.
type PriceBreakdown struct {
	ServiceID   string          `json:"service_id"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Adjustments []Adjustment    `json:"adjustments"`
	FinalPrice  decimal.Decimal `json:"final_price"`
}

// Pricing validation errors. The calculator never silently substitutes a
// default for a bad factor, since defaulting would misprice a job.
var (
	ErrInvalidDuration = &Error{Code: EINVALID, Message: "Estimated duration must be greater than zero"}
)

// InvalidFactor creates the rejection error for an unrecognized enum value.
func InvalidFactor(op, field string, value any) error {
	return Errorf(EINVALID, op, "unknown %s: %v", field, value)
}
