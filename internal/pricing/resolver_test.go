package pricing_test

import (
	"testing"
	"time"

	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/dukerupert/brokkr/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBucketTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want domain.TimeOfDay
	}{
		{0, domain.TimeMidnight},
		{5, domain.TimeMidnight},
		{6, domain.TimeMorning},
		{11, domain.TimeMorning},
		{12, domain.TimeMidday},
		{13, domain.TimeMidday},
		{14, domain.TimeAfternoon},
		{17, domain.TimeAfternoon},
		{18, domain.TimeEvening},
		{21, domain.TimeEvening},
		{22, domain.TimeMidnight},
		{23, domain.TimeMidnight},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pricing.BucketTimeOfDay(tt.hour), "hour %d", tt.hour)
	}
}

func TestClassifyDay(t *testing.T) {
	// 2025-06-02 is a Monday.
	for day := 0; day < 7; day++ {
		ts := time.Date(2025, 6, 2+day, 10, 0, 0, 0, time.UTC)
		got := pricing.ClassifyDay(ts.Weekday())

		switch ts.Weekday() {
		case time.Saturday, time.Sunday:
			assert.Equal(t, domain.DayWeekend, got, "%s", ts.Weekday())
		default:
			assert.Equal(t, domain.DayWeekday, got, "%s", ts.Weekday())
		}
	}
}

func TestDemandMultiplier(t *testing.T) {
	tests := []struct {
		hour int
		want decimal.Decimal
	}{
		{3, decimal.NewFromInt(1)},
		{8, decimal.NewFromInt(1)},
		{9, decimal.NewFromFloat(1.2)},
		{16, decimal.NewFromFloat(1.2)},
		{17, decimal.NewFromInt(1)},
		{18, decimal.NewFromFloat(1.3)},
		{20, decimal.NewFromFloat(1.3)},
		{21, decimal.NewFromInt(1)},
		{23, decimal.NewFromInt(1)},
	}

	for _, tt := range tests {
		got := pricing.DemandMultiplier(tt.hour)
		assert.True(t, got.Equal(tt.want), "hour %d: got %s, want %s", tt.hour, got, tt.want)
	}
}

func TestResolve(t *testing.T) {
	// Saturday evening during the demand peak.
	ts := time.Date(2025, 6, 7, 19, 30, 0, 0, time.UTC)

	got := pricing.Resolve(ts)

	assert.Equal(t, domain.TimeEvening, got.TimeOfDay)
	assert.Equal(t, domain.DayWeekend, got.Day)
	assert.True(t, got.DemandMultiplier.Equal(decimal.NewFromFloat(1.3)))
	assert.True(t, got.TrafficFactor.Equal(decimal.NewFromInt(1)))
}

func TestResolve_Deterministic(t *testing.T) {
	ts := time.Date(2025, 3, 12, 13, 0, 0, 0, time.UTC)

	assert.Equal(t, pricing.Resolve(ts), pricing.Resolve(ts))
}
