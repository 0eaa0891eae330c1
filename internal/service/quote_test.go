package service

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/brokkr/internal/catalog"
	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/dukerupert/brokkr/internal/pricing"
	"github.com/dukerupert/brokkr/internal/store"
	"github.com/shopspring/decimal"
)

func newTestQuoteService(t *testing.T) QuoteService {
	t.Helper()

	mem := store.NewMemoryStore()
	mem.SeedServices(testCatalogServices())

	cat, err := catalog.Load(context.Background(), mem)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	return NewQuoteService(cat, pricing.NewCalculator(pricing.DefaultTables()), nil)
}

func TestQuote_UnknownService(t *testing.T) {
	svc := newTestQuoteService(t)

	_, err := svc.Quote(context.Background(), QuoteParams{
		ServiceID: "svc-missing",
		Factors: domain.PricingFactors{
			TimeOfDay:         domain.TimeMorning,
			Day:               domain.DayWeekday,
			Urgency:           domain.UrgencyLow,
			EstimatedDuration: 60,
		},
	})
	if domain.ErrorCode(err) != domain.ENOTFOUND {
		t.Errorf("error code = %s, want not found", domain.ErrorCode(err))
	}
}

func TestQuote_RequiresContextOrTimestamp(t *testing.T) {
	svc := newTestQuoteService(t)

	_, err := svc.Quote(context.Background(), QuoteParams{
		ServiceID: "svc-diagnostics",
		Factors: domain.PricingFactors{
			Urgency:           domain.UrgencyLow,
			EstimatedDuration: 60,
		},
	})
	if domain.ErrorCode(err) != domain.EINVALID {
		t.Errorf("error code = %s, want invalid", domain.ErrorCode(err))
	}
}

func TestQuote_ResolvesFactorsFromTimestamp(t *testing.T) {
	svc := newTestQuoteService(t)

	// Saturday 19:30: evening bucket, weekend, evening demand step 1.3.
	at := time.Date(2025, time.June, 7, 19, 30, 0, 0, time.UTC)

	breakdown, err := svc.Quote(context.Background(), QuoteParams{
		ServiceID: "svc-diagnostics",
		Timestamp: &at,
		Factors: domain.PricingFactors{
			Urgency:           domain.UrgencyLow,
			EstimatedDuration: 60,
		},
	})
	if err != nil {
		t.Fatalf("Quote() error: %v", err)
	}

	// $75 base: evening +15.00, weekend +22.50, demand +22.50 = $135.00.
	want := decimal.NewFromInt(135)
	if !breakdown.FinalPrice.Equal(want) {
		t.Errorf("final price = %s, want %s", breakdown.FinalPrice, want)
	}

	labels := make([]string, 0, len(breakdown.Adjustments))
	for _, adj := range breakdown.Adjustments {
		labels = append(labels, adj.Label)
	}
	wantLabels := []string{"Time of day (evening)", "Weekend service", "Peak demand"}
	if len(labels) != len(wantLabels) {
		t.Fatalf("adjustment labels = %v, want %v", labels, wantLabels)
	}
	for i := range wantLabels {
		if labels[i] != wantLabels[i] {
			t.Errorf("adjustment[%d] = %q, want %q", i, labels[i], wantLabels[i])
		}
	}
}

func TestQuote_CallerDemandBeatsResolved(t *testing.T) {
	svc := newTestQuoteService(t)

	// Tuesday 10:00: morning, weekday, business-hours demand step 1.2.
	at := time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC)

	measured, err := svc.Quote(context.Background(), QuoteParams{
		ServiceID: "svc-diagnostics",
		Timestamp: &at,
		Factors: domain.PricingFactors{
			Urgency:           domain.UrgencyLow,
			EstimatedDuration: 60,
			DemandMultiplier:  decimal.NewFromFloat(1.5),
		},
	})
	if err != nil {
		t.Fatalf("Quote() error: %v", err)
	}

	// Measured 1.5 demand on $75 yields +37.50, not the step function's +15.00.
	want := decimal.NewFromFloat(112.50)
	if !measured.FinalPrice.Equal(want) {
		t.Errorf("final price = %s, want %s", measured.FinalPrice, want)
	}
}

func TestQuote_ExplicitFactorsWithoutTimestamp(t *testing.T) {
	svc := newTestQuoteService(t)

	breakdown, err := svc.Quote(context.Background(), QuoteParams{
		ServiceID: "svc-network",
		Factors: domain.PricingFactors{
			TimeOfDay:         domain.TimeMorning,
			Day:               domain.DayWeekday,
			Urgency:           domain.UrgencyLow,
			EstimatedDuration: 120,
		},
	})
	if err != nil {
		t.Fatalf("Quote() error: %v", err)
	}

	if !breakdown.FinalPrice.Equal(decimal.NewFromInt(150)) {
		t.Errorf("final price = %s, want the undisturbed base 150", breakdown.FinalPrice)
	}
	if len(breakdown.Adjustments) != 0 {
		t.Errorf("expected no adjustments, got %v", breakdown.Adjustments)
	}
}
