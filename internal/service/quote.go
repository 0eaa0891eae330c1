package service

import (
	"context"
	"time"

	"github.com/dukerupert/brokkr/internal/catalog"
	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/dukerupert/brokkr/internal/pricing"
	"github.com/dukerupert/brokkr/internal/telemetry"
)

// QuoteService prices catalog services against situational context.
type QuoteService interface {
	// Quote computes the dynamic price breakdown for one service.
	Quote(ctx context.Context, params QuoteParams) (*domain.PriceBreakdown, error)
}

// QuoteParams identifies the service and its pricing context.
//
// Callers supply the situational factors explicitly, or a timestamp to
// resolve the time-dependent ones from. Urgency and estimated duration are
// request properties and always come from the caller; a resolved demand
// multiplier is used only when the caller does not override it.
type QuoteParams struct {
	ServiceID string
	Factors   domain.PricingFactors
	Timestamp *time.Time
}

type quoteService struct {
	catalog    *catalog.Catalog
	calculator *pricing.Calculator
	metrics    *telemetry.BusinessMetrics
}

// NewQuoteService creates a new QuoteService instance.
func NewQuoteService(cat *catalog.Catalog, calc *pricing.Calculator, metrics *telemetry.BusinessMetrics) QuoteService {
	return &quoteService{
		catalog:    cat,
		calculator: calc,
		metrics:    metrics,
	}
}

// Quote computes the dynamic price breakdown for one service.
func (s *quoteService) Quote(ctx context.Context, params QuoteParams) (*domain.PriceBreakdown, error) {
	svc, err := s.catalog.Get(params.ServiceID)
	if err != nil {
		s.countRejection(err)
		return nil, err
	}

	factors, err := resolveFactors(params.Factors, params.Timestamp)
	if err != nil {
		s.countRejection(err)
		return nil, err
	}

	breakdown, err := s.calculator.Price(svc, factors)
	if err != nil {
		s.countRejection(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.QuotesPriced.WithLabelValues(string(svc.Tier)).Inc()
		telemetry.ObserveDollars(s.metrics.QuoteValue, breakdown.FinalPrice)
	}

	return breakdown, nil
}

func (s *quoteService) countRejection(err error) {
	if s.metrics != nil {
		s.metrics.QuotesRejected.WithLabelValues(domain.ErrorCode(err)).Inc()
	}
}

// resolveFactors merges caller-supplied factors with timestamp-resolved
// ones. With a timestamp, the time-of-day bucket and day class always come
// from the clock; the demand multiplier is resolved only when the caller
// left it unset (a measured value beats the step-function placeholder).
// Without a timestamp, the factors must already be complete.
func resolveFactors(factors domain.PricingFactors, timestamp *time.Time) (domain.PricingFactors, error) {
	if timestamp == nil {
		if factors.TimeOfDay == "" && factors.Day == "" {
			return factors, ErrMissingContext
		}
		return factors, nil
	}

	resolved := pricing.Resolve(*timestamp)
	factors.TimeOfDay = resolved.TimeOfDay
	factors.Day = resolved.Day
	if factors.DemandMultiplier.IsZero() {
		factors.DemandMultiplier = resolved.DemandMultiplier
	}
	if factors.TrafficFactor.IsZero() {
		factors.TrafficFactor = resolved.TrafficFactor
	}

	return factors, nil
}
