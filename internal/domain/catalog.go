package domain

import (
	"github.com/shopspring/decimal"
)

// SupportTier classifies catalog services by required expertise.
type SupportTier string

const (
	TierBasic        SupportTier = "basic"
	TierIntermediate SupportTier = "intermediate"
	TierAdvanced     SupportTier = "advanced"
	TierExpert       SupportTier = "expert"
)

// Valid reports whether the tier is a known value.
func (t SupportTier) Valid() bool {
	switch t {
	case TierBasic, TierIntermediate, TierAdvanced, TierExpert:
		return true
	}
	return false
}

// SupportService is a purchasable support offering from the catalog.
// Catalog entries are immutable once loaded at startup.
type SupportService struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Tier            SupportTier     `json:"tier"`
	BasePrice       decimal.Decimal `json:"base_price"`
	MinimumDuration int             `json:"minimum_duration_minutes"`
	Category        string          `json:"category"`
	IncludedItems   []string        `json:"included_items"`
}

// Validate checks the catalog entry invariants: positive base price,
// positive minimum duration, known tier.
func (s SupportService) Validate() error {
	const op = "catalog.validate"

	if s.ID == "" {
		return Invalid(op, "service id is required")
	}
	if s.Name == "" {
		return Invalid(op, "service name is required")
	}
	if !s.Tier.Valid() {
		return Errorf(EINVALID, op, "unknown support tier: %s", s.Tier)
	}
	if !s.BasePrice.IsPositive() {
		return Errorf(EINVALID, op, "base price must be positive, got %s", s.BasePrice)
	}
	if s.MinimumDuration <= 0 {
		return Errorf(EINVALID, op, "minimum duration must be positive, got %d", s.MinimumDuration)
	}

	return nil
}
