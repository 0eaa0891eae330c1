package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKind identifies what a billable invoice line represents.
type LineKind string

const (
	LineService           LineKind = "service"
	LineHardware          LineKind = "hardware"
	LineAdditionalService LineKind = "additional_service"
)

// Valid reports whether the line kind is a known value.
func (k LineKind) Valid() bool {
	switch k {
	case LineService, LineHardware, LineAdditionalService:
		return true
	}
	return false
}

// InvoiceStatus tracks the invoice lifecycle. An invoice is mutable while
// its job is in progress and becomes the permanent record once finalized.
type InvoiceStatus string

const (
	InvoiceInProgress InvoiceStatus = "in_progress"
	InvoiceFinalized  InvoiceStatus = "finalized"
)

// InvoiceLine is one billable item contributing to the invoice subtotal.
// Total is Quantity * UnitPrice rounded to 2 decimal places.
type InvoiceLine struct {
	Kind        LineKind        `json:"kind"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// TaxLine is one tax component computed on the invoice subtotal.
type TaxLine struct {
	Label  string          `json:"label"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Invoice aggregates priced lines, tax lines, and totals for one job.
// Lines preserve insertion order. Subtotal, tax lines, and grand total are
// recomputed from scratch on every mutation so the totals invariant holds
// after any number of modifications.
type Invoice struct {
	ID         string          `json:"id"`
	JobID      string          `json:"job_id"`
	RegionCode string          `json:"region_code"`
	Status     InvoiceStatus   `json:"status"`
	Lines      []InvoiceLine   `json:"lines"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxLines   []TaxLine       `json:"tax_lines"`
	TotalTax   decimal.Decimal `json:"total_tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`

	// Version supports optimistic concurrency control in the store.
	// Concurrent writers race on it; losers get a conflict.
	Version int `json:"-"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}

// Invoice domain errors.
var (
	ErrInvoiceLocked = &Error{Code: ECONFLICT, Message: "Invoice is finalized and can no longer be modified"}
	ErrInvoiceExists = &Error{Code: ECONFLICT, Message: "An invoice already exists for this job"}

	// ErrConcurrentModification indicates two writers raced on the same
	// invoice. The service retries a bounded number of times before
	// surfacing it; callers beyond that should re-read and reapply.
	ErrConcurrentModification = &Error{Code: ECONFLICT, Message: "Invoice was modified concurrently, please retry"}
)
