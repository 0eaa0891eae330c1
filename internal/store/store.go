package store

import (
	"context"

	"github.com/dukerupert/brokkr/internal/domain"
)

// ServiceStore provides read access to the persisted support catalog.
// The catalog is loaded once at startup; there is no mutation path.
type ServiceStore interface {
	// ListServices returns every catalog entry in sort order.
	ListServices(ctx context.Context) ([]domain.SupportService, error)
}

// InvoiceStore persists per-job invoices with optimistic concurrency.
//
// UpdateInvoice compares the record's stored version against
// invoice.Version: on match it writes the new state and increments the
// version, on mismatch it returns domain.ErrConcurrentModification so the
// caller can re-read and reapply. This keeps the full-recompute step of
// invoice mutation from interleaving with another writer's recompute.
type InvoiceStore interface {
	// CreateInvoice inserts a new invoice. Returns domain.ErrInvoiceExists
	// if the job already has one.
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) error

	// GetInvoiceByJob returns the invoice for a job, or ENOTFOUND.
	GetInvoiceByJob(ctx context.Context, jobID string) (*domain.Invoice, error)

	// UpdateInvoice writes invoice state guarded by the version check.
	// On success invoice.Version is advanced to the stored version.
	UpdateInvoice(ctx context.Context, invoice *domain.Invoice) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
