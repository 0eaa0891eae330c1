package store

import (
	"context"
	"sync"

	"github.com/dukerupert/brokkr/internal/domain"
)

// MemoryStore is an in-memory implementation of ServiceStore and
// InvoiceStore. Used in tests and for single-process development runs.
type MemoryStore struct {
	mu       sync.RWMutex
	services []domain.SupportService
	invoices map[string]*domain.Invoice // keyed by job id
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		invoices: make(map[string]*domain.Invoice),
	}
}

// SeedServices replaces the catalog contents.
func (s *MemoryStore) SeedServices(services []domain.SupportService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = append([]domain.SupportService(nil), services...)
}

// ListServices returns every catalog entry.
func (s *MemoryStore) ListServices(ctx context.Context) ([]domain.SupportService, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.SupportService(nil), s.services...), nil
}

// CreateInvoice inserts a new invoice for a job.
func (s *MemoryStore) CreateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[invoice.JobID]; exists {
		return domain.ErrInvoiceExists
	}

	invoice.Version = 1
	s.invoices[invoice.JobID] = cloneInvoice(invoice)
	return nil
}

// GetInvoiceByJob returns a snapshot of the job's invoice. Readers get a
// copy, so a writer's in-flight recompute never shows through.
func (s *MemoryStore) GetInvoiceByJob(ctx context.Context, jobID string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoice, ok := s.invoices[jobID]
	if !ok {
		return nil, domain.NotFound("store.get_invoice", "invoice", jobID)
	}

	return cloneInvoice(invoice), nil
}

// UpdateInvoice writes invoice state guarded by the optimistic version
// check.
func (s *MemoryStore) UpdateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.invoices[invoice.JobID]
	if !ok {
		return domain.NotFound("store.update_invoice", "invoice", invoice.JobID)
	}

	if current.Version != invoice.Version {
		return domain.ErrConcurrentModification
	}

	invoice.Version++
	s.invoices[invoice.JobID] = cloneInvoice(invoice)
	return nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func cloneInvoice(src *domain.Invoice) *domain.Invoice {
	dst := *src
	dst.Lines = append([]domain.InvoiceLine(nil), src.Lines...)
	dst.TaxLines = append([]domain.TaxLine(nil), src.TaxLines...)
	if src.FinalizedAt != nil {
		t := *src.FinalizedAt
		dst.FinalizedAt = &t
	}
	return &dst
}
