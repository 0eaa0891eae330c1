package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/brokkr/internal/catalog"
	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/dukerupert/brokkr/internal/events"
	"github.com/dukerupert/brokkr/internal/store"
	"github.com/dukerupert/brokkr/internal/tax"
	"github.com/dukerupert/brokkr/internal/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// conflictRetries bounds how many times a lost optimistic-version race is
// retried (re-read, reapply, recompute) before the conflict surfaces to
// the caller.
const conflictRetries = 3

// InvoiceService composes, mutates, and finalizes per-job invoices.
//
// All mutations recompute subtotal, tax lines, and grand total from
// scratch, so the totals invariant holds after any number of
// modifications. Writes go through the store's optimistic version check;
// readers always get a consistent snapshot.
type InvoiceService interface {
	// CreateInvoice prices the requested service and opens the job's
	// invoice with the priced service line.
	CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*domain.Invoice, error)

	// GetInvoice returns a consistent snapshot of the job's invoice.
	GetInvoice(ctx context.Context, jobID string) (*domain.Invoice, error)

	// AddLine appends a hardware or additional-service line while the job
	// is in progress, returning the recomputed invoice.
	AddLine(ctx context.Context, params AddLineParams) (*domain.Invoice, error)

	// Finalize freezes the invoice at job completion. Finalizing an
	// already-finalized invoice returns it unchanged.
	Finalize(ctx context.Context, jobID string) (*domain.Invoice, error)
}

// CreateInvoiceParams contains parameters for opening a job's invoice.
type CreateInvoiceParams struct {
	JobID      string
	RegionCode string
	Quote      QuoteParams
}

// AddLineParams contains parameters for appending an invoice line.
// A negative unit price on an additional-service line backs out an
// earlier charge; the invoice stays append-only either way.
type AddLineParams struct {
	JobID       string
	Kind        domain.LineKind
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type invoiceService struct {
	invoices  store.InvoiceStore
	catalog   *catalog.Catalog
	quotes    QuoteService
	taxCalc   tax.Calculator
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *telemetry.BusinessMetrics
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService instance.
func NewInvoiceService(invoices store.InvoiceStore, cat *catalog.Catalog, quotes QuoteService, taxCalc tax.Calculator, publisher events.Publisher, logger *slog.Logger, metrics *telemetry.BusinessMetrics) InvoiceService {
	return &invoiceService{
		invoices:  invoices,
		catalog:   cat,
		quotes:    quotes,
		taxCalc:   taxCalc,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// CreateInvoice prices the requested service and opens the job's invoice.
func (s *invoiceService) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*domain.Invoice, error) {
	const op = "invoice.create"

	if params.JobID == "" {
		return nil, domain.Invalid(op, "job id is required")
	}

	breakdown, err := s.quotes.Quote(ctx, params.Quote)
	if err != nil {
		return nil, err
	}

	// The quote already validated the service id.
	svc, err := s.catalog.Get(params.Quote.ServiceID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	invoice := &domain.Invoice{
		ID:         uuid.New().String(),
		JobID:      params.JobID,
		RegionCode: params.RegionCode,
		Status:     domain.InvoiceInProgress,
		Lines: []domain.InvoiceLine{{
			Kind:        domain.LineService,
			Description: svc.Name,
			Quantity:    1,
			UnitPrice:   breakdown.FinalPrice,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Recompute also validates the region code, so a bad jurisdiction is
	// rejected before anything is stored.
	if err := s.recompute(ctx, invoice); err != nil {
		return nil, err
	}

	if err := s.invoices.CreateInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.InvoicesCreated.Inc()
		s.metrics.TaxComputed.WithLabelValues(invoice.RegionCode).Inc()
	}
	s.publish(ctx, events.SubjectInvoiceCreated, invoice)

	return invoice, nil
}

// GetInvoice returns a consistent snapshot of the job's invoice.
func (s *invoiceService) GetInvoice(ctx context.Context, jobID string) (*domain.Invoice, error) {
	return s.invoices.GetInvoiceByJob(ctx, jobID)
}

// AddLine appends a line while the job is in progress. Lost version races
// are retried: the invoice is re-read and the line reapplied on the fresh
// state, so two writers' recomputes never interleave.
func (s *invoiceService) AddLine(ctx context.Context, params AddLineParams) (*domain.Invoice, error) {
	if err := validateLine(params); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		invoice, err := s.invoices.GetInvoiceByJob(ctx, params.JobID)
		if err != nil {
			return nil, err
		}

		if invoice.Status == domain.InvoiceFinalized {
			return nil, ErrInvoiceLocked
		}

		invoice.Lines = append(invoice.Lines, domain.InvoiceLine{
			Kind:        params.Kind,
			Description: params.Description,
			Quantity:    params.Quantity,
			UnitPrice:   params.UnitPrice,
		})
		invoice.UpdatedAt = s.now().UTC()

		if err := s.recompute(ctx, invoice); err != nil {
			return nil, err
		}

		err = s.invoices.UpdateInvoice(ctx, invoice)
		if err == nil {
			if s.metrics != nil {
				s.metrics.InvoiceLinesAdded.WithLabelValues(string(params.Kind)).Inc()
			}
			return invoice, nil
		}
		if !domain.IsCode(err, domain.ECONFLICT) {
			return nil, err
		}

		lastErr = err
		if s.metrics != nil {
			s.metrics.InvoiceConflicts.Inc()
		}
		s.logger.Warn("invoice version conflict, retrying",
			slog.String("job_id", params.JobID),
			slog.Int("attempt", attempt+1))
	}

	return nil, lastErr
}

// Finalize freezes the invoice at job completion. Idempotent: finalizing
// twice returns the same frozen record with the same grand total.
func (s *invoiceService) Finalize(ctx context.Context, jobID string) (*domain.Invoice, error) {
	var lastErr error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		invoice, err := s.invoices.GetInvoiceByJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		if invoice.Status == domain.InvoiceFinalized {
			return invoice, nil
		}

		if err := s.recompute(ctx, invoice); err != nil {
			return nil, err
		}

		now := s.now().UTC()
		invoice.Status = domain.InvoiceFinalized
		invoice.UpdatedAt = now
		invoice.FinalizedAt = &now

		err = s.invoices.UpdateInvoice(ctx, invoice)
		if err == nil {
			if s.metrics != nil {
				s.metrics.InvoicesFinalized.Inc()
				telemetry.ObserveDollars(s.metrics.InvoiceValue, invoice.GrandTotal)
			}
			s.publish(ctx, events.SubjectInvoiceFinalized, invoice)
			return invoice, nil
		}
		if !domain.IsCode(err, domain.ECONFLICT) {
			return nil, err
		}

		lastErr = err
		if s.metrics != nil {
			s.metrics.InvoiceConflicts.Inc()
		}
	}

	return nil, lastErr
}

// recompute rebuilds subtotal, tax lines, and grand total from the line
// collection. Always a full recompute, never an incremental patch: the
// totals invariant must hold no matter how many times the invoice was
// modified.
func (s *invoiceService) recompute(ctx context.Context, invoice *domain.Invoice) error {
	subtotal := decimal.Zero
	for i := range invoice.Lines {
		line := &invoice.Lines[i]
		line.Total = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		subtotal = subtotal.Add(line.Total)
	}
	invoice.Subtotal = subtotal

	taxResult, err := s.taxCalc.ComputeTax(ctx, subtotal, invoice.RegionCode)
	if err != nil {
		return err
	}

	invoice.TaxLines = taxResult.Lines
	invoice.TotalTax = taxResult.TotalTax
	invoice.GrandTotal = subtotal.Add(taxResult.TotalTax)

	return nil
}

func (s *invoiceService) publish(ctx context.Context, subject string, invoice *domain.Invoice) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, invoice); err != nil {
		s.logger.Warn("failed to publish invoice event",
			slog.String("subject", subject),
			slog.String("job_id", invoice.JobID),
			slog.String("error", err.Error()))
	}
}

func validateLine(params AddLineParams) error {
	if !params.Kind.Valid() {
		return ErrInvalidLineKind
	}
	if params.Kind == domain.LineService {
		return ErrServiceLineKind
	}
	if params.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if params.Description == "" {
		return ErrMissingDescription
	}
	return nil
}
