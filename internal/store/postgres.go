package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore implements ServiceStore and InvoiceStore over a pgx pool.
// Invoice lines and tax lines are persisted as JSONB documents: the
// invoice is read and written as a whole, which matches the full-recompute
// mutation model.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ListServices returns every catalog entry in sort order.
func (s *PostgresStore) ListServices(ctx context.Context) ([]domain.SupportService, error) {
	const op = "store.list_services"

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, tier, base_price, minimum_duration_minutes, category, included_items
		FROM support_services
		ORDER BY sort_order, id`)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list services")
	}
	defer rows.Close()

	var services []domain.SupportService
	for rows.Next() {
		var svc domain.SupportService
		var price string

		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Tier, &price, &svc.MinimumDuration, &svc.Category, &svc.IncludedItems); err != nil {
			return nil, domain.Internal(err, op, "failed to scan service row")
		}

		svc.BasePrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, domain.Internal(err, op, "invalid base price in catalog row")
		}

		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read service rows")
	}

	return services, nil
}

// CreateInvoice inserts a new invoice for a job.
func (s *PostgresStore) CreateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	const op = "store.create_invoice"

	lines, taxLines, err := marshalLines(invoice)
	if err != nil {
		return domain.Internal(err, op, "failed to encode invoice lines")
	}

	invoice.Version = 1

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO invoices (
			id, job_id, region_code, status, lines, subtotal,
			tax_lines, total_tax, grand_total, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7::jsonb, $8, $9, $10, $11, $12)
		ON CONFLICT (job_id) DO NOTHING`,
		invoice.ID, invoice.JobID, invoice.RegionCode, invoice.Status,
		lines, invoice.Subtotal.String(), taxLines, invoice.TotalTax.String(),
		invoice.GrandTotal.String(), invoice.Version, invoice.CreatedAt, invoice.UpdatedAt)
	if err != nil {
		return domain.Internal(err, op, "failed to insert invoice")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceExists
	}

	return nil
}

// GetInvoiceByJob returns the invoice for a job.
func (s *PostgresStore) GetInvoiceByJob(ctx context.Context, jobID string) (*domain.Invoice, error) {
	const op = "store.get_invoice"

	row := s.pool.QueryRow(ctx, `
		SELECT id, job_id, region_code, status, lines, subtotal,
		       tax_lines, total_tax, grand_total, version,
		       created_at, updated_at, finalized_at
		FROM invoices
		WHERE job_id = $1`, jobID)

	var (
		invoice                        domain.Invoice
		lines, taxLines                []byte
		subtotal, totalTax, grandTotal string
		finalizedAt                    *time.Time
	)

	err := row.Scan(&invoice.ID, &invoice.JobID, &invoice.RegionCode, &invoice.Status,
		&lines, &subtotal, &taxLines, &totalTax, &grandTotal, &invoice.Version,
		&invoice.CreatedAt, &invoice.UpdatedAt, &finalizedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound(op, "invoice", jobID)
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load invoice")
	}

	if err := json.Unmarshal(lines, &invoice.Lines); err != nil {
		return nil, domain.Internal(err, op, "failed to decode invoice lines")
	}
	if err := json.Unmarshal(taxLines, &invoice.TaxLines); err != nil {
		return nil, domain.Internal(err, op, "failed to decode tax lines")
	}

	if invoice.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, domain.Internal(err, op, "invalid subtotal")
	}
	if invoice.TotalTax, err = decimal.NewFromString(totalTax); err != nil {
		return nil, domain.Internal(err, op, "invalid total tax")
	}
	if invoice.GrandTotal, err = decimal.NewFromString(grandTotal); err != nil {
		return nil, domain.Internal(err, op, "invalid grand total")
	}

	invoice.FinalizedAt = finalizedAt

	return &invoice, nil
}

// UpdateInvoice writes invoice state guarded by the optimistic version
// check. A lost race returns domain.ErrConcurrentModification.
func (s *PostgresStore) UpdateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	const op = "store.update_invoice"

	lines, taxLines, err := marshalLines(invoice)
	if err != nil {
		return domain.Internal(err, op, "failed to encode invoice lines")
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE invoices
		SET status = $1, lines = $2::jsonb, subtotal = $3,
		    tax_lines = $4::jsonb, total_tax = $5, grand_total = $6,
		    updated_at = $7, finalized_at = $8, version = version + 1
		WHERE job_id = $9 AND version = $10
		RETURNING version`,
		invoice.Status, lines, invoice.Subtotal.String(),
		taxLines, invoice.TotalTax.String(), invoice.GrandTotal.String(),
		invoice.UpdatedAt, invoice.FinalizedAt, invoice.JobID, invoice.Version)

	var newVersion int
	err = row.Scan(&newVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the invoice vanished or another writer advanced the
		// version. Distinguish so callers retry only true conflicts.
		var exists bool
		if checkErr := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM invoices WHERE job_id = $1)`, invoice.JobID).Scan(&exists); checkErr != nil {
			return domain.Internal(checkErr, op, "failed to check invoice existence")
		}
		if !exists {
			return domain.NotFound(op, "invoice", invoice.JobID)
		}
		return domain.ErrConcurrentModification
	}
	if err != nil {
		return domain.Internal(err, op, "failed to update invoice")
	}

	invoice.Version = newVersion
	return nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// marshalLines encodes the line collections as JSON text for the jsonb
// columns.
func marshalLines(invoice *domain.Invoice) (lines, taxLines string, err error) {
	lineBytes, err := json.Marshal(invoice.Lines)
	if err != nil {
		return "", "", err
	}
	taxBytes, err := json.Marshal(invoice.TaxLines)
	if err != nil {
		return "", "", err
	}
	return string(lineBytes), string(taxBytes), nil
}
