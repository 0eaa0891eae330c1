package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/brokkr/internal/catalog"
	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/dukerupert/brokkr/internal/events"
	"github.com/dukerupert/brokkr/internal/handler/api"
	"github.com/dukerupert/brokkr/internal/pricing"
	"github.com/dukerupert/brokkr/internal/router"
	"github.com/dukerupert/brokkr/internal/routes"
	"github.com/dukerupert/brokkr/internal/service"
	"github.com/dukerupert/brokkr/internal/store"
	"github.com/dukerupert/brokkr/internal/tax"
	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	mem := store.NewMemoryStore()
	mem.SeedServices([]domain.SupportService{
		{
			ID:              "svc-diagnostics",
			Name:            "On-site diagnostics",
			Tier:            domain.TierIntermediate,
			BasePrice:       decimal.NewFromInt(75),
			MinimumDuration: 60,
			Category:        "diagnostics",
		},
	})

	cat, err := catalog.Load(context.Background(), mem)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	quotes := service.NewQuoteService(cat, pricing.NewCalculator(pricing.DefaultTables()), nil)
	invoices := service.NewInvoiceService(
		mem, cat, quotes,
		tax.NewRegionalCalculator(tax.DefaultRegions()),
		events.NewNoopPublisher(), logger, nil,
	)

	r := router.New()
	routes.RegisterAPIRoutes(r, routes.APIDeps{
		Health:   api.NewHealthHandler(mem),
		Services: api.NewServiceHandler(cat),
		Quotes:   api.NewQuoteHandler(quotes),
		Invoices: api.NewInvoiceHandler(invoices),
	})

	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const boundaryQuoteBody = `{
	"service_id": "svc-diagnostics",
	"factors": {
		"time_of_day": "midnight",
		"day": "weekend",
		"urgency": "urgent",
		"estimated_duration_minutes": 60,
		"demand_multiplier": "1"
	}
}`

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestListServices(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/services", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Services []domain.SupportService `json:"services"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(body.Services) != 1 || body.Services[0].ID != "svc-diagnostics" {
		t.Errorf("unexpected services: %+v", body.Services)
	}
}

func TestGetService_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/services/svc-missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCreateQuote(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes", boundaryQuoteBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var breakdown domain.PriceBreakdown
	if err := json.NewDecoder(rec.Body).Decode(&breakdown); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if !breakdown.FinalPrice.Equal(decimal.NewFromInt(210)) {
		t.Errorf("final price = %s, want 210", breakdown.FinalPrice)
	}
	if len(breakdown.Adjustments) != 3 {
		t.Errorf("adjustments = %d, want 3", len(breakdown.Adjustments))
	}
}

func TestCreateQuote_ValidationError(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes", `{"factors": {"urgency": "low"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Error.Code != domain.EINVALID {
		t.Errorf("code = %q, want %q", body.Error.Code, domain.EINVALID)
	}
	if _, ok := body.Error.Fields["serviceid"]; !ok {
		t.Errorf("expected a field error for the missing service id, got %v", body.Error.Fields)
	}
}

func TestCreateQuote_MalformedJSON(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes", `{"service_id": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

const createInvoiceBody = `{
	"service_id": "svc-diagnostics",
	"region_code": "QC",
	"factors": {
		"time_of_day": "midnight",
		"day": "weekend",
		"urgency": "urgent",
		"estimated_duration_minutes": 60,
		"demand_multiplier": "1"
	}
}`

func TestInvoiceLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Create
	rec := doJSON(t, srv, http.MethodPost, "/api/jobs/job-7/invoice", createInvoiceBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var invoice domain.Invoice
	if err := json.NewDecoder(rec.Body).Decode(&invoice); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !invoice.Subtotal.Equal(decimal.NewFromInt(210)) {
		t.Errorf("subtotal = %s, want 210", invoice.Subtotal)
	}
	if !invoice.GrandTotal.Equal(decimal.NewFromFloat(241.45)) {
		t.Errorf("grand total = %s, want 241.45", invoice.GrandTotal)
	}

	// Duplicate create conflicts
	rec = doJSON(t, srv, http.MethodPost, "/api/jobs/job-7/invoice", createInvoiceBody)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", rec.Code)
	}

	// Read back
	rec = doJSON(t, srv, http.MethodGet, "/api/jobs/job-7/invoice", "")
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d, want 200", rec.Code)
	}

	// Append a hardware line
	rec = doJSON(t, srv, http.MethodPost, "/api/jobs/job-7/invoice/lines",
		`{"kind": "hardware", "description": "Replacement SSD", "quantity": 1, "unit_price": "49.99"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add line status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if err := json.NewDecoder(rec.Body).Decode(&invoice); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(invoice.Lines) != 2 {
		t.Errorf("lines = %d, want 2", len(invoice.Lines))
	}

	// Finalize
	rec = doJSON(t, srv, http.MethodPost, "/api/jobs/job-7/invoice/finalize", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("finalize status = %d, want 200", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&invoice); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if invoice.Status != domain.InvoiceFinalized {
		t.Errorf("status = %s, want finalized", invoice.Status)
	}

	// Lines after finalize conflict
	rec = doJSON(t, srv, http.MethodPost, "/api/jobs/job-7/invoice/lines",
		`{"kind": "hardware", "description": "Late part", "quantity": 1, "unit_price": "5.00"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("post-finalize add line status = %d, want 409", rec.Code)
	}
}

func TestCreateInvoice_UnknownRegion(t *testing.T) {
	srv := newTestServer(t)

	body := strings.Replace(createInvoiceBody, `"QC"`, `"ZZ"`, 1)
	rec := doJSON(t, srv, http.MethodPost, "/api/jobs/job-9/invoice", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestGetInvoice_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/jobs/ghost/invoice", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
