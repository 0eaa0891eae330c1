package api

import (
	"net/http"
	"time"

	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/dukerupert/brokkr/internal/service"
	"github.com/shopspring/decimal"
)

// InvoiceHandler serves the per-job invoice lifecycle.
type InvoiceHandler struct {
	invoices service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoices service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type createInvoiceRequest struct {
	ServiceID  string                 `json:"service_id" validate:"required"`
	RegionCode string                 `json:"region_code" validate:"required,len=2"`
	Factors    *domain.PricingFactors `json:"factors"`
	Timestamp  *time.Time             `json:"timestamp"`
}

type addLineRequest struct {
	Kind        string          `json:"kind" validate:"required,oneof=hardware additional_service"`
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Create handles POST /api/jobs/{job_id}/invoice
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	quote := service.QuoteParams{
		ServiceID: req.ServiceID,
		Timestamp: req.Timestamp,
	}
	if req.Factors != nil {
		quote.Factors = *req.Factors
	}

	invoice, err := h.invoices.CreateInvoice(r.Context(), service.CreateInvoiceParams{
		JobID:      r.PathValue("job_id"),
		RegionCode: req.RegionCode,
		Quote:      quote,
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, invoice)
}

// Get handles GET /api/jobs/{job_id}/invoice
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoices.GetInvoice(r.Context(), r.PathValue("job_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// AddLine handles POST /api/jobs/{job_id}/invoice/lines
func (h *InvoiceHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	invoice, err := h.invoices.AddLine(r.Context(), service.AddLineParams{
		JobID:       r.PathValue("job_id"),
		Kind:        domain.LineKind(req.Kind),
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// Finalize handles POST /api/jobs/{job_id}/invoice/finalize
func (h *InvoiceHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoices.Finalize(r.Context(), r.PathValue("job_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}
