package api

import (
	"net/http"
	"time"

	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/dukerupert/brokkr/internal/service"
)

// QuoteHandler prices services over HTTP.
type QuoteHandler struct {
	quotes service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quotes service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

type quoteRequest struct {
	ServiceID string                 `json:"service_id" validate:"required"`
	Factors   *domain.PricingFactors `json:"factors"`
	Timestamp *time.Time             `json:"timestamp"`
}

// Create handles POST /api/quotes
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	params := service.QuoteParams{
		ServiceID: req.ServiceID,
		Timestamp: req.Timestamp,
	}
	if req.Factors != nil {
		params.Factors = *req.Factors
	}

	breakdown, err := h.quotes.Quote(r.Context(), params)
	if err != nil {
		fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, breakdown)
}
