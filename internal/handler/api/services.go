package api

import (
	"net/http"

	"github.com/dukerupert/brokkr/internal/catalog"
)

// ServiceHandler serves catalog reads.
type ServiceHandler struct {
	catalog *catalog.Catalog
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(cat *catalog.Catalog) *ServiceHandler {
	return &ServiceHandler{catalog: cat}
}

// List handles GET /api/services
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"services": h.catalog.List(),
	})
}

// Get handles GET /api/services/{id}
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalog.Get(r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, svc)
}
