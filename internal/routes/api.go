package routes

import (
	"github.com/dukerupert/brokkr/internal/router"
)

// RegisterAPIRoutes registers the pricing engine's JSON API.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	r.Get("/health", deps.Health.Check)

	// Catalog reads
	r.Get("/api/services", deps.Services.List)
	r.Get("/api/services/{id}", deps.Services.Get)

	// Quotes
	r.Post("/api/quotes", deps.Quotes.Create)

	// Invoice lifecycle, keyed by job
	r.Post("/api/jobs/{job_id}/invoice", deps.Invoices.Create)
	r.Get("/api/jobs/{job_id}/invoice", deps.Invoices.Get)
	r.Post("/api/jobs/{job_id}/invoice/lines", deps.Invoices.AddLine)
	r.Post("/api/jobs/{job_id}/invoice/finalize", deps.Invoices.Finalize)
}
