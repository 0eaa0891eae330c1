package routes

import (
	"github.com/dukerupert/brokkr/internal/handler/api"
)

// APIDeps contains dependencies for the JSON API routes
type APIDeps struct {
	Health   *api.HealthHandler
	Services *api.ServiceHandler
	Quotes   *api.QuoteHandler
	Invoices *api.InvoiceHandler
}
