package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// BusinessMetrics holds Prometheus metrics for business-level
// observability of the pricing engine.
type BusinessMetrics struct {
	// Pricing
	QuotesPriced   *prometheus.CounterVec // by service tier
	QuotesRejected *prometheus.CounterVec // by error code
	QuoteValue     prometheus.Histogram

	// Invoices
	InvoicesCreated    prometheus.Counter
	InvoiceLinesAdded  *prometheus.CounterVec // by line kind
	InvoicesFinalized  prometheus.Counter
	InvoiceValue       prometheus.Histogram
	InvoiceConflicts   prometheus.Counter

	// Tax
	TaxComputed *prometheus.CounterVec // by region code
}

// NewBusinessMetrics creates and registers the business metric collectors.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "brokkr"
	}

	return &BusinessMetrics{
		QuotesPriced: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_priced_total",
			Help:      "Total quotes priced, by service tier",
		}, []string{"tier"}),

		QuotesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_rejected_total",
			Help:      "Total quote requests rejected, by error code",
		}, []string{"code"}),

		QuoteValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_value_dollars",
			Help:      "Final quoted price in dollars",
			Buckets:   []float64{25, 50, 100, 200, 400, 800, 1600},
		}),

		InvoicesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_created_total",
			Help:      "Total invoices created",
		}),

		InvoiceLinesAdded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_lines_added_total",
			Help:      "Total lines appended to invoices, by kind",
		}, []string{"kind"}),

		InvoicesFinalized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_finalized_total",
			Help:      "Total invoices finalized",
		}),

		InvoiceValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoice_grand_total_dollars",
			Help:      "Grand total of finalized invoices in dollars",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000},
		}),

		InvoiceConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_version_conflicts_total",
			Help:      "Optimistic concurrency conflicts on invoice writes",
		}),

		TaxComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tax_computations_total",
			Help:      "Total tax computations, by region code",
		}, []string{"region"}),
	}
}

// ObserveDollars records a decimal dollar amount on a histogram.
func ObserveDollars(h prometheus.Histogram, amount decimal.Decimal) {
	if h == nil {
		return
	}
	f, _ := amount.Float64()
	h.Observe(f)
}
