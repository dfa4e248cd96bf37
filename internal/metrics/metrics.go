package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Update modes.
const (
	ModeOne   = "one"
	ModeMany  = "many"
	ModeAll   = "all"
	ModePrime = "prime"
)

// Outcomes.
const (
	OutcomeApplied     = "applied"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
	OutcomeOK          = "ok"
	OutcomeUnavailable = "payment_unavailable"
)

var (
	// Admin writes against the current rate sheets.
	RateUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_sheet_updates_total",
			Help: "Rate sheet update attempts by sheet, propagation mode and outcome.",
		},
		[]string{"sheet", "mode", "outcome"},
	)

	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_quotes_total",
			Help: "Quotes served by sheet and outcome. Unavailable payments are counted per term.",
		},
		[]string{"sheet", "outcome"},
	)
)

func IncRateUpdate(sheet, mode, outcome string) {
	RateUpdatesTotal.WithLabelValues(sheet, mode, outcome).Inc()
}

func IncQuote(sheet, outcome string) {
	QuotesTotal.WithLabelValues(sheet, outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
