package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/ratesheet-backend/internal/handlers"
	"github.com/GregMSThompson/ratesheet-backend/internal/metrics"
	"github.com/GregMSThompson/ratesheet-backend/internal/middleware"
)

type Options struct {
	// AdminAuth guards /admin. Nil leaves the admin routes open.
	AdminAuth   func(http.Handler) http.Handler
	MetricsPath string
}

func NewRouter(deps *handlers.Deps, opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	rh := handlers.NewRateHandlers(deps)

	r.Mount("/rates", rh.RateRoutes())
	r.Mount("/quotes", rh.QuoteRoutes())
	r.Route("/admin", func(r chi.Router) {
		if opts.AdminAuth != nil {
			r.Use(opts.AdminAuth)
		}
		r.Mount("/rates", rh.AdminRoutes())
	})

	if opts.MetricsPath != "" {
		r.Method(http.MethodGet, opts.MetricsPath, metrics.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}
