package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/ratesheet-backend/internal/bootstrap"
	"github.com/GregMSThompson/ratesheet-backend/internal/config"
	"github.com/GregMSThompson/ratesheet-backend/internal/handlers"
	"github.com/GregMSThompson/ratesheet-backend/internal/middleware"
	"github.com/GregMSThompson/ratesheet-backend/internal/response"
	"github.com/GregMSThompson/ratesheet-backend/internal/router"
	"github.com/GregMSThompson/ratesheet-backend/internal/services"
	"github.com/GregMSThompson/ratesheet-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	rstore := store.NewRateSheetStore(bs.Firestore)

	// services
	rserv := services.NewRateService(rstore, nil)

	if cfg.SeedRates {
		err = bootstrap.SeedRateSheets(context.Background(), rserv)
		exitOnError("rate sheet seeding failed", err, bs.Log)
	}

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.RateSvc = rserv

	opts := router.Options{MetricsPath: cfg.MetricsPath}
	if cfg.AdminAuth {
		opts.AdminAuth = middleware.NewMiddleware(bs.Firebase, cfg.AdminClaim).FirebaseAuth
	} else {
		bs.Log.Warn("admin routes are not authenticated")
	}

	// router
	r := router.NewRouter(deps, opts)
	bs.Log.Info("listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
