package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/GregMSThompson/ratesheet-backend/internal/bootstrap"
	"github.com/GregMSThompson/ratesheet-backend/internal/config"
	"github.com/GregMSThompson/ratesheet-backend/internal/services"
	"github.com/GregMSThompson/ratesheet-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// seed creates the standard and rental rate sheets when they are missing,
// then exits. Existing sheets are left untouched.
func main() {
	cfg := config.New()
	cfg.AdminAuth = false
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	rserv := services.NewRateService(store.NewRateSheetStore(bs.Firestore), nil)
	err = bootstrap.SeedRateSheets(context.Background(), rserv)
	exitOnError("rate sheet seeding failed", err, bs.Log)
	bs.Log.Info("rate sheets ready")
}
