package bootstrap

import (
	"context"

	"github.com/GregMSThompson/ratesheet-backend/internal/models"
)

type rateSheetSeeder interface {
	EnsureRateSheet(ctx context.Context, kind models.SheetKind) (*models.RateSheet, bool, error)
}

// SeedRateSheets runs the cold-start insert for every sheet kind.
func SeedRateSheets(ctx context.Context, svc rateSheetSeeder) error {
	for _, kind := range []models.SheetKind{models.SheetStandard, models.SheetRental} {
		if _, _, err := svc.EnsureRateSheet(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}
