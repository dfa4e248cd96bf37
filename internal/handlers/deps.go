package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/ratesheet-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	RateSvc         RateService
}
