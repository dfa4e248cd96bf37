package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ratesheet-backend/internal/dto"
	"github.com/GregMSThompson/ratesheet-backend/internal/errs"
	"github.com/GregMSThompson/ratesheet-backend/internal/models"
	"github.com/GregMSThompson/ratesheet-backend/internal/response"
	"github.com/GregMSThompson/ratesheet-backend/pkg/logger"
)

type RateService interface {
	GetCurrentRates(ctx context.Context, kind models.SheetKind) (*models.RateSheet, error)
	GetProvinceRates(ctx context.Context, kind models.SheetKind, province string) (dto.ProvinceView, error)
	ComputeQuote(ctx context.Context, req dto.QuoteRequest) (dto.Quote, error)
	UpdateProvinceRates(ctx context.Context, kind models.SheetKind, province string, raw dto.RawRates) (*models.ProvinceRates, error)
	UpdateProvincesFromSource(ctx context.Context, kind models.SheetKind, source string, targets []string, raw dto.RawRates) (map[models.Province]*models.ProvinceRates, error)
	UpdateAllProvinces(ctx context.Context, kind models.SheetKind, raw dto.RawRates) ([]models.Province, error)
	UpdatePrime(ctx context.Context, raw dto.RawNumber) (float64, error)
	EnsureRateSheet(ctx context.Context, kind models.SheetKind) (*models.RateSheet, bool, error)
}

type rateHandlers struct {
	ResponseHandler response.ResponseHandler
	RateSvc         RateService
}

func NewRateHandlers(deps *Deps) *rateHandlers {
	return &rateHandlers{
		ResponseHandler: deps.ResponseHandler,
		RateSvc:         deps.RateSvc,
	}
}

// RateRoutes serves the public read side.
func (h *rateHandlers) RateRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{kind}", h.GetRates)
	r.Get("/{kind}/{province}", h.GetProvinceRates)
	return r
}

func (h *rateHandlers) QuoteRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateQuote)
	return r
}

// AdminRoutes serves every write. The caller decides which auth middleware
// guards it.
func (h *rateHandlers) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Put("/prime", h.UpdatePrime) // must be before /{kind}
	r.Put("/{kind}", h.UpdateAllProvinces)
	r.Post("/{kind}/init", h.InitRateSheet)
	r.Post("/{kind}/copy", h.CopyProvinceRates)
	r.Put("/{kind}/provinces/{province}", h.UpdateProvinceRates)
	return r
}

func (h *rateHandlers) GetRates(w http.ResponseWriter, r *http.Request) {
	kind, err := sheetKindParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	sheet, err := h.RateSvc.GetCurrentRates(r.Context(), kind)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, sheet)
}

func (h *rateHandlers) GetProvinceRates(w http.ResponseWriter, r *http.Request) {
	kind, err := sheetKindParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	view, err := h.RateSvc.GetProvinceRates(r.Context(), kind, chi.URLParam(r, "province"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}

func (h *rateHandlers) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	quote, err := h.RateSvc.ComputeQuote(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, quote)
}

func (h *rateHandlers) UpdateProvinceRates(w http.ResponseWriter, r *http.Request) {
	kind, err := sheetKindParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.UpdateProvinceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	rates, err := h.RateSvc.UpdateProvinceRates(r.Context(), kind, chi.URLParam(r, "province"), req.Rates)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rates)
}

func (h *rateHandlers) CopyProvinceRates(w http.ResponseWriter, r *http.Request) {
	kind, err := sheetKindParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.CopyRatesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	out, err := h.RateSvc.UpdateProvincesFromSource(r.Context(), kind, req.Source, req.Targets, req.Rates)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, out)
}

func (h *rateHandlers) UpdateAllProvinces(w http.ResponseWriter, r *http.Request) {
	kind, err := sheetKindParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.UpdateProvinceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	provinces, err := h.RateSvc.UpdateAllProvinces(r.Context(), kind, req.Rates)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.UpdateAllResponse{Provinces: provinces})
}

func (h *rateHandlers) UpdatePrime(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePrimeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	prime, err := h.RateSvc.UpdatePrime(r.Context(), req.Prime)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.PrimeResponse{Prime: prime})
}

func (h *rateHandlers) InitRateSheet(w http.ResponseWriter, r *http.Request) {
	kind, err := sheetKindParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	sheet, created, err := h.RateSvc.EnsureRateSheet(r.Context(), kind)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.ResponseHandler.WriteSuccess(w, r, status, sheet)
}

func sheetKindParam(r *http.Request) (models.SheetKind, error) {
	raw := chi.URLParam(r, "kind")
	kind, ok := models.ParseSheetKind(raw)
	if !ok {
		return "", errs.NewValidationError("unknown rate sheet: " + raw)
	}
	return kind, nil
}

// decodeJSON rejects unknown fields so misspelled slots are not dropped silently.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewValidationError("request body is empty")
		}
		logger.FromContext(r.Context()).Debug("request body rejected", "error", err)
		return errs.NewValidationError("malformed request body: " + err.Error())
	}
	return nil
}
