package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ratesheet-backend/internal/dto"
	"github.com/GregMSThompson/ratesheet-backend/internal/errs"
	"github.com/GregMSThompson/ratesheet-backend/internal/models"
)

// --- Stub service ---

type stubRateService struct {
	called bool

	sheet     *models.RateSheet
	view      dto.ProvinceView
	quote     dto.Quote
	province  *models.ProvinceRates
	copied    map[models.Province]*models.ProvinceRates
	provinces []models.Province
	prime     float64
	created   bool
	err       error

	lastKind     models.SheetKind
	lastProvince string
	lastSource   string
	lastTargets  []string
	lastRaw      dto.RawRates
	lastPrime    dto.RawNumber
	lastQuote    dto.QuoteRequest
}

func (s *stubRateService) GetCurrentRates(_ context.Context, kind models.SheetKind) (*models.RateSheet, error) {
	s.called = true
	s.lastKind = kind
	return s.sheet, s.err
}

func (s *stubRateService) GetProvinceRates(_ context.Context, kind models.SheetKind, province string) (dto.ProvinceView, error) {
	s.called = true
	s.lastKind = kind
	s.lastProvince = province
	return s.view, s.err
}

func (s *stubRateService) ComputeQuote(_ context.Context, req dto.QuoteRequest) (dto.Quote, error) {
	s.called = true
	s.lastQuote = req
	return s.quote, s.err
}

func (s *stubRateService) UpdateProvinceRates(_ context.Context, kind models.SheetKind, province string, raw dto.RawRates) (*models.ProvinceRates, error) {
	s.called = true
	s.lastKind = kind
	s.lastProvince = province
	s.lastRaw = raw
	return s.province, s.err
}

func (s *stubRateService) UpdateProvincesFromSource(_ context.Context, kind models.SheetKind, source string, targets []string, raw dto.RawRates) (map[models.Province]*models.ProvinceRates, error) {
	s.called = true
	s.lastKind = kind
	s.lastSource = source
	s.lastTargets = targets
	s.lastRaw = raw
	return s.copied, s.err
}

func (s *stubRateService) UpdateAllProvinces(_ context.Context, kind models.SheetKind, raw dto.RawRates) ([]models.Province, error) {
	s.called = true
	s.lastKind = kind
	s.lastRaw = raw
	return s.provinces, s.err
}

func (s *stubRateService) UpdatePrime(_ context.Context, raw dto.RawNumber) (float64, error) {
	s.called = true
	s.lastPrime = raw
	return s.prime, s.err
}

func (s *stubRateService) EnsureRateSheet(_ context.Context, kind models.SheetKind) (*models.RateSheet, bool, error) {
	s.called = true
	s.lastKind = kind
	return s.sheet, s.created, s.err
}

// --- Stub response handler ---

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, _, _ string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

func newRateHandlersForTest(svc *stubRateService) (*rateHandlers, *stubResponseHandler) {
	resp := &stubResponseHandler{}
	return NewRateHandlers(&Deps{ResponseHandler: resp, RateSvc: svc}), resp
}

// withChiParams injects chi URL parameters into the request context.
func withChiParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func TestGetRatesSuccess(t *testing.T) {
	svc := &stubRateService{sheet: &models.RateSheet{ID: "doc-1"}}
	h, resp := newRateHandlersForTest(svc)

	req := withChiParams(httptest.NewRequest(http.MethodGet, "/rental", nil), "kind", "rental")
	rr := httptest.NewRecorder()
	h.GetRates(rr, req)

	if svc.lastKind != models.SheetRental {
		t.Fatalf("expected rental sheet, got %q", svc.lastKind)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	if resp.writeSuccessData.(*models.RateSheet).ID != "doc-1" {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestGetRatesUnknownKind(t *testing.T) {
	svc := &stubRateService{}
	h, resp := newRateHandlersForTest(svc)

	req := withChiParams(httptest.NewRequest(http.MethodGet, "/commercial", nil), "kind", "commercial")
	h.GetRates(httptest.NewRecorder(), req)

	if svc.called {
		t.Fatalf("service should not be called for an unknown sheet")
	}
	var ve *errs.ValidationError
	if !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestGetProvinceRatesPassesProvince(t *testing.T) {
	svc := &stubRateService{view: dto.ProvinceView{Province: models.QC}}
	h, resp := newRateHandlersForTest(svc)

	rr := httptest.NewRecorder()
	h.RateRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/standard/qc", nil))

	if svc.lastKind != models.SheetStandard || svc.lastProvince != "qc" {
		t.Fatalf("unexpected args: %q %q", svc.lastKind, svc.lastProvince)
	}
	if !resp.writeSuccessCalled {
		t.Fatalf("expected WriteSuccess")
	}
}

func TestCreateQuote(t *testing.T) {
	svc := &stubRateService{quote: dto.Quote{Bucket: models.Under80}}
	h, resp := newRateHandlersForTest(svc)

	body := `{"province":"ON","mortgageBalance":400000,"propertyValue":500000,"amortizationYears":25}`
	rr := httptest.NewRecorder()
	h.CreateQuote(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body)))

	if svc.lastQuote.Province != "ON" || svc.lastQuote.PropertyValue != 500000 {
		t.Fatalf("unexpected quote request: %+v", svc.lastQuote)
	}
	if resp.writeSuccessData.(dto.Quote).Bucket != models.Under80 {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestCreateQuoteInvalidJSON(t *testing.T) {
	svc := &stubRateService{}
	h, resp := newRateHandlersForTest(svc)

	h.CreateQuote(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader("not-json")))

	if svc.called {
		t.Fatalf("service should not be called when JSON invalid")
	}
	if !errs.IsValidation(resp.handleError) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestUpdateProvinceRatesRejectsUnknownField(t *testing.T) {
	svc := &stubRateService{}
	h, resp := newRateHandlersForTest(svc)

	body := `{"rates":{"fiveYrFixed":{"under66":{"value":"4.5"}}}}`
	req := httptest.NewRequest(http.MethodPut, "/standard/provinces/ON", strings.NewReader(body))
	h.AdminRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if svc.called {
		t.Fatalf("service should not be called for an unknown slot")
	}
	if !errs.IsValidation(resp.handleError) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestUpdateProvinceRates(t *testing.T) {
	svc := &stubRateService{province: &models.ProvinceRates{}}
	h, resp := newRateHandlersForTest(svc)

	body := `{"rates":{"fiveYrFixed":{"under65":{"value":"4.5","lender":"MCAP"}},"prime":6.95}}`
	req := httptest.NewRequest(http.MethodPut, "/standard/provinces/ON", strings.NewReader(body))
	h.AdminRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if svc.lastProvince != "ON" || svc.lastKind != models.SheetStandard {
		t.Fatalf("unexpected args: %q %q", svc.lastKind, svc.lastProvince)
	}
	if svc.lastRaw.FiveYrFixed == nil || svc.lastRaw.FiveYrFixed.Under65.Value != "4.5" {
		t.Fatalf("raw rates not forwarded: %+v", svc.lastRaw)
	}
	if svc.lastRaw.Prime == nil || *svc.lastRaw.Prime != "6.95" {
		t.Fatalf("numeric prime not kept verbatim: %v", svc.lastRaw.Prime)
	}
	if resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.writeSuccessStatus)
	}
}

func TestCopyProvinceRates(t *testing.T) {
	svc := &stubRateService{copied: map[models.Province]*models.ProvinceRates{}}
	h, _ := newRateHandlersForTest(svc)

	body := `{"source":"ON","targets":["AB","BC"],"rates":{"threeYrVariable":{"under65":{"value":-0.4}}}}`
	req := httptest.NewRequest(http.MethodPost, "/rental/copy", strings.NewReader(body))
	h.AdminRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if svc.lastSource != "ON" || len(svc.lastTargets) != 2 || svc.lastKind != models.SheetRental {
		t.Fatalf("unexpected args: %+v", svc)
	}
}

func TestUpdateAllProvincesServiceError(t *testing.T) {
	svc := &stubRateService{err: errs.NewNotFoundError("no rate sheet")}
	h, resp := newRateHandlersForTest(svc)

	body := `{"rates":{"fourYrFixed":{"over80":{"value":"5"}}}}`
	req := httptest.NewRequest(http.MethodPut, "/standard", strings.NewReader(body))
	h.AdminRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if !resp.handleErrorCalled || !errors.Is(resp.handleError, svc.err) {
		t.Fatalf("expected service error to be delegated, got %v", resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatalf("WriteSuccess should not be called on service error")
	}
}

func TestUpdatePrime(t *testing.T) {
	svc := &stubRateService{prime: 7.2}
	h, resp := newRateHandlersForTest(svc)

	req := httptest.NewRequest(http.MethodPut, "/prime", strings.NewReader(`{"prime":"7.2"}`))
	h.AdminRoutes().ServeHTTP(httptest.NewRecorder(), req)

	if svc.lastPrime != "7.2" {
		t.Fatalf("unexpected prime forwarded: %q", svc.lastPrime)
	}
	got, ok := resp.writeSuccessData.(dto.PrimeResponse)
	if !ok || got.Prime != 7.2 {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
	b, _ := json.Marshal(got)
	if string(b) != `{"prime":7.2}` {
		t.Fatalf("unexpected encoding: %s", b)
	}
}

func TestInitRateSheetStatus(t *testing.T) {
	for _, tc := range []struct {
		created bool
		status  int
	}{
		{true, http.StatusCreated},
		{false, http.StatusOK},
	} {
		svc := &stubRateService{sheet: &models.RateSheet{}, created: tc.created}
		h, resp := newRateHandlersForTest(svc)

		req := httptest.NewRequest(http.MethodPost, "/standard/init", nil)
		h.AdminRoutes().ServeHTTP(httptest.NewRecorder(), req)

		if resp.writeSuccessStatus != tc.status {
			t.Fatalf("created=%v: expected %d, got %d", tc.created, tc.status, resp.writeSuccessStatus)
		}
	}
}
