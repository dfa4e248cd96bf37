package services

import (
	"context"
	"time"

	"github.com/GregMSThompson/ratesheet-backend/internal/dto"
	"github.com/GregMSThompson/ratesheet-backend/internal/errs"
	"github.com/GregMSThompson/ratesheet-backend/internal/metrics"
	"github.com/GregMSThompson/ratesheet-backend/internal/models"
	"github.com/GregMSThompson/ratesheet-backend/internal/rates"
	"github.com/GregMSThompson/ratesheet-backend/pkg/helpers"
	"github.com/GregMSThompson/ratesheet-backend/pkg/logger"
)

// rateSheetStore is the persistence interface for the current rate sheets.
type rateSheetStore interface {
	FindLatest(ctx context.Context, kind models.SheetKind) (*models.RateSheet, error)
	PatchLatest(ctx context.Context, kind models.SheetKind, patch rates.Patch) (*models.RateSheet, error)
	InsertIfAbsent(ctx context.Context, kind models.SheetKind, doc *models.RateSheet) (*models.RateSheet, bool, error)
}

type rateService struct {
	store  rateSheetStore
	ladder rates.Ladder
	now    func() time.Time
}

func NewRateService(store rateSheetStore, ladder rates.Ladder) *rateService {
	if ladder == nil {
		ladder = rates.DefaultLadder
	}
	return &rateService{store: store, ladder: ladder, now: time.Now}
}

func (s *rateService) GetCurrentRates(ctx context.Context, kind models.SheetKind) (*models.RateSheet, error) {
	return s.store.FindLatest(ctx, kind)
}

// GetProvinceRates returns one province of the current sheet with each term
// expanded into its bucket ladder.
func (s *rateService) GetProvinceRates(ctx context.Context, kind models.SheetKind, province string) (dto.ProvinceView, error) {
	p, err := parseProvince(province)
	if err != nil {
		return dto.ProvinceView{}, err
	}
	sheet, err := s.store.FindLatest(ctx, kind)
	if err != nil {
		return dto.ProvinceView{}, err
	}
	pr := sheet.Province(p)
	if pr == nil {
		return dto.ProvinceView{}, errs.NewNotFoundError("no rates stored for " + p.String())
	}

	prime, hasPrime, err := s.resolvePrime(ctx, kind, sheet, p)
	if err != nil {
		return dto.ProvinceView{}, err
	}

	view := dto.ProvinceView{
		Province:   p,
		Rates:      pr,
		LadderBase: models.Under65,
		Ladders:    make(map[models.Term]map[models.Bucket]float64, len(models.Terms)),
	}
	if hasPrime {
		view.Prime = helpers.Ptr(prime)
	}
	for _, t := range models.Terms {
		if t.IsVariable() && !hasPrime {
			continue
		}
		view.Ladders[t] = s.ladder.ExpandBlock(*pr.Term(t), prime, t.IsVariable())
	}
	return view, nil
}

// UpdateProvinceRates validates raw and writes it under a single province.
func (s *rateService) UpdateProvinceRates(ctx context.Context, kind models.SheetKind, province string, raw dto.RawRates) (*models.ProvinceRates, error) {
	log := logger.FromContext(ctx)

	p, err := parseProvince(province)
	if err != nil {
		return nil, err
	}
	formatted, err := rates.FormatRates(raw, kind)
	if err != nil {
		metrics.IncRateUpdate(string(kind), metrics.ModeOne, metrics.OutcomeInvalid)
		return nil, err
	}
	patch, err := rates.UpdateOne(p, formatted)
	if err != nil {
		return nil, err
	}

	sheet, err := s.apply(ctx, kind, metrics.ModeOne, patch)
	if err != nil {
		return nil, err
	}
	log.Info("province rates updated", "sheet", kind, "province", p.String(), "fields", len(patch))
	return sheet.Province(p), nil
}

// UpdateProvincesFromSource writes raw under the source province and copies
// the same values to every target.
func (s *rateService) UpdateProvincesFromSource(ctx context.Context, kind models.SheetKind, source string, targets []string, raw dto.RawRates) (map[models.Province]*models.ProvinceRates, error) {
	log := logger.FromContext(ctx)

	src, err := parseProvince(source)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		metrics.IncRateUpdate(string(kind), metrics.ModeMany, metrics.OutcomeInvalid)
		return nil, errs.NewNoTargetsError()
	}
	dst := make([]models.Province, 0, len(targets))
	for _, code := range targets {
		p, err := parseProvince(code)
		if err != nil {
			return nil, err
		}
		dst = append(dst, p)
	}
	formatted, err := rates.FormatRates(raw, kind)
	if err != nil {
		metrics.IncRateUpdate(string(kind), metrics.ModeMany, metrics.OutcomeInvalid)
		return nil, err
	}
	patch, err := rates.UpdateMany(src, dst, formatted)
	if err != nil {
		return nil, err
	}

	sheet, err := s.apply(ctx, kind, metrics.ModeMany, patch)
	if err != nil {
		return nil, err
	}

	touched := patch.Provinces()
	out := make(map[models.Province]*models.ProvinceRates, len(touched))
	for _, p := range touched {
		out[p] = sheet.Province(p)
	}
	log.Info("province rates copied", "sheet", kind, "source", src.String(), "targets", len(dst), "fields", len(patch))
	return out, nil
}

// UpdateAllProvinces writes the same term structure under all 13 provinces.
func (s *rateService) UpdateAllProvinces(ctx context.Context, kind models.SheetKind, raw dto.RawRates) ([]models.Province, error) {
	log := logger.FromContext(ctx)

	if raw.Prime != nil {
		metrics.IncRateUpdate(string(kind), metrics.ModeAll, metrics.OutcomeInvalid)
		return nil, errs.NewValidationError("prime cannot be set through the all-provinces update")
	}
	formatted, err := rates.FormatRates(raw, kind)
	if err != nil {
		metrics.IncRateUpdate(string(kind), metrics.ModeAll, metrics.OutcomeInvalid)
		return nil, err
	}
	patch, err := rates.UpdateAll(formatted)
	if err != nil {
		return nil, err
	}

	if _, err := s.apply(ctx, kind, metrics.ModeAll, patch); err != nil {
		return nil, err
	}
	touched := patch.Provinces()
	log.Info("all province rates updated", "sheet", kind, "provinces", len(touched), "fields", len(patch))
	return touched, nil
}

// UpdatePrime sets the prime shared by every province on the standard sheet.
func (s *rateService) UpdatePrime(ctx context.Context, raw dto.RawNumber) (float64, error) {
	log := logger.FromContext(ctx)

	v, err := rates.FormatPrime(raw.String())
	if err != nil {
		metrics.IncRateUpdate(string(models.SheetStandard), metrics.ModePrime, metrics.OutcomeInvalid)
		return 0, err
	}
	sheet, err := s.apply(ctx, models.SheetStandard, metrics.ModePrime, rates.UpdatePrime(v))
	if err != nil {
		return 0, err
	}
	v = helpers.ValueOr(sheet.Prime, v)
	log.Info("prime updated", "prime", v)
	return v, nil
}

// EnsureRateSheet performs the cold-start insert. An existing sheet is
// returned untouched.
func (s *rateService) EnsureRateSheet(ctx context.Context, kind models.SheetKind) (*models.RateSheet, bool, error) {
	log := logger.FromContext(ctx)

	sheet, created, err := s.store.InsertIfAbsent(ctx, kind, models.NewRateSheet(kind, s.now()))
	if err != nil {
		return nil, false, err
	}
	if created {
		log.Info("rate sheet initialised", "sheet", kind, "doc_id", sheet.ID)
	}
	return sheet, created, nil
}

func (s *rateService) apply(ctx context.Context, kind models.SheetKind, mode string, patch rates.Patch) (*models.RateSheet, error) {
	sheet, err := s.store.PatchLatest(ctx, kind, patch)
	if err != nil {
		outcome := metrics.OutcomeError
		if _, ok := err.(*errs.NotFoundError); ok {
			outcome = metrics.OutcomeNotFound
		}
		metrics.IncRateUpdate(string(kind), mode, outcome)
		logger.FromContext(ctx).Error("failed to apply rate patch", "sheet", kind, "mode", mode, "error", err)
		return nil, err
	}
	metrics.IncRateUpdate(string(kind), mode, metrics.OutcomeApplied)
	return sheet, nil
}

// resolvePrime finds the prime that variable terms of sheet are priced on.
// Only the standard sheet stores prime, so rental sheets read it from there.
// ok is false when no prime is stored anywhere.
func (s *rateService) resolvePrime(ctx context.Context, kind models.SheetKind, sheet *models.RateSheet, p models.Province) (float64, bool, error) {
	if kind != models.SheetRental {
		prime, ok := sheet.EffectivePrime(p)
		return prime, ok, nil
	}
	standard, err := s.store.FindLatest(ctx, models.SheetStandard)
	if err != nil {
		if _, ok := err.(*errs.NotFoundError); ok {
			return 0, false, nil
		}
		return 0, false, err
	}
	prime, ok := standard.EffectivePrime(p)
	return prime, ok, nil
}

func parseProvince(code string) (models.Province, error) {
	p, ok := models.ParseProvince(code)
	if !ok {
		return 0, errs.NewValidationError("unknown province code: " + code)
	}
	return p, nil
}
