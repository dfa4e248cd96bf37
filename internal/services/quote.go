package services

import (
	"context"
	"math"

	"github.com/GregMSThompson/ratesheet-backend/internal/dto"
	"github.com/GregMSThompson/ratesheet-backend/internal/errs"
	"github.com/GregMSThompson/ratesheet-backend/internal/metrics"
	"github.com/GregMSThompson/ratesheet-backend/internal/models"
	"github.com/GregMSThompson/ratesheet-backend/internal/rates"
	"github.com/GregMSThompson/ratesheet-backend/pkg/helpers"
	"github.com/GregMSThompson/ratesheet-backend/pkg/logger"
)

const defaultAmortizationYears = 25

// ComputeQuote prices every term for the caller's LTV bucket. A payment that
// cannot be computed, or a variable term with no prime to price on, is
// reported as unavailable instead of failing the quote.
func (s *rateService) ComputeQuote(ctx context.Context, req dto.QuoteRequest) (dto.Quote, error) {
	log := logger.FromContext(ctx)

	if err := validateQuoteRequest(req); err != nil {
		return dto.Quote{}, err
	}
	p, err := parseProvince(req.Province)
	if err != nil {
		return dto.Quote{}, err
	}
	kind := models.SheetStandard
	if req.Sheet != "" {
		k, ok := models.ParseSheetKind(req.Sheet)
		if !ok {
			return dto.Quote{}, errs.NewValidationError("unknown sheet: " + req.Sheet)
		}
		kind = k
	}
	years := req.AmortizationYears
	if years == 0 {
		years = defaultAmortizationYears
	}

	sheet, err := s.store.FindLatest(ctx, kind)
	if err != nil {
		return dto.Quote{}, err
	}
	pr := sheet.Province(p)
	if pr == nil {
		return dto.Quote{}, errs.NewNotFoundError("no rates stored for " + p.String())
	}
	prime, hasPrime, err := s.resolvePrime(ctx, kind, sheet, p)
	if err != nil {
		return dto.Quote{}, err
	}
	if !hasPrime {
		log.Warn("no prime stored, variable terms unavailable", "sheet", kind, "province", p.String())
	}

	principal := req.Principal()
	bucket := rates.SelectBucket(principal, req.PropertyValue)
	ltv, _ := rates.LTV(principal, req.PropertyValue)

	quote := dto.Quote{
		Province:  p,
		Bucket:    bucket,
		LTV:       rates.RoundCents(ltv),
		Principal: principal,
		Terms:     make([]dto.TermQuote, 0, len(models.Terms)),
	}
	if hasPrime {
		quote.Prime = helpers.Ptr(prime)
	}
	for _, t := range models.Terms {
		block := pr.Term(t)
		if t.IsVariable() && !hasPrime {
			metrics.IncQuote(string(kind), metrics.OutcomeUnavailable)
			quote.Terms = append(quote.Terms, dto.TermQuote{
				Term:   t,
				Lender: block.Bucket(bucket).Lender,
			})
			continue
		}
		rate := s.ladder.ExpandBlock(*block, prime, t.IsVariable())[bucket]
		tq := dto.TermQuote{
			Term:   t,
			Rate:   helpers.Ptr(rate),
			Lender: block.Bucket(bucket).Lender,
		}
		payment, err := rates.MonthlyPayment(principal, rate, years)
		if err != nil {
			log.Warn("monthly payment not available", "term", t.String(), "error", err)
			metrics.IncQuote(string(kind), metrics.OutcomeUnavailable)
		} else {
			tq.MonthlyPayment = helpers.Ptr(rates.RoundCents(payment))
			tq.Available = true
		}
		quote.Terms = append(quote.Terms, tq)
	}

	metrics.IncQuote(string(kind), metrics.OutcomeOK)
	log.Debug("quote computed", "province", p.String(), "bucket", bucket.String(), "principal", principal)
	return quote, nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// validateQuoteRequest checks the request shape only. Amounts that merely make
// the payment uncomputable are let through and degrade per term.
func validateQuoteRequest(req dto.QuoteRequest) error {
	if req.Province == "" {
		return errs.NewValidationError("province is required")
	}
	if !validAmount(req.MortgageBalance) || !validAmount(req.BorrowAdditionalAmount) || !validAmount(req.PropertyValue) {
		return errs.NewValidationError("amounts must be non-negative numbers")
	}
	if req.AmortizationYears < 0 || req.AmortizationYears > 40 {
		return errs.NewValidationError("amortizationYears must be between 0 and 40")
	}
	return nil
}
