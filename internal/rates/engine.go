package rates

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ratesheet-backend/internal/errs"
	"github.com/GregMSThompson/ratesheet-backend/internal/models"
)

// nearZeroRate is the monthly rate below which the payment falls back to
// straight-line amortization.
const nearZeroRate = 1e-12

// Ladder is the additive risk premium, in percentage points, applied on top
// of the best-LTV rate for each bucket.
type Ladder map[models.Bucket]decimal.Decimal

var DefaultLadder = Ladder{
	models.Under65: decimal.RequireFromString("0.0"),
	models.Under70: decimal.RequireFromString("0.1"),
	models.Under75: decimal.RequireFromString("0.2"),
	models.Under80: decimal.RequireFromString("0.3"),
	models.Over80:  decimal.RequireFromString("0.4"),
}

func (l Ladder) Offset(b models.Bucket) decimal.Decimal {
	return l[b]
}

// BucketRates is the displayed annual rate per bucket.
type BucketRates map[models.Bucket]float64

// Expand derives every bucket's displayed rate from a term's base. For fixed
// terms base is the best-LTV rate; for variable terms it is the adjustment to
// prime.
func (l Ladder) Expand(base, prime float64, isVariable bool) BucketRates {
	start := decimal.NewFromFloat(base)
	if isVariable {
		start = start.Add(decimal.NewFromFloat(prime))
	}
	out := make(BucketRates, len(models.Buckets))
	for _, b := range models.Buckets {
		out[b] = start.Add(l.Offset(b)).Round(Precision).InexactFloat64()
	}
	return out
}

// ExpandBlock expands a stored term block using its under65 entry as base.
// The stored under70 through over80 values are not read; every bucket above
// under65 is the base plus its ladder offset.
func (l Ladder) ExpandBlock(block models.TermRateBlock, prime float64, isVariable bool) BucketRates {
	return l.Expand(block.Under65.Value, prime, isVariable)
}

func Expand(base, prime float64, isVariable bool) BucketRates {
	return DefaultLadder.Expand(base, prime, isVariable)
}

func ExpandBlock(block models.TermRateBlock, prime float64, isVariable bool) BucketRates {
	return DefaultLadder.ExpandBlock(block, prime, isVariable)
}

// MonthlyPayment amortizes principal over years using the Canadian
// convention: the nominal annual rate compounds semi-annually and payments
// are monthly.
func MonthlyPayment(principal, annualNominalRatePct, years float64) (float64, error) {
	if math.IsNaN(principal) || math.IsInf(principal, 0) || principal <= 0 {
		return 0, errs.NewInvalidInputError("principal must be a positive amount")
	}
	if math.IsNaN(annualNominalRatePct) || math.IsInf(annualNominalRatePct, 0) {
		return 0, errs.NewInvalidInputError("rate is not a finite number")
	}
	if math.IsNaN(years) || math.IsInf(years, 0) {
		return 0, errs.NewInvalidInputError("amortization is not a finite number")
	}

	j2 := annualNominalRatePct / 100 / 2
	r := math.Pow(1+j2, 1.0/6) - 1
	n := math.Round(years * 12)

	if n <= 0 {
		return 0, errs.NewInvalidInputError("amortization must be at least one month")
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, errs.NewInvalidInputError("monthly rate is not computable")
	}

	if math.Abs(r) < nearZeroRate {
		return principal / n, nil
	}

	growth := math.Pow(1+r, n)
	payment := principal * r * growth / (growth - 1)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0, errs.NewInvalidInputError("payment is not computable")
	}
	return payment, nil
}

// RoundCents rounds a currency amount for display.
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
