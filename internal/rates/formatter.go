package rates

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ratesheet-backend/internal/dto"
	"github.com/GregMSThompson/ratesheet-backend/internal/errs"
	"github.com/GregMSThompson/ratesheet-backend/internal/models"
)

// Precision is the number of decimal places every stored rate carries.
const Precision = 2

// Bounds is an inclusive [Min, Max] range.
type Bounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func NewBounds(min, max int64) Bounds {
	return Bounds{Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)}
}

var (
	StandardBounds = NewBounds(0, 30)
	RentalBounds   = NewBounds(-10, 30)
	PrimeBounds    = NewBounds(0, 20)
)

// Limits picks bounds by term kind.
type Limits struct {
	Fixed    Bounds
	Variable Bounds
}

func (l Limits) For(isVariable bool) Bounds {
	if isVariable {
		return l.Variable
	}
	return l.Fixed
}

var (
	StandardLimits = Limits{Fixed: StandardBounds, Variable: RentalBounds}
	RentalLimits   = Limits{Fixed: RentalBounds, Variable: RentalBounds}
)

func LimitsFor(kind models.SheetKind) Limits {
	if kind == models.SheetRental {
		return RentalLimits
	}
	return StandardLimits
}

// TermPatch holds the formatted entries submitted for one term. Slots that
// were not submitted are absent.
type TermPatch map[models.Slot]models.RateEntry

// RatesPatch is a sparse, validated update. It never stands in for a full
// RateSheet: absent terms and slots mean "leave as stored".
type RatesPatch struct {
	Terms map[models.Term]TermPatch
	Prime *float64
}

func (r RatesPatch) Empty() bool {
	return len(r.Terms) == 0 && r.Prime == nil
}

// Format parses raw as a decimal, checks it against b and rounds it half away
// from zero to two places.
func Format(raw string, b Bounds) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errs.NewInvalidRateError("", raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errs.NewInvalidRateError("", raw)
	}
	if d.LessThan(b.Min) || d.GreaterThan(b.Max) {
		return 0, errs.NewOutOfRangeError("", d.String(), b.Min.String(), b.Max.String())
	}
	return d.Round(Precision).InexactFloat64(), nil
}

// Normalize re-formats an already numeric value.
func Normalize(v float64, b Bounds) (float64, error) {
	return Format(strconv.FormatFloat(v, 'f', -1, 64), b)
}

func FormatPrime(raw string) (float64, error) {
	v, err := Format(raw, PrimeBounds)
	if err != nil {
		return 0, errs.WithField(err, "prime")
	}
	return v, nil
}

// FormatTerm formats every submitted entry of a term block. Either every
// entry is valid and the full patch is returned, or nothing is.
func FormatTerm(raw dto.RawTerm, isVariable bool, limits Limits) (TermPatch, error) {
	b := limits.For(isVariable)
	out := make(TermPatch)
	for _, slot := range models.Slots {
		entry := raw.Entry(slot)
		if entry == nil {
			continue
		}
		v, err := Format(entry.Value.String(), b)
		if err != nil {
			return nil, errs.WithField(err, slot.String())
		}
		out[slot] = models.RateEntry{Value: v, Lender: lenderOrDefault(entry.Lender)}
	}
	return out, nil
}

// FormatRates validates a whole submission for a sheet of the given kind.
func FormatRates(raw dto.RawRates, kind models.SheetKind) (RatesPatch, error) {
	patch := RatesPatch{Terms: make(map[models.Term]TermPatch)}
	limits := LimitsFor(kind)

	for _, term := range models.Terms {
		rt := raw.Term(term)
		if rt == nil {
			continue
		}
		if kind == models.SheetRental && rt.Rental != nil {
			return RatesPatch{}, errs.NewValidationError(term.String() + ": rental sheet has no nested rental block")
		}
		tp, err := FormatTerm(*rt, term.IsVariable(), limits)
		if err != nil {
			return RatesPatch{}, prefixField(err, term.String())
		}
		if len(tp) > 0 {
			patch.Terms[term] = tp
		}
	}

	if raw.Prime != nil {
		if kind == models.SheetRental {
			return RatesPatch{}, errs.NewValidationError("prime is not stored on the rental sheet")
		}
		v, err := FormatPrime(raw.Prime.String())
		if err != nil {
			return RatesPatch{}, err
		}
		patch.Prime = &v
	}

	if patch.Empty() {
		return RatesPatch{}, errs.NewValidationError("no rates supplied")
	}
	return patch, nil
}

func lenderOrDefault(l *string) string {
	if l == nil {
		return models.DefaultLender
	}
	if s := strings.TrimSpace(*l); s != "" {
		return s
	}
	return models.DefaultLender
}

func prefixField(err error, prefix string) error {
	switch e := err.(type) {
	case *errs.InvalidRateError:
		return errs.WithField(err, prefix+"."+e.Field)
	case *errs.OutOfRangeError:
		return errs.WithField(err, prefix+"."+e.Field)
	}
	return err
}
