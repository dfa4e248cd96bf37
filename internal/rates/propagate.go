package rates

import (
	"github.com/GregMSThompson/ratesheet-backend/internal/errs"
	"github.com/GregMSThompson/ratesheet-backend/internal/models"
)

// UpdateOne writes every submitted entry under a single province. A submitted
// prime is scoped to the province.
func UpdateOne(p models.Province, r RatesPatch) (Patch, error) {
	if !p.Valid() {
		return nil, errs.NewValidationError("unknown province")
	}
	if r.Empty() {
		return nil, errs.NewValidationError("no rates supplied")
	}
	patch := make(Patch)
	emitTerms(patch, p, r)
	if r.Prime != nil {
		patch[ProvincePrimePath(p)] = *r.Prime
	}
	return patch, nil
}

// UpdateMany rewrites the source province from r and then repeats the same
// values under every target. Running it twice with the same input yields the
// same document.
func UpdateMany(source models.Province, targets []models.Province, r RatesPatch) (Patch, error) {
	if len(targets) == 0 {
		return nil, errs.NewNoTargetsError()
	}
	for _, t := range targets {
		if !t.Valid() {
			return nil, errs.NewValidationError("unknown target province")
		}
	}
	patch, err := UpdateOne(source, r)
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		emitTerms(patch, t, r)
		if r.Prime != nil {
			patch[ProvincePrimePath(t)] = *r.Prime
		}
	}
	return patch, nil
}

// UpdateAll writes the same term structure under all 13 provinces. Prime is
// not part of this mode.
func UpdateAll(r RatesPatch) (Patch, error) {
	if len(r.Terms) == 0 {
		return nil, errs.NewValidationError("no term rates supplied")
	}
	patch := make(Patch)
	for _, p := range models.Provinces {
		emitTerms(patch, p, r)
	}
	return patch, nil
}

// UpdatePrime writes the document-level prime shared by every province.
func UpdatePrime(v float64) Patch {
	return Patch{PrimePath(): v}
}

func emitTerms(patch Patch, p models.Province, r RatesPatch) {
	for term, entries := range r.Terms {
		for slot, entry := range entries {
			patch[EntryPath(p, term, slot)] = entry
		}
	}
}
