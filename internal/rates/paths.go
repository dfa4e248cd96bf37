package rates

import (
	"sort"
	"strings"

	"github.com/GregMSThompson/ratesheet-backend/internal/models"
)

const primeKey = "prime"

// FieldPath addresses one writable field of a rate sheet document. Values are
// only built from the closed province/term/slot sets, so every FieldPath has
// a rendering in pathTable.
type FieldPath struct {
	province models.Province
	term     models.Term
	slot     models.Slot
	prime    bool
}

// EntryPath addresses a RateEntry, e.g. "ON.fiveYrFixed.refinance.under25".
func EntryPath(p models.Province, t models.Term, s models.Slot) FieldPath {
	return FieldPath{province: p, term: t, slot: s}
}

// ProvincePrimePath addresses "{province}.prime".
func ProvincePrimePath(p models.Province) FieldPath {
	return FieldPath{province: p, prime: true}
}

// PrimePath addresses the document-level prime.
func PrimePath() FieldPath {
	return FieldPath{prime: true}
}

func (f FieldPath) IsPrime() bool { return f.prime }

func (f FieldPath) String() string {
	return pathTable[f]
}

// Valid reports whether f is one of the enumerated document fields.
func (f FieldPath) Valid() bool {
	_, ok := pathTable[f]
	return ok
}

var pathTable = buildPathTable()

func buildPathTable() map[FieldPath]string {
	table := map[FieldPath]string{PrimePath(): primeKey}
	for _, p := range models.Provinces {
		table[ProvincePrimePath(p)] = p.String() + "." + primeKey
		for _, t := range models.Terms {
			for _, s := range models.Slots {
				table[EntryPath(p, t, s)] = strings.Join([]string{p.String(), t.String(), s.String()}, ".")
			}
		}
	}
	return table
}

// Patch is a complete set of field writes destined for one document.
// Values are models.RateEntry for entry paths and float64 for prime paths.
type Patch map[FieldPath]any

// Paths returns the patch's paths in a stable order.
func (p Patch) Paths() []FieldPath {
	out := make([]FieldPath, 0, len(p))
	for f := range p {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Provinces lists the provinces the patch writes under.
func (p Patch) Provinces() []models.Province {
	seen := make(map[models.Province]bool)
	for f := range p {
		if f.province != 0 {
			seen[f.province] = true
		}
	}
	out := make([]models.Province, 0, len(seen))
	for _, pr := range models.Provinces {
		if seen[pr] {
			out = append(out, pr)
		}
	}
	return out
}

// ApplyTo writes the patch into sheet in memory, the same way the store
// applies it to the persisted document.
func (p Patch) ApplyTo(sheet *models.RateSheet) {
	for f, v := range p {
		if f.province == 0 {
			if f.prime {
				prime := v.(float64)
				sheet.Prime = &prime
			}
			continue
		}
		slot := sheet.ProvinceSlot(f.province)
		if *slot == nil {
			*slot = &models.ProvinceRates{}
		}
		pr := *slot
		if f.prime {
			prime := v.(float64)
			pr.Prime = &prime
			continue
		}
		*pr.Term(f.term).Entry(f.slot) = v.(models.RateEntry)
	}
}
