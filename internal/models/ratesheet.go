package models

import (
	"time"
)

const DefaultLender = "Default Lender"

// SheetKind selects which rate sheet collection a document lives in.
type SheetKind string

const (
	SheetStandard SheetKind = "standard"
	SheetRental   SheetKind = "rental"
)

func ParseSheetKind(s string) (SheetKind, bool) {
	switch SheetKind(s) {
	case SheetStandard, SheetRental:
		return SheetKind(s), true
	}
	return "", false
}

// RateEntry is a single priced cell. For variable terms Value is an
// adjustment added to prime.
type RateEntry struct {
	Value  float64 `firestore:"value" json:"value"`
	Lender string  `firestore:"lender" json:"lender"`
}

// TierBlock holds the refinance/rental sub-tiers.
type TierBlock struct {
	Under25 RateEntry `firestore:"under25" json:"under25"`
	Over25  RateEntry `firestore:"over25" json:"over25"`
}

// TermRateBlock is the per-term pricing for one province. Rental is only
// populated on the standard sheet; on the rental sheet the block itself is
// rental pricing.
type TermRateBlock struct {
	Under65   RateEntry  `firestore:"under65" json:"under65"`
	Under70   RateEntry  `firestore:"under70" json:"under70"`
	Under75   RateEntry  `firestore:"under75" json:"under75"`
	Under80   RateEntry  `firestore:"under80" json:"under80"`
	Over80    RateEntry  `firestore:"over80" json:"over80"`
	Refinance TierBlock  `firestore:"refinance" json:"refinance"`
	Rental    *TierBlock `firestore:"rental,omitempty" json:"rental,omitempty"`
}

type ProvinceRates struct {
	ThreeYrFixed    TermRateBlock `firestore:"threeYrFixed" json:"threeYrFixed"`
	FourYrFixed     TermRateBlock `firestore:"fourYrFixed" json:"fourYrFixed"`
	FiveYrFixed     TermRateBlock `firestore:"fiveYrFixed" json:"fiveYrFixed"`
	ThreeYrVariable TermRateBlock `firestore:"threeYrVariable" json:"threeYrVariable"`
	FiveYrVariable  TermRateBlock `firestore:"fiveYrVariable" json:"fiveYrVariable"`
	Prime           *float64      `firestore:"prime,omitempty" json:"prime,omitempty"`
}

// RateSheet is the single current rates document. The same shape is stored
// in the rental collection, where Prime is left unset.
type RateSheet struct {
	ID        string         `firestore:"-" json:"id"`
	AB        *ProvinceRates `firestore:"AB,omitempty" json:"AB,omitempty"`
	BC        *ProvinceRates `firestore:"BC,omitempty" json:"BC,omitempty"`
	MB        *ProvinceRates `firestore:"MB,omitempty" json:"MB,omitempty"`
	NB        *ProvinceRates `firestore:"NB,omitempty" json:"NB,omitempty"`
	NL        *ProvinceRates `firestore:"NL,omitempty" json:"NL,omitempty"`
	NS        *ProvinceRates `firestore:"NS,omitempty" json:"NS,omitempty"`
	NT        *ProvinceRates `firestore:"NT,omitempty" json:"NT,omitempty"`
	NU        *ProvinceRates `firestore:"NU,omitempty" json:"NU,omitempty"`
	ON        *ProvinceRates `firestore:"ON,omitempty" json:"ON,omitempty"`
	PE        *ProvinceRates `firestore:"PE,omitempty" json:"PE,omitempty"`
	QC        *ProvinceRates `firestore:"QC,omitempty" json:"QC,omitempty"`
	SK        *ProvinceRates `firestore:"SK,omitempty" json:"SK,omitempty"`
	YT        *ProvinceRates `firestore:"YT,omitempty" json:"YT,omitempty"`
	Prime     *float64       `firestore:"prime,omitempty" json:"prime,omitempty"`
	CreatedAt time.Time      `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time      `firestore:"updatedAt" json:"updatedAt"`
}

// ProvinceSlot returns the address of the province field so callers can
// read or replace it in place.
func (s *RateSheet) ProvinceSlot(p Province) **ProvinceRates {
	switch p {
	case AB:
		return &s.AB
	case BC:
		return &s.BC
	case MB:
		return &s.MB
	case NB:
		return &s.NB
	case NL:
		return &s.NL
	case NS:
		return &s.NS
	case NT:
		return &s.NT
	case NU:
		return &s.NU
	case ON:
		return &s.ON
	case PE:
		return &s.PE
	case QC:
		return &s.QC
	case SK:
		return &s.SK
	case YT:
		return &s.YT
	}
	return nil
}

// Province returns the stored rates for p, or nil when the province has never
// been written.
func (s *RateSheet) Province(p Province) *ProvinceRates {
	slot := s.ProvinceSlot(p)
	if slot == nil {
		return nil
	}
	return *slot
}

// EffectivePrime is the document prime, falling back to a province-scoped
// prime for sheets written before the document-level field existed.
func (s *RateSheet) EffectivePrime(p Province) (float64, bool) {
	if s.Prime != nil {
		return *s.Prime, true
	}
	if pr := s.Province(p); pr != nil && pr.Prime != nil {
		return *pr.Prime, true
	}
	return 0, false
}

func (p *ProvinceRates) Term(t Term) *TermRateBlock {
	switch t {
	case ThreeYrFixed:
		return &p.ThreeYrFixed
	case FourYrFixed:
		return &p.FourYrFixed
	case FiveYrFixed:
		return &p.FiveYrFixed
	case ThreeYrVariable:
		return &p.ThreeYrVariable
	case FiveYrVariable:
		return &p.FiveYrVariable
	}
	return nil
}

// Entry returns the address of the entry at slot s. Rental slots allocate the
// rental block on demand.
func (b *TermRateBlock) Entry(s Slot) *RateEntry {
	switch s {
	case SlotUnder65:
		return &b.Under65
	case SlotUnder70:
		return &b.Under70
	case SlotUnder75:
		return &b.Under75
	case SlotUnder80:
		return &b.Under80
	case SlotOver80:
		return &b.Over80
	case SlotRefinanceUnder25:
		return &b.Refinance.Under25
	case SlotRefinanceOver25:
		return &b.Refinance.Over25
	case SlotRentalUnder25, SlotRentalOver25:
		if b.Rental == nil {
			b.Rental = &TierBlock{}
		}
		if s == SlotRentalUnder25 {
			return &b.Rental.Under25
		}
		return &b.Rental.Over25
	}
	return nil
}

func (b *TermRateBlock) Bucket(k Bucket) RateEntry {
	if e := b.Entry(k.Slot()); e != nil {
		return *e
	}
	return RateEntry{}
}

// NewRateSheet builds a cold-start document with every province present and
// every entry priced at zero with the default lender.
func NewRateSheet(kind SheetKind, now time.Time) *RateSheet {
	sheet := &RateSheet{CreatedAt: now, UpdatedAt: now}
	for _, p := range Provinces {
		pr := &ProvinceRates{}
		for _, t := range Terms {
			block := pr.Term(t)
			for _, s := range kind.Slots() {
				*block.Entry(s) = RateEntry{Lender: DefaultLender}
			}
		}
		*sheet.ProvinceSlot(p) = pr
	}
	if kind == SheetStandard {
		zero := 0.0
		sheet.Prime = &zero
	}
	return sheet
}
