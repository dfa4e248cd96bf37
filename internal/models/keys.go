package models

import "strings"

// Province is one of the 13 Canadian provinces and territories. The zero
// value is not a province.
type Province int

const (
	AB Province = iota + 1
	BC
	MB
	NB
	NL
	NS
	NT
	NU
	ON
	PE
	QC
	SK
	YT
)

var Provinces = []Province{AB, BC, MB, NB, NL, NS, NT, NU, ON, PE, QC, SK, YT}

var provinceCodes = map[Province]string{
	AB: "AB", BC: "BC", MB: "MB", NB: "NB", NL: "NL", NS: "NS", NT: "NT",
	NU: "NU", ON: "ON", PE: "PE", QC: "QC", SK: "SK", YT: "YT",
}

func (p Province) String() string { return provinceCodes[p] }

func (p Province) Valid() bool {
	_, ok := provinceCodes[p]
	return ok
}

func (p Province) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// ParseProvince accepts a two letter code in any case.
func ParseProvince(code string) (Province, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for p, c := range provinceCodes {
		if c == code {
			return p, true
		}
	}
	return 0, false
}

type Term int

const (
	ThreeYrFixed Term = iota + 1
	FourYrFixed
	FiveYrFixed
	ThreeYrVariable
	FiveYrVariable
)

var Terms = []Term{ThreeYrFixed, FourYrFixed, FiveYrFixed, ThreeYrVariable, FiveYrVariable}

var termKeys = map[Term]string{
	ThreeYrFixed:    "threeYrFixed",
	FourYrFixed:     "fourYrFixed",
	FiveYrFixed:     "fiveYrFixed",
	ThreeYrVariable: "threeYrVariable",
	FiveYrVariable:  "fiveYrVariable",
}

func (t Term) String() string { return termKeys[t] }

func (t Term) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t Term) IsVariable() bool { return t == ThreeYrVariable || t == FiveYrVariable }

// Bucket is an LTV pricing tier.
type Bucket int

const (
	Under65 Bucket = iota + 1
	Under70
	Under75
	Under80
	Over80
)

var Buckets = []Bucket{Under65, Under70, Under75, Under80, Over80}

var bucketKeys = map[Bucket]string{
	Under65: "under65",
	Under70: "under70",
	Under75: "under75",
	Under80: "under80",
	Over80:  "over80",
}

func (b Bucket) String() string { return bucketKeys[b] }

func (b Bucket) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b Bucket) Slot() Slot {
	switch b {
	case Under65:
		return SlotUnder65
	case Under70:
		return SlotUnder70
	case Under75:
		return SlotUnder75
	case Under80:
		return SlotUnder80
	case Over80:
		return SlotOver80
	}
	return 0
}

// Slot is a writable entry position inside a TermRateBlock.
type Slot int

const (
	SlotUnder65 Slot = iota + 1
	SlotUnder70
	SlotUnder75
	SlotUnder80
	SlotOver80
	SlotRefinanceUnder25
	SlotRefinanceOver25
	SlotRentalUnder25
	SlotRentalOver25
)

var Slots = []Slot{
	SlotUnder65, SlotUnder70, SlotUnder75, SlotUnder80, SlotOver80,
	SlotRefinanceUnder25, SlotRefinanceOver25,
	SlotRentalUnder25, SlotRentalOver25,
}

var slotKeys = map[Slot]string{
	SlotUnder65:          "under65",
	SlotUnder70:          "under70",
	SlotUnder75:          "under75",
	SlotUnder80:          "under80",
	SlotOver80:           "over80",
	SlotRefinanceUnder25: "refinance.under25",
	SlotRefinanceOver25:  "refinance.over25",
	SlotRentalUnder25:    "rental.under25",
	SlotRentalOver25:     "rental.over25",
}

// String is the dotted path fragment of the slot relative to its term block.
func (s Slot) String() string { return slotKeys[s] }

func (s Slot) IsRental() bool { return s == SlotRentalUnder25 || s == SlotRentalOver25 }

// Slots lists the entry positions a sheet of this kind carries. The rental
// sheet has no nested rental block.
func (k SheetKind) Slots() []Slot {
	if k != SheetRental {
		return Slots
	}
	out := make([]Slot, 0, len(Slots))
	for _, s := range Slots {
		if !s.IsRental() {
			out = append(out, s)
		}
	}
	return out
}
