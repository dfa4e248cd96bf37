package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/GregMSThompson/ratesheet-backend/internal/models"
)

// RawNumber keeps the admin's input verbatim so it can be parsed as a
// decimal. Both JSON numbers and strings are accepted.
type RawNumber string

func (n *RawNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = RawNumber(strings.TrimSpace(s))
		return nil
	}
	*n = RawNumber(b)
	return nil
}

func (n RawNumber) String() string { return string(n) }

type RawEntry struct {
	Value  RawNumber `json:"value"`
	Lender *string   `json:"lender,omitempty"`
}

type RawTierBlock struct {
	Under25 *RawEntry `json:"under25,omitempty"`
	Over25  *RawEntry `json:"over25,omitempty"`
}

// RawTerm is a sparse term block as submitted by an admin. Nil fields are
// left untouched downstream.
type RawTerm struct {
	Under65   *RawEntry     `json:"under65,omitempty"`
	Under70   *RawEntry     `json:"under70,omitempty"`
	Under75   *RawEntry     `json:"under75,omitempty"`
	Under80   *RawEntry     `json:"under80,omitempty"`
	Over80    *RawEntry     `json:"over80,omitempty"`
	Refinance *RawTierBlock `json:"refinance,omitempty"`
	Rental    *RawTierBlock `json:"rental,omitempty"`
}

// Entry returns the submitted entry for slot s, or nil.
func (t *RawTerm) Entry(s models.Slot) *RawEntry {
	switch s {
	case models.SlotUnder65:
		return t.Under65
	case models.SlotUnder70:
		return t.Under70
	case models.SlotUnder75:
		return t.Under75
	case models.SlotUnder80:
		return t.Under80
	case models.SlotOver80:
		return t.Over80
	case models.SlotRefinanceUnder25:
		if t.Refinance != nil {
			return t.Refinance.Under25
		}
	case models.SlotRefinanceOver25:
		if t.Refinance != nil {
			return t.Refinance.Over25
		}
	case models.SlotRentalUnder25:
		if t.Rental != nil {
			return t.Rental.Under25
		}
	case models.SlotRentalOver25:
		if t.Rental != nil {
			return t.Rental.Over25
		}
	}
	return nil
}

type RawRates struct {
	Prime           *RawNumber `json:"prime,omitempty"`
	ThreeYrFixed    *RawTerm   `json:"threeYrFixed,omitempty"`
	FourYrFixed     *RawTerm   `json:"fourYrFixed,omitempty"`
	FiveYrFixed     *RawTerm   `json:"fiveYrFixed,omitempty"`
	ThreeYrVariable *RawTerm   `json:"threeYrVariable,omitempty"`
	FiveYrVariable  *RawTerm   `json:"fiveYrVariable,omitempty"`
}

func (r *RawRates) Term(t models.Term) *RawTerm {
	switch t {
	case models.ThreeYrFixed:
		return r.ThreeYrFixed
	case models.FourYrFixed:
		return r.FourYrFixed
	case models.FiveYrFixed:
		return r.FiveYrFixed
	case models.ThreeYrVariable:
		return r.ThreeYrVariable
	case models.FiveYrVariable:
		return r.FiveYrVariable
	}
	return nil
}

type UpdateProvinceRequest struct {
	Rates RawRates `json:"rates"`
}

type CopyRatesRequest struct {
	Source  string   `json:"source"`
	Targets []string `json:"targets"`
	Rates   RawRates `json:"rates"`
}

type UpdatePrimeRequest struct {
	Prime RawNumber `json:"prime"`
}

type UpdateAllResponse struct {
	Provinces []models.Province `json:"provinces"`
}

type PrimeResponse struct {
	Prime float64 `json:"prime"`
}

// ProvinceView is a single province slice plus its derived bucket ladders.
// Ladders are expanded from the LadderBase entry of each term; the other
// stored bucket values do not feed them. Variable ladders are omitted when no
// prime is stored.
type ProvinceView struct {
	Province   models.Province                           `json:"province"`
	Prime      *float64                                  `json:"prime,omitempty"`
	Rates      *models.ProvinceRates                     `json:"rates"`
	LadderBase models.Bucket                             `json:"ladderBase"`
	Ladders    map[models.Term]map[models.Bucket]float64 `json:"ladders"`
}
