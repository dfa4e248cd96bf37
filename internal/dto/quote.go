package dto

import "github.com/GregMSThompson/ratesheet-backend/internal/models"

type QuoteRequest struct {
	Province               string  `json:"province"`
	Sheet                  string  `json:"sheet,omitempty"` // "standard" (default) or "rental"
	MortgageBalance        float64 `json:"mortgageBalance"`
	BorrowAdditionalFunds  bool    `json:"borrowAdditionalFunds"`
	BorrowAdditionalAmount float64 `json:"borrowAdditionalAmount"`
	PropertyValue          float64 `json:"propertyValue"`
	AmortizationYears      float64 `json:"amortizationYears"`
}

// Principal is the amount the quote is amortized over.
func (q QuoteRequest) Principal() float64 {
	if q.BorrowAdditionalFunds {
		return q.MortgageBalance + q.BorrowAdditionalAmount
	}
	return q.MortgageBalance
}

type TermQuote struct {
	Term           models.Term `json:"term"`
	Rate           *float64    `json:"rate"`
	Lender         string      `json:"lender"`
	MonthlyPayment *float64    `json:"monthlyPayment"`
	Available      bool        `json:"available"`
}

type Quote struct {
	Province  models.Province `json:"province"`
	Bucket    models.Bucket   `json:"bucket"`
	LTV       float64         `json:"ltv"`
	Principal float64         `json:"principal"`
	Prime     *float64        `json:"prime"`
	Terms     []TermQuote     `json:"terms"`
}
