package model

import "github.com/shopspring/decimal"

// TaxBracket is one tier of a progressive schedule. Its lower bound is the
// previous bracket's UpperBound (0 for the first).
type TaxBracket struct {
	UpperBound decimal.Decimal `json:"upperBound"` // ignored when Unbounded
	Unbounded  bool            `json:"unbounded,omitempty"`
	Rate       decimal.Decimal `json:"rate"` // fraction in [0,1]
}

// BracketTax is the share of income that fell into one bracket.
type BracketTax struct {
	Bracket       TaxBracket      `json:"bracket"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
}

// TaxSummary is derived from the ledger on every read and never stored.
type TaxSummary struct {
	TotalIncome          decimal.Decimal `json:"totalIncome"`
	TotalTax             decimal.Decimal `json:"totalTax"`
	NetIncome            decimal.Decimal `json:"netIncome"`
	EffectiveRatePercent decimal.Decimal `json:"effectiveRatePercent"`
	Breakdown            []BracketTax    `json:"breakdown"`
}
