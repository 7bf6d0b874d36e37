package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-date layout used wherever a Transaction date is
// rendered or parsed.
const DateFormat = "2006-01-02"

// Transaction is one credited alert admitted into the ledger.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"` // always > 0 once admitted
	Description string          `json:"description"`
	Bank        string          `json:"bank"` // "Unknown" when no bank matched
	RawText     string          `json:"rawText"`
}

// Profile identifies the tracked user. A nil *Profile disables name-based
// sender/receiver detection.
type Profile struct {
	DisplayName string `json:"displayName" yaml:"display_name"`
}

// HasName reports whether p carries a usable display name.
func (p *Profile) HasName() bool {
	return p != nil && strings.TrimSpace(p.DisplayName) != ""
}
