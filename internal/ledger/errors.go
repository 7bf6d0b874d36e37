package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies why an alert was not admitted into the ledger.
type Kind string

const (
	KindEmptyInput       Kind = "empty-input"
	KindDebitRejected    Kind = "debit-rejected"
	KindAmbiguousAlert   Kind = "ambiguous-alert"
	KindExtractionFailed Kind = "extraction-failed"
)

// Sentinels matched by errors.Is against a *Rejection of the same kind.
var (
	ErrEmptyInput       = errors.New("empty input")
	ErrDebitRejected    = errors.New("debit rejected")
	ErrAmbiguousAlert   = errors.New("ambiguous alert")
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrNotFound is returned when removing an unknown transaction ID.
	ErrNotFound = errors.New("transaction not found")
)

var sentinels = map[Kind]error{
	KindEmptyInput:       ErrEmptyInput,
	KindDebitRejected:    ErrDebitRejected,
	KindAmbiguousAlert:   ErrAmbiguousAlert,
	KindExtractionFailed: ErrExtractionFailed,
}

// Rejection is the routine outcome of an alert that is not a usable credit.
// It always carries a human-readable reason.
type Rejection struct {
	Kind   Kind
	Reason string
	Rule   string // classifier rule that fired, empty for extraction failures
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Reason)
}

// Is lets errors.Is(err, ErrDebitRejected) and friends match by kind.
func (r *Rejection) Is(target error) bool {
	return sentinels[r.Kind] == target
}

// AsRejection returns the *Rejection in err's chain, if any.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
