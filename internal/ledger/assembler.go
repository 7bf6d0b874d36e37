// Package ledger turns accepted alerts into transactions and keeps the
// transaction list and profile in a key-value store.
package ledger

import (
	"github.com/google/uuid"

	"github.com/cleared-dev/credited/internal/classify"
	"github.com/cleared-dev/credited/internal/extract"
	"github.com/cleared-dev/credited/internal/model"
)

// Assembler classifies an alert and, when it is a credit, builds the
// Transaction for it. It never touches the ledger itself.
type Assembler struct {
	classifier *classify.Classifier
	extractor  *extract.Extractor
	newID      func() string
}

// NewAssembler creates an Assembler that mints UUIDs for new transactions.
func NewAssembler(c *classify.Classifier, e *extract.Extractor) *Assembler {
	return &Assembler{classifier: c, extractor: e, newID: uuid.NewString}
}

// WithIDFunc replaces the ID generator, mainly for tests.
func (a *Assembler) WithIDFunc(fn func() string) *Assembler {
	a.newID = fn
	return a
}

// Classify exposes the classifier decision without extraction.
func (a *Assembler) Classify(text string, profile *model.Profile) model.Decision {
	return a.classifier.Classify(text, profile)
}

// Assemble returns a new Transaction for text, or a *Rejection error.
func (a *Assembler) Assemble(text string, profile *model.Profile) (model.Transaction, error) {
	decision := a.classifier.Classify(text, profile)
	if !decision.Accepted() {
		return model.Transaction{}, rejectionFor(decision)
	}

	f := a.extractor.Extract(text)
	if !f.Amount.IsPositive() {
		return model.Transaction{}, &Rejection{
			Kind:   KindExtractionFailed,
			Reason: "could not find a positive amount in the alert",
		}
	}

	return model.Transaction{
		ID:          a.newID(),
		Date:        f.Date,
		Amount:      f.Amount,
		Description: f.Description,
		Bank:        f.Bank,
		RawText:     text,
	}, nil
}

func rejectionFor(d model.Decision) *Rejection {
	kind := KindAmbiguousAlert
	switch {
	case d.Rule == classify.RuleEmptyText:
		kind = KindEmptyInput
	case d.Verdict == model.VerdictRejectedDebit:
		kind = KindDebitRejected
	}
	return &Rejection{Kind: kind, Reason: d.Reason, Rule: d.Rule}
}
