package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/credited/internal/classify"
	"github.com/cleared-dev/credited/internal/extract"
	"github.com/cleared-dev/credited/internal/model"
)

var today = time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)

func newTestAssembler() *Assembler {
	a := NewAssembler(
		classify.New(classify.DefaultConfig()),
		extract.New(extract.DefaultConfig(), func() time.Time { return today }),
	)
	return a.WithIDFunc(func() string { return "txn-1" })
}

func TestAssemble_Accepted(t *testing.T) {
	a := newTestAssembler()
	text := "GTBank: NGN 12,345.50 credited to John Doe. Desc: Invoice 7. 2025-05-30"

	txn, err := a.Assemble(text, &model.Profile{DisplayName: "John Doe"})
	require.NoError(t, err)

	assert.Equal(t, "txn-1", txn.ID)
	assert.Equal(t, "12345.50", txn.Amount.StringFixed(2))
	assert.Equal(t, "2025-05-30", txn.Date.Format(model.DateFormat))
	assert.Equal(t, "Invoice 7", txn.Description)
	assert.Equal(t, "GTBank", txn.Bank)
	assert.Equal(t, text, txn.RawText)
}

func TestAssemble_DefaultsToToday(t *testing.T) {
	a := newTestAssembler()
	txn, err := a.Assemble("You have received a credit of N5,000 from Mary", nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", txn.Date.Format(model.DateFormat))
	assert.Equal(t, "Mary", txn.Description)
	assert.Equal(t, extract.UnknownBank, txn.Bank)
}

func TestAssemble_Rejections(t *testing.T) {
	a := newTestAssembler()

	tests := []struct {
		name     string
		text     string
		kind     Kind
		sentinel error
	}{
		{"empty", "   ", KindEmptyInput, ErrEmptyInput},
		{"debit", "Your account was debited N2,000 by John", KindDebitRejected, ErrDebitRejected},
		{"critical", "Acct DR N2,000", KindDebitRejected, ErrDebitRejected},
		{"ambiguous", "Your balance is N10,000", KindAmbiguousAlert, ErrAmbiguousAlert},
		{"no amount", "Salary credited, thank you", KindExtractionFailed, ErrExtractionFailed},
		{"zero amount", "N0.00 refund received", KindExtractionFailed, ErrExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Assemble(tt.text, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			rej, ok := AsRejection(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, rej.Kind)
			assert.NotEmpty(t, rej.Reason)
		})
	}
}

func TestRejection_IsOnlyMatchesOwnKind(t *testing.T) {
	err := error(&Rejection{Kind: KindDebitRejected, Reason: "x"})
	assert.True(t, errors.Is(err, ErrDebitRejected))
	assert.False(t, errors.Is(err, ErrAmbiguousAlert))
	assert.Equal(t, "debit-rejected: x", err.Error())

	_, ok := AsRejection(errors.New("plain"))
	assert.False(t, ok)
}

func TestAssemble_UniqueIDs(t *testing.T) {
	a := NewAssembler(classify.New(classify.DefaultConfig()), extract.New(extract.DefaultConfig(), nil))
	t1, err := a.Assemble("N100 received", nil)
	require.NoError(t, err)
	t2, err := a.Assemble("N100 received", nil)
	require.NoError(t, err)
	assert.NotEqual(t, t1.ID, t2.ID)
}
