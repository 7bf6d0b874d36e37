// Package tax computes progressive income tax over an ordered bracket
// schedule.
package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/credited/internal/model"
)

var hundred = decimal.NewFromInt(100)

// fold is the state carried from one bracket to the next.
type fold struct {
	previousLimit decimal.Decimal
	remaining     decimal.Decimal
	totalTax      decimal.Decimal
}

// Compute applies brackets to income. Every bracket appears in the
// breakdown, with zero amounts for brackets the income never reaches.
// Negative income is treated as zero. No rounding is applied.
func Compute(income decimal.Decimal, brackets []model.TaxBracket) model.TaxSummary {
	if income.IsNegative() {
		income = decimal.Zero
	}

	st := fold{previousLimit: decimal.Zero, remaining: income, totalTax: decimal.Zero}
	breakdown := make([]model.BracketTax, 0, len(brackets))

	for _, b := range brackets {
		taxable := st.remaining
		if !b.Unbounded {
			width := b.UpperBound.Sub(st.previousLimit)
			taxable = decimal.Max(decimal.Zero, decimal.Min(st.remaining, width))
		}
		tax := taxable.Mul(b.Rate)

		breakdown = append(breakdown, model.BracketTax{
			Bracket:       b,
			TaxableAmount: taxable,
			TaxAmount:     tax,
		})

		st.totalTax = st.totalTax.Add(tax)
		st.remaining = st.remaining.Sub(taxable)
		if !b.Unbounded {
			st.previousLimit = b.UpperBound
		}
	}

	effective := decimal.Zero
	if income.IsPositive() {
		effective = st.totalTax.Div(income).Mul(hundred)
	}

	return model.TaxSummary{
		TotalIncome:          income,
		TotalTax:             st.totalTax,
		NetIncome:            income.Sub(st.totalTax),
		EffectiveRatePercent: effective,
		Breakdown:            breakdown,
	}
}

// Summarize totals the transaction amounts and computes tax on the sum.
func Summarize(txns []model.Transaction, brackets []model.TaxBracket) model.TaxSummary {
	total := decimal.Zero
	for _, txn := range txns {
		total = total.Add(txn.Amount)
	}
	return Compute(total, brackets)
}

// ErrInvalidBrackets is wrapped by every ValidateBrackets failure.
var ErrInvalidBrackets = errors.New("invalid tax brackets")

// ValidateBrackets checks that upper bounds strictly increase from above
// zero, that only the last bracket is unbounded, and that rates lie in [0,1].
func ValidateBrackets(brackets []model.TaxBracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("%w: no brackets", ErrInvalidBrackets)
	}

	prev := decimal.Zero
	last := len(brackets) - 1
	for i, b := range brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: bracket %d rate %s outside [0,1]", ErrInvalidBrackets, i+1, b.Rate)
		}
		if b.Unbounded {
			if i != last {
				return fmt.Errorf("%w: bracket %d is unbounded but not last", ErrInvalidBrackets, i+1)
			}
			continue
		}
		if i == last {
			return fmt.Errorf("%w: last bracket must be unbounded", ErrInvalidBrackets)
		}
		if !b.UpperBound.GreaterThan(prev) {
			return fmt.Errorf("%w: bracket %d upper bound %s not above %s", ErrInvalidBrackets, i+1, b.UpperBound, prev)
		}
		prev = b.UpperBound
	}
	return nil
}
