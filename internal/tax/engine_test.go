package tax

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/credited/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !d(want).Equal(got) {
		assert.Fail(t, fmt.Sprintf("want %s, got %s", want, got), msgAndArgs...)
	}
}

func TestCompute_Zero(t *testing.T) {
	s := Compute(decimal.Zero, DefaultBrackets())

	assertDecimal(t, "0", s.TotalTax)
	assertDecimal(t, "0", s.EffectiveRatePercent)
	assertDecimal(t, "0", s.NetIncome)
	require.Len(t, s.Breakdown, 6)
	for _, b := range s.Breakdown {
		assert.True(t, b.TaxableAmount.IsZero())
		assert.True(t, b.TaxAmount.IsZero())
	}
}

func TestCompute_SecondBracket(t *testing.T) {
	s := Compute(d("1000000"), DefaultBrackets())

	assertDecimal(t, "1000000", s.TotalIncome)
	assertDecimal(t, "30000", s.TotalTax)
	assertDecimal(t, "970000", s.NetIncome)
	assertDecimal(t, "3", s.EffectiveRatePercent)

	require.Len(t, s.Breakdown, 6)
	assertDecimal(t, "800000", s.Breakdown[0].TaxableAmount)
	assertDecimal(t, "0", s.Breakdown[0].TaxAmount)
	assertDecimal(t, "200000", s.Breakdown[1].TaxableAmount)
	assertDecimal(t, "30000", s.Breakdown[1].TaxAmount)
	for _, b := range s.Breakdown[2:] {
		assert.True(t, b.TaxableAmount.IsZero(), "unreached brackets carry zero")
	}
}

func TestCompute_TopBracket(t *testing.T) {
	s := Compute(d("60000000"), DefaultBrackets())

	want := []struct{ taxable, tax string }{
		{"800000", "0"},
		{"2200000", "330000"},
		{"9000000", "1620000"},
		{"13000000", "2730000"},
		{"25000000", "5750000"},
		{"10000000", "2500000"},
	}
	require.Len(t, s.Breakdown, len(want))
	for i, w := range want {
		assertDecimal(t, w.taxable, s.Breakdown[i].TaxableAmount, "bracket %d", i)
		assertDecimal(t, w.tax, s.Breakdown[i].TaxAmount, "bracket %d", i)
	}
	assertDecimal(t, "12930000", s.TotalTax)
	assertDecimal(t, "47070000", s.NetIncome)
	assertDecimal(t, "21.55", s.EffectiveRatePercent)
}

func TestCompute_NoRounding(t *testing.T) {
	brackets := []model.TaxBracket{
		{UpperBound: d("100"), Rate: d("0.1")},
		{Unbounded: true, Rate: d("0.5")},
	}
	s := Compute(d("150.05"), brackets)

	assertDecimal(t, "35.025", s.TotalTax)
	assertDecimal(t, "50.05", s.Breakdown[1].TaxableAmount)
}

func TestCompute_NegativeIncome(t *testing.T) {
	s := Compute(d("-500"), DefaultBrackets())
	assertDecimal(t, "0", s.TotalIncome)
	assertDecimal(t, "0", s.TotalTax)
}

func TestCompute_Properties(t *testing.T) {
	incomes := []string{"0", "0.01", "799999.99", "800000", "800000.01", "2999999", "3000000", "12000000", "24999999.5", "50000000", "50000001", "1000000000"}

	prevTax := decimal.Zero
	for _, in := range incomes {
		income := d(in)
		s := Compute(income, DefaultBrackets())

		sum := decimal.Zero
		for _, b := range s.Breakdown {
			sum = sum.Add(b.TaxableAmount)
		}
		assertDecimal(t, in, sum, "breakdown sums to income for %s", in)
		assert.True(t, s.TotalTax.LessThanOrEqual(income), "tax <= income for %s", in)
		assert.True(t, s.TotalTax.GreaterThanOrEqual(prevTax), "tax non-decreasing at %s", in)
		assert.True(t, s.NetIncome.Add(s.TotalTax).Equal(income))
		prevTax = s.TotalTax
	}
}

func TestSummarize(t *testing.T) {
	txns := []model.Transaction{
		{ID: "a", Amount: d("600000")},
		{ID: "b", Amount: d("400000")},
	}
	s := Summarize(txns, DefaultBrackets())
	assertDecimal(t, "1000000", s.TotalIncome)
	assertDecimal(t, "30000", s.TotalTax)

	empty := Summarize(nil, DefaultBrackets())
	assertDecimal(t, "0", empty.TotalIncome)
}

func TestValidateBrackets(t *testing.T) {
	require.NoError(t, ValidateBrackets(DefaultBrackets()))

	tests := []struct {
		name     string
		brackets []model.TaxBracket
	}{
		{"empty", nil},
		{"last bounded", []model.TaxBracket{{UpperBound: d("10"), Rate: d("0.1")}}},
		{"unbounded not last", []model.TaxBracket{{Unbounded: true, Rate: d("0.1")}, {Unbounded: true, Rate: d("0.2")}}},
		{"not increasing", []model.TaxBracket{
			{UpperBound: d("10"), Rate: d("0.1")},
			{UpperBound: d("10"), Rate: d("0.2")},
			{Unbounded: true, Rate: d("0.3")},
		}},
		{"zero first bound", []model.TaxBracket{{UpperBound: d("0"), Rate: d("0")}, {Unbounded: true, Rate: d("0.1")}}},
		{"rate above one", []model.TaxBracket{{Unbounded: true, Rate: d("1.5")}}},
		{"negative rate", []model.TaxBracket{{Unbounded: true, Rate: d("-0.1")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBrackets(tt.brackets)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidBrackets)
		})
	}
}
