package tax

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/credited/internal/model"
)

// DefaultBrackets returns the Nigerian personal income tax bands used when
// the config file names none.
func DefaultBrackets() []model.TaxBracket {
	return []model.TaxBracket{
		bounded(800_000, "0"),
		bounded(3_000_000, "0.15"),
		bounded(12_000_000, "0.18"),
		bounded(25_000_000, "0.21"),
		bounded(50_000_000, "0.23"),
		{Unbounded: true, Rate: decimal.RequireFromString("0.25")},
	}
}

func bounded(upper int64, rate string) model.TaxBracket {
	return model.TaxBracket{
		UpperBound: decimal.NewFromInt(upper),
		Rate:       decimal.RequireFromString(rate),
	}
}
