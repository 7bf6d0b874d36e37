// Package extract pulls amount, date, description and bank out of raw alert
// text. Extraction never fails: every field falls back to a default.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownBank is reported when no configured bank name appears in the text.
const UnknownBank = "Unknown"

// Clock supplies the current time for alerts that carry no date.
type Clock func() time.Time

// Fields holds the values extracted from one alert.
type Fields struct {
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Bank        string
}

// Config controls the label and bank lists. Amount and date patterns are
// compiled into the package (see patterns.go) and can be replaced through
// AmountPatterns for tests.
type Config struct {
	Banks             []string `yaml:"banks"`
	DescriptionLabels []string `yaml:"description_labels"`
	SnippetLength     int      `yaml:"snippet_length"`

	AmountPatterns []*regexp.Regexp `yaml:"-"`
}

// DefaultConfig returns the Nigerian bank list and the default labels.
func DefaultConfig() Config {
	return Config{
		Banks:             DefaultBanks(),
		DescriptionLabels: []string{"narration", "description", "desc", "from"},
		SnippetLength:     60,
		AmountPatterns:    DefaultAmountPatterns(),
	}
}

// Extractor applies Config to alert text.
type Extractor struct {
	cfg   Config
	now   Clock
	label *regexp.Regexp
}

// New creates an Extractor. A nil clock falls back to time.Now, which callers
// that need deterministic output should avoid.
func New(cfg Config, now Clock) *Extractor {
	if now == nil {
		now = time.Now
	}
	if len(cfg.AmountPatterns) == 0 {
		cfg.AmountPatterns = DefaultAmountPatterns()
	}
	if cfg.SnippetLength <= 0 {
		cfg.SnippetLength = 60
	}
	return &Extractor{cfg: cfg, now: now, label: labelPattern(cfg.DescriptionLabels)}
}

// Extract returns all four fields of text.
func (e *Extractor) Extract(text string) Fields {
	return Fields{
		Amount:      e.Amount(text),
		Date:        e.Date(text),
		Description: e.Description(text),
		Bank:        e.Bank(text),
	}
}

// Amount returns the first amount matched by the ordered amount patterns,
// or zero.
func (e *Extractor) Amount(text string) decimal.Decimal {
	for _, re := range e.cfg.AmountPatterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return amount
	}
	return decimal.Zero
}

// Date returns the first real calendar date in text, or today per the clock.
func (e *Extractor) Date(text string) time.Time {
	if d, ok := findDate(text); ok {
		return d
	}
	now := e.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Description returns the text after a narration label, or a snippet of the
// alert. Runs of whitespace, line breaks included, become a single space.
func (e *Extractor) Description(text string) string {
	if e.label != nil {
		if m := e.label.FindStringSubmatch(text); len(m) > 1 {
			if desc := collapseSpace(m[1]); desc != "" {
				return desc
			}
		}
	}
	return snippet(text, e.cfg.SnippetLength)
}

// Bank returns the first configured bank whose name appears in text.
func (e *Extractor) Bank(text string) string {
	lower := strings.ToLower(text)
	for _, bank := range e.cfg.Banks {
		needle := strings.ToLower(strings.TrimSpace(bank))
		if needle != "" && strings.Contains(lower, needle) {
			return bank
		}
	}
	return UnknownBank
}

func snippet(text string, limit int) string {
	text = collapseSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

