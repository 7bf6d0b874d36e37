package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// amountDigits captures a numeral with optional thousands separators and
// decimal part, e.g. "12,345.50".
const amountDigits = `(\d[\d,]*(?:\.\d+)?)`

// DefaultAmountPatterns returns the amount patterns in priority order:
// currency-prefixed numeral, "credited with <n>", "received <n>".
func DefaultAmountPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?:₦|\bNGN|\bN)\s?` + amountDigits),
		regexp.MustCompile(`(?i)\bcredited\s+with\s+(?:₦|NGN|N)?\s?` + amountDigits),
		regexp.MustCompile(`(?i)\breceived\s+(?:₦|NGN|N)?\s?` + amountDigits),
	}
}

var (
	// YYYY-MM-DD
	datePatternISO = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	// DD/MM/YYYY
	datePatternSlash = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	// DD-MM-YYYY
	datePatternDash = regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`)
)

// findDate returns the first valid calendar date in text, trying ISO dates
// before day-first ones.
func findDate(text string) (time.Time, bool) {
	for _, m := range datePatternISO.FindAllStringSubmatch(text, -1) {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	for _, re := range []*regexp.Regexp{datePatternSlash, datePatternDash} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if d, ok := calendarDate(m[3], m[2], m[1]); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// calendarDate rejects dates that time.Date would normalize, like 31/02.
func calendarDate(year, month, day string) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// labelPattern captures the text after any label, up to the next period or
// newline.
func labelPattern(labels []string) *regexp.Regexp {
	var quoted []string
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			quoted = append(quoted, regexp.QuoteMeta(l))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)[ \t]*[: \t][ \t]*([^.\n]+)`)
}

// DefaultBanks lists the banks recognized in alert text. Order matters:
// the first match wins, so longer names precede names they contain.
func DefaultBanks() []string {
	return []string{
		"Access Bank",
		"Guaranty Trust",
		"GTBank",
		"GTCO",
		"First Bank",
		"FirstBank",
		"Zenith",
		"United Bank for Africa",
		"UBA",
		"Fidelity",
		"Union Bank",
		"Stanbic",
		"Sterling",
		"Wema",
		"ALAT",
		"Polaris",
		"Ecobank",
		"FCMB",
		"Keystone",
		"Heritage",
		"Unity Bank",
		"Providus",
		"Jaiz",
		"Kuda",
		"Opay",
		"Moniepoint",
		"PalmPay",
	}
}
