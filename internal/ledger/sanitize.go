package ledger

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips any markup from alert text or a display name. Entities
// escaped by the policy are decoded again so amounts like "N5,000 & fees"
// survive. Every Service entry point applies it, whatever the input came
// from.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
