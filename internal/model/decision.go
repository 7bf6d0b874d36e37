package model

// Verdict is the outcome of classifying one alert.
type Verdict string

const (
	VerdictAccepted          Verdict = "accepted"
	VerdictRejectedDebit     Verdict = "rejected-debit"
	VerdictRejectedAmbiguous Verdict = "rejected-ambiguous"
)

// Decision is a classification result. Rejections always carry a Reason.
type Decision struct {
	Verdict Verdict `json:"verdict"`
	Reason  string  `json:"reason,omitempty"`
	Rule    string  `json:"rule"` // name of the rule that fired
}

// Accepted reports whether the alert was confirmed as a credit.
func (d Decision) Accepted() bool { return d.Verdict == VerdictAccepted }
