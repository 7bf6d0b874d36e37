package classify

// Config holds the phrase and keyword sets the rules match against.
// Matching is case-insensitive for every list.
type Config struct {
	// ReceiverPhrases precede the user's name when the user is the
	// beneficiary, e.g. "credited to" in "credited to John Doe".
	ReceiverPhrases []string `yaml:"receiver_phrases"`
	// SenderPhrases precede the user's name when the user originated the
	// transfer.
	SenderPhrases []string `yaml:"sender_phrases"`
	// CriticalDebitTerms must appear as whole words.
	CriticalDebitTerms []string `yaml:"critical_debit_terms"`
	// DebitKeywords and CreditKeywords match as plain substrings.
	DebitKeywords  []string `yaml:"debit_keywords"`
	CreditKeywords []string `yaml:"credit_keywords"`
}

// DefaultConfig returns the keyword sets tuned for Nigerian bank alerts.
func DefaultConfig() Config {
	return Config{
		ReceiverPhrases: []string{
			"to",
			"credited to",
			"beneficiary:",
			"receiver:",
			"recipient:",
			"payment to",
		},
		SenderPhrases: []string{
			"from",
			"sender:",
			"by",
			"transfer from",
		},
		CriticalDebitTerms: []string{"debit", "dr"},
		DebitKeywords: []string{
			"debited",
			"withdrawal",
			"withdrawn",
			"transferred",
			"transfer to",
			"payment to",
			"deducted",
			"charged",
			"purchase",
			"pos purchase",
			"bill payment",
			"airtime",
			"sent to",
		},
		CreditKeywords: []string{
			"credited",
			"received",
			"deposit",
			"salary",
			"refund",
			"reversal",
			"transfer from",
			"payment from",
			"credit alert",
			"inflow",
		},
	}
}
