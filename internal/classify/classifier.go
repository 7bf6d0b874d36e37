// Package classify decides whether a bank alert is a credit the user
// received, a debit, or an alert that cannot be confirmed either way.
package classify

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/cleared-dev/credited/internal/model"
)

// Rule names, in evaluation order.
const (
	RuleEmptyText      = "empty-text"
	RuleReceiverName   = "receiver-name"
	RuleCriticalDebit  = "critical-debit-term"
	RuleSenderName     = "sender-name"
	RuleDebitKeyword   = "debit-keyword"
	RuleNoCreditSignal = "no-credit-keyword"
	RuleCreditKeyword  = "credit-keyword"
)

// Rejection reasons for rules whose reason does not depend on the input.
const (
	ReasonNoText        = "no text provided"
	ReasonCannotConfirm = "cannot confirm credit"
)

// rule is one step of the decision list: when match reports true the
// classifier stops and returns verdict with the returned reason.
type rule struct {
	name    string
	verdict model.Verdict
	match   func(a *alert) (reason string, ok bool)
}

// alert is the per-call view of the input shared by all rules.
type alert struct {
	text  string
	lower string
	names *namePatterns // nil when no profile name is set
}

type namePatterns struct {
	name     string
	receiver *regexp.Regexp
	sender   *regexp.Regexp
}

// Classifier evaluates an ordered rule list over alert text. It is safe for
// concurrent use.
type Classifier struct {
	cfg      Config
	critical *regexp.Regexp
	rules    []rule

	mu    sync.Mutex
	names map[string]*namePatterns
}

// New builds a Classifier from cfg.
func New(cfg Config) *Classifier {
	c := &Classifier{
		cfg:      cfg,
		critical: wholeWords(cfg.CriticalDebitTerms),
		names:    make(map[string]*namePatterns),
	}
	c.rules = []rule{
		{name: RuleEmptyText, verdict: model.VerdictRejectedAmbiguous, match: matchEmpty},
		{name: RuleReceiverName, verdict: model.VerdictAccepted, match: matchReceiver},
		{name: RuleCriticalDebit, verdict: model.VerdictRejectedDebit, match: c.matchCritical},
		{name: RuleSenderName, verdict: model.VerdictRejectedDebit, match: matchSender},
		{name: RuleDebitKeyword, verdict: model.VerdictRejectedDebit, match: c.matchDebitKeyword},
		{name: RuleNoCreditSignal, verdict: model.VerdictRejectedAmbiguous, match: c.matchNoCredit},
		{name: RuleCreditKeyword, verdict: model.VerdictAccepted, match: always},
	}
	return c
}

// Rules returns the rule names in the order they are evaluated.
func (c *Classifier) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.name
	}
	return names
}

// Classify returns the decision of the first rule that matches text.
// A nil profile (or one without a display name) skips the name rules.
func (c *Classifier) Classify(text string, profile *model.Profile) model.Decision {
	a := &alert{text: text, lower: strings.ToLower(text)}
	if profile.HasName() {
		a.names = c.patternsFor(profile.DisplayName)
	}

	for _, r := range c.rules {
		reason, ok := r.match(a)
		if !ok {
			continue
		}
		return model.Decision{Verdict: r.verdict, Reason: reason, Rule: r.name}
	}
	// Unreachable: the last rule always matches.
	return model.Decision{Verdict: model.VerdictRejectedAmbiguous, Reason: ReasonCannotConfirm, Rule: RuleNoCreditSignal}
}

func matchEmpty(a *alert) (string, bool) {
	if strings.TrimSpace(a.text) == "" {
		return ReasonNoText, true
	}
	return "", false
}

func matchReceiver(a *alert) (string, bool) {
	if a.names == nil || a.names.receiver == nil {
		return "", false
	}
	if a.names.receiver.MatchString(a.text) {
		return "", true
	}
	return "", false
}

func (c *Classifier) matchCritical(a *alert) (string, bool) {
	if c.critical == nil {
		return "", false
	}
	m := c.critical.FindStringSubmatch(a.text)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("debit term %q found", strings.ToLower(m[1])), true
}

func matchSender(a *alert) (string, bool) {
	if a.names == nil || a.names.sender == nil {
		return "", false
	}
	if a.names.sender.MatchString(a.text) {
		return fmt.Sprintf("alert names %s as the sender", a.names.name), true
	}
	return "", false
}

func (c *Classifier) matchDebitKeyword(a *alert) (string, bool) {
	if kw, ok := firstContained(a.lower, c.cfg.DebitKeywords); ok {
		return fmt.Sprintf("debit keyword %q found", kw), true
	}
	return "", false
}

func (c *Classifier) matchNoCredit(a *alert) (string, bool) {
	if _, ok := firstContained(a.lower, c.cfg.CreditKeywords); ok {
		return "", false
	}
	return ReasonCannotConfirm, true
}

func always(*alert) (string, bool) { return "", true }

func firstContained(lower string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// maxCachedNames bounds the compiled name patterns kept by a Classifier.
const maxCachedNames = 64

// patternsFor compiles (once per distinct name) the receiver and sender
// patterns for a display name. The cache is dropped when it fills up.
func (c *Classifier) patternsFor(displayName string) *namePatterns {
	key := strings.Join(strings.Fields(displayName), " ")

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.names[key]; ok {
		return p
	}
	if len(c.names) >= maxCachedNames {
		clear(c.names)
	}
	p := &namePatterns{
		name:     key,
		receiver: namePattern(c.cfg.ReceiverPhrases, key),
		sender:   namePattern(c.cfg.SenderPhrases, key),
	}
	c.names[key] = p
	return p
}

// namePattern matches any of phrases immediately followed by name. Both are
// quoted, so user-supplied names never act as pattern syntax.
func namePattern(phrases []string, name string) *regexp.Regexp {
	var alts []string
	for _, phrase := range phrases {
		fields := strings.Fields(phrase)
		if len(fields) == 0 {
			continue
		}
		alt := quoteFields(fields)
		if isWordRune(firstRune(phrase)) {
			alt = leadingEdge + alt
		}
		if strings.HasSuffix(phrase, ":") {
			alt += `\s*`
		} else {
			alt += `\s+`
		}
		alts = append(alts, alt)
	}
	if len(alts) == 0 {
		return nil
	}

	namePart := quoteFields(strings.Fields(name))
	if isWordRune(lastRune(name)) {
		namePart += trailingEdge
	}
	// Every piece is QuoteMeta'd, so the expression always compiles.
	return regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)` + namePart)
}

// wholeWords matches any of terms bounded by word edges on both sides. The
// matched term is the first submatch.
func wholeWords(terms []string) *regexp.Regexp {
	var quoted []string
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			quoted = append(quoted, quoteFields(strings.Fields(t)))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + leadingEdge + `(` + strings.Join(quoted, "|") + `)` + trailingEdge)
}

func quoteFields(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return strings.Join(quoted, `\s+`)
}

// Word edges that treat any letter, mark or digit as part of a word. The
// \b assertion of package regexp only knows ASCII, so "Adé" would end a
// word inside "Adébayo".
const (
	wordClass    = `\p{L}\p{M}\p{N}_`
	leadingEdge  = `(?:^|[^` + wordClass + `])`
	trailingEdge = `(?:$|[^` + wordClass + `])`
)

// isWordRune reports whether r belongs to wordClass.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r)
}

func firstRune(s string) rune {
	for _, r := range strings.TrimSpace(s) {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	s = strings.TrimSpace(s)
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
