package normalize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const MinLength = 3

// Rule is a plain substring substitution. Patterns carry their own spaces, so
// matching is not word-bounded: " do " also fires inside " do dang ".
type Rule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// DefaultRules expand common informal shorthand. Order matters: later rules
// see text already rewritten by earlier ones.
var DefaultRules = []Rule{
	{" rat ", " rất "},
	{" dc ", " được "},
	{" ko ", " không "},
	{" k ", " không "},
	{" nt ", " như thế "},
	{" ntn ", " như thế nào "},
	{" bt ", " bình thường "},
	{" do ", " dở "},
	{" ng ", " người "},
	{" hom nay", " hôm nay"},
	{" hom qua", " hôm qua"},
	{" hom sau", " hôm sau"},
}

type Normalizer struct {
	rules []Rule
}

// New returns a Normalizer applying DefaultRules followed by extra.
func New(extra ...Rule) *Normalizer {
	rules := make([]Rule, 0, len(DefaultRules)+len(extra))
	rules = append(rules, DefaultRules...)
	rules = append(rules, extra...)
	return &Normalizer{rules: rules}
}

func (n *Normalizer) Rules() []Rule {
	out := make([]Rule, len(n.rules))
	copy(out, n.rules)
	return out
}

// TooShort reports whether raw fails the minimum length check. Length is
// counted in characters after trimming.
func TooShort(raw string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(raw)) < MinLength
}

// Normalize returns the canonical form of raw, or false when raw is empty or
// shorter than MinLength characters. The length check runs before the
// substitutions, so the result itself may end up shorter.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	if raw == "" || TooShort(raw) {
		return "", false
	}

	text := norm.NFC.String(raw)
	text = strings.TrimSpace(strings.ToLower(text))

	for _, r := range n.rules {
		if r.Pattern == "" {
			continue
		}
		text = strings.ReplaceAll(text, r.Pattern, r.Replacement)
	}

	return strings.Join(strings.Fields(text), " "), true
}
