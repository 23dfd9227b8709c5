package domain

import (
	"regexp"
	"strings"
)

// rewriteRule replaces every match of pattern with replacement.
type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
}

func (r rewriteRule) apply(s string) string {
	return r.pattern.ReplaceAllString(s, r.replacement)
}

var (
	// spellingRules fix common borough misspellings, whole words only.
	spellingRules = []rewriteRule{
		{regexp.MustCompile(`(?i)\bmanhatten\b`), "Manhattan"},
		{regexp.MustCompile(`(?i)\bmanhatan\b`), "Manhattan"},
		{regexp.MustCompile(`(?i)\bbrookln\b`), "Brooklyn"},
		{regexp.MustCompile(`(?i)\bquens\b`), "Queens"},
	}

	// abbreviationRules expand street suffixes. A trailing period is consumed
	// only when no word character follows it, so "St.Marks" keeps its period.
	abbreviationRules = []rewriteRule{
		{regexp.MustCompile(`(?i)\bSt\b(?:\.\B)?`), "Street"},
		{regexp.MustCompile(`(?i)\bAve?\b(?:\.\B)?`), "Avenue"},
	}

	stateTokenRe = regexp.MustCompile(`(?i)\bNY\b`)
)

// NormalizeAddress cleans free-text input before geocoding or parsing:
// spelling corrections, then abbreviation expansion, then a ", NY" suffix
// when the text carries no NY token.
func NormalizeAddress(input string) string {
	s := strings.TrimSpace(input)
	for _, r := range spellingRules {
		s = r.apply(s)
	}
	for _, r := range abbreviationRules {
		s = r.apply(s)
	}
	if !stateTokenRe.MatchString(s) {
		s += ", NY"
	}
	return s
}
