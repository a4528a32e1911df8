package match

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// PatternMode selects how the tokens of a phrase become substring patterns.
type PatternMode string

const (
	// ModeJoined requires every token, in order, inside one pattern.
	ModeJoined PatternMode = "joined"
	// ModePerToken emits one pattern per token; callers OR them.
	ModePerToken PatternMode = "per-token"
)

func ParsePatternMode(s string) (PatternMode, error) {
	switch m := PatternMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeJoined, ModePerToken:
		return m, nil
	case "":
		return ModeJoined, nil
	default:
		return "", invalid("mode", "unknown pattern mode %q", s)
	}
}

// PatternSet is the result of tokenizing one phrase. Patterns are
// case-insensitive LIKE patterns; an empty set leaves the field unconstrained.
type PatternSet struct {
	Mode     PatternMode `json:"mode"`
	Tokens   []string    `json:"tokens"`
	Patterns []string    `json:"patterns"`
}

func (p PatternSet) Empty() bool { return len(p.Patterns) == 0 }

var filterSeparators = regexp.MustCompile(`[\s-]+`)

// FilterTokens is the tokenizer for raw search input: lower-case, split on
// whitespace and hyphens. Every non-empty token is kept, however short.
func FilterTokens(phrase string) []string {
	parts := filterSeparators.Split(strings.ToLower(phrase), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "into": {},
	"your": {}, "this": {}, "that": {}, "will": {}, "have": {}, "about": {},
	"over": {}, "their": {}, "they": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "within": {}, "remote": {}, "job": {}, "role": {},
}

// ScoringTokens is the tokenizer for relevance scoring: lower-case, split on
// whitespace, and drop tokens of three characters or fewer and stopwords.
func ScoringTokens(phrase string) []string {
	words := strings.Fields(strings.ToLower(phrase))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// patternSpecials: regex metacharacters plus the LIKE wildcards % and _.
const patternSpecials = `.*+?^${}()|[]\%_`

// EscapePattern prefixes a backslash to every pattern metacharacter.
func EscapePattern(s string) string {
	if !strings.ContainsAny(s, patternSpecials) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if strings.ContainsRune(patternSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SubstringPattern matches s anywhere in a field.
func SubstringPattern(s string) string {
	return "%" + EscapePattern(s) + "%"
}

// BuildTitlePattern tokenizes phrase with FilterTokens and combines the tokens
// according to mode.
func BuildTitlePattern(phrase string, mode PatternMode) (PatternSet, error) {
	if !utf8.ValidString(phrase) {
		return PatternSet{}, invalid("phrase", "not valid UTF-8")
	}
	return buildPattern(FilterTokens(phrase), mode)
}

// BuildRelevancePattern is BuildTitlePattern over ScoringTokens. It is used to
// narrow the candidate pool for related-job ranking.
func BuildRelevancePattern(phrase string, mode PatternMode) (PatternSet, error) {
	if !utf8.ValidString(phrase) {
		return PatternSet{}, invalid("phrase", "not valid UTF-8")
	}
	return buildPattern(ScoringTokens(phrase), mode)
}

func buildPattern(tokens []string, mode PatternMode) (PatternSet, error) {
	ps := PatternSet{Mode: mode, Tokens: tokens}
	switch mode {
	case ModeJoined:
		if len(tokens) == 0 {
			return ps, nil
		}
		escaped := make([]string, len(tokens))
		for i, t := range tokens {
			escaped[i] = EscapePattern(t)
		}
		ps.Patterns = []string{"%" + strings.Join(escaped, "%") + "%"}
	case ModePerToken:
		for _, t := range tokens {
			ps.Patterns = append(ps.Patterns, SubstringPattern(t))
		}
	default:
		return PatternSet{}, invalid("mode", "unknown pattern mode %q", mode)
	}
	return ps, nil
}
