package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Senior  Backend-Engineer", []string{"senior", "backend", "engineer"}},
		{"  go - dev ", []string{"go", "dev"}},
		{"the and for", []string{"the", "and", "for"}},
		{"", []string{}},
		{"---", []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FilterTokens(tt.in), tt.in)
	}
}

func TestScoringTokens_DropsShortAndStopwords(t *testing.T) {
	assert.Equal(t, []string{"senior", "backend-engineer"}, ScoringTokens("Senior  Backend-Engineer"))
	assert.Equal(t, []string{"python", "developer"}, ScoringTokens("Remote Python Developer for AWS"))
	assert.Empty(t, ScoringTokens("the and for"))
}

func TestBuildTitlePattern_Joined(t *testing.T) {
	ps, err := BuildTitlePattern("Senior  Backend-Engineer", ModeJoined)
	require.NoError(t, err)
	assert.Equal(t, []string{"%senior%backend%engineer%"}, ps.Patterns)
	assert.Equal(t, []string{"senior", "backend", "engineer"}, ps.Tokens)
}

func TestBuildTitlePattern_PerToken(t *testing.T) {
	ps, err := BuildTitlePattern("Senior  Backend-Engineer", ModePerToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"%senior%", "%backend%", "%engineer%"}, ps.Patterns)
}

func TestBuildTitlePattern_EmptyIsUnconstrained(t *testing.T) {
	for _, mode := range []PatternMode{ModeJoined, ModePerToken} {
		ps, err := BuildTitlePattern("   ", mode)
		require.NoError(t, err)
		assert.True(t, ps.Empty())
	}
}

func TestStopwordPathsDiffer(t *testing.T) {
	filter, err := BuildTitlePattern("the and for", ModePerToken)
	require.NoError(t, err)
	assert.Len(t, filter.Patterns, 3)

	relevance, err := BuildRelevancePattern("the and for", ModePerToken)
	require.NoError(t, err)
	assert.True(t, relevance.Empty())
}

func TestBuildTitlePattern_EscapesMetacharacters(t *testing.T) {
	ps, err := BuildTitlePattern("C++ .NET 100%_sure", ModePerToken)
	require.NoError(t, err)
	assert.Equal(t, []string{`%c\+\+%`, `%\.net%`, `%100\%\_sure%`}, ps.Patterns)
}

func TestEscapePattern(t *testing.T) {
	assert.Equal(t, "plain", EscapePattern("plain"))
	assert.Equal(t, `a\.b\*c\(d\)\[e\]\{f\}\|g\^h\$i\?j\\k`, EscapePattern(`a.b*c(d)[e]{f}|g^h$i?j\k`))
}

func TestBuildTitlePattern_RejectsBadInput(t *testing.T) {
	_, err := BuildTitlePattern("go", PatternMode("fuzzy"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = BuildTitlePattern("bad \xff byte", ModeJoined)
	var ie *InputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "phrase", ie.Field)
}

func TestParsePatternMode(t *testing.T) {
	m, err := ParsePatternMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeJoined, m)

	m, err = ParsePatternMode(" Per-Token ")
	require.NoError(t, err)
	assert.Equal(t, ModePerToken, m)

	_, err = ParsePatternMode("regex")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
