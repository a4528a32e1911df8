package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotejobs-engine/internal/catalog"
)

const fixtureTables = `
titles:
  - value: Backend Engineer
    synonyms: [Backend Developer, Back-End Engineer]
    related: [API Engineer]
locations:
  - value: United States
    slug: usa
  - value: Europe
`

func fixtureEngine(t *testing.T) *Engine {
	t.Helper()
	c, err := catalog.Parse([]byte(fixtureTables))
	require.NoError(t, err)
	return NewEngine(c)
}

func TestResolveFilter_EmptyInputIsUnconstrained(t *testing.T) {
	q, err := fixtureEngine(t).ResolveFilter(RawFilter{Location: "any", Experience: "any", Category: "All"})
	require.NoError(t, err)
	assert.True(t, q.Unconstrained())
	assert.Empty(t, q.TitleConditions)
	assert.Empty(t, q.KeywordConditions)
	assert.Empty(t, q.LocationPattern)
	assert.Empty(t, q.ExperienceBucket)
}

func TestResolveFilter_UnknownExperienceHasNoCondition(t *testing.T) {
	q, err := fixtureEngine(t).ResolveFilter(RawFilter{Experience: "unknown-value"})
	require.NoError(t, err)
	assert.Empty(t, q.ExperienceBucket)
	assert.Empty(t, q.ExperienceConditions)
	assert.Empty(t, q.Groups())
}

func TestResolveFilter_ExperienceBucket(t *testing.T) {
	q, err := fixtureEngine(t).ResolveFilter(RawFilter{Experience: "Senior"})
	require.NoError(t, err)
	assert.Equal(t, BucketSenior, q.ExperienceBucket)
	assert.Equal(t, []string{"%5+%", "%5-10%", "%7+%", "%10+%", "%senior%", "%lead%", "%principal%"}, q.ExperienceConditions)

	groups := q.Groups()
	require.Len(t, groups, 1)
	require.Len(t, groups[0], 7)
	for _, c := range groups[0] {
		assert.Equal(t, FieldExperience, c.Field)
		assert.Equal(t, OpILike, c.Op)
	}
}

func TestResolveFilter_UnknownLocationMatchesLiterally(t *testing.T) {
	q, err := fixtureEngine(t).ResolveFilter(RawFilter{Location: "nonexistent-slug"})
	require.NoError(t, err)
	assert.Equal(t, "nonexistent-slug", q.LocationValue)
	assert.Equal(t, "%nonexistent-slug%", q.LocationPattern)
}

func TestResolveFilter_KnownLocationUsesCanonicalValue(t *testing.T) {
	q, err := fixtureEngine(t).ResolveFilter(RawFilter{Location: "usa"})
	require.NoError(t, err)
	assert.Equal(t, "United States", q.LocationValue)

	groups := q.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, []Condition{
		{Field: FieldCountry, Op: OpILike, Value: "%United States%"},
		{Field: FieldCity, Op: OpILike, Value: "%United States%"},
	}, groups[0])
}

func TestResolveFilter_TitleExpandsThroughCatalog(t *testing.T) {
	q, err := fixtureEngine(t).ResolveFilter(RawFilter{Title: "backend-engineer"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"%backend%engineer%",
		"%backend%developer%",
		"%back%end%engineer%",
		"%api%engineer%",
	}, q.TitleConditions)
}

func TestResolveFilter_UnknownTitleUsesOnlyItsTokens(t *testing.T) {
	q, err := fixtureEngine(t).ResolveFilter(RawFilter{Title: "Senior  Backend-Engineer"})
	require.NoError(t, err)
	assert.Equal(t, []string{"%senior%backend%engineer%"}, q.TitleConditions)
}

func TestResolveFilter_KeywordIsPerTokenOverTitleAndSkills(t *testing.T) {
	q, err := fixtureEngine(t).ResolveFilter(RawFilter{Keyword: "go kafka"})
	require.NoError(t, err)
	assert.Equal(t, []string{"%go%", "%kafka%"}, q.KeywordConditions)

	groups := q.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, []Condition{
		{Field: FieldTitle, Op: OpILike, Value: "%go%"},
		{Field: FieldSkills, Op: OpILike, Value: "%go%"},
		{Field: FieldTitle, Op: OpILike, Value: "%kafka%"},
		{Field: FieldSkills, Op: OpILike, Value: "%kafka%"},
	}, groups[0])
}

func TestFilterQuery_GroupOrder(t *testing.T) {
	q, err := fixtureEngine(t).ResolveFilter(RawFilter{
		Title:          "Designer",
		Location:       "europe",
		Experience:     "entry-level",
		Keyword:        "figma",
		Category:       "Design",
		EmploymentType: "Full-time",
	})
	require.NoError(t, err)

	groups := q.Groups()
	require.Len(t, groups, 6)
	assert.Equal(t, FieldCountry, groups[0][0].Field)
	assert.Equal(t, FieldTitle, groups[1][0].Field)
	assert.Equal(t, FieldExperience, groups[2][0].Field)
	assert.Equal(t, FieldSkills, groups[3][1].Field)
	assert.Equal(t, []Condition{{Field: FieldCategory, Op: OpEq, Value: "Design"}}, groups[4])
	assert.Equal(t, []Condition{{Field: FieldEmploymentType, Op: OpEq, Value: "Full-time"}}, groups[5])
}

func TestResolveFilter_RejectsInvalidUTF8(t *testing.T) {
	_, err := fixtureEngine(t).ResolveFilter(RawFilter{Keyword: "\xc3\x28"})
	var ie *InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "keyword", ie.Field)
}

func TestResolveFilter_NilCatalog(t *testing.T) {
	q, err := NewEngine(nil).ResolveFilter(RawFilter{Title: "Backend Engineer", Location: "usa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"%backend%engineer%"}, q.TitleConditions)
	assert.Equal(t, "%usa%", q.LocationPattern)
}

func TestResolveBucket(t *testing.T) {
	for _, b := range Buckets() {
		got, ok := ResolveBucket(" " + string(b) + " ")
		require.True(t, ok)
		assert.Equal(t, b, got)
		assert.NotEmpty(t, got.Fragments())
	}
	for _, raw := range []string{"", "any", "expert"} {
		_, ok := ResolveBucket(raw)
		assert.False(t, ok, raw)
	}
}
