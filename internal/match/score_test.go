package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotejobs-engine/internal/domain"
)

func job(id, title string, skills ...string) domain.JobRecord {
	return domain.JobRecord{ID: id, Title: title, Skills: domain.SkillList(skills)}
}

func ids(jobs []ScoredJob) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestRankRelated_ScoresTitleAndSkills(t *testing.T) {
	source := job("S", "Senior Python Developer", "Python", "AWS")
	pool := []domain.JobRecord{
		job("A", "Python Developer", "python", "aws", "docker"),
		job("B", "Designer", "Figma"),
	}

	got, err := RankRelated(source, pool, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"A", "B"}, ids(got))
	// "python" and "developer" hit the title, two skills overlap
	assert.Equal(t, 4, got[0].RelevanceScore)
	assert.Equal(t, 0, got[1].RelevanceScore)
}

func TestRankRelated_ExcludesSource(t *testing.T) {
	source := job("S", "Python Developer")
	pool := []domain.JobRecord{source, job("A", "Python Engineer"), source}

	got, err := RankRelated(source, pool, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(got))
}

func TestRankRelated_TiesKeepPoolOrder(t *testing.T) {
	source := job("S", "Golang Engineer")
	pool := []domain.JobRecord{
		job("1", "Accountant"),
		job("2", "Golang Engineer"),
		job("3", "Painter"),
		job("4", "Golang Engineer"),
		job("5", "Chef"),
	}

	got, err := RankRelated(source, pool, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "1", "3", "5"}, ids(got))
}

func TestRankRelated_TruncatesAfterSorting(t *testing.T) {
	source := job("S", "Kotlin Android Developer")
	pool := []domain.JobRecord{
		job("low", "Cook"),
		job("mid", "Android Tester"),
		job("high", "Kotlin Android Developer"),
	}

	got, err := RankRelated(source, pool, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "mid"}, ids(got))
}

func TestRankRelated_SkillTermIsCapped(t *testing.T) {
	source := job("S", "Cook", "go", "sql", "docker", "aws", "linux")
	cand := job("A", "Baker", "go", "sql", "docker", "aws", "linux")

	assert.Equal(t, 2, Score(source, cand))
}

func TestRankRelated_TitleTermIsUncapped(t *testing.T) {
	source := job("S", "staff platform reliability infrastructure engineer")
	cand := job("A", "Staff Platform Reliability Infrastructure Engineer")

	assert.Equal(t, 5, Score(source, cand))
}

func TestScore_SkillSubstringIsCaseInsensitive(t *testing.T) {
	source := job("S", "", "React")
	cand := job("A", "Frontend", "ReactJS", "React Native", "Vue")
	assert.Equal(t, 2, Score(source, cand))

	cand = job("A", "Frontend", "react")
	assert.Equal(t, 1, Score(source, cand))
}

func TestScore_MalformedCandidateScoresZero(t *testing.T) {
	source := job("S", "Python Developer", "python")
	assert.Equal(t, 0, Score(source, job("A", "   ", "python")))
	assert.Equal(t, 0, Score(source, domain.JobRecord{ID: "B"}))
}

func TestRankRelated_MalformedCandidateDoesNotAbort(t *testing.T) {
	source := job("S", "Python Developer", "python")
	pool := []domain.JobRecord{{ID: "broken"}, job("ok", "Python Developer")}

	got, err := RankRelated(source, pool, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok", "broken"}, ids(got))
}

func TestRankRelated_EmptyPool(t *testing.T) {
	got, err := RankRelated(job("S", "Anything"), nil, 3)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRankRelated_RejectsBadArguments(t *testing.T) {
	_, err := RankRelated(job("S", "x"), nil, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = RankRelated(job("", "x"), nil, 3)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankRelated_ScoresNeverNegative(t *testing.T) {
	source := job("S", "Senior Data Engineer", "spark", "sql")
	pool := []domain.JobRecord{
		job("a", ""), job("b", "Data"), job("c", "Senior Data Engineer", "Spark", "SQL", "Airflow"),
	}
	got, err := RankRelated(source, pool, 3)
	require.NoError(t, err)
	for _, j := range got {
		assert.GreaterOrEqual(t, j.RelevanceScore, 0)
	}
}
