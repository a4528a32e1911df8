package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotejobs-engine/internal/domain"
)

func TestDecode_JSONListAndObject(t *testing.T) {
	jobs, err := Decode(strings.NewReader(`[{"id":"1","title":"Go Dev","skills":"go, sql"}]`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.SkillList{"go", "sql"}, jobs[0].Skills)

	jobs, err = Decode(strings.NewReader(`{"jobs":[{"id":"2","title":"Designer","skills":["Figma"]}]}`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "2", jobs[0].ID)
}

func TestDecode_YAML(t *testing.T) {
	src := `
- id: a
  title: Backend Engineer
  skills: [Go, Kafka]
  created_at: 2026-01-02T03:04:05Z
- id: b
  title: Analyst
  skills: SQL, Excel
`
	jobs, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, domain.SkillList{"Go", "Kafka"}, jobs[0].Skills)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), jobs[0].CreatedAt)
	assert.Equal(t, domain.SkillList{"SQL", "Excel"}, jobs[1].Skills)

	jobs, err = Decode(strings.NewReader("jobs:\n  - title: X\n"), FormatYAML)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
}

func TestDecode_EmptyAndBroken(t *testing.T) {
	jobs, err := Decode(strings.NewReader("  \n"), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = Decode(strings.NewReader(`[{"title": 3}]`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`[]`), Format("xml"))
	assert.Error(t, err)
}

func TestDecodeFile_PicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "jobs.json")
	require.NoError(t, os.WriteFile(p, []byte(`[{"id":"1","title":"Go Dev"}]`), 0o644))

	jobs, err := DecodeFile(p)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, FormatYAML, FormatFromPath("jobs.yml"))
}

func fixedImporter() *Importer {
	im := NewImporter()
	im.Now = func() time.Time { return time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC) }
	n := 0
	im.NewID = func() string {
		n++
		return "gen-" + string(rune('0'+n))
	}
	return im
}

func TestPrepare_CleansRecords(t *testing.T) {
	in := []domain.JobRecord{{
		Title:       "  Senior Go   Engineer ",
		City:        "Location: Berlin, berlin , Munich",
		Skills:      domain.SkillList{"Go", " go ", "", "Kafka"},
		Description: "<p>Build <b>things</b></p><ul><li>Go</li><li>SQL</li></ul><script>x()</script>",
		ApplyURL:    "HTTPS://Jobs.Example.com/apply?utm_source=x&id=7#top",
	}}

	ok, rejected := fixedImporter().Prepare(in)
	require.Empty(t, rejected)
	require.Len(t, ok, 1)

	j := ok[0]
	assert.Equal(t, "gen-1", j.ID)
	assert.Equal(t, "Senior Go Engineer", j.Title)
	assert.Equal(t, "Berlin, Munich", j.City)
	assert.Equal(t, domain.SkillList{"Go", "Kafka"}, j.Skills)
	assert.Equal(t, "Build things Go SQL", j.Description)
	assert.Equal(t, "https://jobs.example.com/apply?id=7", j.ApplyURL)
	assert.Equal(t, time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC), j.CreatedAt)
}

func TestPrepare_RejectsIndividually(t *testing.T) {
	in := []domain.JobRecord{
		{ID: "1", Title: "Fine"},
		{ID: "2", Title: "   "},
		{ID: "3", Title: "Bad link", ApplyURL: "not a url"},
		{ID: "1", Title: "Again"},
	}

	ok, rejected := fixedImporter().Prepare(in)
	require.Len(t, ok, 1)
	assert.Equal(t, "1", ok[0].ID)

	require.Len(t, rejected, 3)
	assert.Equal(t, Rejection{Index: 1, ID: "2", Reason: "title: required"}, rejected[0])
	assert.Equal(t, 2, rejected[1].Index)
	assert.Contains(t, rejected[1].Reason, "apply_url: url")
	assert.Equal(t, 3, rejected[2].Index)
	assert.Contains(t, rejected[2].Reason, "duplicate id")
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "plain text", HTMLToText("  plain   text "))
	assert.Equal(t, "A & B", HTMLToText("A &amp; B"))
	assert.Equal(t, "one two", HTMLToText("<div>one</div><div>two</div>"))
	assert.Equal(t, "", HTMLToText(""))
}

func TestNormalizeLocation(t *testing.T) {
	assert.Equal(t, "", NormalizeLocation("  "))
	assert.Equal(t, "Remote, EU", NormalizeLocation("LOCATIONS: Remote, EU, remote"))
}

func TestCanonicalizeURL(t *testing.T) {
	assert.Equal(t, "", canonicalizeURL(" "))
	assert.Equal(t, "https://a.com/x?a=1&b=2", canonicalizeURL("https://A.com/x?b=2&gclid=z&a=1"))
}
