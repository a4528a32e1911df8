package match

import (
	"strings"
	"unicode/utf8"

	"remotejobs-engine/internal/catalog"
	"remotejobs-engine/internal/domain"
)

// Field is a job column a condition may target.
type Field string

const (
	FieldTitle          Field = "title"
	FieldSkills         Field = "skills"
	FieldCountry        Field = "country"
	FieldCity           Field = "city"
	FieldExperience     Field = "experience"
	FieldCategory       Field = "category"
	FieldEmploymentType Field = "employment_type"
)

// Op is the predicate applied by a Condition.
type Op string

const (
	// OpILike is a case-insensitive LIKE with backslash escapes.
	OpILike Op = "ilike"
	// OpEq is case-insensitive equality.
	OpEq Op = "eq"
)

// Condition is one predicate over one field.
type Condition struct {
	Field Field  `json:"field"`
	Op    Op     `json:"op"`
	Value string `json:"value"`
}

var (
	locationFields = []Field{FieldCountry, FieldCity}
	keywordFields  = []Field{FieldTitle, FieldSkills}
)

// RawFilter is the user-facing search input as it arrives from a query string.
type RawFilter struct {
	Title          string `json:"title,omitempty"`
	Location       string `json:"location,omitempty"`
	Experience     string `json:"experience,omitempty"`
	Keyword        string `json:"keyword,omitempty"`
	Category       string `json:"category,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
}

// FilterQuery is the normalized search predicate. Groups are ANDed; the
// conditions inside a group are ORed. Empty members leave that dimension
// unconstrained.
type FilterQuery struct {
	LocationValue        string   `json:"locationValue,omitempty"`
	LocationPattern      string   `json:"locationPattern,omitempty"`
	TitleConditions      []string `json:"titleConditions"`
	KeywordConditions    []string `json:"keywordConditions"`
	ExperienceBucket     Bucket   `json:"experienceBucket,omitempty"`
	ExperienceConditions []string `json:"experienceConditions,omitempty"`
	Category             string   `json:"category,omitempty"`
	EmploymentType       string   `json:"employmentType,omitempty"`
}

// Groups expands the query into condition groups in a fixed order: location,
// title, experience, keyword, category, employment type.
func (q FilterQuery) Groups() [][]Condition {
	var groups [][]Condition

	if q.LocationPattern != "" {
		g := make([]Condition, 0, len(locationFields))
		for _, f := range locationFields {
			g = append(g, Condition{Field: f, Op: OpILike, Value: q.LocationPattern})
		}
		groups = append(groups, g)
	}
	if g := ilikeGroup(FieldTitle, q.TitleConditions); len(g) > 0 {
		groups = append(groups, g)
	}
	if g := ilikeGroup(FieldExperience, q.ExperienceConditions); len(g) > 0 {
		groups = append(groups, g)
	}
	if len(q.KeywordConditions) > 0 {
		g := make([]Condition, 0, len(q.KeywordConditions)*len(keywordFields))
		for _, p := range q.KeywordConditions {
			for _, f := range keywordFields {
				g = append(g, Condition{Field: f, Op: OpILike, Value: p})
			}
		}
		groups = append(groups, g)
	}
	if q.Category != "" {
		groups = append(groups, []Condition{{Field: FieldCategory, Op: OpEq, Value: q.Category}})
	}
	if q.EmploymentType != "" {
		groups = append(groups, []Condition{{Field: FieldEmploymentType, Op: OpEq, Value: q.EmploymentType}})
	}
	return groups
}

// Unconstrained reports whether the query matches every job.
func (q FilterQuery) Unconstrained() bool {
	return len(q.Groups()) == 0
}

func ilikeGroup(f Field, patterns []string) []Condition {
	if len(patterns) == 0 {
		return nil
	}
	g := make([]Condition, 0, len(patterns))
	for _, p := range patterns {
		g = append(g, Condition{Field: f, Op: OpILike, Value: p})
	}
	return g
}

// Engine resolves filters against a fixed set of option tables. It holds no
// mutable state and may be shared across goroutines.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine binds the engine to c. A nil catalog behaves as empty tables.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// RankRelated is the package-level RankRelated, exposed on the engine so
// callers can depend on one value.
func (e *Engine) RankRelated(source domain.JobRecord, candidates []domain.JobRecord, limit int) ([]ScoredJob, error) {
	return RankRelated(source, candidates, limit)
}

// ResolveFilter turns raw search input into a FilterQuery. Unknown locations
// fall back to literal matching and unknown experience levels are dropped;
// the only error is input that is not valid UTF-8.
func (e *Engine) ResolveFilter(raw RawFilter) (FilterQuery, error) {
	for name, v := range map[string]string{
		"title": raw.Title, "location": raw.Location, "experience": raw.Experience,
		"keyword": raw.Keyword, "category": raw.Category, "employment_type": raw.EmploymentType,
	} {
		if !utf8.ValidString(v) {
			return FilterQuery{}, invalid(name, "not valid UTF-8")
		}
	}

	q := FilterQuery{
		TitleConditions:   []string{},
		KeywordConditions: []string{},
	}

	if loc, ok := constrained(raw.Location); ok {
		value := loc
		if opt, found := e.catalog.LocationBySlug(loc); found {
			value = opt.Value
		}
		q.LocationValue = value
		q.LocationPattern = SubstringPattern(value)
	}

	q.TitleConditions = e.titleConditions(raw.Title)

	if b, ok := ResolveBucket(raw.Experience); ok {
		q.ExperienceBucket = b
		for _, frag := range b.Fragments() {
			q.ExperienceConditions = append(q.ExperienceConditions, SubstringPattern(frag))
		}
	}

	kw, err := BuildTitlePattern(raw.Keyword, ModePerToken)
	if err != nil {
		return FilterQuery{}, err
	}
	q.KeywordConditions = appendUnique(q.KeywordConditions, kw.Patterns...)

	if v, ok := constrained(raw.Category); ok {
		q.Category = v
	}
	if v, ok := constrained(raw.EmploymentType); ok {
		q.EmploymentType = v
	}
	return q, nil
}

func (e *Engine) titleConditions(title string) []string {
	out := []string{}
	base, err := buildPattern(FilterTokens(title), ModeJoined)
	if err != nil || base.Empty() {
		return out
	}
	out = appendUnique(out, base.Patterns...)

	opt, ok := e.catalog.LookupTitle(title)
	if !ok {
		return out
	}
	for _, phrase := range opt.Expansions() {
		ps, err := buildPattern(FilterTokens(phrase), ModeJoined)
		if err != nil {
			continue
		}
		out = appendUnique(out, ps.Patterns...)
	}
	return out
}

// constrained trims v and reports false for the "no constraint" sentinels.
func constrained(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "any") || strings.EqualFold(v, "all") {
		return "", false
	}
	return v, true
}

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		dup := false
		for _, d := range dst {
			if d == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
