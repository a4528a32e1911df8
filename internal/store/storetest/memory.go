// Package storetest provides an in-memory store.Store for tests.
package storetest

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"remotejobs-engine/internal/domain"
	"remotejobs-engine/internal/match"
	"remotejobs-engine/internal/store"
)

// Memory evaluates filter queries with the same LIKE semantics as the SQL
// backends.
type Memory struct {
	mu   sync.Mutex
	jobs []domain.JobRecord

	// ListCalls records every ListJobs call.
	ListCalls []store.ListOpts
	// Err, when set, is returned by every method.
	Err error
}

var _ store.Store = (*Memory)(nil)

func New(jobs ...domain.JobRecord) *Memory {
	m := &Memory{}
	_, _ = m.UpsertJobs(context.Background(), jobs)
	return m
}

func (m *Memory) Migrate(context.Context) error { return m.Err }
func (m *Memory) Ping(context.Context) error    { return m.Err }
func (m *Memory) Close() error                  { return nil }

func (m *Memory) ListJobs(_ context.Context, opts store.ListOpts) (store.ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls = append(m.ListCalls, opts)
	if m.Err != nil {
		return store.ListResult{}, m.Err
	}

	groups := opts.Query.Groups()
	matched := []domain.JobRecord{}
	for _, j := range m.jobs {
		if matchesAll(j, groups) {
			matched = append(matched, j)
		}
	}
	sortJobs(matched, opts.Sort)

	total := len(matched)
	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[opts.Offset:]
		}
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return store.ListResult{Jobs: append([]domain.JobRecord{}, matched...), Total: total}, nil
}

func (m *Memory) GetJob(_ context.Context, id string) (domain.JobRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return domain.JobRecord{}, m.Err
	}
	for _, j := range m.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return domain.JobRecord{}, store.ErrNotFound
}

func (m *Memory) UpsertJobs(_ context.Context, jobs []domain.JobRecord) (store.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res store.UpsertResult
	if m.Err != nil {
		return res, m.Err
	}
outer:
	for _, j := range jobs {
		if j.CreatedAt.IsZero() {
			j.CreatedAt = time.Now().UTC()
		}
		for i := range m.jobs {
			if m.jobs[i].ID == j.ID {
				m.jobs[i] = j
				res.Updated++
				continue outer
			}
		}
		m.jobs = append(m.jobs, j)
		res.Added++
	}
	return res, nil
}

func (m *Memory) CleanupOldJobs(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	kept := m.jobs[:0]
	var n int64
	for _, j := range m.jobs {
		if j.CreatedAt.Before(olderThan) {
			n++
			continue
		}
		kept = append(kept, j)
	}
	m.jobs = kept
	return n, nil
}

func sortJobs(jobs []domain.JobRecord, by string) {
	sort.SliceStable(jobs, func(a, b int) bool {
		x, y := jobs[a], jobs[b]
		switch by {
		case "title":
			if x.Title != y.Title {
				return x.Title < y.Title
			}
		case "company":
			if x.CompanyName != y.CompanyName {
				return x.CompanyName < y.CompanyName
			}
		}
		if !x.CreatedAt.Equal(y.CreatedAt) {
			return x.CreatedAt.After(y.CreatedAt)
		}
		return x.ID < y.ID
	})
}

func matchesAll(j domain.JobRecord, groups [][]match.Condition) bool {
	for _, g := range groups {
		if !matchesAny(j, g) {
			return false
		}
	}
	return true
}

func matchesAny(j domain.JobRecord, g []match.Condition) bool {
	for _, c := range g {
		v := fieldValue(j, c.Field)
		switch c.Op {
		case match.OpEq:
			if strings.EqualFold(v, c.Value) {
				return true
			}
		case match.OpILike:
			if Like(v, c.Value) {
				return true
			}
		}
	}
	return false
}

func fieldValue(j domain.JobRecord, f match.Field) string {
	switch f {
	case match.FieldTitle:
		return j.Title
	case match.FieldSkills:
		return j.Skills.String()
	case match.FieldCountry:
		return j.Country
	case match.FieldCity:
		return j.City
	case match.FieldExperience:
		return j.Experience
	case match.FieldCategory:
		return j.Category
	case match.FieldEmploymentType:
		return j.EmploymentType
	}
	return ""
}

// Like reports whether value matches a case-insensitive LIKE pattern with
// backslash escapes.
func Like(value, pattern string) bool {
	var b strings.Builder
	b.WriteString(`(?is)^`)
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(`.*`)
		case r == '_':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(value)
}
