// Package listing is the job search use case: it resolves raw filters, reads
// the store and ranks related jobs.
package listing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"remotejobs-engine/internal/domain"
	"remotejobs-engine/internal/events"
	"remotejobs-engine/internal/ingest"
	"remotejobs-engine/internal/match"
	"remotejobs-engine/internal/store"
)

type Limits struct {
	PageSize      int
	MaxPageSize   int
	RelatedLimit  int // standard visitors
	ExpandedLimit int // verified users
	RelatedPool   int
}

func DefaultLimits() Limits {
	return Limits{PageSize: 20, MaxPageSize: 100, RelatedLimit: 3, ExpandedLimit: 6, RelatedPool: 200}
}

type Service struct {
	store    store.Store
	engine   *match.Engine
	importer *ingest.Importer
	events   events.Publisher
	limits   Limits
	now      func() time.Time
}

func New(st store.Store, engine *match.Engine, pub events.Publisher, limits Limits) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{
		store:    st,
		engine:   engine,
		importer: ingest.NewImporter(),
		events:   pub,
		limits:   limits,
		now:      time.Now,
	}
}

func (s *Service) Engine() *match.Engine { return s.engine }

type Page struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Sort   string `json:"sort,omitempty"`
}

type SearchResult struct {
	Jobs   []domain.JobRecord `json:"jobs"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
	Filter match.FilterQuery  `json:"filter"`
}

// Search resolves raw into a FilterQuery and returns one page of matches.
func (s *Service) Search(ctx context.Context, raw match.RawFilter, page Page) (SearchResult, error) {
	q, err := s.engine.ResolveFilter(raw)
	if err != nil {
		return SearchResult{}, err
	}
	if page.Offset < 0 {
		return SearchResult{}, &match.InputError{Field: "offset", Reason: "must be >= 0"}
	}
	limit := s.clampPage(page.Limit)

	res, err := s.store.ListJobs(ctx, store.ListOpts{
		Query:  q,
		Sort:   page.Sort,
		Limit:  limit,
		Offset: page.Offset,
	})
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Jobs: res.Jobs, Total: res.Total, Limit: limit, Offset: page.Offset, Filter: q}, nil
}

func (s *Service) clampPage(n int) int {
	if n <= 0 {
		n = s.limits.PageSize
	}
	if s.limits.MaxPageSize > 0 && n > s.limits.MaxPageSize {
		n = s.limits.MaxPageSize
	}
	return n
}

func (s *Service) Job(ctx context.Context, id string) (domain.JobRecord, error) {
	if strings.TrimSpace(id) == "" {
		return domain.JobRecord{}, &match.InputError{Field: "id", Reason: "is required"}
	}
	return s.store.GetJob(ctx, id)
}

type RelatedResult struct {
	Source  domain.JobRecord  `json:"source"`
	Related []match.ScoredJob `json:"related"`
	Limit   int               `json:"limit"`
}

// Related ranks jobs similar to id. Verified users get the expanded limit.
func (s *Service) Related(ctx context.Context, id string, expanded bool) (RelatedResult, error) {
	src, err := s.Job(ctx, id)
	if err != nil {
		return RelatedResult{}, err
	}

	limit := s.limits.RelatedLimit
	if expanded {
		limit = s.limits.ExpandedLimit
	}

	q, err := poolQuery(src)
	if err != nil {
		return RelatedResult{}, err
	}
	pool, err := s.store.ListJobs(ctx, store.ListOpts{Query: q, Limit: s.limits.RelatedPool})
	if err != nil {
		return RelatedResult{}, err
	}

	ranked, err := s.engine.RankRelated(src, pool.Jobs, limit)
	if err != nil {
		return RelatedResult{}, err
	}
	return RelatedResult{Source: src, Related: ranked, Limit: limit}, nil
}

// poolQuery narrows candidates to jobs sharing a meaningful title word or a
// skill with src. A source with neither matches everything.
func poolQuery(src domain.JobRecord) (match.FilterQuery, error) {
	ps, err := match.BuildRelevancePattern(src.Title, match.ModePerToken)
	if err != nil {
		return match.FilterQuery{}, err
	}
	q := match.FilterQuery{KeywordConditions: ps.Patterns}
	for _, sk := range src.Skills.Normalized() {
		q.KeywordConditions = append(q.KeywordConditions, match.SubstringPattern(sk))
	}
	return q, nil
}

type ImportResult struct {
	store.UpsertResult
	Rejected []ingest.Rejection `json:"rejected"`
}

// Import cleans and stores jobs. Invalid records are reported, not stored.
func (s *Service) Import(ctx context.Context, reqID string, jobs []domain.JobRecord) (ImportResult, error) {
	ok, rejected := s.importer.Prepare(jobs)
	if rejected == nil {
		rejected = []ingest.Rejection{}
	}
	res, err := s.store.UpsertJobs(ctx, ok)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}
	log.Printf("[import] added=%d updated=%d rejected=%d", res.Added, res.Updated, len(rejected))
	s.events.Emit(reqID, events.TypeJobsImported, events.JobsImported{
		Added:    res.Added,
		Updated:  res.Updated,
		Rejected: len(rejected),
	})
	return ImportResult{UpsertResult: res, Rejected: rejected}, nil
}

// Cleanup deletes jobs older than maxAge.
func (s *Service) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, &match.InputError{Field: "max_age", Reason: "must be positive"}
	}
	cutoff := s.now().Add(-maxAge).UTC()
	n, err := s.store.CleanupOldJobs(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	log.Printf("[cleanup] deleted=%d cutoff=%s", n, cutoff.Format(time.RFC3339))
	s.events.Emit("", events.TypeJobsCleaned, events.JobsCleaned{Deleted: n, Cutoff: cutoff})
	return n, nil
}

func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
