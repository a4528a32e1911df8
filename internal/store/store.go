package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"remotejobs-engine/internal/domain"
	"remotejobs-engine/internal/match"
)

var ErrNotFound = errors.New("job not found")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ListOpts selects a page of jobs matching Query.
type ListOpts struct {
	Query  match.FilterQuery
	Sort   string // date | title | company
	Limit  int
	Offset int
}

type ListResult struct {
	Jobs  []domain.JobRecord `json:"jobs"`
	Total int                `json:"total"`
}

type UpsertResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// Store is the persistence port the listing service depends on.
type Store interface {
	Migrate(ctx context.Context) error
	ListJobs(ctx context.Context, opts ListOpts) (ListResult, error)
	GetJob(ctx context.Context, id string) (domain.JobRecord, error)
	UpsertJobs(ctx context.Context, jobs []domain.JobRecord) (UpsertResult, error)
	CleanupOldJobs(ctx context.Context, olderThan time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

type Options struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
	// Password is applied to DatabaseURL when the URL carries none.
	Password string
	PoolSize int
}

// Open connects to the configured backend. Schema migration is left to the caller.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverSQLite:
		return OpenSQLite(opts.SQLitePath)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL, opts.Password, opts.PoolSize)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// sortClause whitelists sort keys (prevents SQL injection).
func sortClause(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "title":
		return "title ASC, created_at DESC, id ASC"
	case "company":
		return "company_name ASC, created_at DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

const jobColumns = `id, title, skills, company_name, country, city, category, experience,
employment_type, salary, description, apply_url, created_at`
