package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"remotejobs-engine/internal/domain"
)

// Postgres is the shared-database backend.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// OpenPostgres opens a pgx pool and pings it. password fills in a DSN that
// has none.
func OpenPostgres(ctx context.Context, dsn, password string, poolSize int) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if config.ConnConfig.Password == "" && password != "" {
		config.ConnConfig.Password = password
	}
	config.MaxConns = 10
	if poolSize > 0 {
		config.MaxConns = int32(poolSize)
	}
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	skills TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	experience TEXT NOT NULL DEFAULT '',
	employment_type TEXT NOT NULL DEFAULT '',
	salary TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	apply_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at DESC);
`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func scanPostgresJob(s scanner) (domain.JobRecord, error) {
	var created time.Time
	j, err := scanJob(s, &created)
	if err != nil {
		return domain.JobRecord{}, err
	}
	j.CreatedAt = created.UTC()
	return j, nil
}

func (p *Postgres) ListJobs(ctx context.Context, opts ListOpts) (ListResult, error) {
	where, args, err := compileWhere(postgresDialect{}, opts.Query.Groups(), 1)
	if err != nil {
		return ListResult{}, err
	}

	page := ""
	rowArgs := append([]any(nil), args...)
	if opts.Limit > 0 {
		n := len(args)
		page = fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2)
		rowArgs = append(rowArgs, opts.Limit, max(opts.Offset, 0))
	}
	query := fmt.Sprintf(`
SELECT %s
FROM jobs
%s
ORDER BY %s
%s`, jobColumns, where, sortClause(opts.Sort), page)

	var (
		total int
		jobs  = []domain.JobRecord{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.pool.QueryRow(gctx, `SELECT COUNT(*) FROM jobs `+where, args...).Scan(&total)
	})
	g.Go(func() error {
		rows, err := p.pool.Query(gctx, query, rowArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			j, err := scanPostgresJob(rows)
			if err != nil {
				return err
			}
			jobs = append(jobs, j)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return ListResult{}, fmt.Errorf("list jobs: %w", err)
	}
	return ListResult{Jobs: jobs, Total: total}, nil
}

func (p *Postgres) GetJob(ctx context.Context, id string) (domain.JobRecord, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, strings.TrimSpace(id))
	j, err := scanPostgresJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.JobRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.JobRecord{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return j, nil
}

func (p *Postgres) UpsertJobs(ctx context.Context, jobs []domain.JobRecord) (UpsertResult, error) {
	var res UpsertResult
	if len(jobs) == 0 {
		return res, nil
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, j := range jobs {
		id := strings.TrimSpace(j.ID)
		if id == "" {
			return UpsertResult{}, fmt.Errorf("upsert job %q: id is required", j.Title)
		}
		created := j.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		var inserted bool
		// xmax is 0 only for a freshly inserted row version
		err := tx.QueryRow(ctx, `
INSERT INTO jobs (`+jobColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	skills = EXCLUDED.skills,
	company_name = EXCLUDED.company_name,
	country = EXCLUDED.country,
	city = EXCLUDED.city,
	category = EXCLUDED.category,
	experience = EXCLUDED.experience,
	employment_type = EXCLUDED.employment_type,
	salary = EXCLUDED.salary,
	description = EXCLUDED.description,
	apply_url = EXCLUDED.apply_url,
	created_at = EXCLUDED.created_at
RETURNING (xmax = 0)`,
			id, j.Title, j.Skills.String(), j.CompanyName, j.Country, j.City, j.Category,
			j.Experience, j.EmploymentType, j.Salary, j.Description, j.ApplyURL, created.UTC(),
		).Scan(&inserted)
		if err != nil {
			return UpsertResult{}, fmt.Errorf("upsert job %s: %w", id, err)
		}
		if inserted {
			res.Added++
		} else {
			res.Updated++
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return UpsertResult{}, err
	}
	return res, nil
}

func (p *Postgres) CleanupOldJobs(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM jobs WHERE created_at < $1`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
