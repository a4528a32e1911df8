package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"remotejobs-engine/internal/domain"
)

// timeLayout keeps created_at lexically sortable as TEXT.
const timeLayout = "2006-01-02T15:04:05Z"

func (d *SQLite) Migrate(ctx context.Context) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.ExecContext(ctx, `
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
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS idx_jobs_created_at
ON jobs(created_at);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanJob reads jobColumns; created receives the created_at column in the
// backend's native type.
func scanJob(s scanner, created any) (domain.JobRecord, error) {
	var j domain.JobRecord
	var skills string
	err := s.Scan(
		&j.ID,
		&j.Title,
		&skills,
		&j.CompanyName,
		&j.Country,
		&j.City,
		&j.Category,
		&j.Experience,
		&j.EmploymentType,
		&j.Salary,
		&j.Description,
		&j.ApplyURL,
		created,
	)
	j.Skills = domain.ParseSkills(skills)
	return j, err
}

func scanSQLiteJob(s scanner) (domain.JobRecord, error) {
	var createdStr string
	j, err := scanJob(s, &createdStr)
	if err != nil {
		return domain.JobRecord{}, err
	}
	j.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	return j, nil
}

func (d *SQLite) ListJobs(ctx context.Context, opts ListOpts) (ListResult, error) {
	where, args, err := compileWhere(sqliteDialect{}, opts.Query.Groups(), 1)
	if err != nil {
		return ListResult{}, err
	}

	page := ""
	rowArgs := append([]any(nil), args...)
	if opts.Limit > 0 {
		page = "LIMIT ? OFFSET ?"
		rowArgs = append(rowArgs, opts.Limit, max(opts.Offset, 0))
	}

	query := fmt.Sprintf(`
SELECT %s
FROM jobs
%s
ORDER BY %s
%s;
`, jobColumns, where, sortClause(opts.Sort), page)

	var (
		total int
		jobs  = []domain.JobRecord{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.Pool.QueryRowContext(gctx, `SELECT COUNT(*) FROM jobs `+where, args...).Scan(&total)
	})
	g.Go(func() error {
		rows, err := d.Pool.QueryContext(gctx, query, rowArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			j, err := scanSQLiteJob(rows)
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

func (d *SQLite) GetJob(ctx context.Context, id string) (domain.JobRecord, error) {
	row := d.Pool.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?;`, strings.TrimSpace(id))
	j, err := scanSQLiteJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JobRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.JobRecord{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return j, nil
}

func (d *SQLite) CleanupOldJobs(ctx context.Context, olderThan time.Time) (deleted int64, err error) {
	res, err := d.Pool.ExecContext(ctx, `
DELETE FROM jobs
WHERE created_at < ?;
`, olderThan.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
