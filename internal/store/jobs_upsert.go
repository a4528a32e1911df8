package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"remotejobs-engine/internal/domain"
)

// UpsertJobs inserts new jobs and overwrites existing ones by id, in one
// transaction.
func (d *SQLite) UpsertJobs(ctx context.Context, jobs []domain.JobRecord) (UpsertResult, error) {
	var res UpsertResult
	if len(jobs) == 0 {
		return res, nil
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, j := range jobs {
		id := strings.TrimSpace(j.ID)
		if id == "" {
			return UpsertResult{}, fmt.Errorf("upsert job %q: id is required", j.Title)
		}

		// precheck; changes() counts updates too so it can't tell them apart
		var exists int
		_ = tx.QueryRowContext(ctx, `SELECT 1 FROM jobs WHERE id = ? LIMIT 1;`, id).Scan(&exists)

		created := j.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO jobs (`+jobColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title = excluded.title,
  skills = excluded.skills,
  company_name = excluded.company_name,
  country = excluded.country,
  city = excluded.city,
  category = excluded.category,
  experience = excluded.experience,
  employment_type = excluded.employment_type,
  salary = excluded.salary,
  description = excluded.description,
  apply_url = excluded.apply_url,
  created_at = excluded.created_at;`,
			id, j.Title, j.Skills.String(), j.CompanyName, j.Country, j.City, j.Category,
			j.Experience, j.EmploymentType, j.Salary, j.Description, j.ApplyURL,
			created.UTC().Format(timeLayout),
		); err != nil {
			return UpsertResult{}, fmt.Errorf("upsert job %s: %w", id, err)
		}

		if exists == 1 {
			res.Updated++
		} else {
			res.Added++
		}
	}

	if err := tx.Commit(); err != nil {
		return UpsertResult{}, err
	}
	return res, nil
}
