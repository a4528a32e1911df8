package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg together with every
// problem found. Errors block startup; warnings are logged.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.App.Host = strings.TrimSpace(out.App.Host)
	if out.App.Host == "" {
		out.App.Host = "127.0.0.1"
	}
	out.Store.Driver = strings.ToLower(strings.TrimSpace(out.Store.Driver))
	if out.Store.Driver == "" {
		out.Store.Driver = "sqlite"
	}
	out.Cleanup.Schedule = strings.TrimSpace(out.Cleanup.Schedule)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	switch out.Store.Driver {
	case "sqlite":
		if strings.TrimSpace(out.App.DataDir) == "" && strings.TrimSpace(out.Store.SQLitePath) == "" {
			res.addWarn("app.data_dir and store.sqlite_path are empty; the database goes in the working directory.")
		}
	case "postgres":
		if strings.TrimSpace(out.Store.DatabaseURL) == "" {
			res.addErr("store.database_url is required when store.driver=postgres")
		}
		if out.Store.PoolSize < 0 {
			res.addErr("store.pool_size must be >= 0")
		}
	default:
		res.addErr("store.driver must be sqlite or postgres, got %q", out.Store.Driver)
	}

	// related-jobs limits
	if out.Related.StandardLimit < 1 {
		res.addErr("related.standard_limit must be >= 1")
	}
	if out.Related.ExpandedLimit < out.Related.StandardLimit {
		res.addErr("related.expanded_limit must be >= related.standard_limit")
	}
	if out.Related.PoolSize < out.Related.ExpandedLimit {
		res.addErr("related.pool_size must be >= related.expanded_limit")
	} else if out.Related.PoolSize > 1000 {
		res.addWarn("related.pool_size is %d; ranking scans the whole pool on every request.", out.Related.PoolSize)
	}

	if out.Listing.PageSize < 1 {
		res.addErr("listing.page_size must be >= 1")
	}
	if out.Listing.MaxPageSize < out.Listing.PageSize {
		res.addErr("listing.max_page_size must be >= listing.page_size")
	}

	if out.RateLimit.RequestsPerSecond < 0 {
		res.addErr("rate_limit.requests_per_second must be >= 0")
	} else if out.RateLimit.RequestsPerSecond == 0 {
		res.addWarn("rate_limit.requests_per_second is 0; rate limiting is disabled.")
	} else if out.RateLimit.Burst < 1 {
		res.addErr("rate_limit.burst must be >= 1")
	}

	if out.Cleanup.Schedule != "" {
		if _, err := cron.ParseStandard(out.Cleanup.Schedule); err != nil {
			res.addErr("cleanup.schedule %q is invalid: %v", out.Cleanup.Schedule, err)
		}
		if out.Cleanup.MaxAgeDays < 1 {
			res.addErr("cleanup.max_age_days must be >= 1")
		}
	}

	if strings.TrimSpace(out.Admin.Token) == "" {
		res.addWarn("admin.token is empty; POST /jobs is disabled.")
	} else if len(out.Admin.Token) < 16 {
		res.addWarn("admin.token is shorter than 16 characters.")
	}

	return out, res
}
