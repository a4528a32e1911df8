package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"remotejobs-engine/internal/catalog"
	"remotejobs-engine/internal/config"
	"remotejobs-engine/internal/events"
	"remotejobs-engine/internal/listing"
	"remotejobs-engine/internal/match"
	"remotejobs-engine/internal/secrets"
	"remotejobs-engine/internal/store"
)

// app is everything a command needs once config and storage are up.
type app struct {
	cfg     config.Config
	cfgPath string
	store   store.Store
	svc     *listing.Service
	hub     *events.Hub
}

func (a *app) Close() error {
	return a.store.Close()
}

// bootstrap is loadConfig followed by openApp, for the one-shot commands.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openApp(ctx, cfg, path)
}

func dataDir() string {
	if flagDataDir != "" {
		return flagDataDir
	}
	if v := strings.TrimSpace(os.Getenv(config.EnvDataDir)); v != "" {
		return v
	}
	return "."
}

// loadConfig resolves, bootstraps and validates the config. Warnings are
// logged; any validation error is returned.
func loadConfig() (config.Config, string, error) {
	dir := dataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return config.Config{}, "", err
	}

	path := flagConfig
	if path == "" {
		p, err := config.EnsureUserConfig(dir)
		if err != nil {
			return config.Config{}, "", fmt.Errorf("config bootstrap failed: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, path, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	config.ApplyEnv(&cfg)
	if flagDataDir != "" || cfg.App.DataDir == "" {
		cfg.App.DataDir = dir
	}

	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		log.Printf("[config] level=warn msg=%q", w)
	}
	if !v.OK() {
		return cfg, path, fmt.Errorf("invalid config %s: %s", path, strings.Join(v.Errors, "; "))
	}
	return cfg, path, nil
}

func storeOptions(cfg config.Config) store.Options {
	opts := store.Options{
		Driver:      cfg.Store.Driver,
		SQLitePath:  cfg.SQLitePath(),
		DatabaseURL: cfg.Store.DatabaseURL,
		PoolSize:    cfg.Store.PoolSize,
	}
	if cfg.Store.Driver != store.DriverPostgres {
		return opts
	}
	pw, err := secrets.GetDBPassword(secrets.DBKeyringAccount(cfg))
	switch {
	case err == nil:
		opts.Password = pw
	case errors.Is(err, secrets.ErrNotFound):
		// the URL may carry its own password
	default:
		log.Printf("[secrets] level=warn msg=%q", err.Error())
	}
	return opts
}

func limitsFrom(cfg config.Config) listing.Limits {
	return listing.Limits{
		PageSize:      cfg.Listing.PageSize,
		MaxPageSize:   cfg.Listing.MaxPageSize,
		RelatedLimit:  cfg.Related.StandardLimit,
		ExpandedLimit: cfg.Related.ExpandedLimit,
		RelatedPool:   cfg.Related.PoolSize,
	}
}

// openApp opens and migrates the store and builds the service on top of it.
func openApp(ctx context.Context, cfg config.Config, path string) (*app, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, storeOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	hub := events.NewHub()
	return &app{
		cfg:     cfg,
		cfgPath: path,
		store:   st,
		svc:     listing.New(st, match.NewEngine(cat), hub, limitsFrom(cfg)),
		hub:     hub,
	}, nil
}
