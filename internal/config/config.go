package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yml
var defaultConfig []byte

type Config struct {
	App struct {
		Host    string `yaml:"host" json:"host"`
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Store struct {
		Driver         string `yaml:"driver" json:"driver"`
		SQLitePath     string `yaml:"sqlite_path" json:"sqlite_path"`
		DatabaseURL    string `yaml:"database_url" json:"database_url"`
		KeyringAccount string `yaml:"keyring_account" json:"keyring_account"`
		PoolSize       int    `yaml:"pool_size" json:"pool_size"`
	} `yaml:"store" json:"store"`

	Catalog struct {
		Path string `yaml:"path" json:"path"`
	} `yaml:"catalog" json:"catalog"`

	Related struct {
		StandardLimit int `yaml:"standard_limit" json:"standard_limit"`
		ExpandedLimit int `yaml:"expanded_limit" json:"expanded_limit"`
		PoolSize      int `yaml:"pool_size" json:"pool_size"`
	} `yaml:"related" json:"related"`

	Listing struct {
		PageSize    int `yaml:"page_size" json:"page_size"`
		MaxPageSize int `yaml:"max_page_size" json:"max_page_size"`
	} `yaml:"listing" json:"listing"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
	} `yaml:"rate_limit" json:"rate_limit"`

	Cleanup struct {
		Schedule   string `yaml:"schedule" json:"schedule"`
		MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"`
		RunOnStart bool   `yaml:"run_on_start" json:"run_on_start"`
	} `yaml:"cleanup" json:"cleanup"`

	Admin struct {
		Token string `yaml:"token" json:"token"`
	} `yaml:"admin" json:"admin"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded default invalid: %v", err))
	}
	return cfg
}

// Load reads path over the defaults, so a partial file keeps default values
// for everything it omits.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// SQLitePath resolves the database file, defaulting to the data dir.
func (c Config) SQLitePath() string {
	if p := strings.TrimSpace(c.Store.SQLitePath); p != "" {
		return p
	}
	return filepath.Join(c.App.DataDir, "jobs.db")
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

// Redacted returns a copy safe to expose over the API.
func (c Config) Redacted() Config {
	out := c
	if out.Admin.Token != "" {
		out.Admin.Token = "********"
	}
	if out.Store.DatabaseURL != "" {
		if u, err := url.Parse(out.Store.DatabaseURL); err == nil && u.User != nil {
			if _, has := u.User.Password(); has {
				u.User = url.UserPassword(u.User.Username(), "xxxxx")
				out.Store.DatabaseURL = u.String()
			}
		}
	}
	return out
}
