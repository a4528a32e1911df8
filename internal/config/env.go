package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDataDir     = "REMOTEJOBS_DATA_DIR"
	EnvPort        = "PORT"
	EnvDatabaseURL = "DATABASE_URL"
	EnvStoreDriver = "REMOTEJOBS_STORE_DRIVER"
	EnvAdminToken  = "REMOTEJOBS_ADMIN_TOKEN"
)

// LoadDotEnv loads .env files into the process environment if present.
// Variables already set win.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		log.Printf("[config] dotenv: %v", err)
	}
}

// ApplyEnv overlays environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	applyEnv(cfg, os.Getenv)
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvDataDir)); v != "" {
		cfg.App.DataDir = v
	}
	if v := strings.TrimSpace(getenv(EnvPort)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		} else {
			log.Printf("[config] ignoring %s=%q: %v", EnvPort, v, err)
		}
	}
	if v := strings.TrimSpace(getenv(EnvDatabaseURL)); v != "" {
		cfg.Store.DatabaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvStoreDriver)); v != "" {
		cfg.Store.Driver = v
	}
	if v := strings.TrimSpace(getenv(EnvAdminToken)); v != "" {
		cfg.Admin.Token = v
	}
}
