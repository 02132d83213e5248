package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Static   StaticConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name  string
	Debug bool
	Addr  string
}

// DatabaseConfig holds the SQLite location and migration source.
type DatabaseConfig struct {
	Path          string
	MigrationsDir string
}

// AuthConfig holds authentication configuration. The JWT secret itself is
// read by the middleware from CRESTLINE_JWT_SECRET.
type AuthConfig struct {
	AdminEmail    string
	AdminPassword string
}

// StaticConfig points at the built frontend bundle, when served from this
// process.
type StaticConfig struct {
	Dir string
}

// Load reads configuration from the environment, with a best-effort .env
// file load first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:  getEnv("CRESTLINE_APP_NAME", "Crestline Forms API"),
			Debug: getEnvAsBool("CRESTLINE_DEBUG", false),
			Addr:  getEnv("CRESTLINE_ADDR", ":8080"),
		},
		Database: DatabaseConfig{
			Path:          getEnv("CRESTLINE_DB_PATH", "data/crestline.db"),
			MigrationsDir: getEnv("CRESTLINE_MIGRATIONS_DIR", ""),
		},
		Auth: AuthConfig{
			AdminEmail:    getEnv("CRESTLINE_ADMIN_EMAIL", "admin@crestline.example"),
			AdminPassword: getEnv("CRESTLINE_ADMIN_PASSWORD", ""),
		},
		Static: StaticConfig{
			Dir: getEnv("CRESTLINE_STATIC_DIR", ""),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.App.Addr == "" {
		return fmt.Errorf("CRESTLINE_ADDR must be set")
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("CRESTLINE_DB_PATH must be set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
