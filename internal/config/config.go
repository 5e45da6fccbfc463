package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string

	// Auth
	JWKSURL      string
	AuthDisabled bool   // dev/test only: every request acts as DevUserID
	DevUserID    string // acting user when auth is disabled
	AdminRole    string // app_metadata.role value that unlocks drafts on public reads

	// Stats cache (disabled when RedisURL is empty)
	RedisURL      string
	StatsCacheTTL time.Duration

	// Logging
	LogDir      string
	LogMaxFiles int

	Pagination Pagination
	MaxBulk    int

	// Seed
	CatalogFile string
}

// Pagination holds list defaults
type Pagination struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// fileOverrides is the optional YAML config file (CONFIG_FILE).
// Env vars still win over anything set here.
type fileOverrides struct {
	Pagination    *Pagination `yaml:"pagination"`
	MaxBulkSize   *int        `yaml:"max_bulk_size"`
	StatsCacheTTL *string     `yaml:"stats_cache_ttl"`
	CORSOrigins   *string     `yaml:"cors_origins"`
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   env,
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CORSOrigins:   "http://localhost:3000",
		TablePrefix:   getTablePrefix(env),
		JWKSURL:       getEnv("JWT_JWKS_URL", ""),
		AuthDisabled:  env != "prod" && getEnv("AUTH_DISABLED", "false") == "true",
		DevUserID:     getEnv("DEV_USER_ID", "00000000-0000-0000-0000-000000000001"),
		AdminRole:     getEnv("ADMIN_ROLE", "admin"),
		RedisURL:      getEnv("REDIS_URL", ""),
		StatsCacheTTL: DefaultStatsCacheTTL,
		LogDir:        getEnv("LOG_DIR", ""),
		LogMaxFiles:   getEnvInt("LOG_MAX_FILES", 10),
		Pagination: Pagination{
			DefaultPageSize: DefaultPageSize,
			MaxPageSize:     MaxPageSize,
		},
		MaxBulk:     MaxBulkSize,
		CatalogFile: getEnv("CATALOG_FILE", "seed/catalog.yaml"),
	}

	// JWKS URL falls back to the Supabase convention
	if cfg.JWKSURL == "" {
		if supabaseURL := getEnv("SUPABASE_URL", ""); supabaseURL != "" {
			cfg.JWKSURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
		}
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: ignoring config file %s: %v\n", path, err)
		}
	}

	// Env overrides
	if v := getEnv("CORS_ORIGINS", ""); v != "" {
		cfg.CORSOrigins = v
	}
	if v := getEnvInt("DEFAULT_PAGE_SIZE", 0); v > 0 {
		cfg.Pagination.DefaultPageSize = v
	}
	if v := getEnvInt("MAX_PAGE_SIZE", 0); v > 0 {
		cfg.Pagination.MaxPageSize = v
	}
	if v := getEnvInt("MAX_BULK_SIZE", 0); v > 0 {
		cfg.MaxBulk = v
	}
	if v := getEnv("STATS_CACHE_TTL", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.StatsCacheTTL = d
		}
	}

	cfg.clamp()
	return cfg
}

// applyFile merges YAML overrides into cfg
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f fileOverrides
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if f.Pagination != nil {
		if f.Pagination.DefaultPageSize > 0 {
			c.Pagination.DefaultPageSize = f.Pagination.DefaultPageSize
		}
		if f.Pagination.MaxPageSize > 0 {
			c.Pagination.MaxPageSize = f.Pagination.MaxPageSize
		}
	}
	if f.MaxBulkSize != nil && *f.MaxBulkSize > 0 {
		c.MaxBulk = *f.MaxBulkSize
	}
	if f.StatsCacheTTL != nil {
		d, err := time.ParseDuration(*f.StatsCacheTTL)
		if err != nil {
			return fmt.Errorf("stats_cache_ttl: %w", err)
		}
		c.StatsCacheTTL = d
	}
	if f.CORSOrigins != nil && *f.CORSOrigins != "" {
		c.CORSOrigins = *f.CORSOrigins
	}
	return nil
}

// clamp keeps tunables inside their hard limits
func (c *Config) clamp() {
	if c.MaxBulk > MaxBulkSize {
		c.MaxBulk = MaxBulkSize
	}
	if c.Pagination.MaxPageSize > MaxPageSize {
		c.Pagination.MaxPageSize = MaxPageSize
	}
	if c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		c.Pagination.DefaultPageSize = c.Pagination.MaxPageSize
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
