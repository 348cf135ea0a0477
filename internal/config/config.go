package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// BuildPhasePrerender marks a process that renders pages ahead of time and
// must not reach the database on behalf of a user.
const BuildPhasePrerender = "prerender"

// DevelopmentJWTSecret signs sessions outside production when JWT_SECRET
// is unset.
const DevelopmentJWTSecret = "development-only-insecure-secret"

type Config struct {
	// Database
	DatabaseURL string

	// Sessions
	JWTSecret  string
	SessionTTL time.Duration

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseStorageBucket  string

	// Data access
	BuildPhase string
	MockDelay  time.Duration
	CacheTTL   time.Duration

	// Server
	Port        string
	Environment string
	BaseURL     string
	LogLevel    string
}

func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "product-images"),

		BuildPhase: getEnv("BUILD_PHASE", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = DevelopmentJWTSecret
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.MockDelay, err = getDuration("MOCK_DELAY", 0); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
	}
	if (c.SupabaseURL == "") != (c.SupabasePublishableKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY must be set together")
	}
	if c.MockDelay < 0 {
		return fmt.Errorf("MOCK_DELAY must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsingDevelopmentSecret reports whether sessions are signed with the
// built-in development secret.
func (c *Config) UsingDevelopmentSecret() bool {
	return c.JWTSecret == DevelopmentJWTSecret
}

// SupabaseEnabled reports whether Supabase Auth, Storage and Realtime can be used.
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabasePublishableKey != ""
}

// Prerendering reports whether the process runs in the build-time prerender phase.
func (c *Config) Prerendering() bool {
	return c.BuildPhase == BuildPhasePrerender
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	return d, nil
}
