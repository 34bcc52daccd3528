package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgREST = "postgrest"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

var (
	ErrMissingSupabaseURL = errors.New("SUPABASE_URL is required for the postgrest driver")
	ErrMissingAnonKey     = errors.New("SUPABASE_ANON_KEY is required for the postgrest driver")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres driver")
	ErrMissingSQLitePath  = errors.New("SQLITE_PATH is required for the sqlite driver")
	ErrUnknownDriver      = errors.New("unknown STORE_DRIVER")
)

// Config is the portal service configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port        string   `yaml:"port" env:"PORT"`
	Mode        string   `yaml:"mode" env:"GIN_MODE"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
}

type StoreConfig struct {
	Driver          string        `yaml:"driver" env:"STORE_DRIVER"`
	SupabaseURL     string        `yaml:"supabase_url" env:"SUPABASE_URL"`
	SupabaseAnonKey string        `yaml:"supabase_anon_key" env:"SUPABASE_ANON_KEY"`
	DatabaseURL     string        `yaml:"database_url" env:"DATABASE_URL"`
	SQLitePath      string        `yaml:"sqlite_path" env:"SQLITE_PATH"`
	Timeout         time.Duration `yaml:"timeout" env:"STORE_TIMEOUT"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	Path  string `yaml:"path" env:"LOG_PATH"`
}

// AnonKeyClaims are the claims Supabase puts in a project API key
type AnonKeyClaims struct {
	Role string `json:"role"`
	Ref  string `json:"ref"`
	jwt.RegisteredClaims
}

// LoadEnv loads environment variables from .env file
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
}

// GetEnv gets an environment variable or returns a default value if not present
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Load builds the configuration from defaults, an optional YAML file named by
// PORTAL_CONFIG_PATH, and environment variables, in that order of precedence.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "release",
		},
		Store: StoreConfig{
			Driver: DriverPostgREST,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("PORTAL_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	// The SvelteKit portal exposes the same values under these names
	if cfg.Store.SupabaseURL == "" {
		cfg.Store.SupabaseURL = firstEnv("PUBLIC_SUPABASE_URL", "VITE_SUPABASE_URL")
	}
	if cfg.Store.SupabaseAnonKey == "" {
		cfg.Store.SupabaseAnonKey = firstEnv("PUBLIC_SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY")
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := GetEnv(key, ""); value != "" {
			return value
		}
	}
	return ""
}

// Validate checks that the selected driver has what it needs
func (c Config) Validate() error {
	for _, origin := range c.Server.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid CORS origin %q", origin)
		}
	}
	return c.Store.Validate()
}

// Validate checks the driver-specific settings
func (c StoreConfig) Validate() error {
	switch c.Driver {
	case DriverPostgREST:
		if c.SupabaseURL == "" {
			return ErrMissingSupabaseURL
		}
		u, err := url.Parse(c.SupabaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
			return fmt.Errorf("invalid SUPABASE_URL %q", c.SupabaseURL)
		}
		if c.SupabaseAnonKey == "" {
			return ErrMissingAnonKey
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return ErrMissingSQLitePath
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid STORE_TIMEOUT %s", c.Timeout)
	}
	return nil
}

// ParseAnonKey decodes the claims of a Supabase API key without verifying
// its signature; the backend verifies it on every request.
func ParseAnonKey(key string) (*AnonKeyClaims, error) {
	claims := &AnonKeyClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return nil, fmt.Errorf("parse anon key: %w", err)
	}
	return claims, nil
}

// AnonKeyWarnings reports problems with the configured anon key that do not
// stop the service from starting.
func (c StoreConfig) AnonKeyWarnings(now time.Time) []string {
	if c.Driver != DriverPostgREST || c.SupabaseAnonKey == "" {
		return nil
	}

	claims, err := ParseAnonKey(c.SupabaseAnonKey)
	if err != nil {
		return []string{"SUPABASE_ANON_KEY is not a JWT, claims not checked"}
	}

	var warnings []string
	if claims.Role != "anon" {
		warnings = append(warnings, fmt.Sprintf("SUPABASE_ANON_KEY has role %q, expected \"anon\"", claims.Role))
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		warnings = append(warnings, fmt.Sprintf("SUPABASE_ANON_KEY expired at %s", claims.ExpiresAt.Format(time.RFC3339)))
	}
	if claims.Ref != "" {
		if u, err := url.Parse(c.SupabaseURL); err == nil && !strings.HasPrefix(u.Hostname(), claims.Ref+".") {
			warnings = append(warnings, fmt.Sprintf("SUPABASE_ANON_KEY belongs to project %q, not %s", claims.Ref, u.Hostname()))
		}
	}
	return warnings
}
