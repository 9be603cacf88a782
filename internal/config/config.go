package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the GoListings API.
type Config struct {
	Server   ServerConfig
	Supabase SupabaseConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Metrics  MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SupabaseConfig contains hosted-store connection details.
type SupabaseConfig struct {
	URL            string
	Key            string
	Schema         string
	RequestTimeout time.Duration
}

// AuthConfig groups authentication-related settings.
type AuthConfig struct {
	JWTSecret       string
	BcryptCost      int
	ProviderTimeout time.Duration
}

// CORSConfig lists origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("LISTINGS_API_HOST", "0.0.0.0"),
			Port:         getInt("LISTINGS_API_PORT", 8080),
			ReadTimeout:  getDuration("LISTINGS_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("LISTINGS_API_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDuration("LISTINGS_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Supabase: SupabaseConfig{
			URL:            strings.TrimRight(getString("SUPABASE_URL", "http://localhost:54321"), "/"),
			Key:            getString("SUPABASE_KEY", "change-me"),
			Schema:         strings.TrimSpace(getString("DATABASE_NAME", "public")),
			RequestTimeout: getDuration("SUPABASE_REQUEST_TIMEOUT", 10*time.Second),
		},
		Auth: loadAuthConfig(),
		CORS: CORSConfig{
			AllowedOrigins: getStringSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("LISTINGS_METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getStringSlice(key string, fallback []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func loadAuthConfig() AuthConfig {
	cost := getInt("LISTINGS_AUTH_BCRYPT_COST", 12)
	if cost < 4 || cost > 31 {
		cost = 12
	}

	return AuthConfig{
		JWTSecret:       getString("JWT_SECRET", "change-me-to-a-32-byte-secret"),
		BcryptCost:      cost,
		ProviderTimeout: getDuration("LISTINGS_AUTH_PROVIDER_TIMEOUT", 5*time.Second),
	}
}
