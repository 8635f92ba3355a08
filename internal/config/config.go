package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported store backends.
const (
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// FirestoreConfig locates the hosted document database.
type FirestoreConfig struct {
	ProjectID       string
	Database        string
	Endpoint        string
	CredentialsFile string
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port            string
	StoreBackend    string
	DatabaseURL     string
	Firestore       FirestoreConfig
	JWTSecret       string
	TokenTTL        time.Duration
	GoogleClientID  string
	RateLimitSubmit RateLimitConfig
	FeaturedBackoff time.Duration
	CategoriesFile  string
	AllowedOrigins  []string
	NotifyWebhook   string
	PhoneRegion     string
	LogLevel        string
	LogFormat       string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Firestore: FirestoreConfig{
			ProjectID:       os.Getenv("FIRESTORE_PROJECT"),
			Database:        getEnv("FIRESTORE_DATABASE", "(default)"),
			Endpoint:        os.Getenv("FIRESTORE_ENDPOINT"),
			CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		},
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:        parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		GoogleClientID:  os.Getenv("GOOGLE_CLIENT_ID"),
		FeaturedBackoff: parseDuration(getEnv("FEATURED_RETRY_BACKOFF", "2s"), 2*time.Second),
		CategoriesFile:  os.Getenv("CATEGORIES_FILE"),
		AllowedOrigins:  parseList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		NotifyWebhook:   os.Getenv("NOTIFY_WEBHOOK_URL"),
		PhoneRegion:     strings.ToUpper(getEnv("PHONE_REGION", "US")),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SUBMIT", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SUBMIT value: %w", err)
	}
	cfg.RateLimitSubmit = rl

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT is required for the %s backend", BackendFirestore)
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: json, text")
	}
	return nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
