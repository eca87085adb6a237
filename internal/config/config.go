package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"vet-dictation-go/internal/types"
)

// Config is built once at startup and passed by reference into every
// component that needs it. No package reads the environment after this.
type Config struct {
	// Remote extraction service.
	GoogleAPIKey string
	Model        string
	PollInterval time.Duration
	PollMaxWait  time.Duration

	// Persistent store. SupabaseDSN switches the sink to a direct
	// Postgres connection; otherwise the REST endpoint is used.
	SupabaseURL string
	SupabaseKey string
	SupabaseDSN string

	// Retry controller.
	MaxAttempts int
	RetryDelay  time.Duration

	// Batch surface.
	AudioDir   string
	OutputFile string

	// Interactive surface.
	Addr string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		Model:        getEnv("GEMINI_MODEL", "models/gemini-2.5-flash"),
		PollInterval: getEnvAsDuration("POLL_INTERVAL", 2*time.Second),
		PollMaxWait:  getEnvAsDuration("POLL_MAX_WAIT", 5*time.Minute),
		SupabaseURL:  os.Getenv("SUPABASE_URL"),
		SupabaseKey:  os.Getenv("SUPABASE_KEY"),
		SupabaseDSN:  os.Getenv("SUPABASE_DB_DSN"),
		MaxAttempts:  getEnvAsInt("MAX_ATTEMPTS", 3),
		RetryDelay:   getEnvAsDuration("RETRY_DELAY", 5*time.Second),
		AudioDir:     getEnv("AUDIO_DIR", "audio_files"),
		OutputFile:   getEnv("OUTPUT_FILE", "veterinary_records.xlsx"),
		Addr:         ":" + getEnv("PORT", "8080"),
	}
}

// Validate checks the credentials that must be present before any file
// is touched. Missing any of them is the single fatal startup condition.
func (c *Config) Validate() error {
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("%w: GOOGLE_API_KEY is not set", types.ErrMissingCredentials)
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("%w: SUPABASE_URL is not set", types.ErrMissingCredentials)
	}
	if c.SupabaseKey == "" {
		return fmt.Errorf("%w: SUPABASE_KEY is not set", types.ErrMissingCredentials)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
