package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vet-dictation-go/internal/types"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_API_KEY", "gk")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_KEY", "sk")
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)
	cfg := Load()

	assert.Equal(t, "models/gemini-2.5-flash", cfg.Model)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.RetryDelay)
	assert.Equal(t, "audio_files", cfg.AudioDir)
	assert.Equal(t, "veterinary_records.xlsx", cfg.OutputFile)
	assert.Equal(t, ":8080", cfg.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("GEMINI_MODEL", "models/gemini-2.5-pro")
	t.Setenv("RETRY_DELAY", "1s")
	t.Setenv("MAX_ATTEMPTS", "5")
	t.Setenv("PORT", "9090")

	cfg := Load()
	assert.Equal(t, "models/gemini-2.5-pro", cfg.Model)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, ":9090", cfg.Addr)
}

func TestValidateMissingCredentials(t *testing.T) {
	for _, missing := range []string{"GOOGLE_API_KEY", "SUPABASE_URL", "SUPABASE_KEY"} {
		t.Run(missing, func(t *testing.T) {
			setCredentials(t)
			t.Setenv(missing, "")

			err := Load().Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrMissingCredentials))
			assert.Contains(t, err.Error(), missing)
		})
	}
}
