package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"PORT", "MAX_UPLOAD_BYTES", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"LOG_LEVEL", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_MODEL", "NARRATIVE_TEMPERATURE",
	"CURRENCY_SYMBOL", "GOOGLE_APPLICATION_CREDENTIALS_FILE",
}

// clearEnv blanks every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configVars {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 2.0, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.InDelta(t, 0.3, cfg.Temperature, 1e-6)
	assert.Equal(t, "₹", cfg.CurrencySymbol)
	assert.False(t, cfg.NarrativeEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("CURRENCY_SYMBOL", "$")
	t.Setenv("NARRATIVE_TEMPERATURE", "0.7")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "google-key", cfg.GeminiAPIKey)
	assert.Equal(t, "$", cfg.CurrencySymbol)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-6)
	assert.True(t, cfg.NarrativeEnabled())
}

func TestLoad_GeminiKeyPreferredOverGoogleKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "gemini-key", cfg.GeminiAPIKey)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that already exist, even empty ones.
	os.Unsetenv("PORT")
	os.Unsetenv("GEMINI_MODEL")
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("GEMINI_MODEL")
	})

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=7070\nGEMINI_MODEL=gemini-2.5-pro\n"), 0o600))

	cfg := Load(envFile)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
}

func TestLoad_InvalidNumbersReportedByValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_UPLOAD_BYTES", "10MB")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("RATE_LIMIT_BURST", "5.5")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 2.0, cfg.RateLimitRPS)

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid MAX_UPLOAD_BYTES '10MB'")
	assert.Contains(t, err.Error(), "invalid RATE_LIMIT_RPS 'fast'")
	assert.Contains(t, err.Error(), "invalid RATE_LIMIT_BURST '5.5'")
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.env")
	valid := func() *Config { return Load(missing) }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "non-numeric port", mutate: func(c *Config) { c.Port = "http" }, wantErr: "invalid port 'http'"},
		{name: "port out of range", mutate: func(c *Config) { c.Port = "70000" }, wantErr: "between 1 and 65535"},
		{name: "zero upload limit", mutate: func(c *Config) { c.MaxUploadBytes = 0 }, wantErr: "MAX_UPLOAD_BYTES"},
		{name: "zero rate", mutate: func(c *Config) { c.RateLimitRPS = 0 }, wantErr: "RATE_LIMIT_RPS"},
		{name: "zero burst", mutate: func(c *Config) { c.RateLimitBurst = 0 }, wantErr: "RATE_LIMIT_BURST"},
		{name: "temperature too high", mutate: func(c *Config) { c.Temperature = 3 }, wantErr: "NARRATIVE_TEMPERATURE"},
		{name: "no origins", mutate: func(c *Config) { c.AllowedOrigins = nil }, wantErr: "CORS_ALLOWED_ORIGINS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
