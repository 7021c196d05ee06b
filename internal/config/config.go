// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dvloznov/statement-summarizer/internal/narrative"
)

// Config holds all settings for the API server and CLI.
type Config struct {
	// HTTP server
	Port           string
	MaxUploadBytes int64
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel string

	// Narrative generation
	GeminiAPIKey   string
	GeminiModel    string
	Temperature    float32
	CurrencySymbol string

	// Optional service account file for reading statements from GCS.
	GCSCredentialsFile string

	// parseErrors holds variables that were set but unparseable; their
	// defaults were used and Validate reports them.
	parseErrors []string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// A missing .env is normal outside local development.
		_ = godotenv.Load(f)
	}

	apiKey := getEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("GOOGLE_API_KEY", "")
	}

	env := &envReader{}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		MaxUploadBytes: env.getInt64("MAX_UPLOAD_BYTES", 10<<20),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitRPS:   env.getFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: int(env.getInt64("RATE_LIMIT_BURST", 5)),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		GeminiAPIKey:   apiKey,
		GeminiModel:    getEnv("GEMINI_MODEL", narrative.DefaultModelName),
		Temperature:    float32(env.getFloat("NARRATIVE_TEMPERATURE", float64(narrative.DefaultTemperature))),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", narrative.DefaultCurrencySymbol),

		GCSCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS_FILE", ""),

		parseErrors: env.problems,
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	problems := append([]string(nil), c.parseErrors...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.MaxUploadBytes <= 0 {
		problems = append(problems, fmt.Sprintf("invalid MAX_UPLOAD_BYTES %d: must be positive", c.MaxUploadBytes))
	}
	if c.RateLimitRPS <= 0 {
		problems = append(problems, fmt.Sprintf("invalid RATE_LIMIT_RPS %g: must be positive", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		problems = append(problems, fmt.Sprintf("invalid RATE_LIMIT_BURST %d: must be at least 1", c.RateLimitBurst))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("invalid NARRATIVE_TEMPERATURE %g: must be between 0 and 2", c.Temperature))
	}
	if c.GeminiModel == "" {
		problems = append(problems, "GEMINI_MODEL cannot be empty")
	}
	if len(c.AllowedOrigins) == 0 {
		problems = append(problems, "CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// NarrativeEnabled reports whether a Gemini API key is configured.
func (c *Config) NarrativeEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// envReader parses numeric variables and records the ones it could not read.
type envReader struct {
	problems []string
}

func (r *envReader) getInt64(key string, def int64) int64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("invalid %s '%s': must be an integer", key, v))
		return def
	}
	return n
}

func (r *envReader) getFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("invalid %s '%s': must be a number", key, v))
		return def
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
