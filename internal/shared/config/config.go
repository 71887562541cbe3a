package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	LLMProvider  string
	LLMModel     string
	LLMTimeout   time.Duration
	GoogleAPIKey string
	OpenAIAPIKey string

	LatexBin     string
	LatexTimeout time.Duration
	OutputDir    string

	TemplateStore    string
	TemplateDir      string
	TemplateS3Bucket string
	TemplateS3Prefix string
	AWSRegion        string

	MaxUploadBytes int64
	DatabaseURL    string

	RateLimitPerMinute float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is empty in production; generation runs are kept in memory")
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		LLMProvider:        normalizeProvider(getEnv("LLM_PROVIDER", "gemini")),
		LLMModel:           getEnv("LLM_MODEL", ""),
		LLMTimeout:         getDuration("LLM_TIMEOUT", 120*time.Second),
		GoogleAPIKey:       strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		LatexBin:           getEnv("LATEX_BIN", "pdflatex"),
		LatexTimeout:       getDuration("LATEX_TIMEOUT", 0),
		OutputDir:          getEnv("OUTPUT_DIR", "./outputs"),
		TemplateStore:      normalizeStoreType(getEnv("TEMPLATE_STORE", "embedded")),
		TemplateDir:        getEnv("TEMPLATE_DIR", "./templates"),
		TemplateS3Bucket:   getEnv("TEMPLATE_S3_BUCKET", ""),
		TemplateS3Prefix:   getEnv("TEMPLATE_S3_PREFIX", "templates/"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		MaxUploadBytes:     getInt64("MAX_UPLOAD_BYTES", 25<<20),
		DatabaseURL:        dbURL,
		RateLimitPerMinute: getFloat("RATE_LIMIT_GENERATE_PER_MIN", 0),
		RateLimitBurst:     int(getInt64("RATE_LIMIT_BURST", 5)),
	}
}

// APIKey returns the key for the configured provider.
func (c Config) APIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GoogleAPIKey
}

// APIKeyName names the environment variable that holds the provider key.
func (c Config) APIKeyName() string {
	if c.LLMProvider == "openai" {
		return "OPENAI_API_KEY"
	}
	return "GOOGLE_API_KEY"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	// Bare integers are seconds.
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	log.Printf("config %s invalid duration %q; using %s", key, raw, def)
	return def
}

func getInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		log.Printf("config %s invalid int %q; using %d", key, raw, def)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		log.Printf("config %s invalid number %q; using %v", key, raw, def)
		return def
	}
	return f
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	default:
		return "gemini"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local", "dir":
		return "local"
	default:
		return "embedded"
	}
}
