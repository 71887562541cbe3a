package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"ENV", "LLM_PROVIDER", "LLM_TIMEOUT", "LATEX_TIMEOUT", "TEMPLATE_STORE", "MAX_UPLOAD_BYTES", "GOOGLE_API_KEY", "OUTPUT_DIR", "ENV_FILE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("Env = %q, want dev", cfg.Env)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("LLMProvider = %q, want gemini", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 120*time.Second {
		t.Fatalf("LLMTimeout = %s, want 2m0s", cfg.LLMTimeout)
	}
	if cfg.LatexTimeout != 0 {
		t.Fatalf("LatexTimeout = %s, want 0", cfg.LatexTimeout)
	}
	if cfg.TemplateStore != "embedded" {
		t.Fatalf("TemplateStore = %q, want embedded", cfg.TemplateStore)
	}
	if cfg.MaxUploadBytes != 25<<20 {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.OutputDir != "./outputs" {
		t.Fatalf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.APIKey() != "" || cfg.APIKeyName() != "GOOGLE_API_KEY" {
		t.Fatalf("unexpected api key config: %q %q", cfg.APIKey(), cfg.APIKeyName())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("LLM_TIMEOUT", "45")
	t.Setenv("LATEX_TIMEOUT", "90s")
	t.Setenv("TEMPLATE_STORE", "s3")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("Env = %q, want production", cfg.Env)
	}
	if cfg.APIKey() != "sk-test" || cfg.APIKeyName() != "OPENAI_API_KEY" {
		t.Fatalf("unexpected openai key: %q", cfg.APIKey())
	}
	if cfg.LLMTimeout != 45*time.Second {
		t.Fatalf("LLMTimeout = %s, want 45s", cfg.LLMTimeout)
	}
	if cfg.LatexTimeout != 90*time.Second {
		t.Fatalf("LatexTimeout = %s, want 1m30s", cfg.LatexTimeout)
	}
	if cfg.TemplateStore != "s3" {
		t.Fatalf("TemplateStore = %q, want s3", cfg.TemplateStore)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "http://b.test" {
		t.Fatalf("CORSAllowOrigin = %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadEnvFilesPrefersExplicitFile(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "explicit.env")
	fallback := filepath.Join(dir, "fallback.env")
	if err := os.WriteFile(explicit, []byte("RESUME_DOTENV_PROBE=explicit\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(fallback, []byte("RESUME_DOTENV_PROBE=fallback\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ENV_FILE", explicit)
	t.Setenv("RESUME_DOTENV_PROBE", "")
	os.Unsetenv("RESUME_DOTENV_PROBE")

	loaded := loadEnvFiles(fallback, filepath.Join(dir, "missing.env"))
	if len(loaded) != 2 || loaded[0] != explicit {
		t.Fatalf("loaded = %v", loaded)
	}
	if got := os.Getenv("RESUME_DOTENV_PROBE"); got != "explicit" {
		t.Fatalf("RESUME_DOTENV_PROBE = %q, want explicit", got)
	}
}
