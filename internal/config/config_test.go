package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GENERATION_PROVIDER", "SESSION_STORE", "RATE_LIMIT_RPM"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generation.MaxNewTokens != 800 {
		t.Fatalf("expected 800 max new tokens, got %d", cfg.Generation.MaxNewTokens)
	}
	if cfg.Generation.Provider != ProviderHuggingFace {
		t.Fatalf("expected huggingface provider, got %s", cfg.Generation.Provider)
	}
	if cfg.Firecrawl.PollInterval != 2*time.Second {
		t.Fatalf("unexpected poll interval %v", cfg.Firecrawl.PollInterval)
	}
	if !cfg.RequiresModelURL() {
		t.Fatalf("huggingface provider should require a model URL")
	}
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	t.Setenv("JH_TEST_MODEL_URL", "https://example.test/models/gpt2")
	t.Setenv("FIRECRAWL_API_KEY", "fc-env")
	t.Setenv("HF_API_KEY", "hf-env")
	t.Setenv("GENERATION_API_KEY", "")
	t.Setenv("HF_MODEL_URL", "")
	t.Setenv("PORT", "9090")
	t.Setenv("GENERATION_PROVIDER", "")
	t.Setenv("SESSION_STORE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
generation:
  model_url: ${JH_TEST_MODEL_URL}
  max_new_tokens: 512
firecrawl:
  poll_interval: 500ms
session:
  store: redis
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generation.ModelURL != "https://example.test/models/gpt2" {
		t.Fatalf("expected expanded model url, got %q", cfg.Generation.ModelURL)
	}
	if cfg.Generation.MaxNewTokens != 512 {
		t.Fatalf("expected 512 tokens from file, got %d", cfg.Generation.MaxNewTokens)
	}
	if cfg.Firecrawl.PollInterval != 500*time.Millisecond {
		t.Fatalf("unexpected poll interval %v", cfg.Firecrawl.PollInterval)
	}
	if cfg.Firecrawl.APIKey != "fc-env" || cfg.Generation.APIKey != "hf-env" {
		t.Fatalf("expected keys from env, got %q / %q", cfg.Firecrawl.APIKey, cfg.Generation.APIKey)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Session.Store != SessionStoreRedis {
		t.Fatalf("expected redis store, got %s", cfg.Session.Store)
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := Default()
	cfg.Generation.Provider = "openai"
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected unsupported provider to fail validation")
	}
	if !strings.Contains(err.Error(), "huggingface, claude") {
		t.Fatalf("expected error to list the supported providers, got %v", err)
	}

	for _, provider := range GenerationProviders {
		cfg = Default()
		cfg.Generation.Provider = provider
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected provider %s to validate, got %v", provider, err)
		}
	}

	cfg = Default()
	cfg.Session.Store = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unsupported store to fail validation")
	}
}

func TestLoadShippedConfigWithoutCredentials(t *testing.T) {
	for _, key := range []string{"FIRECRAWL_API_KEY", "HF_API_KEY", "HF_MODEL_URL", "GENERATION_API_KEY", "GENERATION_PROVIDER"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig("../../configs/config.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Firecrawl.APIKey != "" || cfg.Generation.APIKey != "" || cfg.Generation.ModelURL != "" {
		t.Fatalf("expected unset placeholders to stay empty, got firecrawl=%q generation=%q model_url=%q",
			cfg.Firecrawl.APIKey, cfg.Generation.APIKey, cfg.Generation.ModelURL)
	}
	if cfg.Firecrawl.APIURL != "https://api.firecrawl.dev" {
		t.Fatalf("expected literal values to survive, got %q", cfg.Firecrawl.APIURL)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("JH_TEST_SET", "value")
	t.Setenv("JH_TEST_UNSET", "")

	cases := map[string]string{
		"${JH_TEST_SET}":   "value",
		"$JH_TEST_SET":     "value",
		"${JH_TEST_UNSET}": "",
		"$JH_TEST_UNSET":   "$JH_TEST_UNSET",
		"pa$$word":         "pa$$word",
	}
	for in, want := range cases {
		if got := expandEnvVars(in); got != want {
			t.Fatalf("expandEnvVars(%q) = %q, want %q", in, got, want)
		}
	}
}
