package llm

import (
	"testing"

	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
)

func TestCreateProvider(t *testing.T) {
	cfg := config.Default()
	factory := NewFactory(cfg, logging.NewNopLogger())

	provider, err := factory.CreateProvider(Credentials{APIKey: "hf", ModelURL: "https://api-inference.huggingface.co/models/gpt2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != config.ProviderHuggingFace {
		t.Fatalf("expected huggingface provider, got %s", provider.Name())
	}

	if _, err := factory.CreateProvider(Credentials{APIKey: "hf"}); err == nil {
		t.Fatalf("expected missing model URL to be rejected")
	}
	if _, err := factory.CreateProvider(Credentials{ModelURL: "https://x.test/m"}); err == nil {
		t.Fatalf("expected missing API key to be rejected")
	}
}

func TestCreateProviderClaudeIgnoresModelURL(t *testing.T) {
	cfg := config.Default()
	cfg.Generation.Provider = config.ProviderClaude

	provider, err := NewFactory(cfg, logging.NewNopLogger()).CreateProvider(Credentials{APIKey: "sk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != config.ProviderClaude {
		t.Fatalf("expected claude provider, got %s", provider.Name())
	}
}

func TestCreateProviderUnsupported(t *testing.T) {
	cfg := config.Default()
	cfg.Generation.Provider = "openai"

	if _, err := NewFactory(cfg, logging.NewNopLogger()).CreateProvider(Credentials{APIKey: "k", ModelURL: "https://x.test"}); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}
