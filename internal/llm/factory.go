package llm

import (
	"fmt"
	"strings"

	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/llm/providers"
	"job-hunt-agent/internal/logging/types"
)

// Factory creates generation provider instances
type Factory struct {
	config *config.Config
	logger types.Logger
}

// NewFactory creates a new provider factory
func NewFactory(cfg *config.Config, logger types.Logger) *Factory {
	return &Factory{
		config: cfg,
		logger: logger,
	}
}

// CreateProvider creates the configured provider for the given credentials
func (f *Factory) CreateProvider(creds Credentials) (Provider, error) {
	if creds.APIKey == "" {
		return nil, fmt.Errorf("generation API key is required")
	}

	switch f.config.Generation.Provider {
	case config.ProviderHuggingFace:
		if creds.ModelURL == "" {
			return nil, fmt.Errorf("model URL is required for the %s provider", config.ProviderHuggingFace)
		}
		provider, err := providers.NewHuggingFaceProvider(f.config, creds.ModelURL, creds.APIKey, f.logger)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case config.ProviderClaude:
		return providers.NewClaudeProvider(f.config, creds.APIKey, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider %q (expected one of: %s)",
			f.config.Generation.Provider, strings.Join(config.GenerationProviders, ", "))
	}
}
