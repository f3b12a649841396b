package session

import "job-hunt-agent/internal/config"

// Credentials are the provider secrets a session works with
type Credentials struct {
	ModelURL         string `json:"model_url,omitempty"`
	GenerationAPIKey string `json:"generation_api_key,omitempty"`
	FirecrawlAPIKey  string `json:"firecrawl_api_key,omitempty"`
}

// DefaultCredentials returns the credentials configured through the environment
func DefaultCredentials(cfg *config.Config) Credentials {
	return Credentials{
		ModelURL:         cfg.Generation.ModelURL,
		GenerationAPIKey: cfg.Generation.APIKey,
		FirecrawlAPIKey:  cfg.Firecrawl.APIKey,
	}
}

// WithDefaults fills empty values from defaults
func (c Credentials) WithDefaults(defaults Credentials) Credentials {
	if c.ModelURL == "" {
		c.ModelURL = defaults.ModelURL
	}
	if c.GenerationAPIKey == "" {
		c.GenerationAPIKey = defaults.GenerationAPIKey
	}
	if c.FirecrawlAPIKey == "" {
		c.FirecrawlAPIKey = defaults.FirecrawlAPIKey
	}
	return c
}

// Missing lists the names of the required values that are empty
func (c Credentials) Missing(requireModelURL bool) []string {
	var missing []string
	if requireModelURL && c.ModelURL == "" {
		missing = append(missing, "model_url")
	}
	if c.GenerationAPIKey == "" {
		missing = append(missing, "generation_api_key")
	}
	if c.FirecrawlAPIKey == "" {
		missing = append(missing, "firecrawl_api_key")
	}
	return missing
}

// Complete reports whether every required value is present
func (c Credentials) Complete(requireModelURL bool) bool {
	return len(c.Missing(requireModelURL)) == 0
}
