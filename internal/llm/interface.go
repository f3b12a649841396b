package llm

import "context"

// Provider sends a prompt to a hosted text-generation model and returns the generated text.
// A failed call is reported as an error, never as text.
type Provider interface {
	// Generate produces at most maxNewTokens tokens of text for prompt
	Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error)

	// Name returns the name of the provider
	Name() string
}

// Credentials identify the generation endpoint for one session
type Credentials struct {
	APIKey   string
	ModelURL string
}
