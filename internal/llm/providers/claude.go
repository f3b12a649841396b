package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/logging/types"
	"job-hunt-agent/pkg/utils"
)

// ClaudeProvider implements the generation provider using Anthropic's Claude
type ClaudeProvider struct {
	client anthropic.Client
	model  string
	logger types.Logger
}

// NewClaudeProvider creates a new Claude provider instance. Extra request options
// are applied after the API key.
func NewClaudeProvider(cfg *config.Config, apiKey string, logger types.Logger, opts ...option.RequestOption) *ClaudeProvider {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(cfg.Generation.Timeout),
	}
	clientOpts = append(clientOpts, opts...)

	return &ClaudeProvider{
		client: anthropic.NewClient(clientOpts...),
		model:  cfg.Generation.Model,
		logger: logger.WithField("provider", "claude"),
	}
}

// Generate sends the prompt as a single user message
func (cp *ClaudeProvider) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	startTime := time.Now()

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.model),
		MaxTokens: int64(maxNewTokens),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	var parts []string
	for _, content := range response.Content {
		if content.Type != "text" {
			continue
		}
		parts = append(parts, content.AsText().Text)
	}

	text := strings.Join(parts, "")
	if text == "" {
		return "", fmt.Errorf("no text content in Claude response")
	}

	cp.logger.Info("Generation completed", map[string]interface{}{
		"model":           cp.model,
		"output_length":   len(text),
		"stop_reason":     string(response.StopReason),
		"processing_time": utils.FormatDuration(time.Since(startTime)),
	})
	return text, nil
}

// Name returns the name of the provider
func (cp *ClaudeProvider) Name() string {
	return config.ProviderClaude
}
