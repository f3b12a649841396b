package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/logging/types"
	"job-hunt-agent/pkg/utils"
)

const maxGenerationResponseBytes = 4 << 20

// HuggingFaceProvider calls a hosted inference endpoint with bearer authentication
type HuggingFaceProvider struct {
	modelURL   string
	apiKey     string
	httpClient *http.Client
	logger     types.Logger
}

type hfParameters struct {
	MaxNewTokens int `json:"max_new_tokens"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfGeneration struct {
	GeneratedText *string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// NewHuggingFaceProvider creates a provider for the inference endpoint at modelURL
func NewHuggingFaceProvider(cfg *config.Config, modelURL, apiKey string, logger types.Logger) (*HuggingFaceProvider, error) {
	u, err := url.Parse(modelURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid model URL %q", modelURL)
	}

	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &HuggingFaceProvider{
		modelURL:   modelURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: cfg.Generation.Timeout},
		logger:     logger.WithField("provider", "huggingface"),
	}, nil
}

// Generate posts the prompt and returns the first generated text
func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	startTime := time.Now()

	body, err := json.Marshal(hfRequest{
		Inputs:     prompt,
		Parameters: hfParameters{MaxNewTokens: maxNewTokens},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.modelURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	p.logger.Debug("Sending generation request", map[string]interface{}{
		"prompt_length":  len(prompt),
		"max_new_tokens": maxNewTokens,
	})

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxGenerationResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("Generation endpoint returned an error status", map[string]interface{}{
			"status_code":   resp.StatusCode,
			"response_body": utils.TruncateForLog(string(respBody), 500),
		})
		return "", fmt.Errorf("generation request returned status %d: %s", resp.StatusCode, utils.TruncateForLog(strings.TrimSpace(string(respBody)), 200))
	}

	text, err := parseGeneratedText(respBody)
	if err != nil {
		return "", err
	}

	p.logger.Info("Generation completed", map[string]interface{}{
		"output_length":   len(text),
		"processing_time": utils.FormatDuration(time.Since(startTime)),
	})
	return text, nil
}

// Name returns the name of the provider
func (p *HuggingFaceProvider) Name() string {
	return config.ProviderHuggingFace
}

// parseGeneratedText accepts the usual array form as well as the single-object
// form returned by some dedicated endpoints.
func parseGeneratedText(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty generation response")
	}

	switch trimmed[0] {
	case '[':
		var generations []hfGeneration
		if err := json.Unmarshal(trimmed, &generations); err != nil {
			return "", fmt.Errorf("failed to parse generation response: %w", err)
		}
		if len(generations) == 0 || generations[0].GeneratedText == nil {
			return "", fmt.Errorf("generation response has no generated_text")
		}
		return *generations[0].GeneratedText, nil
	case '{':
		var providerErr hfError
		if err := json.Unmarshal(trimmed, &providerErr); err == nil && providerErr.Error != "" {
			return "", fmt.Errorf("generation provider error: %s", providerErr.Error)
		}
		var generation hfGeneration
		if err := json.Unmarshal(trimmed, &generation); err != nil {
			return "", fmt.Errorf("failed to parse generation response: %w", err)
		}
		if generation.GeneratedText == nil {
			return "", fmt.Errorf("generation response has no generated_text")
		}
		return *generation.GeneratedText, nil
	default:
		return "", fmt.Errorf("unexpected generation response: %s", utils.TruncateForLog(string(trimmed), 200))
	}
}
