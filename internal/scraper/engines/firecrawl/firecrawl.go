package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/logging/types"
	"job-hunt-agent/pkg/models"
	"job-hunt-agent/pkg/utils"
)

// Extract job states reported by the provider
const (
	statusCompleted  = "completed"
	statusFailed     = "failed"
	statusCancelled  = "cancelled"
	maxResponseBytes = 10 << 20
)

// ErrNoURLs is returned when an extraction is requested without target pages
var ErrNoURLs = errors.New("at least one URL is required")

// FirecrawlExtractor implements scraper.Extractor against Firecrawl's extract API
type FirecrawlExtractor struct {
	apiKey         string
	apiURL         string
	pollInterval   time.Duration
	extractTimeout time.Duration
	httpClient     *http.Client
	logger         types.Logger
}

// NewFirecrawlExtractor creates an extractor authenticated with apiKey
func NewFirecrawlExtractor(cfg *config.Config, apiKey string, logger types.Logger) *FirecrawlExtractor {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &FirecrawlExtractor{
		apiKey:         apiKey,
		apiURL:         strings.TrimRight(cfg.Firecrawl.APIURL, "/"),
		pollInterval:   cfg.Firecrawl.PollInterval,
		extractTimeout: cfg.Firecrawl.ExtractTimeout,
		httpClient:     &http.Client{Timeout: cfg.Firecrawl.Timeout},
		logger:         logger.WithField("component", "firecrawl"),
	}
}

// Extract submits an extract job and waits for its result. The provider answers
// either with the final payload or with a job id that is polled until it settles.
func (f *FirecrawlExtractor) Extract(ctx context.Context, req models.ExtractRequest) (*models.ExtractResponse, error) {
	if err := validateURLs(req.URLs); err != nil {
		return nil, err
	}

	if f.extractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.extractTimeout)
		defer cancel()
	}

	startTime := time.Now()
	f.logger.Info("Submitting Firecrawl extract", map[string]interface{}{
		"urls":          req.URLs,
		"prompt_length": len(req.Prompt),
	})

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extract request: %w", err)
	}

	resp, err := f.do(ctx, http.MethodPost, f.apiURL+"/v1/extract", body)
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.HasData() || resp.ID == "" {
		f.logResult(resp, startTime)
		return resp, nil
	}

	resp, err = f.poll(ctx, resp.ID)
	if err != nil {
		return nil, err
	}

	f.logResult(resp, startTime)
	return resp, nil
}

// poll fetches the extract job until it completes, fails or ctx expires
func (f *FirecrawlExtractor) poll(ctx context.Context, id string) (*models.ExtractResponse, error) {
	endpoint := f.apiURL + "/v1/extract/" + url.PathEscape(id)

	timer := time.NewTimer(f.pollInterval)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("extract job %s did not finish: %w", id, ctx.Err())
		case <-timer.C:
		}

		resp, err := f.do(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		f.logger.Debug("Polled Firecrawl extract job", map[string]interface{}{
			"job_id":  id,
			"attempt": attempt,
			"status":  resp.Status,
		})

		switch strings.ToLower(resp.Status) {
		case statusCompleted:
			return resp, nil
		case statusFailed, statusCancelled:
			resp.Success = false
			return resp, nil
		}

		if !resp.Success {
			return resp, nil
		}

		timer.Reset(f.pollInterval)
	}
}

func (f *FirecrawlExtractor) do(ctx context.Context, method, endpoint string, body []byte) (*models.ExtractResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read extract response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn("Firecrawl extract request failed", map[string]interface{}{
			"status_code": resp.StatusCode,
			"endpoint":    endpoint,
		})
		f.logger.Debug("Firecrawl extract error details", map[string]interface{}{
			"response_body": utils.TruncateForLog(string(respBody), 1000),
		})
		return nil, fmt.Errorf("extract request returned status %d: %s", resp.StatusCode, utils.TruncateForLog(string(respBody), 200))
	}

	var out models.ExtractResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse extract response: %w", err)
	}
	return &out, nil
}

func (f *FirecrawlExtractor) logResult(resp *models.ExtractResponse, startTime time.Time) {
	fields := map[string]interface{}{
		"success":         resp.Success,
		"status":          resp.Status,
		"expires_at":      resp.ExpiresAt,
		"payload_size":    len(resp.Data),
		"processing_time": utils.FormatDuration(time.Since(startTime)),
	}
	if resp.Error != "" {
		fields["provider_error"] = resp.Error
	}

	if resp.Success {
		f.logger.Info("Firecrawl extract finished", fields)
	} else {
		f.logger.Warn("Firecrawl extract reported failure", fields)
	}
}

func validateURLs(urls []string) error {
	if len(urls) == 0 {
		return ErrNoURLs
	}

	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid URL %q: %w", raw, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid URL %q: must be an absolute http(s) URL", raw)
		}
	}
	return nil
}
