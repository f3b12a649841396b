package models

import "time"

// ReportResponse is the API rendering of one agent operation
type ReportResponse struct {
	Outcome string `json:"outcome"`
	Text    string `json:"text"`
	Error   string `json:"error,omitempty"`
}

// SearchResponse represents the response from the combined search action
type SearchResponse struct {
	Success        bool            `json:"success"`
	Jobs           *ReportResponse `json:"jobs,omitempty"`
	IndustryTrends *ReportResponse `json:"industry_trends,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
	ProcessingTime time.Duration   `json:"processing_time"`
	RequestID      string          `json:"request_id"`
}

// SessionResponse describes which credentials a session holds, never the secrets themselves
type SessionResponse struct {
	SessionID           string `json:"session_id"`
	Provider            string `json:"provider"`
	HasModelURL         bool   `json:"has_model_url"`
	HasGenerationAPIKey bool   `json:"has_generation_api_key"`
	HasFirecrawlAPIKey  bool   `json:"has_firecrawl_api_key"`
	Ready               bool   `json:"ready"`
}

// SourcesResponse lists the pages the agent would scrape for a query
type SourcesResponse struct {
	JobListingURLs  []string `json:"job_listing_urls,omitempty"`
	IndustryURLs    []string `json:"industry_urls,omitempty"`
	SkillsInPrompt  string   `json:"skills_in_prompt,omitempty"`
	NormalizedTitle string   `json:"normalized_title,omitempty"`
}

// PreviewResponse summarises a diagnostic scrape of a listing page
type PreviewResponse struct {
	URL             string        `json:"url"`
	Title           string        `json:"title,omitempty"`
	LinkCount       int           `json:"link_count"`
	MarkdownExcerpt string        `json:"markdown_excerpt,omitempty"`
	ProcessingTime  time.Duration `json:"processing_time"`
	RequestID       string        `json:"request_id"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
