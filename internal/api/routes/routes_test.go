package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"job-hunt-agent/internal/agent"
	"job-hunt-agent/internal/api/handlers"
	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/scraper"
	"job-hunt-agent/internal/session"
	"job-hunt-agent/pkg/models"
)

type fakeExtractor struct {
	jobs   string
	trends string
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, req models.ExtractRequest) (*models.ExtractResponse, error) {
	f.calls++
	if _, ok := req.Schema["properties"].(map[string]interface{})["job_postings"]; ok {
		return &models.ExtractResponse{Success: true, Data: []byte(f.jobs)}, nil
	}
	return &models.ExtractResponse{Success: true, Data: []byte(f.trends)}, nil
}

type fakeGenerator struct {
	text  string
	calls int
}

func (f *fakeGenerator) Generate(context.Context, string, int) (string, error) {
	f.calls++
	return f.text, nil
}

func (f *fakeGenerator) Name() string { return "fake" }

type fakePreviewer struct {
	apiKey string
	err    error
}

func (f *fakePreviewer) Preview(_ context.Context, u string) (*models.PreviewResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.PreviewResponse{URL: u, Title: "Jobs in Remote", LinkCount: 42}, nil
}

type testServer struct {
	echo      *echo.Echo
	cfg       *config.Config
	extractor *fakeExtractor
	generator *fakeGenerator
	builds    int
	previewer *fakePreviewer
}

func newTestServer(t *testing.T, configure func(cfg *config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	if configure != nil {
		configure(cfg)
	}

	ts := &testServer{
		cfg: cfg,
		extractor: &fakeExtractor{
			jobs:   `{"job_postings": [{"job_title": "Go Developer"}]}`,
			trends: `{"industry_trends": []}`,
		},
		generator: &fakeGenerator{text: "## Top pick\n\n**Go Developer** at Acme"},
		previewer: &fakePreviewer{},
	}

	build := func(creds session.Credentials) (*agent.Agent, error) {
		ts.builds++
		return agent.New(ts.extractor, ts.generator, cfg.Generation.MaxNewTokens, logging.NewNopLogger()), nil
	}

	registry := session.NewRegistry(cfg, session.NewMemoryStore(time.Hour), build, logging.NewNopLogger())

	ts.echo = echo.New()
	SetupRoutes(ts.echo, Dependencies{
		Config:   cfg,
		Registry: registry,
		Logger:   logging.NewNopLogger(),
		Previewers: func(apiKey string) (scraper.Previewer, error) {
			ts.previewer.apiKey = apiKey
			return ts.previewer, nil
		},
	})
	return ts
}

func (ts *testServer) do(method, target, contentType, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) saveSession(t *testing.T) *http.Cookie {
	t.Helper()

	rec := ts.do(http.MethodPut, "/api/v1/session", echo.MIMEApplicationJSON,
		`{"model_url": "https://api-inference.huggingface.co/models/gpt2", "generation_api_key": "hf", "firecrawl_api_key": "fc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 saving session, got %d: %s", rec.Code, rec.Body.String())
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == ts.cfg.Session.CookieName {
			return c
		}
	}
	t.Fatalf("expected session cookie")
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.saveSession(t)

	rec := ts.do(http.MethodGet, "/api/v1/session", "", "", cookie)
	var resp models.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Ready || resp.SessionID != cookie.Value || resp.Provider != config.ProviderHuggingFace {
		t.Fatalf("unexpected session response %+v", resp)
	}
	if strings.Contains(rec.Body.String(), `"hf"`) || strings.Contains(rec.Body.String(), `"fc"`) {
		t.Fatalf("session response must not echo secrets: %s", rec.Body.String())
	}

	if rec := ts.do(http.MethodDelete, "/api/v1/session", "", "", cookie); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = ts.do(http.MethodGet, "/api/v1/session", "", "", cookie)
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Ready {
		t.Fatalf("expected forgotten session not to be ready")
	}
}

func TestSaveSessionRejectsInvalidModelURL(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPut, "/api/v1/session", echo.MIMEApplicationJSON, `{"model_url": "not a url"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchRequiresCredentials(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/api/v1/search", echo.MIMEApplicationJSON,
		`{"job_title": "Go Developer", "location": "Remote", "experience_years": 2, "skills": "Go", "job_category": "Software Development"}`)

	if rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("expected 428, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "missing_credentials" || resp.RequestID == "" {
		t.Fatalf("unexpected error response %+v", resp)
	}
	if ts.extractor.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", ts.extractor.calls)
	}
}

func TestSearchRunsBothOperations(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.saveSession(t)

	rec := ts.do(http.MethodPost, "/api/v1/search", echo.MIMEApplicationJSON,
		`{"job_title": "Go Developer", "location": "Remote", "experience_years": 2, "job_category": "Data Science"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Jobs.Outcome != string(agent.OutcomeGenerated) || resp.Jobs.Text != ts.generator.text {
		t.Fatalf("unexpected jobs report %+v", resp.Jobs)
	}
	if resp.IndustryTrends.Outcome != string(agent.OutcomeNoResults) ||
		resp.IndustryTrends.Text != "No industry trends data available for Data Science." {
		t.Fatalf("unexpected trends report %+v", resp.IndustryTrends)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0] != handlers.NoSkillsWarning {
		t.Fatalf("expected no-skills warning, got %v", resp.Warnings)
	}
	if ts.extractor.calls != 2 || ts.generator.calls != 1 {
		t.Fatalf("expected 2 extractions and 1 generation, got %d and %d", ts.extractor.calls, ts.generator.calls)
	}

	ts.do(http.MethodPost, "/api/v1/jobs/search", echo.MIMEApplicationJSON,
		`{"job_title": "Go Developer", "location": "Remote", "skills": "Go"}`, cookie)
	if ts.builds != 1 {
		t.Fatalf("expected agent to be built once per session, got %d", ts.builds)
	}
}

func TestSearchValidation(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.saveSession(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"location": "Remote", "job_category": "Finance"}`},
		{name: "unknown category", body: `{"job_title": "Analyst", "location": "Remote", "job_category": "Astrology"}`},
		{name: "experience out of range", body: `{"job_title": "Analyst", "location": "Remote", "experience_years": 31, "job_category": "Finance"}`},
		{name: "malformed json", body: `{"job_title": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/api/v1/search", echo.MIMEApplicationJSON, tt.body, cookie)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
	if ts.extractor.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", ts.extractor.calls)
	}
}

func TestIndustryTrendsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.saveSession(t)

	rec := ts.do(http.MethodPost, "/api/v1/industry/trends", echo.MIMEApplicationJSON, `{"job_category": "Marketing"}`, cookie)

	var resp models.ReportResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if rec.Code != http.StatusOK || resp.Text != "No industry trends data available for Marketing." {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
	if ts.generator.calls != 0 {
		t.Fatalf("expected generation to be skipped")
	}
}

func TestSourcesEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/api/v1/sources", echo.MIMEApplicationJSON,
		`{"job_title": "Software Engineer", "location": "New York", "skills": "Python, SQL,", "job_category": "Data Science"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.SourcesResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.JobListingURLs) != 3 || len(resp.IndustryURLs) != 2 {
		t.Fatalf("unexpected sources %+v", resp)
	}
	if resp.SkillsInPrompt != "Python, SQL" || resp.NormalizedTitle != "software-engineer" {
		t.Fatalf("unexpected prompt details %+v", resp)
	}

	if rec := ts.do(http.MethodPost, "/api/v1/sources", echo.MIMEApplicationJSON, `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty query, got %d", rec.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/api/v1/categories", "", "")

	var resp struct {
		Categories []string `json:"categories"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Categories) != 10 || resp.Categories[2] != "Data Science" {
		t.Fatalf("unexpected categories %v", resp.Categories)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	body := `{"url": "https://www.indeed.com/jobs?q=go&l=remote"}`
	if rec := ts.do(http.MethodPost, "/api/v1/sources/preview", echo.MIMEApplicationJSON, body); rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("expected 428 without firecrawl key, got %d", rec.Code)
	}

	cookie := ts.saveSession(t)
	rec := ts.do(http.MethodPost, "/api/v1/sources/preview", echo.MIMEApplicationJSON, body, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.PreviewResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Title != "Jobs in Remote" || resp.LinkCount != 42 || resp.RequestID == "" {
		t.Fatalf("unexpected preview %+v", resp)
	}
	if ts.previewer.apiKey != "fc" {
		t.Fatalf("expected session firecrawl key, got %q", ts.previewer.apiKey)
	}

	ts.previewer.err = errors.New("scrape blocked")
	if rec := ts.do(http.MethodPost, "/api/v1/sources/preview", echo.MIMEApplicationJSON, body, cookie); rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on scrape failure, got %d", rec.Code)
	}
}

func TestSearchRateLimited(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerMinute = 1
		cfg.RateLimit.Burst = 1
	})
	cookie := ts.saveSession(t)

	body := `{"job_category": "Finance"}`
	if rec := ts.do(http.MethodPost, "/api/v1/industry/trends", echo.MIMEApplicationJSON, body, cookie); rec.Code != http.StatusOK {
		t.Fatalf("expected first search to pass, got %d", rec.Code)
	}
	if rec := ts.do(http.MethodPost, "/api/v1/industry/trends", echo.MIMEApplicationJSON, body, cookie); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestSearchRateLimitIgnoresUnissuedSessionIDs(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerMinute = 1
		cfg.RateLimit.Burst = 1
	})

	codes := make([]int, 0, 3)
	for _, id := range []string{"made-up-1", "made-up-2", "made-up-3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/industry/trends", strings.NewReader(`{"job_category": "Finance"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Session-ID", id)
		rec := httptest.NewRecorder()
		ts.echo.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[1] != http.StatusTooManyRequests || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected rotated session IDs to be limited by IP, got %v", codes)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, path := range []string{"/health", "/health/ready", "/health/live"} {
		rec := ts.do(http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from %s, got %d", path, rec.Code)
		}
		if rec.Header().Get(echo.HeaderXRequestID) == "" {
			t.Fatalf("expected request ID header from %s", path)
		}
	}
}

func TestUISearchRendersMarkdown(t *testing.T) {
	ts := newTestServer(t, nil)

	form := url.Values{
		"model_url":          {"https://api-inference.huggingface.co/models/gpt2"},
		"generation_api_key": {"hf"},
		"firecrawl_api_key":  {"fc"},
	}
	rec := ts.do(http.MethodPost, "/session", echo.MIMEApplicationForm, form.Encode())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after saving keys, got %d", rec.Code)
	}
	cookie := rec.Result().Cookies()[0]

	search := url.Values{
		"job_title":        {"Go Developer"},
		"location":         {"Remote"},
		"experience_years": {"4"},
		"skills":           {"Go, Kubernetes"},
		"job_category":     {"Engineering"},
	}
	rec = ts.do(http.MethodPost, "/search", echo.MIMEApplicationForm, search.Encode(), cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	page := rec.Body.String()
	for _, want := range []string{
		"<strong>Go Developer</strong>",
		"<h2>Top pick</h2>",
		"Engineering Industry Trends Analysis",
		"No industry trends data available for Engineering.",
		"<details>",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
	if strings.Contains(page, handlers.NoSkillsWarning) {
		t.Fatalf("did not expect no-skills warning")
	}
}

func TestUISearchWithoutKeys(t *testing.T) {
	ts := newTestServer(t, nil)

	search := url.Values{"job_title": {"Go Developer"}, "location": {"Remote"}, "job_category": {"Sales"}}
	rec := ts.do(http.MethodPost, "/search", echo.MIMEApplicationForm, search.Encode())

	if !strings.Contains(rec.Body.String(), handlers.AgentNotReadyMessage) {
		t.Fatalf("expected missing keys error")
	}
	if ts.extractor.calls != 0 {
		t.Fatalf("expected no provider calls")
	}
}

func TestUISearchRequiresTitleAndLocation(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.saveSession(t)

	search := url.Values{"job_title": {"Go Developer"}, "job_category": {"Sales"}}
	rec := ts.do(http.MethodPost, "/search", echo.MIMEApplicationForm, search.Encode(), cookie)

	if !strings.Contains(rec.Body.String(), handlers.MissingTitleOrLocation) {
		t.Fatalf("expected title/location error")
	}
	if ts.extractor.calls != 0 {
		t.Fatalf("expected no provider calls")
	}
}

func TestIndexPage(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/", "", "")
	page := rec.Body.String()

	if rec.Code != http.StatusOK || !strings.Contains(page, "AI Job Hunting Assistant") {
		t.Fatalf("unexpected index page %d", rec.Code)
	}
	if !strings.Contains(page, `value="2"`) {
		t.Fatalf("expected default experience of 2 years")
	}
	if !strings.Contains(page, handlers.MissingCredentialsMessage) {
		t.Fatalf("expected missing credentials warning")
	}
}
