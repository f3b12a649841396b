package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
)

func newHuggingFace(t *testing.T, handler http.HandlerFunc) *HuggingFaceProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewHuggingFaceProvider(config.Default(), server.URL+"/models/test", "hf-secret", logging.NewNopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return provider
}

func TestHuggingFaceGenerateSendsPromptAndToken(t *testing.T) {
	provider := newHuggingFace(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/models/test" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hf-secret" {
			t.Errorf("unexpected authorization header %q", got)
		}

		var body struct {
			Inputs     string `json:"inputs"`
			Parameters struct {
				MaxNewTokens int `json:"max_new_tokens"`
			} `json:"parameters"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Inputs != "Summarise these jobs" || body.Parameters.MaxNewTokens != 800 {
			t.Errorf("unexpected body %+v", body)
		}

		_, _ = w.Write([]byte(`[{"generated_text": "💼 SELECTED JOB OPPORTUNITIES"}]`))
	})

	text, err := provider.Generate(context.Background(), "Summarise these jobs", 800)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "💼 SELECTED JOB OPPORTUNITIES" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestHuggingFaceGenerateNon2xx(t *testing.T) {
	provider := newHuggingFace(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	})

	_, err := provider.Generate(context.Background(), "prompt", 10)
	if err == nil {
		t.Fatalf("expected error for 503")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status code in error, got %v", err)
	}
}

func TestParseGeneratedText(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "array", body: `[{"generated_text": "hello"}]`, want: "hello"},
		{name: "single object", body: `{"generated_text": "hi"}`, want: "hi"},
		{name: "empty generated text", body: `[{"generated_text": ""}]`, want: ""},
		{name: "provider error", body: `{"error": "Model is currently loading", "estimated_time": 20}`, wantErr: true},
		{name: "empty array", body: `[]`, wantErr: true},
		{name: "missing field", body: `[{"text": "x"}]`, wantErr: true},
		{name: "html", body: `<html>bad gateway</html>`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGeneratedText([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewHuggingFaceProviderRejectsInvalidURL(t *testing.T) {
	for _, raw := range []string{"", "api-inference.huggingface.co/models/x", "ftp://host/model"} {
		if _, err := NewHuggingFaceProvider(config.Default(), raw, "key", logging.NewNopLogger()); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
