package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsCustomErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("saving session: %w", NewMissingCredentialsError("firecrawl_api_key"))

	ce := AsCustomError(wrapped)
	if ce.Code != http.StatusPreconditionRequired {
		t.Fatalf("expected 428, got %d", ce.Code)
	}
	if ce.Kind != "missing_credentials" {
		t.Fatalf("unexpected kind %q", ce.Kind)
	}
}

func TestAsCustomErrorDefaultsToInternal(t *testing.T) {
	ce := AsCustomError(errors.New("boom"))
	if ce.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", ce.Code)
	}
	if ce.Detail != "boom" {
		t.Fatalf("expected detail to carry the original error, got %q", ce.Detail)
	}
}

func TestCustomErrorMessage(t *testing.T) {
	if got := NewValidationError("job_title is required").Error(); got != "Validation failed: job_title is required" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := NewBadRequestError("bad").Error(); got != "bad" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestTruncateForLog(t *testing.T) {
	if got := TruncateForLog("héllo world", 5); got != "héllo..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := TruncateForLog("short", 10); got != "short" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := TruncateForLog("anything", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
