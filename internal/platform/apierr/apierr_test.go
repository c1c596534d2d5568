package apierr

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsChain(t *testing.T) {
	base := BadRequest("invalid_body", "title required")
	wrapped := fmt.Errorf("create course: %w", base)
	got, ok := As(wrapped)
	if !ok {
		t.Fatalf("expected apierr in chain")
	}
	if got.Status != http.StatusBadRequest || got.Code != "invalid_body" {
		t.Fatalf("unexpected error: %#v", got)
	}
	if got.Error() != "title required" {
		t.Fatalf("unexpected message: %q", got.Error())
	}
}

func TestErrorFallbacks(t *testing.T) {
	if got := New(http.StatusTeapot, "", nil).Error(); got != "api error (418)" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := New(0, "", nil).Error(); got != "api error" {
		t.Fatalf("unexpected message: %q", got)
	}
}
