package net

import (
	"context"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestWithRequestRoundTrip(t *testing.T) {
	ctx := WithRequest(context.Background(), "rid-123")
	if got := RequestID(ctx); got != "rid-123" {
		t.Fatalf("RequestID = %q, want rid-123", got)
	}
	if got := chimw.GetReqID(ctx); got != "rid-123" {
		t.Fatalf("chi GetReqID = %q, want rid-123", got)
	}
}

func TestWithRequestEmptyIsNoop(t *testing.T) {
	base := context.Background()
	if got := WithRequest(base, ""); got != base {
		t.Fatalf("expected same context for empty id")
	}
	if RequestID(base) != "" {
		t.Fatalf("expected empty request id")
	}
}

func TestWithSessionEmptyIsNoop(t *testing.T) {
	base := context.Background()
	if got := WithSession(base, ""); got != base {
		t.Fatalf("expected same context for empty session")
	}
	if got := WithSession(base, "s-1"); got == base {
		t.Fatalf("expected derived context for session")
	}
}
