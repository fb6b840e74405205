package net

import (
	"context"
	"net/http"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Fatalf("empty context should have no request id, got %q", got)
	}

	ctx = WithRequest(ctx, "progdex-api/abc-000042")
	if got := RequestID(ctx); got != "progdex-api/abc-000042" {
		t.Fatalf("request id round trip: got %q", got)
	}

	// blank ids are not stored
	base := context.Background()
	if same := WithRequest(base, ""); same != base {
		t.Fatal("blank request id should leave the context untouched")
	}
}

func TestRequestIDMatchesChiMiddleware(t *testing.T) {
	// the id set by WithRequest must be visible to handlers running under
	// chi's RequestID middleware, which reads the same context key
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/programs", nil)
	req = req.WithContext(WithRequest(req.Context(), "rid-7"))
	if got := RequestID(req.Context()); got != "rid-7" {
		t.Fatalf("chi key mismatch: got %q", got)
	}
}

func TestOperatorIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := OperatorID(ctx); got != "" {
		t.Fatalf("empty context should have no operator, got %q", got)
	}

	ctx = WithOperator(ctx, "admin")
	if got := OperatorID(ctx); got != "admin" {
		t.Fatalf("operator round trip: got %q", got)
	}

	base := context.Background()
	if same := WithOperator(base, ""); same != base {
		t.Fatal("blank operator id should leave the context untouched")
	}
}
