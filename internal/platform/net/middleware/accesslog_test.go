package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"progdex/internal/platform/net/middleware"
)

func TestAccessLogPassesStatusAndBodyThrough(t *testing.T) {
	mw := middleware.AccessLog(middleware.AccessLogOptions{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"not cataloged"}`)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/programs/acme/ghost", nil)
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status mangled by access log: got %d", rr.Code)
	}
	if rr.Body.String() != `{"error":"not cataloged"}` {
		t.Fatalf("body mangled by access log: %q", rr.Body.String())
	}
}

func TestAccessLogSlowMarkDoesNotAffectResponse(t *testing.T) {
	mw := middleware.AccessLog(middleware.AccessLogOptions{Slow: time.Nanosecond})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Microsecond)
		_, _ = io.WriteString(w, "slow")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/programs", nil)
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("slow marking changed the status: got %d", rr.Code)
	}
	if rr.Body.String() != "slow" {
		t.Fatalf("slow marking changed the body: %q", rr.Body.String())
	}
}

func TestAccessLogCountsEveryWrite(t *testing.T) {
	mw := middleware.AccessLog(middleware.AccessLogOptions{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[`))
		_, _ = w.Write([]byte(`]}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/programs", nil)
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if rr.Body.String() != `{"items":[]}` {
		t.Fatalf("chunked writes mangled: %q", rr.Body.String())
	}
}
