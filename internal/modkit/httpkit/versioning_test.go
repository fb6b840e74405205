package httpkit

import (
	"net/http"
	"testing"
)

func TestMountAPIBuildsVersionPrefix(t *testing.T) {
	r := &recordingRouter{}

	MountAPI(r, "v2", []func(http.Handler) http.Handler{mwNop}, func(api Router) {
		r.mountHits++
	})

	if len(r.routes) != 1 || r.routes[0] != "/api/v2" {
		t.Fatalf("version prefix: %v", r.routes)
	}
	if r.useCalls != 1 || r.mountHits != 1 {
		t.Fatalf("middleware or mount skipped: use=%d hits=%d", r.useCalls, r.mountHits)
	}
}

func TestMountAPITrimsLeadingSlash(t *testing.T) {
	r := &recordingRouter{}

	MountAPI(r, "/v3", nil, func(api Router) { r.mountHits++ })

	if len(r.routes) != 1 || r.routes[0] != "/api/v3" {
		t.Fatalf("slash-prefixed version: %v", r.routes)
	}
}

func TestMountAPIV1PinsVersion(t *testing.T) {
	r := &recordingRouter{}

	MountAPIV1(r, nil, func(api Router) { r.mountHits++ })

	if len(r.routes) != 1 || r.routes[0] != "/api/v1" {
		t.Fatalf("v1 prefix: %v", r.routes)
	}
	if r.mountHits != 1 {
		t.Fatalf("mount hits: %d", r.mountHits)
	}
}
