package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	perr "progdex/internal/platform/errors"
)

func TestArchiveURL_DefaultBranchFirst(t *testing.T) {
	var probes atomic.Int32
	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer archive.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"full_name": "a/b", "default_branch": "trunk"}`))
	}))
	defer api.Close()

	c := newTestClient(t, api, Options{ArchiveBaseURL: archive.URL})
	u, err := c.ArchiveURL(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("archive url: %v", err)
	}
	want := archive.URL + "/a/b/archive/refs/heads/trunk.zip"
	if u != want {
		t.Fatalf("want %q got %q", want, u)
	}
	if probes.Load() != 0 {
		t.Fatalf("authoritative lookup succeeded, no guesses should be probed (probed %d)", probes.Load())
	}
}

func TestArchiveURL_GuessesOnlyAfterLookupFailure(t *testing.T) {
	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("probe should be HEAD, got %s", r.Method)
		}
		if r.URL.Path == "/a/b/archive/refs/heads/master.zip" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer archive.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer api.Close()

	c := newTestClient(t, api, Options{ArchiveBaseURL: archive.URL, MaxRetries: 1})
	u, err := c.ArchiveURL(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("archive url: %v", err)
	}
	want := archive.URL + "/a/b/archive/refs/heads/master.zip"
	if u != want {
		t.Fatalf("want %q got %q", want, u)
	}
}

func TestArchiveURL_GoneRepoDoesNotGuess(t *testing.T) {
	var probes atomic.Int32
	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer archive.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer api.Close()

	c := newTestClient(t, api, Options{ArchiveBaseURL: archive.URL})
	_, err := c.ArchiveURL(context.Background(), "a", "b")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if probes.Load() != 0 {
		t.Fatalf("a gone repository must not be guessed at, probed %d", probes.Load())
	}
}

func TestArchiveURL_AllGuessesMiss(t *testing.T) {
	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer archive.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer api.Close()

	c := newTestClient(t, api, Options{ArchiveBaseURL: archive.URL, MaxRetries: 1})
	_, err := c.ArchiveURL(context.Background(), "a", "b")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable when nothing resolves, got %v", err)
	}
}
