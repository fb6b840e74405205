package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "progdex/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func hit(t *testing.T, mux http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestAdaptChiMethods(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())

	r.Get("/programs", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "list") })
	r.Post("/programs/query", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "query") })
	r.Delete("/programs/{owner}/{name}", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "gone") })

	if rr := hit(t, r.Mux(), http.MethodGet, "/programs"); rr.Body.String() != "list" {
		t.Fatalf("get adapter: %d %q", rr.Code, rr.Body.String())
	}
	if rr := hit(t, r.Mux(), http.MethodPost, "/programs/query"); rr.Body.String() != "query" {
		t.Fatalf("post adapter: %d %q", rr.Code, rr.Body.String())
	}
	if rr := hit(t, r.Mux(), http.MethodDelete, "/programs/acme/swap"); rr.Body.String() != "gone" {
		t.Fatalf("delete adapter: %d %q", rr.Code, rr.Body.String())
	}

	// the mux rejects methods a route never registered
	if rr := hit(t, r.Mux(), http.MethodPut, "/programs"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unregistered method: %d", rr.Code)
	}
}

func TestAdaptChiHandleServesPrebuilt(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	r.Handle("/docs/*", http.StripPrefix("/docs", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = io.WriteString(w, "swagger:"+req.URL.Path)
	})))

	rr := hit(t, r.Mux(), http.MethodGet, "/docs/doc.json")
	if rr.Body.String() != "swagger:/doc.json" {
		t.Fatalf("handle adapter: %q", rr.Body.String())
	}
}

func TestAdaptChiGroupScopesMiddleware(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())

	r.Get("/open", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) })
	r.Group(func(gr phttp.Router) {
		gr.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Guarded", "1")
				next.ServeHTTP(w, req)
			})
		})
		gr.Delete("/guarded", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) })
	})

	if rr := hit(t, r.Mux(), http.MethodDelete, "/guarded"); rr.Header().Get("X-Guarded") != "1" {
		t.Fatal("group middleware missing inside the group")
	}
	if rr := hit(t, r.Mux(), http.MethodGet, "/open"); rr.Header().Get("X-Guarded") != "" {
		t.Fatal("group middleware leaked outside the group")
	}
}

func TestAdaptChiRouteNestsPrefixes(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())

	r.Route("/api/v1", func(api phttp.Router) {
		api.Route("/programs", func(pr phttp.Router) {
			pr.Get("/categories", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "categories")
			})
		})
	})

	rr := hit(t, r.Mux(), http.MethodGet, "/api/v1/programs/categories")
	if rr.Code != http.StatusOK || rr.Body.String() != "categories" {
		t.Fatalf("nested route: %d %q", rr.Code, rr.Body.String())
	}

	// subrouter Mux serves relative to its own prefix
	r.Route("/sub", func(sr phttp.Router) {
		sr.Get("/x", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "x") })
		if sr.Mux() == nil {
			t.Fatal("subrouter Mux is nil")
		}
	})
}

func TestAdaptChiUseAppliesToLaterRoutes(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Stack", "common")
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/programs", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) })

	rr := hit(t, r.Mux(), http.MethodGet, "/programs")
	if rr.Header().Get("X-Stack") != "common" {
		t.Fatal("root middleware not applied")
	}
}
