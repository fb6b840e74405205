package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "progdex/internal/platform/errors"
	pnet "progdex/internal/platform/net"
	phttp "progdex/internal/platform/net/http"
)

func reqWithID(method, target, rid string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("body is not an envelope: %v\n%s", err, rr.Body.String())
	}
	return env
}

func TestJSONSetsContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	phttp.JSON(rr, http.StatusTeapot, map[string]string{"k": "v"})

	if rr.Code != http.StatusTeapot {
		t.Fatalf("status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type: %q", ct)
	}
}

func TestHandleSuccessEnvelope(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.OK(map[string]any{"full_name": "project-serum/serum-dex", "stars": 920})
	})

	rr := httptest.NewRecorder()
	h(rr, reqWithID(http.MethodGet, "/programs/project-serum/serum-dex", "rid-detail-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.StatusCode != 200 || env.Status != "OK" {
		t.Fatalf("envelope status fields: %+v", env)
	}
	if env.RequestID != "rid-detail-1" {
		t.Fatalf("request id: %+v", env)
	}
	if env.Code != perr.ErrorCodeUnknown || env.Error != "" {
		t.Fatalf("success envelope must not carry error fields: %+v", env)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["full_name"] != "project-serum/serum-dex" {
		t.Fatalf("data lost: %#v", env.Data)
	}
}

func TestHandleZeroStatusReadsAsOK(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Response{Body: "bare"}
	})

	rr := httptest.NewRecorder()
	h(rr, reqWithID(http.MethodGet, "/programs", ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("zero status should write 200, got %d", rr.Code)
	}
}

func TestHandleErrorBodyDecidesStatus(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		// the handler claims 200; the error must override it
		return phttp.Response{Status: http.StatusOK, Body: perr.NotFoundf("program acme/ghost not cataloged")}
	})

	rr := httptest.NewRecorder()
	h(rr, reqWithID(http.MethodGet, "/programs/acme/ghost", "rid-miss-1"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("error body should set 404, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.StatusCode != 404 || env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("error envelope: %+v", env)
	}
	if env.Error != "program acme/ghost not cataloged" {
		t.Fatalf("error message: %+v", env)
	}
	if env.RequestID != "rid-miss-1" || env.Data != nil {
		t.Fatalf("error envelope extras: %+v", env)
	}
}

func TestHandleNoContentWritesNoBody(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.NoContent()
	})

	rr := httptest.NewRecorder()
	h(rr, reqWithID(http.MethodDelete, "/programs/acme/swap", "rid-del-1"))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("204 must not carry a body: %q", rr.Body.String())
	}
}

func TestHandleCopiesExtraHeaders(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("X-Snapshot-Age", "3600")
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Response{Body: "ok", Header: hdr}
	})

	rr := httptest.NewRecorder()
	h(rr, reqWithID(http.MethodGet, "/programs", ""))

	if got := rr.Header().Get("X-Snapshot-Age"); got != "3600" {
		t.Fatalf("extra header lost: %q", got)
	}
}

func TestErrorConstructorMapsForeignErrors(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Error(http.ErrBodyNotAllowed)
	})

	rr := httptest.NewRecorder()
	h(rr, reqWithID(http.MethodGet, "/programs", ""))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("foreign errors read as 500, got %d", rr.Code)
	}
}

func TestListEnvelopePagination(t *testing.T) {
	items := []map[string]any{
		{"full_name": "project-serum/serum-dex"},
		{"full_name": "coral-xyz/anchor"},
	}
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.List(items, 312, 2, 50, "")
	})

	rr := httptest.NewRecorder()
	h(rr, reqWithID(http.MethodGet, "/programs?page=2", "rid-list-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}

	var env struct {
		Data struct {
			Items []map[string]any `json:"items"`
			Page  phttp.Page       `json:"page"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(env.Data.Items) != 2 || env.Data.Items[1]["full_name"] != "coral-xyz/anchor" {
		t.Fatalf("items: %#v", env.Data.Items)
	}
	if env.Data.Page.Total != 312 || env.Data.Page.Page != 2 || env.Data.Page.PageSize != 50 {
		t.Fatalf("page block: %+v", env.Data.Page)
	}
}
