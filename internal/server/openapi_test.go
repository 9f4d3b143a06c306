package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleOpenAPI(t *testing.T) {
	h := handleOpenAPI()
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()

	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "application/json") {
		t.Fatalf("content-type = %q, want application/json", got)
	}

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decoding document: %v", err)
	}

	tests := []struct {
		path   string
		method string
	}{
		{"/healthz", "get"},
		{"/ws", "get"},
		{"/api/players", "put"},
		{"/api/players/me", "patch"},
		{"/api/matches/{code}/join", "post"},
		{"/api/matches/{code}/state", "get"},
		{"/api/parties/{code}/matches", "post"},
		{"/api/history", "get"},
	}
	for _, tt := range tests {
		if _, ok := doc.Paths[tt.path][tt.method]; !ok {
			t.Errorf("missing %s %s", strings.ToUpper(tt.method), tt.path)
		}
	}
}

func TestSwaggerUI(t *testing.T) {
	a := newTestApp(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/docs/", nil)
	rec := httptest.NewRecorder()

	a.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/html") {
		t.Fatalf("content-type = %q, want text/html", got)
	}
	if !strings.Contains(rec.Body.String(), "/openapi.json") {
		t.Fatalf("body missing /openapi.json")
	}
}
