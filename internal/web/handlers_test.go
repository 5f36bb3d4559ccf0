package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/annotatehq/turkread/internal/config"
	"github.com/annotatehq/turkread/internal/core"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.RequestTimeout = 30 * time.Second
	cfg.Ingest.MaxFileSize = 1 << 20
	// nil pool: these tests only touch paths that reject before any
	// database work happens.
	return NewServer(core.NewService(nil, cfg), cfg)
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
}

func TestHandleIngestRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"empty paths", `{"paths": []}`},
		{"missing paths", `{}`},
	}

	s := testServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleUploadRejectsEmptyForm(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		param string
		def   int
		want  int
	}{
		{"present", "limit=50", "limit", 100, 50},
		{"absent", "", "limit", 100, 100},
		{"garbage", "limit=abc", "limit", 100, 100},
		{"negative", "limit=-1", "limit", 100, 100},
		{"zero allowed", "offset=0", "offset", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/records?"+tt.query, nil)
			if got := parseIntParam(req, tt.param, tt.def); got != tt.want {
				t.Errorf("parseIntParam(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}
