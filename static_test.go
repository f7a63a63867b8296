package weaver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/weaver-dev/weaver/pkg/logicrt"
)

func writeStaticFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile %s: %v", name, err)
	}
}

func newStaticApp(t *testing.T, static StaticConfig) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Static = static
	return New(cfg, logicrt.NewRegistry())
}

func TestStaticServingPrefixHandling(t *testing.T) {
	dir := t.TempDir()
	writeStaticFile(t, dir, "app.js", "ok")

	app := newStaticApp(t, StaticConfig{Dir: dir, Prefix: "/static"})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/static/app.js", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "ok" {
		t.Fatalf("body = %q, want %q", rr.Body.String(), "ok")
	}

	req = httptest.NewRequest(http.MethodGet, "http://example.com/app.js", nil)
	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d for path outside prefix", rr.Code, http.StatusNotFound)
	}
}

func TestStaticServingMethodHandling(t *testing.T) {
	dir := t.TempDir()
	writeStaticFile(t, dir, "app.js", "ok")

	app := newStaticApp(t, StaticConfig{Dir: dir, Prefix: "/"})

	req := httptest.NewRequest(http.MethodPost, "http://example.com/app.js", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}

	req = httptest.NewRequest(http.MethodHead, "http://example.com/app.js", nil)
	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.Len() != 0 {
		t.Fatalf("HEAD status=%d bodyLen=%d, want 200 and empty", rr.Code, rr.Body.Len())
	}
}

func TestStaticServingCacheControlHeaders(t *testing.T) {
	dir := t.TempDir()
	writeStaticFile(t, dir, "app.a1b2c3d4.css", "fingerprinted")
	writeStaticFile(t, dir, "app.css", "plain")

	app := newStaticApp(t, StaticConfig{Dir: dir, Prefix: "/", CacheControl: CacheControlProduction})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/app.a1b2c3d4.css", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=31536000, immutable" {
		t.Fatalf("Cache-Control = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "http://example.com/app.css", nil)
	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=3600, must-revalidate" {
		t.Fatalf("Cache-Control = %q", got)
	}
}

func TestIsFingerprinted(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"app.a1b2c3d4.css", true},
		{"app.A1B2C3D4.css", true},
		{"app.12345678.css", true},
		{"app.1234567.css", false},
		{"app.zzzzzzzz.css", false},
		{"app.css", false},
	}
	for _, tc := range cases {
		if got := isFingerprinted(tc.path); got != tc.want {
			t.Errorf("isFingerprinted(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestStaticRelPathRejectsUnsafePaths(t *testing.T) {
	dir := t.TempDir()
	writeStaticFile(t, dir, "ok.txt", "ok")
	app := newStaticApp(t, StaticConfig{Dir: dir, Prefix: "/"})

	cases := []string{
		"/\x00",
		"/foo\\bar",
		"/./secret",
		"/../secret",
		"/a/../b",
	}
	for _, p := range cases {
		if rel, ok := app.staticRelPath(p); ok {
			t.Errorf("staticRelPath(%q) = %q, want reject", p, rel)
		}
	}
}

func TestStaticRelPathRejectsDoubleSlashAfterPrefix(t *testing.T) {
	dir := t.TempDir()
	writeStaticFile(t, dir, "ok.txt", "ok")
	app := newStaticApp(t, StaticConfig{Dir: dir, Prefix: "/static"})

	if rel, ok := app.staticRelPath("/static//etc/passwd"); ok {
		t.Fatalf("staticRelPath returned %q, want reject", rel)
	}
}

func TestStaticServingCustomHeaders(t *testing.T) {
	dir := t.TempDir()
	writeStaticFile(t, dir, "app.js", "ok")

	app := newStaticApp(t, StaticConfig{Dir: dir, Prefix: "/", Headers: map[string]string{"X-Static": "true"}})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/app.js", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Static"); got != "true" {
		t.Fatalf("X-Static = %q, want %q", got, "true")
	}
	if !strings.Contains(rr.Body.String(), "ok") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}
