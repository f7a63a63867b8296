package weaver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/weaver-dev/weaver/pkg/httpserver"
)

func TestCheckOriginDevModeAllowsEverything(t *testing.T) {
	cfg := Config{DevMode: true}
	check := cfg.checkOrigin()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/weaver/live", nil)
	req.Header.Set("Origin", "https://evil.example")

	if !check(req) {
		t.Fatal("dev mode should allow any origin")
	}
}

func TestCheckOriginAllowedOriginsList(t *testing.T) {
	cfg := Config{AllowedOrigins: []string{"https://good.example"}}
	check := cfg.checkOrigin()

	allowed := httptest.NewRequest(http.MethodGet, "http://example.com/weaver/live", nil)
	allowed.Header.Set("Origin", "https://good.example")
	if !check(allowed) {
		t.Fatal("expected listed origin to be allowed")
	}

	rejected := httptest.NewRequest(http.MethodGet, "http://example.com/weaver/live", nil)
	rejected.Header.Set("Origin", "https://evil.example")
	if check(rejected) {
		t.Fatal("expected unlisted origin to be rejected")
	}
}

func TestCheckOriginSameOriginDefault(t *testing.T) {
	cfg := Config{}
	check := cfg.checkOrigin()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/weaver/live", nil)
	req.Header.Set("Origin", "http://example.com")
	if !check(req) {
		t.Fatal("expected same-origin request to be allowed")
	}

	cross := httptest.NewRequest(http.MethodGet, "http://example.com/weaver/live", nil)
	cross.Header.Set("Origin", "http://other.example")
	if check(cross) {
		t.Fatal("expected cross-origin request to be rejected")
	}
}

func TestSessionConfigFillsOnlyZeroFields(t *testing.T) {
	cfg := Config{Session: httpserver.SessionConfig{MaxMessageSize: 1024}}
	sc := cfg.sessionConfig()

	if sc.MaxMessageSize != 1024 {
		t.Fatalf("MaxMessageSize = %d, want 1024 (the overridden value)", sc.MaxMessageSize)
	}
	if sc.OutboxSize == 0 {
		t.Fatal("zero-value OutboxSize should fall back to the default, not stay 0")
	}
}
