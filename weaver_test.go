package weaver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/weaver-dev/weaver/el"
	"github.com/weaver-dev/weaver/pkg/logicrt"
)

func newTestApp() *App {
	return New(DefaultConfig(), logicrt.NewRegistry())
}

func TestAppServesRegisteredPage(t *testing.T) {
	app := newTestApp()
	app.Page("/hello", func(ctx context.Context, r *http.Request) *el.Node {
		return el.Div(el.Text("hello world"))
	})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/hello", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "hello world") {
		t.Fatalf("body = %q, want it to contain %q", rr.Body.String(), "hello world")
	}
}

func TestAppUnregisteredPathIs404(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/nope", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestAppRenderSetsPageCookieAndChainRecoversIt(t *testing.T) {
	app := newTestApp()
	app.Page("/page", func(ctx context.Context, r *http.Request) *el.Node {
		return el.Div(el.Text("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/page", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	resp := rr.Result()
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == pageCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatalf("expected %s cookie to be set", pageCookieName)
	}

	liveReq := httptest.NewRequest(http.MethodGet, "http://example.com/weaver/live", nil)
	liveReq.AddCookie(cookie)

	chain, err := app.Chain(liveReq)
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	_ = chain // the page above defines no signals, so an empty chain is correct
}

func TestAppChainWithoutCookieErrors(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/weaver/live", nil)
	if _, err := app.Chain(req); err == nil {
		t.Fatal("Chain without a page cookie should error")
	}
}
