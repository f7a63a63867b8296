// Package weaver is the top-level entry point for a Weaver application:
// it wires the logic-module loader, the propagation engine's render
// pipeline, and the websocket session manager into a single http.Handler.
package weaver

import (
	"context"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weaver-dev/weaver/el"
	"github.com/weaver-dev/weaver/pkg/httpserver"
	"github.com/weaver-dev/weaver/pkg/httpserver/metrics"
	"github.com/weaver-dev/weaver/pkg/logicrt"
	"github.com/weaver-dev/weaver/pkg/propagate"
	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/render"
	"github.com/weaver-dev/weaver/pkg/rpc"
	"github.com/weaver-dev/weaver/pkg/signal"
)

// PageFunc builds the node tree for a single request. It's called once
// per page load; a live-channel upgrade recovers the page's signal chain
// from what that render stored (see Chain) without calling it again. Its
// only job is to describe the page — the registry and propagation engine
// own everything stateful.
type PageFunc func(ctx context.Context, r *http.Request) *el.Node

const pageCookieName = "weaver_pid"

// App is a running Weaver application: a set of registered pages, the
// logic-module loader they call into, and the server plumbing
// (execute RPC, live websocket channel, thin client, static files)
// that turns them into an http.Handler.
type App struct {
	cfg Config

	mods     *logicrt.Registry
	loader   *logicrt.Loader
	pool     *logicrt.WorkerPool
	sessions *httpserver.Manager
	rpc      *rpc.Handler
	router   *httpserver.Router
	mets     *metrics.Collector

	mu    sync.RWMutex
	pages map[string]PageFunc

	chainMu sync.Mutex
	chains  map[string]pageChain
}

type pageChain struct {
	signals []signal.Signal
	expires time.Time
}

// New creates an App. Register logic modules against mods before
// calling New; mods is frozen internally so no later call can race a
// concurrent render (pkg/logicrt's own boot-time-only contract).
func New(cfg Config, mods *logicrt.Registry) *App {
	if mods == nil {
		mods = logicrt.NewRegistry()
	}
	mods.Freeze()

	logger := cfg.logger()
	loader := logicrt.NewLoader(mods, logger)
	pool := logicrt.NewWorkerPool(cfg.WorkerIdleTimeout)
	mets := metrics.New(metrics.WithNamespace(orDefault(cfg.MetricsNamespace, "weaver")))

	a := &App{
		cfg:    cfg,
		mods:   mods,
		loader: loader,
		pool:   pool,
		mets:   mets,
		pages:  make(map[string]PageFunc),
		chains: make(map[string]pageChain),
	}

	nodeFactory := func(reg *registry.Registry, exec *logicrt.Executor) propagate.NodeRenderer {
		return &render.Pipeline{Reg: reg, Executor: exec}
	}
	a.sessions = httpserver.NewManager(cfg.sessionConfig(), cfg.sessionLimits(), nodeFactory, pool, cfg.checkOrigin(), mets, logger)
	if cfg.Snapshots != nil {
		a.sessions.WithSnapshots(cfg.Snapshots, cfg.SnapshotTTL)
	}
	a.rpc = rpc.NewHandler(loader, pool, logger)
	a.router = httpserver.NewRouter(a.sessions, loader, a.rpc, a, cfg.DevMode)

	return a
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Page registers fn to handle requests at path, rendering its node
// tree through the tokenizer/executor/sequencer/serializer pipeline
// on each request.
func (a *App) Page(path string, fn PageFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pages[path] = fn
}

func (a *App) lookupPage(r *http.Request) (PageFunc, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	fn, ok := a.pages[r.URL.Path]
	return fn, ok
}

// ServeHTTP implements http.Handler: static files first, then the
// registered page for the request path.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.shouldServeStatic(r.URL.Path) {
		a.serveStatic(w, r)
		return
	}

	fn, ok := a.lookupPage(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	a.renderPage(w, r, fn)
}

func (a *App) renderPage(w http.ResponseWriter, r *http.Request, fn PageFunc) {
	reg := registry.New()
	exec := logicrt.NewExecutor(reg, a.loader, a.pool, a.cfg.logger())
	p := &render.Pipeline{Reg: reg, Executor: exec}

	node := fn(r.Context(), r)

	pid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     pageCookieName,
		Value:    pid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !a.cfg.DevMode,
	})

	var fl http.Flusher
	if f, ok := w.(http.Flusher); ok {
		fl = f
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.Render(r.Context(), w, fl, node); err != nil {
		a.cfg.logger().Error("weaver: page render failed", "path", r.URL.Path, "err", err)
		return
	}

	a.storeChain(pid, reg)
}

func (a *App) storeChain(pid string, reg *registry.Registry) {
	ids := reg.All()
	sigs := make([]signal.Signal, 0, len(ids))
	for _, id := range ids {
		sigs = append(sigs, reg.Get(id))
	}

	a.chainMu.Lock()
	a.chains[pid] = pageChain{signals: sigs, expires: time.Now().Add(2 * time.Minute)}
	a.chainMu.Unlock()
}

// Chain implements httpserver.PageHandler: it recovers the signal
// chain for the page a live-upgrade request's session cookie points
// at, so Manager.Create can rebuild the same registry the initial
// render populated.
func (a *App) Chain(r *http.Request) ([]signal.Signal, error) {
	cookie, err := r.Cookie(pageCookieName)
	if err != nil {
		return nil, err
	}

	a.chainMu.Lock()
	defer a.chainMu.Unlock()
	a.sweepExpiredChains()

	chain, ok := a.chains[cookie.Value]
	if !ok {
		return nil, http.ErrNoCookie
	}
	return chain.signals, nil
}

// sweepExpiredChains drops page chains old enough that no reasonable
// client would still be loading their live channel; called while
// a.chainMu is held.
func (a *App) sweepExpiredChains() {
	now := time.Now()
	for pid, c := range a.chains {
		if now.After(c.expires) {
			delete(a.chains, pid)
		}
	}
}

// Run starts an HTTP server on addr serving the app.
func (a *App) Run(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // streaming responses may run long
	}
	a.cfg.logger().Info("weaver: listening", "addr", addr)
	return srv.ListenAndServe()
}

// Shutdown stops accepting new live sessions and closes existing ones.
func (a *App) Shutdown(ctx context.Context) error {
	return a.sessions.Shutdown(ctx)
}

// Router returns the chi-backed mux assembled for this app, for
// callers that want to mount additional routes alongside it.
func (a *App) Router() *httpserver.Router {
	return a.router
}

// Logic returns the module registry passed to New. New has already
// frozen it, so it is read-only by the time a caller gets it.
func (a *App) Logic() *logicrt.Registry {
	return a.mods
}

// =============================================================================
// Static file serving
// =============================================================================

func (a *App) shouldServeStatic(urlPath string) bool {
	if a.cfg.Static.Dir == "" {
		return false
	}
	rel, ok := a.staticRelPath(urlPath)
	if !ok {
		return false
	}
	info, err := os.Stat(path.Join(a.cfg.Static.Dir, rel))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (a *App) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rel, ok := a.staticRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	a.applyCacheHeaders(w, rel)
	for key, value := range a.cfg.Static.Headers {
		w.Header().Set(key, value)
	}

	http.ServeFile(w, r, path.Join(a.cfg.Static.Dir, rel))
}

// staticRelPath resolves urlPath to a file path relative to the static
// directory, rejecting anything that could escape it: null bytes,
// backslashes (Windows-style separators a *nix path.Clean won't
// normalize), a leading slash surviving prefix-stripping (a smuggled
// "//" or absolute path), and any ".." segment or dot-segment that
// path.Clean would rewrite.
func (a *App) staticRelPath(urlPath string) (string, bool) {
	if strings.Contains(urlPath, "\x00") {
		return "", false
	}

	prefix := a.cfg.Static.Prefix
	if prefix == "" {
		prefix = "/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var rel string
	if prefix == "/" {
		rel = strings.TrimPrefix(urlPath, "/")
	} else {
		if !strings.HasPrefix(urlPath, prefix) {
			return "", false
		}
		rel = strings.TrimPrefix(urlPath, prefix)
	}

	if rel == "" || strings.Contains(rel, "\\") || strings.HasPrefix(rel, "/") {
		return "", false
	}
	if path.Clean(rel) != rel {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", false
		}
	}
	return rel, true
}

func (a *App) applyCacheHeaders(w http.ResponseWriter, filePath string) {
	switch a.cfg.Static.CacheControl {
	case CacheControlNone:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	case CacheControlProduction:
		if isFingerprinted(filePath) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// isFingerprinted reports whether filePath carries a content hash in
// its name, e.g. "app.a1b2c3d4.css" (internal/build's asset output).
func isFingerprinted(filePath string) bool {
	base := path.Base(filePath)
	parts := strings.Split(base, ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
