package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weaver-dev/weaver/pkg/logicrt"
	"github.com/weaver-dev/weaver/pkg/rpc"
	"github.com/weaver-dev/weaver/pkg/signal"
)

// PageHandler serves a page route: it renders the page itself (via
// pkg/render.Pipeline, left to the caller so Router stays decoupled
// from any particular page-resolution scheme) and returns the signal
// chain a subsequent live-channel upgrade for this page would need.
type PageHandler interface {
	http.Handler

	// Chain returns the signal definitions backing the page last served
	// to this request's session, for Router to hand to Manager.Create.
	Chain(r *http.Request) ([]signal.Signal, error)
}

// Router assembles the chi mux for a running Weaver server: page
// routes, the /weaver/execute RPC endpoint, the /weaver/live websocket
// upgrade, and a Prometheus /metrics endpoint.
type Router struct {
	Mux *chi.Mux

	Sessions *Manager
	Loader   *logicrt.Loader
	RPC      *rpc.Handler
}

// NewRouter builds a Router. pages serves every page route not
// otherwise claimed by /weaver/*; it may be nil if the caller mounts
// page routes directly onto Mux afterward. devMode controls the thin
// client's Cache-Control policy (no-store in dev, ETag-revalidate in
// prod).
func NewRouter(sessions *Manager, loader *logicrt.Loader, rpcHandler *rpc.Handler, pages PageHandler, devMode bool) *Router {
	mux := chi.NewRouter()
	mux.Use(chimw.Logger)
	mux.Use(chimw.Recoverer)

	router := &Router{Mux: mux, Sessions: sessions, Loader: loader, RPC: rpcHandler}

	mux.Post("/weaver/execute", rpcHandler.ServeHTTP)
	mux.Get("/weaver/live", router.handleLiveUpgrade(pages))
	mux.Get("/weaver/client.js", ServeThinClient(devMode))
	mux.Handle("/metrics", promhttp.Handler())

	if pages != nil {
		mux.Handle("/*", pages)
	}

	return router
}

func (rt *Router) handleLiveUpgrade(pages PageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pages == nil {
			http.Error(w, "no page handler configured", http.StatusNotImplemented)
			return
		}
		chain, err := pages.Chain(r)
		if err != nil {
			http.Error(w, "unresolvable page for live upgrade", http.StatusBadRequest)
			return
		}
		resumeID := r.URL.Query().Get("resume")
		if _, err := rt.Sessions.Create(w, r, rt.Loader, chain, resumeID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.Mux.ServeHTTP(w, r)
}
