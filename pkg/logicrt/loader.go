// Package logicrt resolves logic signals to callables and invokes them
// under timeout/deferral rules, routing by execution context.
package logicrt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/weaver-dev/weaver/pkg/signal"
)

// Callable is a resolved logic module: the Go analogue of the source
// system's dynamically-imported default export. args are already
// assembled into the dep-interfaces a computed/action/handler call
// expects.
type Callable func(ctx context.Context, args []any) (any, error)

// Resolver resolves a logic signal's src (or ssrSrc, when present) to a
// Callable. The production Resolver is a Registry populated at process
// boot by generated code emitted alongside the build-time transform.
// Resolver is an interface so host applications can plug in their own
// resolution strategy.
type Resolver interface {
	Resolve(src string) (Callable, bool)
}

// Registry is the default in-memory Resolver: logic src paths are
// registered once at boot and never mutated afterwards. Since the
// module-resolution hook is process-wide state and a real deployment
// handles many concurrent requests, Weaver scopes it by freezing the
// Registry once built and sharing it read-only across concurrent
// requests, so two renders never observe each other's registrations
// racing.
type Registry struct {
	mu     sync.RWMutex
	fns    map[string]Callable
	frozen bool
}

// NewRegistry creates an empty, mutable module Registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]Callable)}
}

// Register binds src to fn. Panics if called after Freeze, since a
// registration after boot would be exactly the cross-request race §9
// warns about.
func (m *Registry) Register(src string, fn Callable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen {
		panic("weaver: logicrt.Registry is frozen; register logic modules at boot only")
	}
	m.fns[src] = fn
}

// Freeze prevents further registration. Call once at boot after all
// logic modules have been registered.
func (m *Registry) Freeze() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frozen = true
}

// Resolve implements Resolver.
func (m *Registry) Resolve(src string) (Callable, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.fns[src]
	return fn, ok
}

// Mode is the routing decision the loader makes for a logic signal,
// independent of any particular invocation's arguments.
type Mode int

const (
	// ModeExecute runs the resolved Callable in this process.
	ModeExecute Mode = iota
	// ModeExecuteWorker runs the resolved Callable on a worker goroutine
	// pool keyed by src.
	ModeExecuteWorker
	// ModeYieldPending never executes here; the caller should treat the
	// signal as immediately PENDING/Init.
	ModeYieldPending
)

// Loader routes a logic signal to a Mode and, for the execute modes,
// resolves its Callable.
type Loader struct {
	resolver Resolver
	log      *slog.Logger
}

// NewLoader creates a Loader backed by resolver. A nil logger defaults
// to slog.Default().
func NewLoader(resolver Resolver, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{resolver: resolver, log: log}
}

// Route returns the Mode for logic without resolving a Callable. This
// is the routing table collapsed to the server-process perspective:
// Weaver's Go loader only ever executes server-side (either for SSR
// itself or on behalf of a client's RPC call to /weaver/execute); the
// client-build behavior is the JS client agent's job (client/src), not
// this package's.
func Route(logic *signal.Logic) Mode {
	switch logic.Context {
	case signal.ContextClient:
		return ModeYieldPending
	case signal.ContextWorker:
		return ModeExecuteWorker
	default: // isomorphic or explicit "server"
		return ModeExecute
	}
}

// Load resolves logic to a Callable, honoring ssrSrc when present and
// falling back to src otherwise. A LoadError (returned, not panicked)
// is non-fatal: the affected region closes empty and the client
// hydrates it later.
func (l *Loader) Load(logic *signal.Logic) (Callable, error) {
	path := logic.Src
	if logic.SSRSrc != "" {
		path = logic.SSRSrc
	}
	fn, ok := l.resolver.Resolve(path)
	if !ok {
		l.log.Warn("weaver: logic module failed to load", "signal_id", logic.Id, "src", path)
		return nil, &LoadError{SignalID: logic.Id, Src: path}
	}
	return fn, nil
}

// LoadError indicates a logic module could not be resolved.
type LoadError struct {
	SignalID string
	Src      string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("weaver: could not load logic %s (src=%s)", e.SignalID, e.Src)
}
