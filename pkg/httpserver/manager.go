package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/weaver-dev/weaver/pkg/httpserver/live"
	"github.com/weaver-dev/weaver/pkg/httpserver/metrics"
	"github.com/weaver-dev/weaver/pkg/logicrt"
	"github.com/weaver-dev/weaver/pkg/propagate"
	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/registry/rstore"
	"github.com/weaver-dev/weaver/pkg/signal"
)

// Manager owns every live session. Sessions are created per incoming
// websocket upgrade and removed by Close, by Shutdown, or by the cleanup
// loop once they've gone idle past config.IdleTimeout. A disconnect on
// its own does not remove a session from the map.
type Manager struct {
	sessions map[string]*live.Session
	mu       sync.RWMutex

	config      *SessionConfig
	limits      *SessionLimits
	nodeFactory NodeRendererFactory
	pool        *logicrt.WorkerPool
	upgrader *live.Upgrader
	logger   *slog.Logger
	mets     *metrics.Collector

	// snapshots is optional. When set, a session's resolved values are
	// persisted under its resume id on close and restored into the
	// fresh registry a resuming connection reconnects with — the only
	// way a deferred completion begun on one server process can still
	// reach a client that reconnects to a different one.
	snapshots   *rstore.Store
	snapshotTTL time.Duration
	streamKeys  map[string]string // session id -> snapshot key

	cleanupInterval time.Duration
	done            chan struct{}
	cleanupDone     chan struct{}
}

// NodeRendererFactory builds the propagate.NodeRenderer a single
// session's propagation engine re-renders node signals through, bound
// to that session's own registry and executor — a node signal's props
// resolve ids against the registry that holds its current values, so
// the renderer can never be shared across sessions the way the pool or
// loader are.
type NodeRendererFactory func(reg *registry.Registry, exec *logicrt.Executor) propagate.NodeRenderer

// NewManager creates a Manager. nodeFactory builds the per-session
// node re-renderer (pkg/render.Pipeline implements propagate.NodeRenderer;
// wrap it as func(reg, exec) propagate.NodeRenderer { return &render.Pipeline{Reg: reg, Executor: exec} });
// nodeFactory may be nil if the app never streams node signals. pool
// dispatches worker-context logic modules shared across sessions;
// checkOrigin is forwarded to the underlying websocket.Upgrader.
func NewManager(config *SessionConfig, limits *SessionLimits, nodeFactory NodeRendererFactory, pool *logicrt.WorkerPool, checkOrigin func(*http.Request) bool, mets *metrics.Collector, logger *slog.Logger) *Manager {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if limits == nil {
		limits = DefaultSessionLimits()
	}
	if logger == nil {
		logger = slog.Default()
	}

	liveConfig := live.Config{
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		OutboxSize:   config.OutboxSize,
	}

	m := &Manager{
		sessions:        make(map[string]*live.Session),
		config:          config,
		limits:          limits,
		nodeFactory:     nodeFactory,
		pool:            pool,
		upgrader:        live.NewUpgrader(liveConfig, checkOrigin, logger),
		mets:            mets,
		logger:          logger.With("component", "session_manager"),
		streamKeys:      make(map[string]string),
		cleanupInterval: 30 * time.Second,
		done:            make(chan struct{}),
		cleanupDone:     make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// WithSnapshots enables cross-process resume: a session's resolved
// values are persisted to store under its resume key when the session
// closes (with the given TTL) and restored into a reconnecting
// session's fresh registry before it starts serving, so a deferred
// completion delivered after this process has moved on (or a different
// process entirely picks up the reconnect) is not lost. Returns m for
// chaining at construction time.
func (m *Manager) WithSnapshots(store *rstore.Store, ttl time.Duration) *Manager {
	m.snapshots = store
	m.snapshotTTL = ttl
	return m
}

// Create upgrades r to a websocket connection and registers it as a
// new live session over a fresh registry seeded with chain (the
// page's already-defined signals, reconstructed from the inline
// bootstrap push messages the browser already has).
//
// resumeID, if non-empty, is a key the client remembers across
// reconnects (e.g. the session id it was handed on first connect). When
// snapshots are configured, Create loads any snapshot saved under that
// key and applies its values on top of chain's fresh registry before
// the session starts serving — the seam that lets a deferred completion
// begun on one process still reach a client that reconnects to another.
func (m *Manager) Create(w http.ResponseWriter, r *http.Request, loader *logicrt.Loader, chain []signal.Signal, resumeID string) (*live.Session, error) {
	m.mu.Lock()
	if m.limits.MaxSessions > 0 && len(m.sessions) >= m.limits.MaxSessions {
		m.mu.Unlock()
		return nil, ErrMaxSessionsReached
	}
	m.mu.Unlock()

	reg := registry.New()
	for _, sig := range chain {
		if err := reg.RegisterIfAbsent(sig); err != nil {
			return nil, err
		}
	}

	if m.snapshots != nil && resumeID != "" {
		if snap, err := m.snapshots.Load(r.Context(), resumeID); err != nil {
			m.logger.Warn("weaver: resume snapshot load failed", "resume_id", resumeID, "err", err)
		} else if snap != nil {
			for _, id := range reg.All() {
				var v any
				if ok, err := snap.Value(id, &v); err == nil && ok {
					reg.SetValue(id, v)
				}
			}
		}
	}

	exec := logicrt.NewExecutor(reg, loader, m.pool, m.logger)
	var nodes propagate.NodeRenderer
	if m.nodeFactory != nil {
		nodes = m.nodeFactory(reg, exec)
	}
	engine := &propagate.Engine{Reg: reg, Executor: exec, Nodes: nodes}

	sess, err := m.upgrader.Upgrade(w, r, reg, engine)
	if err != nil {
		return nil, err
	}

	streamKey := resumeID
	if streamKey == "" {
		streamKey = sess.ID
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.streamKeys[sess.ID] = streamKey
	m.mu.Unlock()

	if m.mets != nil {
		m.mets.SessionCreated()
		m.mets.RegistrySize(sess.ID, len(chain))
	}
	m.logger.Info("weaver: live session created", "session_id", sess.ID, "resume_id", resumeID, "active_sessions", m.Count())
	return sess, nil
}

// snapshotAndForget saves sess's resolved values under its stream key
// (if snapshots are configured) and removes the key bookkeeping. Called
// with sess already removed from m.sessions.
func (m *Manager) snapshotAndForget(sess *live.Session) {
	m.mu.Lock()
	key, ok := m.streamKeys[sess.ID]
	delete(m.streamKeys, sess.ID)
	m.mu.Unlock()

	if m.snapshots == nil || !ok {
		return
	}

	values := make(map[string]any)
	for _, id := range sess.Reg.All() {
		if sess.Reg.HasValue(id) {
			values[id] = sess.Reg.GetValue(id)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.snapshots.Save(ctx, key, values, m.snapshotTTL); err != nil {
		m.logger.Warn("weaver: resume snapshot save failed", "stream_key", key, "err", err)
	}
}

// Get retrieves a session by id, or nil if it doesn't exist.
func (m *Manager) Get(id string) *live.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Close closes and removes a session by id.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	sess.Close()
	m.snapshotAndForget(sess)
	if m.mets != nil {
		m.mets.SessionClosed()
	}
	m.logger.Info("weaver: live session closed", "session_id", id, "active_sessions", m.Count())
}

// Count returns the number of currently tracked sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) cleanupLoop() {
	defer close(m.cleanupDone)
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupExpired()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) cleanupExpired() {
	m.mu.Lock()
	var expired []*live.Session
	for id, sess := range m.sessions {
		if sess.IdleFor() > m.config.IdleTimeout {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
		m.snapshotAndForget(sess)
		if m.mets != nil {
			m.mets.SessionClosed()
		}
		m.logger.Info("weaver: reaping idle live session", "session_id", sess.ID)
	}
}

// Shutdown closes every tracked session and stops the cleanup loop.
func (m *Manager) Shutdown(ctx context.Context) error {
	close(m.done)
	<-m.cleanupDone

	m.mu.Lock()
	sessions := make([]*live.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[string]*live.Session)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, sess := range sessions {
		wg.Add(1)
		go func(s *live.Session) {
			defer wg.Done()
			s.Close()
			m.snapshotAndForget(s)
		}(sess)
	}
	wg.Wait()
	return nil
}
