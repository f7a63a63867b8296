package weaver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/weaver-dev/weaver/pkg/httpserver"
	"github.com/weaver-dev/weaver/pkg/registry/rstore"
)

// Config is the top-level configuration for an App.
type Config struct {
	// DevMode relaxes origin checking and disables thin-client caching.
	// SECURITY: never use in production.
	DevMode bool

	// Logger is the structured logger used throughout the app. If nil,
	// slog.Default() is used.
	Logger *slog.Logger

	// Static configures static file serving alongside pages.
	Static StaticConfig

	// Session configures the websocket live-channel tunables.
	Session httpserver.SessionConfig

	// Limits bounds concurrent live sessions.
	Limits httpserver.SessionLimits

	// AllowedOrigins lists origins permitted to open the live channel.
	// If empty and DevMode is false, only same-origin requests are allowed.
	AllowedOrigins []string

	// WorkerIdleTimeout is how long a worker-context logic module's
	// goroutine lingers with no pending calls before it's torn down.
	// Default: 2 minutes.
	WorkerIdleTimeout time.Duration

	// Snapshots, when set, persists a session's resolved registry values
	// on disconnect and restores them into a resuming session's registry,
	// letting a deferred completion begun on one process reach a client
	// that reconnects to another.
	Snapshots *rstore.Store

	// SnapshotTTL bounds how long a disconnected session's snapshot
	// survives in Snapshots before it is treated as expired. Default: 5
	// minutes.
	SnapshotTTL time.Duration

	// MetricsNamespace overrides the Prometheus metrics namespace.
	// Default: "weaver".
	MetricsNamespace string
}

// StaticConfig configures static file serving.
type StaticConfig struct {
	// Dir is the directory containing static files (e.g. "public").
	Dir string

	// Prefix is the URL path prefix static files are served under.
	// Default: "/".
	Prefix string

	// CacheControl determines caching behavior for static files.
	CacheControl CacheControlStrategy

	// Headers are custom headers added to every static file response.
	Headers map[string]string
}

// CacheControlStrategy determines caching behavior for static files.
type CacheControlStrategy int

const (
	// CacheControlNone adds no caching headers. Use in development.
	CacheControlNone CacheControlStrategy = iota

	// CacheControlProduction caches fingerprinted files (app.abc123.css)
	// as immutable for a year, and revalidates everything else hourly.
	CacheControlProduction
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Static: StaticConfig{
			Prefix:       "/",
			CacheControl: CacheControlNone,
		},
		WorkerIdleTimeout: 2 * time.Minute,
		SnapshotTTL:       5 * time.Minute,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) checkOrigin() func(*http.Request) bool {
	if c.DevMode {
		return func(*http.Request) bool { return true }
	}
	if len(c.AllowedOrigins) == 0 {
		return sameOriginCheck
	}
	allowed := make(map[string]bool, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return allowed[origin]
	}
}

func sameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := http.NewRequest(http.MethodGet, origin, nil)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func (c Config) sessionConfig() *httpserver.SessionConfig {
	def := httpserver.DefaultSessionConfig()
	if c.Session.ReadTimeout > 0 {
		def.ReadTimeout = c.Session.ReadTimeout
	}
	if c.Session.WriteTimeout > 0 {
		def.WriteTimeout = c.Session.WriteTimeout
	}
	if c.Session.IdleTimeout > 0 {
		def.IdleTimeout = c.Session.IdleTimeout
	}
	if c.Session.MaxMessageSize > 0 {
		def.MaxMessageSize = c.Session.MaxMessageSize
	}
	if c.Session.OutboxSize > 0 {
		def.OutboxSize = c.Session.OutboxSize
	}
	return def
}

func (c Config) sessionLimits() *httpserver.SessionLimits {
	if c.Limits.MaxSessions > 0 {
		return &httpserver.SessionLimits{MaxSessions: c.Limits.MaxSessions}
	}
	return httpserver.DefaultSessionLimits()
}
