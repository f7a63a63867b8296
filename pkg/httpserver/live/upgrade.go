package live

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/weaver-dev/weaver/pkg/propagate"
	"github.com/weaver-dev/weaver/pkg/registry"
)

// Upgrader upgrades HTTP connections to live sessions. CheckOrigin
// defaults to same-origin-only.
type Upgrader struct {
	Config Config
	Logger *slog.Logger

	upgrader websocket.Upgrader
}

// NewUpgrader builds an Upgrader. checkOrigin, if nil, leaves
// websocket.Upgrader's default in place, which rejects a request whose
// Origin header is present and names a host other than the request's
// Host.
func NewUpgrader(config Config, checkOrigin func(*http.Request) bool, logger *slog.Logger) *Upgrader {
	return &Upgrader{
		Config: config,
		Logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Upgrade upgrades r to a websocket connection and wraps it as a
// Session over reg/engine, starting its read and write loops. The
// caller's handler should return promptly after calling this — the
// session runs on its own goroutines from here on.
func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request, reg *registry.Registry, engine *propagate.Engine) (*Session, error) {
	conn, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	// A session's own lifetime, not the upgrade request's, bounds its
	// context — ReadLoop/WriteLoop keep running long after this handler
	// returns, until the connection closes.
	sess := NewSession(conn, reg, engine, u.Config, u.Logger)
	go sess.WriteLoop()
	go sess.ReadLoop(context.Background())
	return sess, nil
}
