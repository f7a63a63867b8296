// Package live implements the websocket transport for the propagation
// engine's "additional sync messages": framing propagation events in
// and Updates out over a read/write loop split, carrying plain JSON
// frames rather than a binary protocol.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/weaver-dev/weaver/pkg/propagate"
	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/wire"
)

// Config tunes timeouts and buffering for a Session's connection.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	OutboxSize   int
}

// Session is one live websocket connection: its own scratch registry
// (seeded from the page's inline bootstrap before the socket ever
// opens), a propagation Engine over that registry, and the connection
// itself. Unlike the RPC endpoint's throwaway registry, a Session's
// registry lives for the lifetime of the connection — every event on
// it mutates state that later events see.
type Session struct {
	ID     string
	Reg    *registry.Registry
	Engine *propagate.Engine

	conn   *websocket.Conn
	out    chan wire.LiveUpdate
	config Config
	logger *slog.Logger

	createdAt time.Time

	mu         sync.Mutex
	lastActive time.Time
	closed     bool
	done       chan struct{}
}

// NewSession wraps conn as a live Session driven by engine.
func NewSession(conn *websocket.Conn, reg *registry.Registry, engine *propagate.Engine, config Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()
	id := uuid.NewString()
	return &Session{
		ID:         id,
		Reg:        reg,
		Engine:     engine,
		conn:       conn,
		out:        make(chan wire.LiveUpdate, config.OutboxSize),
		config:     config,
		logger:     logger.With("session_id", id),
		createdAt:  now,
		lastActive: now,
		done:       make(chan struct{}),
	}
}

// UpdateLastActive records that traffic was just seen on the connection.
func (s *Session) UpdateLastActive() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// IdleFor reports how long the session has gone without traffic.
func (s *Session) IdleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActive)
}

// Close tears down the connection and stops the write loop. Safe to
// call more than once or concurrently with ReadLoop returning on its own.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	_ = s.conn.Close()
}

// ReadLoop blocks, decoding one wire.LiveEvent per message and feeding
// it to the propagation engine, until the connection closes or errors.
// Every Update the engine emits — including ones that arrive later on
// a deferred-completion goroutine — is pushed onto s.out for WriteLoop
// to serialize.
func (s *Session) ReadLoop(ctx context.Context) {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("weaver: live read error", "err", err)
			}
			return
		}
		s.UpdateLastActive()

		var ev wire.LiveEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			s.logger.Warn("weaver: malformed live event", "err", err)
			continue
		}

		pev, ok := toPropagateEvent(ev)
		if !ok {
			s.logger.Warn("weaver: unknown live event kind", "kind", ev.Kind)
			continue
		}

		if err := s.Engine.Process(ctx, pev, s.emit); err != nil {
			s.logger.Error("weaver: propagation error", "err", err)
		}
	}
}

func toPropagateEvent(ev wire.LiveEvent) (propagate.Event, bool) {
	switch ev.Kind {
	case "signal-update":
		return propagate.Event{SignalUpdate: &propagate.SignalUpdate{ID: ev.ID, Value: ev.Value}}, true
	case "handler-execute":
		return propagate.Event{HandlerExecute: &propagate.HandlerExecute{ID: ev.ID, Event: ev.Event}}, true
	default:
		return propagate.Event{}, false
	}
}

// emit is the propagation engine's callback: queue the wire-shaped
// Update for WriteLoop. Never blocks the caller on a stalled socket —
// a full outbox drops the update and logs, rather than stalling the
// engine (which could be mid-fan-out for an unrelated dependent).
func (s *Session) emit(u propagate.Update) {
	lu := wire.LiveUpdate{Kind: "update", ID: u.ID, Value: u.Value, Deferred: u.Deferred}
	if u.Err != nil {
		lu.Error = u.Err.Error()
	}
	select {
	case s.out <- lu:
	default:
		s.logger.Warn("weaver: live outbox full, dropping update", "signal_id", u.ID)
	}
}

// WriteLoop drains s.out and writes each Update as a JSON text frame
// until the session closes.
func (s *Session) WriteLoop() {
	for {
		select {
		case <-s.done:
			return
		case lu := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteJSON(lu); err != nil {
				s.logger.Error("weaver: live write error", "err", err)
				s.Close()
				return
			}
		}
	}
}
