package httpserver

import "time"

// SessionConfig holds per-session tunables, mirrored onto every Session
// a Manager creates.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a message from the client.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	WriteTimeout time.Duration

	// IdleTimeout is the time after which an inactive session is closed
	// by the cleanup loop.
	IdleTimeout time.Duration

	// MaxMessageSize is the maximum size of an incoming live-channel message.
	MaxMessageSize int64

	// OutboxSize is the buffer depth of a session's outbound Update channel.
	OutboxSize int
}

// DefaultSessionConfig returns the tunables used when a Manager is
// constructed with a nil config.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    5 * time.Minute,
		MaxMessageSize: 64 * 1024,
		OutboxSize:     256,
	}
}

// SessionLimits bounds how many live sessions a Manager will host at once.
type SessionLimits struct {
	// MaxSessions is the hard cap on concurrent sessions. Zero means unbounded.
	MaxSessions int
}

// DefaultSessionLimits returns an unbounded limit set.
func DefaultSessionLimits() *SessionLimits {
	return &SessionLimits{MaxSessions: 0}
}
