package httpserver

import "errors"

// Sentinel errors for session and manager operations.
var (
	// ErrMaxSessionsReached is returned when the manager is already at its session limit.
	ErrMaxSessionsReached = errors.New("httpserver: max sessions reached")

	// ErrSessionNotFound is returned when a session ID has no live session.
	ErrSessionNotFound = errors.New("httpserver: session not found")

	// ErrSessionClosed is returned when an operation targets an already-closed session.
	ErrSessionClosed = errors.New("httpserver: session closed")
)
