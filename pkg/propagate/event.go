// Package propagate implements the reactive propagation engine: it
// consumes a stream of signal-update and handler-execute events, fans
// each update out to dependents in dependency order, and hands deferred
// completions to a separate post-stream sink rather than stalling the
// in-order output.
package propagate

// Event is the propagation engine's input: exactly one of SignalUpdate
// or HandlerExecute is non-nil.
type Event struct {
	SignalUpdate  *SignalUpdate
	HandlerExecute *HandlerExecute
}

// SignalUpdate reports that id's value changed to Value (already
// resolved — the caller, e.g. the websocket handler, is responsible
// for unmarshaling the wire payload first).
type SignalUpdate struct {
	ID    string
	Value any
}

// HandlerExecute requests that handler id run with the triggering DOM
// event's payload as its reserved first argument.
type HandlerExecute struct {
	ID    string
	Event any
}

// Update is the engine's output: an in-order emission that id's value
// (or, for a node, its re-rendered HTML) is now Value.
type Update struct {
	ID    string
	Value any
	// Deferred is true when this Update reports a completion that
	// arrived after the main propagation pass had already finished, via
	// the root-writer path. Consumers route these as extra sync
	// messages rather than inline stream content.
	Deferred bool
	Err      error
}
