// Package signal defines the tagged-variant signal model: typed
// constructors for every signal kind, content-addressable identity
// (delegated to internal/identity), and the wire-safe ("Clean") view of
// each definition used by the serializer's weaver.push scripts.
//
// Signal definitions are immutable records, not the reactive cells
// themselves — the registry (pkg/registry) owns the mutable value and
// dependency-edge tables. This split is deliberate: unlike a call-order
// addressed hook system (which holds both identity and the live
// value/listener list in one struct), a signal here is addressable
// purely by content, so the same definition can be produced repeatedly
// — in a loop, in a conditional — and collapse to one registry entry.
package signal

// Kind tags the variant a Signal definition belongs to.
type Kind string

const (
	KindState     Kind = "state"
	KindLogic     Kind = "logic"
	KindComputed  Kind = "computed"
	KindAction    Kind = "action"
	KindHandler   Kind = "handler"
	KindComponent Kind = "component"
	KindNode      Kind = "node"
	KindStream    Kind = "stream"
	KindSuspense  Kind = "suspense"
	KindReference Kind = "reference"
	KindMutator   Kind = "mutator"
)

// ExecContext selects where a logic module is permitted to run.
type ExecContext string

const (
	// ContextIsomorphic is the zero value: the logic runs wherever it is invoked.
	ContextIsomorphic ExecContext = ""
	ContextServer     ExecContext = "server"
	ContextClient     ExecContext = "client"
	ContextWorker     ExecContext = "worker"
)

// ConcurrencyPolicy governs how an action/handler signal handles
// overlapping invocations while a previous one is still running.
type ConcurrencyPolicy string

const (
	PolicyCancelLatest     ConcurrencyPolicy = "cancel-latest"
	PolicyDropWhileRunning ConcurrencyPolicy = "drop-while-running"
	PolicyQueue            ConcurrencyPolicy = "queue"
)

// Signal is the common interface every signal kind satisfies.
type Signal interface {
	// ID returns this signal's identity (anchor or derived).
	ID() string
	// Kind returns the tagged variant.
	Kind() Kind
	// Clean returns a copy of this signal with all runtime back-references
	// (*Ref fields) stripped, safe to marshal onto the wire.
	Clean() Signal
}

// Deps is a convenience alias for an ordered list of dependency signal ids.
type Deps = []string
