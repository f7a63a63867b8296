// Package wire implements the JSON shapes that cross the boundary
// between server and client: the signal-definition push messages
// embedded in inline bootstrap scripts, and the worker/RPC wire
// messages.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/weaver-dev/weaver/pkg/signal"
)

// PushMessage is the payload of one `weaver.push(...)` inline script
// call. Signal must already be Clean()'d — PushMessage never strips
// runtime back-references itself.
type PushMessage struct {
	Kind   string        `json:"kind"`
	Signal signal.Signal `json:"signal"`
}

// SignalDefinition marshals sig (already Clean()'d) as a push message.
func SignalDefinition(sig signal.Signal) ([]byte, error) {
	b, err := json.Marshal(PushMessage{Kind: "signal-definition", Signal: sig})
	if err != nil {
		return nil, fmt.Errorf("weaver: signal %s is not JSON-serializable: %w", sig.ID(), err)
	}
	return b, nil
}

// WorkerRequest is the message posted to a worker-context logic's
// dedicated goroutine: {id, src, args}.
type WorkerRequest struct {
	ID   string `json:"id"`
	Src  string `json:"src"`
	Args []any  `json:"args"`
}

// WorkerResponse is the reply: {id, result} or {id, error}.
type WorkerResponse struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ExecuteRequest is the body of POST /weaver/execute: a signal chain
// pruned to what's needed to re-execute TargetID in a foreign process.
type ExecuteRequest struct {
	TargetID string        `json:"targetId"`
	Signals  []ChainSignal `json:"signals"`
}

// ChainSignal is one entry of an execute chain: either a full signal
// definition (for ids the far side must be able to resolve deps
// through) or, at a prune point, just its already-computed value.
type ChainSignal struct {
	Signal signal.Signal `json:"signal"`
	Value  any           `json:"value,omitempty"`
}

// ExecuteResponse is the reply to POST /weaver/execute.
type ExecuteResponse struct {
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// LiveEvent is an inbound message on the live websocket channel
//: a writable signal's new
// value, or a DOM event dispatched at a handler signal.
type LiveEvent struct {
	Kind  string `json:"kind"` // "signal-update" | "handler-execute"
	ID    string `json:"id"`
	Value any    `json:"value,omitempty"`
	Event any    `json:"event,omitempty"`
}

// LiveUpdate is an outbound message on the live channel: one
// propagation Update, wire-shaped for JSON.
type LiveUpdate struct {
	Kind     string `json:"kind"` // always "update"
	ID       string `json:"id"`
	Value    any    `json:"value,omitempty"`
	Error    string `json:"error,omitempty"`
	Deferred bool   `json:"deferred,omitempty"`
}
