// Package render turns a tree of *Node values into HTML, streaming any
// part of it that depends on a signal that hasn't resolved yet.
//
// Most of a page renders synchronously: Node trees with no signal
// anywhere take the fast path straight to a byte string (FastPath).
// Where a node does carry a signal — a Computed, a Handler's bound
// placeholder, anything the registry needs to execute — the tokenizer
// walks the tree once, the executor resolves each placeholder on its
// own goroutine, and the sequencer re-orders the results back to
// source order before the serializer ever writes a byte, so a slow
// placeholder can never reorder the page around it.
//
// # Basic usage
//
//	p := &render.Pipeline{Reg: reg, Executor: exec}
//	err := p.Render(ctx, w, flusher, node)
//
// flusher may be nil; when it implements http.Flusher, the pipeline
// flushes after each resolved chunk for faster time-to-first-byte.
//
// # Deferred completions
//
// A placeholder that is still pending when its timeout
// elapses is serialized with its fallback value, and the pipeline's
// OnDeferred callback — if set — is invoked later with the real value
// once it resolves, for the caller to push over the live channel
// (pkg/httpserver/live) instead.
//
// # Security
//
// All text content is escaped by default (escape.go) to prevent XSS.
// Raw HTML can only be produced by constructing a node of KindRaw
// directly, and callers that do so are responsible for the content's
// trust.
package render
