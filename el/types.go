package el

import "github.com/weaver-dev/weaver/pkg/render"

// Node is the tree type every element and helper in this package builds.
type Node = render.Node

// Attr is a single attribute produced by an attribute helper. Value may
// be a literal (string, bool, int, ...) for a static attribute or a
// signal.Signal for one the tokenizer binds live.
type Attr struct {
	Key   string
	Value any
}

// EventHandler binds a DOM event name ("onclick", "oninput", ...) to a
// handler signal. The On* helpers always put a *signal.Handler in
// Handler. createElement drops an EventHandler whose Event lacks the
// "on" prefix; it does not check Handler's type.
type EventHandler struct {
	Event   string
	Handler any
}

// Case is one arm of a Switch.
type Case[T comparable] struct {
	Value     T
	Node      *Node
	IsDefault bool
}
