package render

import "github.com/weaver-dev/weaver/pkg/signal"

// Kind tags the variant of an author-facing tree node.
type Kind int

const (
	KindElement Kind = iota
	KindText
	KindFragment
	KindRaw
	// KindSignalBind marks a node whose content IS a signal: the
	// tokenizer brackets it in bind markers and, for computed/node/
	// suspense signals, emits an executable placeholder instead of
	// inline text.
	KindSignalBind
)

// Node is the tree an author builds with element calls (el.Div(...),
// el.Span(...), ...): HTML-like elements whose props and children may
// embed signals. Node carries no reconciliation metadata — there is no
// virtual-DOM diffing step, only tokenization of this tree into an HTML
// stream.
type Node struct {
	K        Kind
	Tag      string
	Props    map[string]any
	Children []*Node
	Text     string
	Signal   signal.Signal
}

// El builds an element node. Prop values that are themselves signals
// become bound attributes or event handlers; plain
// values render as literal attribute strings.
func El(tag string, props map[string]any, children ...*Node) *Node {
	return &Node{K: KindElement, Tag: tag, Props: props, Children: children}
}

// Text builds a text node. Its content is HTML-escaped at serialization.
func Text(s string) *Node { return &Node{K: KindText, Text: s} }

// Frag groups children without an enclosing element.
func Frag(children ...*Node) *Node { return &Node{K: KindFragment, Children: children} }

// Raw passes html through without escaping. Trusted content only.
func Raw(html string) *Node { return &Node{K: KindRaw, Text: html} }

// Bind embeds sig directly as tree content. sig may be a state,
// computed, node, stream, or suspense signal; the tokenizer brackets
// it with bind markers sized to its kind.
func Bind(sig signal.Signal) *Node { return &Node{K: KindSignalBind, Signal: sig} }
