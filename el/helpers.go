package el

import (
	"fmt"

	clientdist "github.com/weaver-dev/weaver/client/dist"
	"github.com/weaver-dev/weaver/pkg/render"
	"github.com/weaver-dev/weaver/pkg/signal"
)

// Text creates a text node.
func Text(content string) *Node { return render.Text(content) }

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node { return Text(fmt.Sprintf(format, args...)) }

// Raw creates an unescaped HTML node. Trusted content only.
func Raw(html string) *Node { return render.Raw(html) }

// Bind embeds sig directly as tree content.
func Bind(sig signal.Signal) *Node { return render.Bind(sig) }

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *Node {
	var nodes []*Node
	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *Node:
			if v != nil {
				nodes = append(nodes, v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					nodes = append(nodes, c)
				}
			}
		case string:
			nodes = append(nodes, Text(v))
		case signal.Signal:
			nodes = append(nodes, Bind(v))
		}
	}
	return render.Frag(nodes...)
}

// Group is an alias for Fragment.
func Group(children ...any) *Node { return Fragment(children...) }

// If returns node if condition is true, nil otherwise.
func If(condition bool, node *Node) *Node {
	if condition {
		return node
	}
	return nil
}

// IfElse returns ifTrue if condition is true, ifFalse otherwise.
func IfElse(condition bool, ifTrue, ifFalse *Node) *Node {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If, but fn is only evaluated when condition is true.
func When(condition bool, fn func() *Node) *Node {
	if condition {
		return fn()
	}
	return nil
}

// IfLazy is an alias for When.
func IfLazy(condition bool, fn func() *Node) *Node { return When(condition, fn) }

// ShowWhen is an alias for When.
func ShowWhen(condition bool, fn func() *Node) *Node { return When(condition, fn) }

// Unless is the inverse of If.
func Unless(condition bool, node *Node) *Node {
	if !condition {
		return node
	}
	return nil
}

// Show is an alias for If.
func Show(condition bool, node *Node) *Node { return If(condition, node) }

// Hide is an alias for Unless.
func Hide(condition bool, node *Node) *Node { return Unless(condition, node) }

// Either returns first if non-nil, second otherwise.
func Either(first, second *Node) *Node {
	if first != nil {
		return first
	}
	return second
}

// Maybe returns node unchanged. A no-op kept for readability at call sites.
func Maybe(node *Node) *Node { return node }

// Nothing returns nil, useful for conditional rendering arms.
func Nothing() *Node { return nil }

// Case_ creates a matching case for Switch.
func Case_[T comparable](value T, node *Node) Case[T] {
	return Case[T]{Value: value, Node: node}
}

// Default creates the fallback case for Switch.
func Default[T comparable](node *Node) Case[T] {
	return Case[T]{Node: node, IsDefault: true}
}

// Switch returns the node for the matching case, or the default if none match.
func Switch[T comparable](value T, cases ...Case[T]) *Node {
	for _, c := range cases {
		if !c.IsDefault && c.Value == value {
			return c.Node
		}
	}
	for _, c := range cases {
		if c.IsDefault {
			return c.Node
		}
	}
	return nil
}

// Range maps a slice to Nodes, dropping any nil results.
func Range[T any](items []T, fn func(item T, index int) *Node) []*Node {
	result := make([]*Node, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// RangeMap maps a map to Nodes. Iteration order is not guaranteed.
func RangeMap[K comparable, V any](m map[K]V, fn func(key K, value V) *Node) []*Node {
	result := make([]*Node, 0, len(m))
	for k, v := range m {
		if node := fn(k, v); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Repeat creates n nodes using fn.
func Repeat(n int, fn func(i int) *Node) []*Node {
	if n <= 0 {
		return nil
	}
	result := make([]*Node, 0, n)
	for i := 0; i < n; i++ {
		if node := fn(i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Component instantiates comp with props as a bound node signal.
// Two calls with the same component and canonical props collapse to
// the same node id.
func Component(comp *signal.Component, props map[string]any) *Node {
	return Bind(signal.DefineNode(comp, props))
}

// ScriptsOption configures WeaverScripts.
type ScriptsOption func(*scriptsConfig)

type scriptsConfig struct {
	path      string
	csrfToken string
	defer_    bool
}

// WithScriptPath overrides the path the client agent bundle is served from.
// Defaults to "/weaver/client.js".
func WithScriptPath(path string) ScriptsOption {
	return func(c *scriptsConfig) { c.path = path }
}

// WithCSRFToken embeds a CSRF token the client agent attaches to its
// outbound execute/live requests.
func WithCSRFToken(token string) ScriptsOption {
	return func(c *scriptsConfig) { c.csrfToken = token }
}

// WithoutDefer drops the defer attribute from the bundle's script tag.
func WithoutDefer() ScriptsOption {
	return func(c *scriptsConfig) { c.defer_ = false }
}

// WeaverScripts renders the inline bootstrap stub followed by the
// deferred client agent bundle tag, in the order every streamed page
// needs: the stub must be present before any inline signal-definition
// push executes, and the bundle script can load in parallel with the
// remaining stream.
func WeaverScripts(opts ...ScriptsOption) *Node {
	cfg := scriptsConfig{path: "/weaver/client.js", defer_: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	attrs := []any{Src(cfg.path)}
	if cfg.defer_ {
		attrs = append(attrs, Defer_())
	}
	if cfg.csrfToken != "" {
		attrs = append(attrs, Data("csrf-token", cfg.csrfToken))
	}

	return Fragment(
		Script(Raw(clientdist.BootstrapStub)),
		Script(attrs...),
	)
}
