// Package el provides the UI DSL authors build trees with: HTML element
// constructors, attribute and event helpers, and conditional/iteration
// helpers over pkg/render.Node.
//
// Typical usage:
//
//	import . "github.com/weaver-dev/weaver/el"
//
//	func View(count *signal.Computed) *Node {
//	    return Div(Class("counter"),
//	        Span(Bind(count)),
//	        Button(OnClick(increment), Text("+")),
//	    )
//	}
//
// Unlike a virtual-DOM DSL, nothing built here is diffed against a
// previous tree: a Node is tokenized straight into an HTML stream, and
// anything that can change later is carried as a signal rather than as
// node identity.
package el
