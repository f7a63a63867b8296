package signal

import (
	"fmt"
	"sort"

	"github.com/weaver-dev/weaver/internal/identity"
)

// Node is a component instance with props. Its id is derived from
// (component, canonical(props)) so two identical instantiations
// collapse to a single registry entry. ComponentRef/DepsRef are
// runtime-only back-references to the full signal objects (never
// serialized); only Component/Deps (ids) cross the wire.
type Node struct {
	Id        string         `json:"id"`
	K         Kind           `json:"kind"`
	Component string         `json:"component"`
	Logic     string         `json:"logic"`
	Props     map[string]any `json:"props"`
	Deps      []string       `json:"deps"`

	ComponentRef *Component `json:"-"`
	DepsRef      []Signal   `json:"-"`
}

// DefineNode instantiates a component with props. Any prop value that is
// itself a Signal is extracted into Deps (its id) and represented on the
// wire as {"__ref": id}; plain values pass through as-is.
func DefineNode(comp *Component, props map[string]any) *Node {
	wireProps := make(map[string]any, len(props))
	canon := make(map[string]string, len(props))
	var deps []string
	var depsRef []Signal

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := props[k]
		if sig, ok := v.(Signal); ok {
			wireProps[k] = map[string]string{"__ref": sig.ID()}
			canon[k] = "ref:" + sig.ID()
			deps = append(deps, sig.ID())
			depsRef = append(depsRef, sig)
		} else {
			wireProps[k] = v
			canon[k] = fmt.Sprintf("%v", v)
		}
	}

	id := identity.Derived(comp.Id, []string{identity.CanonicalProps(canon)})

	return &Node{
		Id:           id,
		K:            KindNode,
		Component:    comp.Id,
		Logic:        comp.Logic,
		Props:        wireProps,
		Deps:         deps,
		ComponentRef: comp,
		DepsRef:      depsRef,
	}
}

func (n *Node) ID() string   { return n.Id }
func (n *Node) Kind() Kind   { return KindNode }
func (n *Node) Clean() Signal {
	return &Node{Id: n.Id, K: n.K, Component: n.Component, Logic: n.Logic, Props: n.Props, Deps: n.Deps}
}
