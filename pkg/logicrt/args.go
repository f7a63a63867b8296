package logicrt

import "github.com/weaver-dev/weaver/pkg/registry"

// Readable is the read-only interface assembled for a Reference dep (or
// a bare signal dependency passed into a computed).
type Readable interface {
	Value() any
}

// Writable extends Readable with Set, assembled for a Mutator dep. It
// is the only way action/handler logic may legally write to the
// registry.
type Writable interface {
	Readable
	Set(v any)
}

type readOnlyArg struct {
	reg    *registry.Registry
	target string
}

func (a *readOnlyArg) Value() any { return a.reg.GetValue(a.target) }

type mutatorArg struct {
	reg    *registry.Registry
	target string
}

func (a *mutatorArg) Value() any   { return a.reg.GetValue(a.target) }
func (a *mutatorArg) Set(v any)    { a.reg.SetValue(a.target, v) }
