package signal

import "github.com/weaver-dev/weaver/internal/identity"

// Reference wraps a state signal with a read-only interface: executors
// assemble a {get value} object for any dep wrapped this way.
type Reference struct {
	Id     string `json:"id"`
	K      Kind   `json:"kind"`
	Target string `json:"target"`

	TargetRef Signal `json:"-"`
}

// DefineReference wraps target as a read-only reference.
func DefineReference(target Signal) *Reference {
	return &Reference{
		Id:        identity.Derived("ref", []string{target.ID()}),
		K:         KindReference,
		Target:    target.ID(),
		TargetRef: target,
	}
}

func (r *Reference) ID() string   { return r.Id }
func (r *Reference) Kind() Kind   { return KindReference }
func (r *Reference) Clean() Signal {
	return &Reference{Id: r.Id, K: r.K, Target: r.Target}
}

// Mutator wraps a state signal with a writable interface: executors
// assemble a {get value; set value} object for any dep wrapped this way.
// Writing through a Mutator is the only way action/handler logic may
// legally mutate the registry.
type Mutator struct {
	Id     string `json:"id"`
	K      Kind   `json:"kind"`
	Target string `json:"target"`

	TargetRef Signal `json:"-"`
}

// DefineMutator wraps target as a writable mutator.
func DefineMutator(target Signal) *Mutator {
	return &Mutator{
		Id:        identity.Derived("mut", []string{target.ID()}),
		K:         KindMutator,
		Target:    target.ID(),
		TargetRef: target,
	}
}

func (m *Mutator) ID() string   { return m.Id }
func (m *Mutator) Kind() Kind   { return KindMutator }
func (m *Mutator) Clean() Signal {
	return &Mutator{Id: m.Id, K: m.K, Target: m.Target}
}
