// Package registry implements the request- or process-scoped store of
// signal definitions, values, and dependency edges. A Registry never
// triggers propagation itself — that is the propagation engine's job
// (pkg/propagate); setValue is the only mutator of the value table.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/weaver-dev/weaver/internal/werrors"
	"github.com/weaver-dev/weaver/pkg/signal"
)

// Pending is the sentinel "not yet resolved" value. It renders as the
// empty string in the serializer.
type pendingType struct{}

// Pending is the exported sentinel instance; compare with ==.
var Pending = pendingType{}

// Registry holds three tables: definitions, values, and forward
// dependency edges.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]signal.Signal
	values      map[string]any
	// edges maps a dependency id to the set of ids that depend on it
	// (forward: dependency -> dependents).
	edges map[string]map[string]struct{}
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		definitions: make(map[string]signal.Signal),
		values:      make(map[string]any),
		edges:       make(map[string]map[string]struct{}),
	}
}

// Register adds sig to the registry, replacing any existing definition
// with the same id and rebuilding its forward edges. Use RegisterIfAbsent
// for the idempotent, derived-id case.
func (r *Registry) Register(sig signal.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(sig)
}

// RegisterIfAbsent registers sig only if no definition exists yet for its
// id. This is what makes derived-id dedup actually save work: the second
// defineComputed(L, D) call produces an equal definition, and
// RegisterIfAbsent leaves the first one (and its already-computed value,
// if any) untouched rather than clobbering it.
func (r *Registry) RegisterIfAbsent(sig signal.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[sig.ID()]; exists {
		return nil
	}
	return r.registerLocked(sig)
}

func (r *Registry) registerLocked(sig signal.Signal) error {
	id := sig.ID()
	deps := dependencyIDs(sig)
	for _, depID := range deps {
		if _, ok := r.definitions[depID]; !ok {
			return werrors.RegistryIntegrityError(id, fmt.Sprintf("references undefined dependency %s", depID)).Wrap(errMissingDependency)
		}
	}
	for _, depID := range deps {
		if depSet, ok := r.edges[depID]; ok {
			depSet[id] = struct{}{}
		} else {
			r.edges[depID] = map[string]struct{}{id: {}}
		}
	}
	r.definitions[id] = sig
	return nil
}

var errMissingDependency = fmt.Errorf("registry integrity error: missing dependency")

// dependencyIDs extracts the ids a signal references via deps/logic/
// source/reducer: every signal referenced this way must be resolvable
// in the registry's definitions table.
func dependencyIDs(sig signal.Signal) []string {
	switch s := sig.(type) {
	case *signal.Computed:
		return append([]string{s.Logic}, s.Deps...)
	case *signal.Action:
		return append([]string{s.Logic}, s.Deps...)
	case *signal.Handler:
		return append([]string{s.Logic}, s.Deps...)
	case *signal.Node:
		ids := append([]string{s.Component}, s.Deps...)
		return ids
	case *signal.Stream:
		return []string{s.Source, s.Reducer}
	case *signal.Reference:
		return []string{s.Target}
	case *signal.Mutator:
		return []string{s.Target}
	default:
		return nil
	}
}

// Get returns the definition for id, or nil if it has never been registered.
func (r *Registry) Get(id string) signal.Signal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.definitions[id]
}

// GetValue returns the current value for id. If the definition is a
// state signal and no value has ever been written, its Init seeds the
// value table lazily: values[state.id] defaults to state.init on first
// read.
func (r *Registry) GetValue(id string) any {
	r.mu.RLock()
	v, hasValue := r.values[id]
	def := r.definitions[id]
	r.mu.RUnlock()

	if hasValue {
		return v
	}
	if st, ok := def.(*signal.State); ok {
		r.mu.Lock()
		if v, hasValue = r.values[id]; !hasValue {
			r.values[id] = st.Init
			v = st.Init
		}
		r.mu.Unlock()
		return v
	}
	return nil
}

// HasValue reports whether id has an explicitly stored value, without
// seeding a state signal's default the way GetValue does. The render
// pipeline's fast path and tokenizer use this to distinguish "never
// executed" from "executed and returned a real value."
func (r *Registry) HasValue(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.values[id]
	return ok
}

// SetValue is the only mutator of the value table. It does not trigger
// propagation; callers that need fan-out use pkg/propagate on top of it.
func (r *Registry) SetValue(id string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[id] = v
}

// Dependents returns the set of ids that directly depend on id, sorted
// for deterministic iteration — the underlying edge set is a map, and
// the propagation engine's emit order at each topological wave depends
// on this being stable across runs.
func (r *Registry) Dependents(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.edges[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for depID := range set {
		out = append(out, depID)
	}
	sort.Strings(out)
	return out
}

// Dependencies returns the ids id's own definition references: the
// logic (for a node, the component) first, then the deps in declared
// order; for a stream, source then reducer; for a reference or mutator,
// its target.
func (r *Registry) Dependencies(id string) []string {
	r.mu.RLock()
	def := r.definitions[id]
	r.mu.RUnlock()
	if def == nil {
		return nil
	}
	return dependencyIDs(def)
}

// All returns a snapshot of every registered id. Used by the page-chain
// store (package weaver) and by the session manager's resume snapshots.
func (r *Registry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.definitions))
	for id := range r.definitions {
		ids = append(ids, id)
	}
	return ids
}

// IsPending reports whether id's current value is the Pending sentinel.
func (r *Registry) IsPending(id string) bool {
	v := r.GetValue(id)
	_, ok := v.(pendingType)
	return ok
}
