package signal

import (
	"context"
	"fmt"
	"reflect"

	"github.com/weaver-dev/weaver/internal/identity"
)

// Computed is a derived value produced by invoking Logic with Deps as
// arguments. LogicRef/DepsRef are runtime-only back-references to the
// full signal objects (never serialized); only Logic/Deps (ids) cross
// the wire.
type Computed struct {
	Id   string   `json:"id"`
	K    Kind     `json:"kind"`
	Logic string  `json:"logic"`
	Deps  []string `json:"deps"`
	Init  any      `json:"init,omitempty"`

	LogicRef *Logic   `json:"-"`
	DepsRef  []Signal `json:"-"`

	// callableHint is an optional dev-time arity check aid; see
	// WithCallableHint. It never crosses the wire.
	callableHint any
}

// DefineComputed defines a computed signal. Calling DefineComputed twice
// with the same logic and deps (by id) yields the same signal id — id
// determinism is what lets computed signals be (re)defined idempotently
// from loops and conditionals.
//
// If logic's underlying callable is known at definition time (passed via
// WithCallableHint), DefineComputed validates that deps can satisfy its
// arity; this is a best-effort compile-time check since in the general
// case the callable behind a Logic.Src is resolved later, per-context,
// by the logic loader (pkg/logicrt), not known here.
func DefineComputed(logic *Logic, deps []Signal, opts ...ComputedOption) (*Computed, error) {
	depIDs := idsOf(deps)

	c := &Computed{
		Id:       identity.Derived(logic.Id, depIDs),
		K:        KindComputed,
		Logic:    logic.Id,
		Deps:     depIDs,
		LogicRef: logic,
		DepsRef:  deps,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.callableHint != nil {
		if err := validateArity(c.callableHint, len(deps)); err != nil {
			return nil, fmt.Errorf("weaver: defineComputed %s: %w", logic.Id, err)
		}
	}
	return c, nil
}

// ComputedOption configures a Computed at construction time.
type ComputedOption func(*computedOptionTarget)

type computedOptionTarget = Computed

// WithInit seeds the value a Computed reports before it has executed
// (e.g. while deferred).
func WithInit(init any) ComputedOption {
	return func(c *Computed) { c.Init = init }
}

// WithCallableHint attaches the Go function the computed's logic will
// eventually dispatch to, so DefineComputed can validate arity against
// deps immediately instead of only discovering a mismatch at execution
// time.
func WithCallableHint(fn any) ComputedOption {
	return func(c *Computed) { c.callableHint = fn }
}

func (c *Computed) ID() string   { return c.Id }
func (c *Computed) Kind() Kind   { return KindComputed }
func (c *Computed) Clean() Signal {
	return &Computed{Id: c.Id, K: c.K, Logic: c.Logic, Deps: c.Deps, Init: c.Init}
}

// validateArity checks that a Go callable declared with reflect can
// accept nArgs positional arguments (ignoring a trailing variadic or a
// leading context.Context, both common logic-function shapes).
func validateArity(fn any, nArgs int) error {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return fmt.Errorf("callable hint is not a function")
	}
	in := t.NumIn()
	if in > 0 && t.In(0) == reflect.TypeOf((*context.Context)(nil)).Elem() {
		in--
	}
	if t.IsVariadic() {
		if nArgs < in-1 {
			return fmt.Errorf("logic expects at least %d args, got %d", in-1, nArgs)
		}
		return nil
	}
	if in != nArgs {
		return fmt.Errorf("logic expects %d args, got %d", in, nArgs)
	}
	return nil
}
