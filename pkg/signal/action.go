package signal

import "github.com/weaver-dev/weaver/internal/identity"

// Action is an imperative signal: invoking it runs Logic, which mutates
// its Deps (typically Mutator-wrapped deps) rather than producing a
// return value the registry stores directly.
type Action struct {
	Id     string            `json:"id"`
	K      Kind              `json:"kind"`
	Logic  string             `json:"logic"`
	Deps   []string           `json:"deps"`
	Policy ConcurrencyPolicy `json:"policy,omitempty"`

	LogicRef *Logic   `json:"-"`
	DepsRef  []Signal `json:"-"`
}

// DefineAction defines an action signal over logic and deps.
func DefineAction(logic *Logic, deps []Signal, opts ...ActionOption) *Action {
	depIDs := idsOf(deps)
	a := &Action{
		Id:       identity.Derived(logic.Id, depIDs),
		K:        KindAction,
		Logic:    logic.Id,
		Deps:     depIDs,
		LogicRef: logic,
		DepsRef:  deps,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ActionOption configures an Action at construction time.
type ActionOption func(*Action)

// WithPolicy sets the concurrency policy for overlapping invocations.
func WithPolicy(p ConcurrencyPolicy) ActionOption {
	return func(a *Action) { a.Policy = p }
}

func (a *Action) ID() string   { return a.Id }
func (a *Action) Kind() Kind   { return KindAction }
func (a *Action) Clean() Signal {
	return &Action{Id: a.Id, K: a.K, Logic: a.Logic, Deps: a.Deps, Policy: a.Policy}
}

// Handler is an Action whose first invocation argument is a DOM event.
// defineHandler additionally records that argument position 0 is
// reserved for the event so the executor knows not to map it onto Deps.
type Handler struct {
	Action
}

// DefineHandler defines a handler signal: the same shape as an action,
// with the first logic argument reserved for the triggering DOM event.
func DefineHandler(logic *Logic, deps []Signal, opts ...ActionOption) *Handler {
	a := DefineAction(logic, deps, opts...)
	a.K = KindHandler
	return &Handler{Action: *a}
}

func (h *Handler) ID() string   { return h.Id }
func (h *Handler) Kind() Kind   { return KindHandler }
func (h *Handler) Clean() Signal {
	return &Handler{Action: *h.Action.Clean().(*Action)}
}

func idsOf(sigs []Signal) []string {
	ids := make([]string, len(sigs))
	for i, s := range sigs {
		ids[i] = s.ID()
	}
	return ids
}
