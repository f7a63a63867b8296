package logicrt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/signal"
)

var tracer = otel.Tracer("github.com/weaver-dev/weaver/pkg/logicrt")

// Result is what Execute* returns: the value to store in the registry
// right now, and — when the logic raced a timeout or was always-deferred
// (timeout=0) — a Deferred channel that eventually delivers the real
// result.
type Result struct {
	Value    any
	Deferred <-chan DeferredResult
}

// DeferredResult is delivered on Result.Deferred once a raced or
// always-deferred logic invocation actually completes.
type DeferredResult struct {
	Value any
	Err   error
}

// Executor assembles arguments, invokes logic through a Loader, and
// applies the timeout/deferral rules.
type Executor struct {
	reg    *registry.Registry
	loader *Loader
	pool   *WorkerPool
	log    *slog.Logger
}

// NewExecutor creates an Executor over reg, using loader to resolve
// direct-execution logic and pool to dispatch worker-context logic. pool
// may be nil if the application defines no worker-context logic.
func NewExecutor(reg *registry.Registry, loader *Loader, pool *WorkerPool, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{reg: reg, loader: loader, pool: pool, log: log}
}

// assembleArgs walks deps and produces the correct interface for each:
// Mutator deps get a Writable, Reference deps (and any other wrapped
// dependency) get a Readable, everything else passes its raw current
// value.
func (e *Executor) assembleArgs(deps []string) []any {
	args := make([]any, len(deps))
	for i, depID := range deps {
		def := e.reg.Get(depID)
		switch d := def.(type) {
		case *signal.Mutator:
			args[i] = &mutatorArg{reg: e.reg, target: d.Target}
		case *signal.Reference:
			args[i] = &readOnlyArg{reg: e.reg, target: d.Target}
		default:
			args[i] = e.reg.GetValue(depID)
		}
	}
	return args
}

// invoke runs logic's resolved Callable against args, honoring Mode and
// the timeout/deferral rules. eventArg, when non-nil, is prepended as
// argument 0.
func (e *Executor) invoke(ctx context.Context, logicID string, logic *signal.Logic, deps []string, eventArg any) Result {
	args := e.assembleArgs(deps)
	if eventArg != nil {
		args = append([]any{eventArg}, args...)
	}

	mode := Route(logic)
	if mode == ModeYieldPending {
		return Result{Value: registry.Pending}
	}

	ctx, span := tracer.Start(ctx, "logicrt.invoke")
	defer span.End()

	fn, err := e.loader.Load(logic)
	if err != nil {
		e.log.Warn("weaver: logic load error, closing region empty", "signal_id", logicID, "err", err)
		return Result{Value: registry.Pending}
	}

	runner := e.runDirect
	if mode == ModeExecuteWorker && e.pool != nil {
		runner = e.runWorker
	}

	done := make(chan DeferredResult, 1)
	go func() {
		v, err := runner(ctx, logic, fn, args)
		done <- DeferredResult{Value: v, Err: err}
	}()

	return e.race(ctx, logicID, logic, done)
}

func (e *Executor) runDirect(ctx context.Context, logic *signal.Logic, fn Callable, args []any) (any, error) {
	return fn(ctx, args)
}

func (e *Executor) runWorker(ctx context.Context, logic *signal.Logic, fn Callable, args []any) (any, error) {
	return e.pool.Dispatch(ctx, logic.Src, fn, args)
}

// race implements the timeout/deferral table:
//
//	timeout == 0:   do not race; immediately defer.
//	timeout == N>0: race against an N-ms timer.
//	timeout == nil: await fully, no deferral.
func (e *Executor) race(ctx context.Context, signalID string, logic *signal.Logic, done <-chan DeferredResult) Result {
	if logic.Timeout == nil {
		res := <-done
		if res.Err != nil {
			e.log.Error("weaver: logic execution failed", "signal_id", signalID, "err", res.Err)
			return Result{Value: fallbackValue(logic)}
		}
		return Result{Value: res.Value}
	}

	t := *logic.Timeout
	if t == 0 {
		return Result{Value: registry.Pending, Deferred: wrapDeferred(done, e, signalID)}
	}

	timer := time.NewTimer(time.Duration(t) * time.Millisecond)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.Err != nil {
			e.log.Error("weaver: logic execution failed", "signal_id", signalID, "err", res.Err)
			return Result{Value: fallbackValue(logic)}
		}
		return Result{Value: res.Value}
	case <-timer.C:
		return Result{Value: fallbackValue(logic), Deferred: wrapDeferred(done, e, signalID)}
	}
}

// wrapDeferred passes done through unchanged but logs a deferred
// completion's eventual error as an ExecutionError.
func wrapDeferred(done <-chan DeferredResult, e *Executor, signalID string) <-chan DeferredResult {
	out := make(chan DeferredResult, 1)
	go func() {
		res := <-done
		if res.Err != nil {
			e.log.Error("weaver: deferred logic execution failed", "signal_id", signalID, "err", res.Err)
		}
		out <- res
	}()
	return out
}

func fallbackValue(logic *signal.Logic) any {
	return registry.Pending
}

// ExecuteComputed invokes a computed signal's logic and stores its value
// in the registry.
func (e *Executor) ExecuteComputed(ctx context.Context, c *signal.Computed) Result {
	logic, ok := e.reg.Get(c.Logic).(*signal.Logic)
	if !ok {
		e.log.Error("weaver: computed references unresolved logic", "signal_id", c.Id)
		return Result{Value: registry.Pending}
	}
	res := e.invoke(ctx, c.Id, logic, c.Deps, nil)
	if res.Value == registry.Pending && c.Init != nil {
		res.Value = c.Init
	}
	e.reg.SetValue(c.Id, res.Value)
	return res
}

// ExecuteAction invokes an action signal's logic. Actions do not store
// a return value themselves — any effect must happen via Mutator
// writes inside the logic body — so ExecuteAction does not call
// SetValue on the action's own id.
func (e *Executor) ExecuteAction(ctx context.Context, a *signal.Action) Result {
	logic, ok := e.reg.Get(a.Logic).(*signal.Logic)
	if !ok {
		e.log.Error("weaver: action references unresolved logic", "signal_id", a.Id)
		return Result{Value: registry.Pending}
	}
	return e.invoke(ctx, a.Id, logic, a.Deps, nil)
}

// ExecuteHandler invokes a handler signal's logic with event bound as
// argument 0.
func (e *Executor) ExecuteHandler(ctx context.Context, h *signal.Handler, event any) Result {
	logic, ok := e.reg.Get(h.Logic).(*signal.Logic)
	if !ok {
		e.log.Error("weaver: handler references unresolved logic", "signal_id", h.Id)
		return Result{Value: registry.Pending}
	}
	return e.invoke(ctx, h.Id, logic, h.Deps, event)
}

// ExecuteStream folds one chunk into a stream signal's accumulated value
// by invoking its reducer logic with (prev, chunk) as arguments. The
// caller (pkg/propagate) is responsible for pulling chunks off the
// source; ExecuteStream only performs one reduction step.
func (e *Executor) ExecuteStream(ctx context.Context, s *signal.Stream, chunk any) Result {
	reducer, ok := e.reg.Get(s.Reducer).(*signal.Logic)
	if !ok {
		e.log.Error("weaver: stream references unresolved reducer logic", "signal_id", s.Id)
		return Result{Value: registry.Pending}
	}
	prev := e.reg.GetValue(s.Id)
	if prev == nil {
		prev = s.Init
	}

	mode := Route(reducer)
	if mode == ModeYieldPending {
		return Result{Value: registry.Pending}
	}
	fn, err := e.loader.Load(reducer)
	if err != nil {
		return Result{Value: registry.Pending}
	}

	runner := e.runDirect
	if mode == ModeExecuteWorker && e.pool != nil {
		runner = e.runWorker
	}
	v, err := runner(ctx, reducer, fn, []any{prev, chunk})
	if err != nil {
		e.log.Error("weaver: stream reducer failed", "signal_id", s.Id, "err", err)
		return Result{Value: prev}
	}
	e.reg.SetValue(s.Id, v)
	return Result{Value: v}
}

// ExecuteNode re-renders a node signal's component with its current prop
// values. The actual re-render is delegated to pkg/render, which knows
// how to walk a component's output tree; ExecuteNode here only resolves
// the component's logic so pkg/propagate can drive the re-render.
func (e *Executor) ExecuteNode(ctx context.Context, n *signal.Node) (Callable, error) {
	logic, ok := e.reg.Get(n.Logic).(*signal.Logic)
	if !ok {
		return nil, fmt.Errorf("weaver: node %s references unresolved logic %s", n.Id, n.Logic)
	}
	return e.loader.Load(logic)
}
