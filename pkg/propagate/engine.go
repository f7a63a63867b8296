package propagate

import (
	"context"
	"fmt"
	"sort"

	"github.com/weaver-dev/weaver/pkg/logicrt"
	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/signal"
)

// NodeRenderer re-renders a node signal's component to HTML. Implemented
// by pkg/render's Pipeline; propagate depends only on this narrow
// interface to avoid an import cycle (pkg/render already depends on
// pkg/registry and pkg/logicrt, which propagate also depends on).
type NodeRenderer interface {
	RenderNode(ctx context.Context, n *signal.Node) (string, error)
}

// Engine drives reactive propagation over one registry. It holds no
// event queue of its own — callers (the websocket session loop, in
// pkg/httpserver) push events one at a time via Process and receive
// Updates through emit.
type Engine struct {
	Reg      *registry.Registry
	Executor *logicrt.Executor
	Nodes    NodeRenderer
}

// Process handles one event to completion, including every dependent
// it fans out to, calling emit once per Update in dependency order.
// Deferred completions are NOT awaited here — they're scheduled on
// their own goroutine and call emit later, out of band, via the root
// writer rule: never stall the current pass.
func (e *Engine) Process(ctx context.Context, ev Event, emit func(Update)) error {
	switch {
	case ev.SignalUpdate != nil:
		e.processUpdate(ctx, *ev.SignalUpdate, emit)
		return nil
	case ev.HandlerExecute != nil:
		return e.processHandler(ctx, *ev.HandlerExecute, emit)
	default:
		return fmt.Errorf("weaver: empty propagation event")
	}
}

// processUpdate implements the signal-update event: write the value,
// re-emit it, then fan out to every reachable dependent exactly once,
// in topological (indegree) order.
func (e *Engine) processUpdate(ctx context.Context, su SignalUpdate, emit func(Update)) {
	e.Reg.SetValue(su.ID, su.Value)
	emit(Update{ID: su.ID, Value: su.Value})
	e.propagate(ctx, su.ID, su.Value, emit)
}

// collectAffected walks the dependents graph breadth-first from rootID,
// following edges only through relay signals (computed, stream), since
// those are the only kinds that re-execute and fan out further on an
// update. Node signals are included as re-render targets but are
// leaves — propagation never continues past them. Actions, handlers,
// and any other kind are never auto-triggered by a signal update, so
// neither they nor anything reachable only through them is included.
func (e *Engine) collectAffected(rootID string) map[string]bool {
	affected := make(map[string]bool)
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, depID := range e.Reg.Dependents(id) {
			if affected[depID] {
				continue
			}
			switch e.Reg.Get(depID).(type) {
			case *signal.Computed, *signal.Stream:
				affected[depID] = true
				queue = append(queue, depID)
			case *signal.Node:
				affected[depID] = true
			}
		}
	}
	return affected
}

// triggerValue picks the value to feed a stream reducer as its next
// chunk: the root update's own value if the stream depends on it
// directly, otherwise the current value of whichever of its
// dependencies is also being recomputed this pass — already settled,
// since a dependent's indegree only reaches zero once every one of its
// affected dependencies has executed.
func (e *Engine) triggerValue(id, rootID string, rootValue any, affected map[string]bool) any {
	for _, dep := range e.Reg.Dependencies(id) {
		if dep == rootID {
			return rootValue
		}
		if affected[dep] {
			return e.Reg.GetValue(dep)
		}
	}
	return nil
}

// propagate fans out from rootID (already settled, with value
// rootValue) to every id reachable through collectAffected, visiting
// each exactly once: a fan-in dependent such as d = computed(h, [c1,
// c2]), where c1 and c2 both trace back to rootID, is only executed —
// and only emitted — once both c1 and c2 have themselves settled. This
// is Kahn's algorithm over the subgraph induced by rootID's affected
// set, with ties at each indegree-zero wave broken by sorting ids for a
// deterministic emit order.
func (e *Engine) propagate(ctx context.Context, rootID string, rootValue any, emit func(Update)) {
	affected := e.collectAffected(rootID)
	if len(affected) == 0 {
		return
	}

	indegree := make(map[string]int, len(affected))
	for id := range affected {
		n := 0
		for _, dep := range e.Reg.Dependencies(id) {
			if affected[dep] {
				n++
			}
		}
		indegree[id] = n
	}

	var ready []string
	for id, n := range indegree {
		if n == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]

		switch d := e.Reg.Get(id).(type) {
		case *signal.Computed:
			res := e.Executor.ExecuteComputed(ctx, d)
			emit(Update{ID: id, Value: res.Value})
			if res.Deferred != nil {
				go e.awaitDeferred(ctx, id, res.Deferred, emit)
			}
		case *signal.Stream:
			chunk := e.triggerValue(id, rootID, rootValue, affected)
			res := e.Executor.ExecuteStream(ctx, d, chunk)
			emit(Update{ID: id, Value: res.Value})
		case *signal.Node:
			if e.Nodes != nil {
				if html, err := e.Nodes.RenderNode(ctx, d); err == nil {
					emit(Update{ID: id, Value: html})
				}
			}
			// A re-rendered node's own dependents, if any, are driven
			// by the signals it reads during that render, which
			// already went through their own propagate pass — a node
			// is a leaf of this propagation, not a relay.
		}

		var newlyReady []string
		for _, depID := range e.Reg.Dependents(id) {
			if !affected[depID] {
				continue
			}
			indegree[depID]--
			if indegree[depID] == 0 {
				newlyReady = append(newlyReady, depID)
			}
		}
		sort.Strings(newlyReady)
		ready = append(ready, newlyReady...)
	}
}

// processHandler implements the handler-execute event: invoke the
// handler, then treat each of its deps as a propagation root using the
// value the handler's own mutations left in the registry. Most of a
// handler's deps are Mutator or Reference wrappers — the wrapper id itself never
// gets a registry value, only its Target does, so propagation has to
// root from Target, not from the wrapper.
func (e *Engine) processHandler(ctx context.Context, he HandlerExecute, emit func(Update)) error {
	h, ok := e.Reg.Get(he.ID).(*signal.Handler)
	if !ok {
		return fmt.Errorf("weaver: %s is not a handler signal", he.ID)
	}
	e.Executor.ExecuteHandler(ctx, h, he.Event)
	for _, depID := range h.Deps {
		rootID := depID
		switch d := e.Reg.Get(depID).(type) {
		case *signal.Mutator:
			rootID = d.Target
		case *signal.Reference:
			rootID = d.Target
		}
		e.processUpdate(ctx, SignalUpdate{ID: rootID, Value: e.Reg.GetValue(rootID)}, emit)
	}
	return nil
}

// awaitDeferred waits for a raced or always-deferred execution to
// finish and re-enters propagation from its result, marking only the
// first Update of that pass as Deferred — its dependents' own updates
// are, from their own perspective, a perfectly ordinary live pass.
func (e *Engine) awaitDeferred(ctx context.Context, id string, deferred <-chan logicrt.DeferredResult, emit func(Update)) {
	res := <-deferred
	if res.Err != nil {
		emit(Update{ID: id, Err: res.Err, Deferred: true})
		return
	}
	first := true
	e.processUpdate(ctx, SignalUpdate{ID: id, Value: res.Value}, func(u Update) {
		if first {
			u.Deferred = true
			first = false
		}
		emit(u)
	})
}
