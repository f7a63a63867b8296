package propagate

import (
	"context"
	"testing"
	"time"

	"github.com/weaver-dev/weaver/pkg/logicrt"
	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/signal"
)

func newTestEngine() (*Engine, *logicrt.Registry) {
	reg := registry.New()
	mods := logicrt.NewRegistry()
	exec := logicrt.NewExecutor(reg, logicrt.NewLoader(mods, nil), nil, nil)
	return &Engine{Reg: reg, Executor: exec}, mods
}

func TestProcessUpdateFansOutInDependencyOrder(t *testing.T) {
	e, mods := newTestEngine()
	mods.Register("/logic/double.js", func(ctx context.Context, args []any) (any, error) {
		n, _ := args[0].(int)
		return n * 2, nil
	})
	mods.Freeze()

	count := signal.NewState(1)
	e.Reg.RegisterIfAbsent(count)
	e.Reg.SetValue(count.Id, 1)

	logic := signal.NewLogic("/logic/double.js")
	doubled, err := signal.DefineComputed(logic, []signal.Signal{count})
	if err != nil {
		t.Fatal(err)
	}
	e.Reg.RegisterIfAbsent(logic)
	e.Reg.RegisterIfAbsent(doubled)

	var ids []string
	err = e.Process(context.Background(), Event{SignalUpdate: &SignalUpdate{ID: count.Id, Value: 5}}, func(u Update) {
		ids = append(ids, u.ID)
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(ids) != 2 || ids[0] != count.Id || ids[1] != doubled.Id {
		t.Fatalf("got %v, want [%s %s] (root before dependent)", ids, count.Id, doubled.Id)
	}
	if v := e.Reg.GetValue(doubled.Id); v != 10 {
		t.Fatalf("expected the computed to re-execute with the new value, got %v", v)
	}
}

func TestProcessUpdateSettlesDiamondDependentOnce(t *testing.T) {
	e, mods := newTestEngine()
	mods.Register("/logic/addone.js", func(ctx context.Context, args []any) (any, error) {
		n, _ := args[0].(int)
		return n + 1, nil
	})
	mods.Register("/logic/addtwo.js", func(ctx context.Context, args []any) (any, error) {
		n, _ := args[0].(int)
		return n + 2, nil
	})
	mods.Register("/logic/sum.js", func(ctx context.Context, args []any) (any, error) {
		a, _ := args[0].(int)
		b, _ := args[1].(int)
		return a + b, nil
	})
	mods.Freeze()

	count := signal.NewState(1)
	e.Reg.RegisterIfAbsent(count)
	e.Reg.SetValue(count.Id, 1)

	addOneLogic := signal.NewLogic("/logic/addone.js")
	c1, err := signal.DefineComputed(addOneLogic, []signal.Signal{count})
	if err != nil {
		t.Fatal(err)
	}
	addTwoLogic := signal.NewLogic("/logic/addtwo.js")
	c2, err := signal.DefineComputed(addTwoLogic, []signal.Signal{count})
	if err != nil {
		t.Fatal(err)
	}
	sumLogic := signal.NewLogic("/logic/sum.js")
	d, err := signal.DefineComputed(sumLogic, []signal.Signal{c1, c2})
	if err != nil {
		t.Fatal(err)
	}
	e.Reg.RegisterIfAbsent(addOneLogic)
	e.Reg.RegisterIfAbsent(c1)
	e.Reg.RegisterIfAbsent(addTwoLogic)
	e.Reg.RegisterIfAbsent(c2)
	e.Reg.RegisterIfAbsent(sumLogic)
	e.Reg.RegisterIfAbsent(d)

	var ids []string
	count1 := map[string]int{}
	err = e.Process(context.Background(), Event{SignalUpdate: &SignalUpdate{ID: count.Id, Value: 5}}, func(u Update) {
		ids = append(ids, u.ID)
		count1[u.ID]++
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if count1[d.Id] != 1 {
		t.Fatalf("expected the diamond dependent %s to be emitted exactly once, got %d (ids=%v)", d.Id, count1[d.Id], ids)
	}
	if len(ids) != 4 {
		t.Fatalf("expected exactly 4 updates (root, c1, c2, d), got %d: %v", len(ids), ids)
	}
	if ids[0] != count.Id {
		t.Fatalf("expected the root to be emitted first, got %v", ids)
	}
	if ids[3] != d.Id {
		t.Fatalf("expected the fan-in dependent to be emitted last, after both of its own dependencies settled, got %v", ids)
	}
	if v := e.Reg.GetValue(d.Id); v != 13 {
		t.Fatalf("expected the diamond dependent to settle to (5+1)+(5+2)=13, got %v", v)
	}
}

func TestProcessHandlerMutatesThenPropagates(t *testing.T) {
	e, mods := newTestEngine()

	count := signal.NewState(0)
	e.Reg.RegisterIfAbsent(count)
	e.Reg.SetValue(count.Id, 0)

	mods.Register("/logic/increment.js", func(ctx context.Context, args []any) (any, error) {
		w := args[0].(logicrt.Writable)
		w.Set(1)
		return nil, nil
	})
	mods.Freeze()

	logic := signal.NewLogic("/logic/increment.js")
	mutator := signal.DefineMutator(count)
	e.Reg.RegisterIfAbsent(mutator)
	handler := signal.DefineHandler(logic, []signal.Signal{mutator})
	e.Reg.RegisterIfAbsent(logic)
	e.Reg.RegisterIfAbsent(handler)

	var got []Update
	err := e.Process(context.Background(), Event{HandlerExecute: &HandlerExecute{ID: handler.Id, Event: nil}}, func(u Update) {
		got = append(got, u)
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if e.Reg.GetValue(count.Id) != 1 {
		t.Fatalf("expected the handler's mutation to land, got %v", e.Reg.GetValue(count.Id))
	}
	if len(got) != 1 || got[0].ID != count.Id || got[0].Value != 1 {
		t.Fatalf("expected a single propagated update for %s=1, got %+v", count.Id, got)
	}
}

func TestAwaitDeferredMarksOnlyFirstUpdateDeferred(t *testing.T) {
	e, mods := newTestEngine()
	release := make(chan struct{})
	mods.Register("/logic/slow.js", func(ctx context.Context, args []any) (any, error) {
		<-release
		return 2, nil
	})
	mods.Register("/logic/double.js", func(ctx context.Context, args []any) (any, error) {
		n, _ := args[0].(int)
		return n * 2, nil
	})
	mods.Freeze()

	slowLogic := signal.NewLogic("/logic/slow.js", signal.WithTimeout(0))
	base, err := signal.DefineComputed(slowLogic, nil, signal.WithInit(0))
	if err != nil {
		t.Fatal(err)
	}
	e.Reg.RegisterIfAbsent(slowLogic)
	e.Reg.RegisterIfAbsent(base)

	doubleLogic := signal.NewLogic("/logic/double.js")
	doubled, err := signal.DefineComputed(doubleLogic, []signal.Signal{base})
	if err != nil {
		t.Fatal(err)
	}
	e.Reg.RegisterIfAbsent(doubleLogic)
	e.Reg.RegisterIfAbsent(doubled)

	res := e.Executor.ExecuteComputed(context.Background(), base)
	if res.Deferred == nil {
		t.Fatal("expected the always-deferred computed to return a Deferred channel")
	}

	done := make(chan struct{})
	var updates []Update
	go func() {
		e.awaitDeferred(context.Background(), base.Id, res.Deferred, func(u Update) {
			updates = append(updates, u)
		})
		close(done)
	}()

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("awaitDeferred never completed")
	}

	if len(updates) != 2 {
		t.Fatalf("expected 2 updates (base, then doubled), got %d: %+v", len(updates), updates)
	}
	if !updates[0].Deferred {
		t.Fatalf("expected the first update (%s) to be marked Deferred", updates[0].ID)
	}
	if updates[1].Deferred {
		t.Fatalf("expected the dependent's own update (%s) not to be marked Deferred", updates[1].ID)
	}
	if updates[1].Value != 4 {
		t.Fatalf("expected the dependent to re-execute with the deferred value, got %v", updates[1].Value)
	}
}

type stubNodeRenderer struct {
	html string
	err  error
}

func (s *stubNodeRenderer) RenderNode(ctx context.Context, n *signal.Node) (string, error) {
	return s.html, s.err
}

func TestProcessUpdateRendersNodeDependentAsLeaf(t *testing.T) {
	e, _ := newTestEngine()
	e.Nodes = &stubNodeRenderer{html: "<span>hi</span>"}

	count := signal.NewState(0)
	e.Reg.RegisterIfAbsent(count)
	e.Reg.SetValue(count.Id, 0)

	logic := signal.NewLogic("/logic/widget.js")
	comp := signal.DefineComponent(logic)
	node := signal.DefineNode(comp, map[string]any{"count": count})
	e.Reg.RegisterIfAbsent(logic)
	e.Reg.RegisterIfAbsent(comp)
	e.Reg.RegisterIfAbsent(node)

	var got []Update
	err := e.Process(context.Background(), Event{SignalUpdate: &SignalUpdate{ID: count.Id, Value: 1}}, func(u Update) {
		got = append(got, u)
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(got) != 2 || got[0].ID != count.Id || got[1].ID != node.Id || got[1].Value != "<span>hi</span>" {
		t.Fatalf("got %+v, want [count=1, node=<span>hi</span>]", got)
	}
}
