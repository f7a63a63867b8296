package logicrt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/signal"
)

func newTestExecutor(t *testing.T) (*Executor, *registry.Registry, *Registry) {
	t.Helper()
	scope := signal.NewScope()
	t.Cleanup(scope.Enter())

	reg := registry.New()
	mods := NewRegistry()
	loader := NewLoader(mods, nil)
	ex := NewExecutor(reg, loader, nil, nil)
	return ex, reg, mods
}

func register(t *testing.T, reg *registry.Registry, sigs ...signal.Signal) {
	t.Helper()
	for _, s := range sigs {
		if err := reg.Register(s); err != nil {
			t.Fatalf("register %s: %v", s.ID(), err)
		}
	}
}

// TestTimeoutCorrectness checks that a logic with timeout=T that
// resolves in r ms yields PENDING/init iff r > T, and that the deferred
// result eventually delivers the true value.
func TestTimeoutCorrectness(t *testing.T) {
	ex, reg, mods := newTestExecutor(t)

	logic := signal.NewLogic("/logic/slow.js", signal.WithTimeout(20))

	mods.Register(logic.Src, func(ctx context.Context, args []any) (any, error) {
		time.Sleep(60 * time.Millisecond)
		return 10, nil
	})
	mods.Freeze()

	count := signal.NewState(5)
	c, err := signal.DefineComputed(logic, []signal.Signal{count})
	if err != nil {
		t.Fatal(err)
	}
	register(t, reg, count, logic, c)

	res := ex.ExecuteComputed(context.Background(), c)
	if res.Value != registry.Pending && res.Value != nil {
		t.Fatalf("expected PENDING/init before timeout, got %v", res.Value)
	}
	if res.Deferred == nil {
		t.Fatal("expected a deferred completion channel")
	}

	select {
	case dr := <-res.Deferred:
		if dr.Value != 10 {
			t.Fatalf("expected deferred value 10, got %v", dr.Value)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("deferred completion never arrived")
	}
}

func TestAlwaysDeferWhenTimeoutZero(t *testing.T) {
	ex, reg, mods := newTestExecutor(t)

	logic := signal.NewLogic("/logic/instant.js", signal.WithTimeout(0))
	mods.Register(logic.Src, func(ctx context.Context, args []any) (any, error) {
		return 42, nil // resolves "instantly" but timeout=0 must still defer
	})
	mods.Freeze()

	count := signal.NewState(1)
	c, err := signal.DefineComputed(logic, []signal.Signal{count})
	if err != nil {
		t.Fatal(err)
	}
	register(t, reg, count, logic, c)

	res := ex.ExecuteComputed(context.Background(), c)
	if res.Value != registry.Pending {
		t.Fatalf("expected PENDING immediately for timeout=0, got %v", res.Value)
	}
	if res.Deferred == nil {
		t.Fatal("expected deferred channel for timeout=0")
	}
	dr := <-res.Deferred
	if dr.Value != 42 {
		t.Fatalf("expected deferred value 42, got %v", dr.Value)
	}
}

func TestBlocksFullyWhenTimeoutAbsent(t *testing.T) {
	ex, reg, mods := newTestExecutor(t)

	logic := signal.NewLogic("/logic/double.js")
	mods.Register(logic.Src, func(ctx context.Context, args []any) (any, error) {
		x := args[0].(int)
		return x * 2, nil
	})
	mods.Freeze()

	count := signal.NewState(5)
	c, err := signal.DefineComputed(logic, []signal.Signal{count})
	if err != nil {
		t.Fatal(err)
	}
	register(t, reg, count, logic, c)

	res := ex.ExecuteComputed(context.Background(), c)
	if res.Value != 10 {
		t.Fatalf("expected 10, got %v", res.Value)
	}
	if res.Deferred != nil {
		t.Fatal("expected no deferral when timeout is absent")
	}
}

func TestExecutionErrorFallsBackToInit(t *testing.T) {
	ex, reg, mods := newTestExecutor(t)

	logic := signal.NewLogic("/logic/broken.js")
	mods.Register(logic.Src, func(ctx context.Context, args []any) (any, error) {
		return nil, errors.New("boom")
	})
	mods.Freeze()

	count := signal.NewState(1)
	c, err := signal.DefineComputed(logic, []signal.Signal{count}, signal.WithInit(-1))
	if err != nil {
		t.Fatal(err)
	}
	register(t, reg, count, logic, c)

	res := ex.ExecuteComputed(context.Background(), c)
	if res.Value != -1 {
		t.Fatalf("expected fallback to init -1, got %v", res.Value)
	}
}

func TestHandlerMutatesThroughWritable(t *testing.T) {
	ex, reg, mods := newTestExecutor(t)

	logic := signal.NewLogic("/logic/increment.js")
	mods.Register(logic.Src, func(ctx context.Context, args []any) (any, error) {
		mut := args[1].(Writable)
		cur := mut.Value().(int)
		mut.Set(cur + 1)
		return nil, nil
	})
	mods.Freeze()

	count := signal.NewState(0)
	mut := signal.DefineMutator(count)
	h := signal.DefineHandler(logic, []signal.Signal{mut})
	register(t, reg, count, mut, logic, h)

	for i := 0; i < 3; i++ {
		ex.ExecuteHandler(context.Background(), h, "click-event")
	}
	if v := reg.GetValue(count.Id); v != 3 {
		t.Fatalf("expected count==3 after 3 handler invocations, got %v", v)
	}
}

func TestWorkerDispatchRoundTrips(t *testing.T) {
	ex, reg, mods := newTestExecutor(t)
	pool := NewWorkerPool(0)
	t.Cleanup(pool.Close)
	ex.pool = pool

	logic := signal.NewLogic("/logic/worker-double.js", signal.WithContext(signal.ContextWorker))
	mods.Register(logic.Src, func(ctx context.Context, args []any) (any, error) {
		return args[0].(int) * 2, nil
	})
	mods.Freeze()

	count := signal.NewState(21)
	c, err := signal.DefineComputed(logic, []signal.Signal{count})
	if err != nil {
		t.Fatal(err)
	}
	register(t, reg, count, logic, c)

	res := ex.ExecuteComputed(context.Background(), c)
	if res.Value != 42 {
		t.Fatalf("expected 42 via worker dispatch, got %v", res.Value)
	}
}

func TestClientContextYieldsPending(t *testing.T) {
	ex, reg, mods := newTestExecutor(t)

	logic := signal.NewLogic("/logic/client-only.js", signal.WithContext(signal.ContextClient))
	mods.Register(logic.Src, func(ctx context.Context, args []any) (any, error) {
		t.Fatal("client-context logic must never execute on the server")
		return nil, nil
	})
	mods.Freeze()

	count := signal.NewState(1)
	c, err := signal.DefineComputed(logic, []signal.Signal{count})
	if err != nil {
		t.Fatal(err)
	}
	register(t, reg, count, logic, c)

	res := ex.ExecuteComputed(context.Background(), c)
	if res.Value != registry.Pending {
		t.Fatalf("expected PENDING for client-context logic, got %v", res.Value)
	}
}
