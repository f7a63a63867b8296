package logicrt

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWorkerPoolDispatchReturnsValue(t *testing.T) {
	pool := NewWorkerPool(time.Minute)
	defer pool.Close()

	fn := Callable(func(ctx context.Context, args []any) (any, error) {
		return args[0].(int) + args[1].(int), nil
	})

	v, err := pool.Dispatch(context.Background(), "/logic/add.js", fn, []any{2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if v != 5 {
		t.Fatalf("expected 5, got %v", v)
	}
}

// TestWorkerPoolSerializesPerSrc confirms dispatches to the same src share
// one worker goroutine and therefore execute one at a time.
func TestWorkerPoolSerializesPerSrc(t *testing.T) {
	pool := NewWorkerPool(time.Minute)
	defer pool.Close()

	var mu sync.Mutex
	var concurrent, maxConcurrent int

	fn := Callable(func(ctx context.Context, args []any) (any, error) {
		mu.Lock()
		concurrent++
		if concurrent > maxConcurrent {
			maxConcurrent = concurrent
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		concurrent--
		mu.Unlock()
		return nil, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Dispatch(context.Background(), "/logic/serial.js", fn, nil)
		}()
	}
	wg.Wait()

	if maxConcurrent != 1 {
		t.Fatalf("expected work on one src to serialize through a single worker, saw %d concurrent", maxConcurrent)
	}
}

func TestWorkerPoolReapsIdleWorkers(t *testing.T) {
	pool := NewWorkerPool(5 * time.Millisecond)
	defer pool.Close()

	fn := Callable(func(ctx context.Context, args []any) (any, error) { return nil, nil })
	if _, err := pool.Dispatch(context.Background(), "/logic/once.js", fn, nil); err != nil {
		t.Fatal(err)
	}

	time.Sleep(40 * time.Millisecond)

	pool.mu.Lock()
	_, stillPooled := pool.workers["/logic/once.js"]
	pool.mu.Unlock()
	if stillPooled {
		t.Fatal("expected idle worker to be reaped")
	}
}

func TestWorkerPoolDispatchRespectsContextCancellation(t *testing.T) {
	pool := NewWorkerPool(time.Minute)
	defer pool.Close()

	block := make(chan struct{})
	fn := Callable(func(ctx context.Context, args []any) (any, error) {
		<-block
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := pool.Dispatch(ctx, "/logic/blocking.js", fn, nil)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Dispatch did not observe context cancellation")
	}
	close(block)
}
