package logicrt

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// workerMsg is the message-passing envelope for worker-context logic,
// matching the worker wire shape {request-id, src, args} ->
// {request-id, result|error}. Weaver's workers are goroutines rather
// than OS threads or JS Worker threads, but the contract — no shared
// memory, communication only through the channel — is preserved.
type workerMsg struct {
	id     string
	fn     Callable
	ctx    context.Context
	args   []any
	result chan workerResult
}

type workerResult struct {
	id    string
	value any
	err   error
}

// worker is a single pooled goroutine dedicated to one logic src.
type worker struct {
	inbox   chan workerMsg
	done    chan struct{}
	lastUse time.Time
	mu      sync.Mutex
}

func newWorker() *worker {
	w := &worker{inbox: make(chan workerMsg, 8), done: make(chan struct{})}
	go w.loop()
	return w
}

func (w *worker) loop() {
	for {
		select {
		case msg := <-w.inbox:
			v, err := msg.fn(msg.ctx, msg.args)
			msg.result <- workerResult{id: msg.id, value: v, err: err}
		case <-w.done:
			return
		}
	}
}

func (w *worker) touch() {
	w.mu.Lock()
	w.lastUse = time.Now()
	w.mu.Unlock()
}

func (w *worker) idleSince() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Since(w.lastUse)
}

// WorkerPool lazily creates and pools one worker goroutine per logic
// src. Idle workers are reaped after IdleTimeout.
type WorkerPool struct {
	mu          sync.Mutex
	workers     map[string]*worker
	idleTimeout time.Duration
	reapStop    chan struct{}
}

// NewWorkerPool creates a WorkerPool that reaps workers idle for longer
// than idleTimeout. A zero idleTimeout defaults to 30 seconds.
func NewWorkerPool(idleTimeout time.Duration) *WorkerPool {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Second
	}
	p := &WorkerPool{
		workers:     make(map[string]*worker),
		idleTimeout: idleTimeout,
		reapStop:    make(chan struct{}),
	}
	go p.reapLoop()
	return p
}

// Close stops the reaper and every pooled worker.
func (p *WorkerPool) Close() {
	close(p.reapStop)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.workers {
		close(w.done)
	}
	p.workers = make(map[string]*worker)
}

func (p *WorkerPool) reapLoop() {
	ticker := time.NewTicker(p.idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.reapIdle()
		case <-p.reapStop:
			return
		}
	}
}

func (p *WorkerPool) reapIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for src, w := range p.workers {
		if w.idleSince() > p.idleTimeout {
			close(w.done)
			delete(p.workers, src)
		}
	}
}

func (p *WorkerPool) workerFor(src string) *worker {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.workers[src]
	if !ok {
		w = newWorker()
		p.workers[src] = w
	}
	return w
}

// Dispatch posts {request-id, src, args} to the pooled worker for src and
// awaits {request-id, result|error}, or ctx's cancellation.
func (p *WorkerPool) Dispatch(ctx context.Context, src string, fn Callable, args []any) (any, error) {
	w := p.workerFor(src)
	w.touch()

	reqID := uuid.NewString()
	reply := make(chan workerResult, 1)
	msg := workerMsg{id: reqID, fn: fn, ctx: ctx, args: args, result: reply}

	select {
	case w.inbox <- msg:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
