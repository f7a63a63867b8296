package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/weaver-dev/weaver/pkg/logicrt"
	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/signal"
)

// Pipeline ties the tokenizer, sequencer, executor, and serializer
// together into the full render: a page is tokenized synchronously,
// but any executable placeholder it contains resolves on its own
// goroutine, with output re-ordered back to source order by a
// sequencer before it ever reaches the wire.
type Pipeline struct {
	Reg      *registry.Registry
	Executor *logicrt.Executor

	// OnDeferred, when set, is called for every deferred completion: the
	// eventual real value of a signal whose placeholder was already
	// serialized with its init/fallback value. It runs on its own
	// goroutine whenever the completion arrives, whether or not the
	// response has finished streaming.
	OnDeferred func(signalID string, value any, err error)
}

// Render writes node's HTML to w, using fl (may be nil) to flush
// chunks as they become ready. It tries the fast path first; if node
// contains no signal anywhere, this is the whole render.
func (p *Pipeline) Render(ctx context.Context, w io.Writer, fl http.Flusher, node *Node) error {
	if html, ok := FastPath(node); ok {
		_, err := w.Write([]byte(html))
		return err
	}

	tokens := Tokenize(ctx, p.Reg, node)
	seq := newSequencer()
	go func() {
		p.expand(ctx, tokens, seq)
		seq.close()
	}()

	s := &Serializer{W: w, Flusher: fl}
	return s.Drain(seq.drain(ctx))
}

// expand consumes in, batching consecutive plain tokens into one
// buffered segment and chaining each executable placeholder as its own
// segment backed by a goroutine that resolves it concurrently. Segment
// order mirrors read order, so seq.drain reproduces a synchronous
// left-to-right walk regardless of resolution speed.
func (p *Pipeline) expand(ctx context.Context, in <-chan Token, seq *sequencer) {
	var batch []Token
	flushBatch := func() {
		if len(batch) > 0 {
			seq.chain(bufferedSegment(batch))
			batch = nil
		}
	}

	for tok := range in {
		if tok.Kind != TokExecutable {
			batch = append(batch, tok)
			continue
		}
		flushBatch()

		out := make(chan Token)
		seq.chain(out)
		go func(tok Token) {
			defer close(out)
			p.resolveExecutable(ctx, tok, out)
		}(tok)
	}
	flushBatch()
}

func (p *Pipeline) resolveExecutable(ctx context.Context, tok Token, out chan<- Token) {
	switch tok.Exec {
	case ExecComputed:
		p.resolveComputed(ctx, tok.Target.(*signal.Computed), out)
	case ExecNode:
		p.resolveNode(ctx, tok.Target.(*signal.Node), out)
	case ExecSuspense:
		p.resolveSuspense(ctx, tok.Target.(*signal.Suspense), out)
	}
}

// resolveComputed executes c, emits its resolved value as text, and —
// when the executor raced a timeout or always-deferred — spawns a
// watcher that reports the eventual real value via OnDeferred once the
// stream has already moved on.
func (p *Pipeline) resolveComputed(ctx context.Context, c *signal.Computed, out chan<- Token) {
	res := p.Executor.ExecuteComputed(ctx, c)
	out <- Token{Kind: TokText, Text: stringifyValue(res.Value)}

	if res.Deferred != nil {
		go p.awaitDeferred(c.Id, res.Deferred)
	}
}

func (p *Pipeline) awaitDeferred(signalID string, deferred <-chan logicrt.DeferredResult) {
	res := <-deferred
	if p.OnDeferred != nil {
		p.OnDeferred(signalID, res.Value, res.Err)
	}
}

// resolveNode re-renders n's component with its current prop values and
// tokenizes the resulting subtree inline, chaining it through a nested
// sequencer so further placeholders inside the subtree keep resolving
// concurrently too.
func (p *Pipeline) resolveNode(ctx context.Context, n *signal.Node, out chan<- Token) {
	fn, err := p.Executor.ExecuteNode(ctx, n)
	if err != nil {
		return
	}

	result, err := fn(ctx, []any{p.resolvedProps(n.Props)})
	if err != nil {
		return
	}
	child, ok := result.(*Node)
	if !ok {
		return
	}

	p.streamSubtree(ctx, child, out)
}

// RenderNode re-renders n's component to a standalone HTML string.
// It satisfies pkg/propagate's NodeRenderer interface, letting the
// propagation engine re-render a node signal whose dependency changed
// without needing to import pkg/render's concrete types.
func (p *Pipeline) RenderNode(ctx context.Context, n *signal.Node) (string, error) {
	fn, err := p.Executor.ExecuteNode(ctx, n)
	if err != nil {
		return "", err
	}
	result, err := fn(ctx, []any{p.resolvedProps(n.Props)})
	if err != nil {
		return "", err
	}
	child, ok := result.(*Node)
	if !ok {
		return "", fmt.Errorf("weaver: node %s's component did not return a *render.Node", n.Id)
	}
	var buf bytes.Buffer
	if err := p.Render(ctx, &buf, nil, child); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// resolvedProps resolves the wire-shaped {"__ref": id} prop values
// DefineNode produced back to their current registry values; plain
// values pass through untouched.
func (p *Pipeline) resolvedProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		if ref, ok := v.(map[string]string); ok {
			if id, ok := ref["__ref"]; ok {
				out[k] = p.Reg.GetValue(id)
				continue
			}
		}
		out[k] = v
	}
	return out
}
