package render

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/signal"
)

// Tokenize walks node and returns a channel carrying the lazy token
// sequence. The walk itself performs no async work —
// placeholders for signals needing execution are represented as
// TokExecutable tokens for the render pipeline (pipeline.go) to act on.
// Closing ctx stops the walk early; the channel is always closed.
func Tokenize(ctx context.Context, reg *registry.Registry, node *Node) <-chan Token {
	out := make(chan Token)
	t := &tokenizer{ctx: ctx, reg: reg, out: out, seen: make(map[string]bool)}
	go func() {
		defer close(out)
		t.node(node)
	}()
	return out
}

type tokenizer struct {
	ctx  context.Context
	reg  *registry.Registry
	out  chan<- Token
	seen map[string]bool
}

func (t *tokenizer) send(tok Token) bool {
	select {
	case t.out <- tok:
		return true
	case <-t.ctx.Done():
		return false
	}
}

func (t *tokenizer) node(n *Node) {
	if n == nil {
		return
	}
	switch n.K {
	case KindText:
		t.send(Token{Kind: TokText, Text: n.Text})
	case KindRaw:
		t.send(Token{Kind: TokRaw, Text: n.Text})
	case KindFragment:
		for _, c := range n.Children {
			t.node(c)
		}
	case KindElement:
		t.element(n)
	case KindSignalBind:
		t.bind(n.Signal)
	}
}

func (t *tokenizer) element(n *Node) {
	tag := n.Tag
	attrs := map[string]string{}
	var boolAttrs []string
	eventAttrs := map[string]string{}
	propAttrs := map[string]string{}

	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := n.Props[key]
		if sig, ok := val.(signal.Signal); ok {
			t.emitDef(sig)
			if strings.HasPrefix(key, "on") {
				eventAttrs["data-w-on"+strings.ToLower(key[2:])] = sig.ID()
				continue
			}
			propAttrs["data-w-"+key] = sig.ID()
			if v := t.reg.GetValue(sig.ID()); v != nil {
				assignAttr(attrs, &boolAttrs, key, v)
			}
			continue
		}
		assignAttr(attrs, &boolAttrs, key, val)
	}

	void := isVoidElement(tag)
	t.send(Token{Kind: TokOpen, Tag: tag, Attrs: attrs, BoolAttrs: boolAttrs, EventAttrs: eventAttrs, PropAttrs: propAttrs, Void: void})
	if void {
		return
	}
	for _, c := range n.Children {
		t.node(c)
	}
	t.send(Token{Kind: TokClose, Tag: tag})
}

// assignAttr applies JSX-ism rewrites and boolean-attribute handling,
// leaving the value unescaped (escaping is the serializer's job).
func assignAttr(attrs map[string]string, boolAttrs *[]string, key string, value any) {
	switch key {
	case "className":
		key = "class"
	case "htmlFor":
		key = "for"
	case "key", "dangerouslySetInnerHTML":
		return
	}
	if isBooleanAttr(key) {
		if b, ok := value.(bool); ok {
			if b {
				*boolAttrs = append(*boolAttrs, key)
			}
			return
		}
	}
	if s := attrToString(value); s != "" {
		attrs[key] = s
	}
}

// bind brackets sig's content with bind markers, emitting an
// executable placeholder for kinds that may need async work and plain
// text for everything else.
//
// Suspense is a deliberate exception: its definition must not be
// serialized until its resolver has mutated PendingDeps/ChildrenHTML in
// place, which can only happen after its children have
// been fully resolved — impossible from this synchronous walk. So for
// a Suspense target, bind does not register, emit a definition, or
// wrap anything in markers itself; it only hands off a bare executable
// placeholder and leaves every bit of emission (defs, own definition,
// bind markers, content) to the pipeline's suspense resolver.
func (t *tokenizer) bind(sig signal.Signal) {
	if sig == nil {
		return
	}

	if s, ok := sig.(*signal.Suspense); ok {
		t.send(Token{Kind: TokExecutable, Exec: ExecSuspense, Target: s})
		return
	}

	t.emitDef(sig)
	t.send(Token{Kind: TokBindOpen, BindID: sig.ID()})

	switch s := sig.(type) {
	case *signal.Computed:
		if needsAsyncExecution(t.reg, s) {
			t.send(Token{Kind: TokExecutable, Exec: ExecComputed, Target: s})
		} else {
			t.text(s.Id)
		}
	case *signal.Node:
		t.send(Token{Kind: TokExecutable, Exec: ExecNode, Target: s})
	default:
		t.text(sig.ID())
	}

	t.send(Token{Kind: TokBindClose, BindID: sig.ID()})
}

func (t *tokenizer) text(id string) {
	t.send(Token{Kind: TokText, Text: stringifyValue(t.reg.GetValue(id))})
}

func stringifyValue(v any) string {
	if v == nil || v == registry.Pending {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// needsAsyncExecution decides how the tokenizer emits a bound computed
// (FastPath does not call it; it rejects any signal): a computed needs
// the slow, executable path when its
// logic always defers (timeout == 0), or when it isn't client-context
// and has no cached value yet. Client-context computeds never execute
// server-side at all, so they never need a placeholder — they render
// whatever value (PENDING or init) is already on hand.
func needsAsyncExecution(reg *registry.Registry, c *signal.Computed) bool {
	if c.LogicRef != nil && c.LogicRef.Timeout != nil && *c.LogicRef.Timeout == 0 {
		return true
	}
	if c.LogicRef != nil && c.LogicRef.Context == signal.ContextClient {
		return false
	}
	return !reg.HasValue(c.Id)
}

// emitDef registers sig idempotently and, the first time this
// tokenizer run sees it, emits its signal-definition token along with
// those of anything it references.
func (t *tokenizer) emitDef(sig signal.Signal) {
	if sig == nil || t.seen[sig.ID()] {
		return
	}
	t.seen[sig.ID()] = true

	// Dependencies must be registered before sig itself: registerLocked
	// rejects a definition whose Logic/Deps/Source/Reducer/Target ids
	// aren't already present, so the recursion below has to run before
	// the RegisterIfAbsent call further down, not after it.
	switch s := sig.(type) {
	case *signal.Computed:
		t.emitDef(s.LogicRef)
		for _, d := range s.DepsRef {
			t.emitDef(d)
		}
	case *signal.Action:
		t.emitDef(s.LogicRef)
		for _, d := range s.DepsRef {
			t.emitDef(d)
		}
	case *signal.Handler:
		t.emitDef(s.LogicRef)
		for _, d := range s.DepsRef {
			t.emitDef(d)
		}
	case *signal.Node:
		t.emitDef(s.ComponentRef)
		for _, depID := range s.Deps {
			if d := t.reg.Get(depID); d != nil {
				t.emitDef(d)
			}
		}
	case *signal.Component:
		t.emitDef(s.LogicRef)
	case *signal.Stream:
		t.emitDef(s.SourceRef)
		t.emitDef(s.ReducerRef)
	case *signal.Reference:
		t.emitDef(s.TargetRef)
	case *signal.Mutator:
		t.emitDef(s.TargetRef)
	}

	t.reg.RegisterIfAbsent(sig)
	t.send(Token{Kind: TokSignalDef, Def: sig.Clean()})
}
