package render

import (
	"context"
	"testing"

	"github.com/weaver-dev/weaver/pkg/logicrt"
	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/signal"
)

func drainChan(ch <-chan Token) []Token {
	var out []Token
	for tok := range ch {
		out = append(out, tok)
	}
	return out
}

func TestResolveSuspenseReadyWhenNoDepsPending(t *testing.T) {
	reg := registry.New()
	exec := logicrt.NewExecutor(reg, logicrt.NewLoader(logicrt.NewRegistry(), nil), nil, nil)
	p := &Pipeline{Reg: reg, Executor: exec}

	s := signal.DefineSuspense(Text("loading"), Text("ready"))

	out := make(chan Token, 32)
	go func() {
		p.resolveSuspense(context.Background(), s, out)
		close(out)
	}()
	tokens := drainChan(out)

	if s.PendingDeps != nil {
		t.Fatalf("expected no pending deps, got %v", s.PendingDeps)
	}
	if s.ChildrenHTML != "ready" {
		t.Fatalf("expected ChildrenHTML to be the rendered children, got %q", s.ChildrenHTML)
	}

	var sawDef, sawOpen, sawText, sawClose bool
	for _, tok := range tokens {
		switch tok.Kind {
		case TokSignalDef:
			if tok.Def.ID() == s.Id {
				sawDef = true
				// by the time the def token is observable, SetResolution
				// must already have run.
				if s.ChildrenHTML == "" {
					t.Fatal("signal def emitted before ChildrenHTML was set")
				}
			}
		case TokBindOpen:
			if tok.BindID == s.Id {
				sawOpen = true
			}
		case TokText:
			if tok.Text == "ready" {
				sawText = true
			}
		case TokBindClose:
			if tok.BindID == s.Id {
				sawClose = true
			}
		}
	}
	if !sawDef || !sawOpen || !sawText || !sawClose {
		t.Fatalf("expected def+open+text+close for a ready suspense, got %+v", tokens)
	}
}

func TestResolveSuspenseFallbackWhenDepPending(t *testing.T) {
	reg := registry.New()
	exec := logicrt.NewExecutor(reg, logicrt.NewLoader(logicrt.NewRegistry(), nil), nil, nil)
	p := &Pipeline{Reg: reg, Executor: exec}

	pendingState := signal.NewState(registry.Pending)
	reg.RegisterIfAbsent(pendingState)
	reg.SetValue(pendingState.Id, registry.Pending)

	s := signal.DefineSuspense(Text("loading"), Bind(pendingState))

	out := make(chan Token, 32)
	go func() {
		p.resolveSuspense(context.Background(), s, out)
		close(out)
	}()
	tokens := drainChan(out)

	if len(s.PendingDeps) != 1 || s.PendingDeps[0] != pendingState.Id {
		t.Fatalf("expected %s to be recorded pending, got %v", pendingState.Id, s.PendingDeps)
	}

	var sawFallbackText bool
	for _, tok := range tokens {
		if tok.Kind == TokText && tok.Text == "loading" {
			sawFallbackText = true
		}
	}
	if !sawFallbackText {
		t.Fatalf("expected the fallback content to stream when a dep is pending, got %+v", tokens)
	}
}

func TestResolveSuspenseRegistersItselfInRegistry(t *testing.T) {
	reg := registry.New()
	exec := logicrt.NewExecutor(reg, logicrt.NewLoader(logicrt.NewRegistry(), nil), nil, nil)
	p := &Pipeline{Reg: reg, Executor: exec}

	s := signal.DefineSuspense(Text("loading"), Text("ready"))
	out := make(chan Token, 32)
	go func() {
		p.resolveSuspense(context.Background(), s, out)
		close(out)
	}()
	drainChan(out)

	if reg.Get(s.Id) == nil {
		t.Fatal("expected resolveSuspense to register the suspense signal itself")
	}
}
