package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/weaver-dev/weaver/pkg/logicrt"
	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/signal"
)

func newTestExecutor() (*Pipeline, *logicrt.Registry) {
	reg := registry.New()
	mods := logicrt.NewRegistry()
	exec := logicrt.NewExecutor(reg, logicrt.NewLoader(mods, nil), nil, nil)
	return &Pipeline{Reg: reg, Executor: exec}, mods
}

func TestPipelineRenderUsesFastPathForSignalFreeTree(t *testing.T) {
	p, _ := newTestExecutor()
	node := El("div", map[string]any{"class": "box"}, Text("hi"))

	var buf bytes.Buffer
	if err := p.Render(context.Background(), &buf, nil, node); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.String() != `<div class="box">hi</div>` {
		t.Fatalf("got %q", buf.String())
	}
}

func TestPipelineRenderResolvesComputed(t *testing.T) {
	p, mods := newTestExecutor()
	mods.Register("/logic/double.js", func(ctx context.Context, args []any) (any, error) {
		return "42", nil
	})
	mods.Freeze()

	logic := signal.NewLogic("/logic/double.js")
	c, err := signal.DefineComputed(logic, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := p.Render(context.Background(), &buf, nil, Bind(c)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "42") {
		t.Fatalf("expected the computed's resolved value in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "weaver.push(") {
		t.Fatalf("expected a signal-definition script, got %q", buf.String())
	}
}

func TestPipelineOnDeferredFiresAfterStreamCompletes(t *testing.T) {
	p, mods := newTestExecutor()
	release := make(chan struct{})
	mods.Register("/logic/slow.js", func(ctx context.Context, args []any) (any, error) {
		<-release
		return "late", nil
	})
	mods.Freeze()

	logic := signal.NewLogic("/logic/slow.js", signal.WithTimeout(0))
	c, err := signal.DefineComputed(logic, nil, signal.WithInit("init"))
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	var gotID string
	var gotValue any
	p.OnDeferred = func(signalID string, value any, err error) {
		gotID = signalID
		gotValue = value
		close(done)
	}

	var buf bytes.Buffer
	if err := p.Render(context.Background(), &buf, nil, Bind(c)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "init") {
		t.Fatalf("expected the init value while deferred, got %q", buf.String())
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnDeferred never fired")
	}
	if gotID != c.Id {
		t.Fatalf("got signal id %q, want %q", gotID, c.Id)
	}
	if gotValue != "late" {
		t.Fatalf("got value %v, want late", gotValue)
	}
}

func TestPipelineResolveNodeRendersChildComponent(t *testing.T) {
	p, mods := newTestExecutor()
	mods.Register("/logic/greeting.js", func(ctx context.Context, args []any) (any, error) {
		props := args[0].(map[string]any)
		name, _ := props["name"].(string)
		return El("span", nil, Text("hello "+name)), nil
	})
	mods.Freeze()

	logic := signal.NewLogic("/logic/greeting.js")
	comp := signal.DefineComponent(logic)
	node := signal.DefineNode(comp, map[string]any{"name": "ada"})
	// Component carries only logic.Id, not a runtime back-reference, so
	// the logic module has to already be registered for ExecuteNode to
	// resolve it — the same precondition a booted app's component
	// registry satisfies before any request arrives.
	p.Reg.RegisterIfAbsent(logic)

	var buf bytes.Buffer
	if err := p.Render(context.Background(), &buf, nil, Bind(node)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "hello ada") {
		t.Fatalf("expected the child component's rendered output, got %q", buf.String())
	}
}

func TestPipelineRenderNodeReturnsStandaloneHTML(t *testing.T) {
	p, mods := newTestExecutor()
	mods.Register("/logic/greeting.js", func(ctx context.Context, args []any) (any, error) {
		props := args[0].(map[string]any)
		name, _ := props["name"].(string)
		return El("span", nil, Text("hi "+name)), nil
	})
	mods.Freeze()

	logic := signal.NewLogic("/logic/greeting.js")
	comp := signal.DefineComponent(logic)
	node := signal.DefineNode(comp, map[string]any{"name": "bob"})
	p.Reg.RegisterIfAbsent(logic)

	html, err := p.RenderNode(context.Background(), node)
	if err != nil {
		t.Fatalf("RenderNode: %v", err)
	}
	if html != `<span>hi bob</span>` {
		t.Fatalf("got %q", html)
	}
}
