package signal

import "testing"

func TestDefineComputedIdempotent(t *testing.T) {
	scope := NewScope()
	defer scope.Enter()()

	logic := NewLogic("/app/logic/double.js")
	count := NewState(0)

	c1, err := DefineComputed(logic, []Signal{count})
	if err != nil {
		t.Fatal(err)
	}
	c2, err := DefineComputed(logic, []Signal{count})
	if err != nil {
		t.Fatal(err)
	}
	if c1.Id != c2.Id {
		t.Fatalf("expected same id, got %q and %q", c1.Id, c2.Id)
	}
}

func TestDefineComputedArityMismatch(t *testing.T) {
	logic := NewLogic("/app/logic/double.js")
	count := NewState(0)
	fn := func(x int) int { return x * 2 }

	if _, err := DefineComputed(logic, []Signal{count, count}, WithCallableHint(fn)); err == nil {
		t.Fatal("expected arity mismatch error")
	}
	if _, err := DefineComputed(logic, []Signal{count}, WithCallableHint(fn)); err != nil {
		t.Fatalf("expected no error for matching arity, got %v", err)
	}
}

// TestNodeDedup checks that two DefineNode calls with the same
// component and props (by id) collapse to the same node id.
func TestNodeDedup(t *testing.T) {
	scope := NewScope()
	defer scope.Enter()()

	cardLogic := NewLogic("/app/components/card.js")
	card := DefineComponent(cardLogic)
	alice := NewState("alice")

	a := DefineNode(card, map[string]any{"name": alice, "title": "User"})
	b := DefineNode(card, map[string]any{"title": "User", "name": alice})

	if a.Id != b.Id {
		t.Fatalf("expected node dedup, got %q and %q", a.Id, b.Id)
	}
	if len(a.Deps) != 1 || a.Deps[0] != alice.Id {
		t.Fatalf("expected signal-valued prop extracted into deps, got %v", a.Deps)
	}
}

func TestNodeDiffersByProps(t *testing.T) {
	scope := NewScope()
	defer scope.Enter()()

	cardLogic := NewLogic("/app/components/card.js")
	card := DefineComponent(cardLogic)

	a := DefineNode(card, map[string]any{"title": "User"})
	b := DefineNode(card, map[string]any{"title": "Admin"})
	if a.Id == b.Id {
		t.Fatal("expected different ids for different props")
	}
}

func TestStateIdsAreSequentialAndDistinct(t *testing.T) {
	scope := NewScope()
	defer scope.Enter()()

	a := NewState(0)
	b := NewState(0)
	if a.Id == b.Id {
		t.Fatalf("expected distinct state ids, got %q twice", a.Id)
	}
}

func TestHandlerReservesFirstArgForEvent(t *testing.T) {
	scope := NewScope()
	defer scope.Enter()()

	logic := NewLogic("/app/logic/increment.js")
	count := NewState(0)
	mut := DefineMutator(count)

	h := DefineHandler(logic, []Signal{mut})
	if h.Kind() != KindHandler {
		t.Fatalf("expected handler kind, got %v", h.Kind())
	}
	if len(h.Deps) != 1 || h.Deps[0] != mut.Id {
		t.Fatalf("expected mutator dep, got %v", h.Deps)
	}
}

func TestCleanStripsRuntimeRefs(t *testing.T) {
	scope := NewScope()
	defer scope.Enter()()

	logic := NewLogic("/app/logic/double.js")
	count := NewState(0)
	c, err := DefineComputed(logic, []Signal{count})
	if err != nil {
		t.Fatal(err)
	}

	clean := c.Clean().(*Computed)
	if clean.LogicRef != nil || clean.DepsRef != nil {
		t.Fatal("expected Clean() to strip runtime back-references")
	}
	if clean.Id != c.Id || clean.Logic != c.Logic {
		t.Fatal("expected Clean() to preserve wire fields")
	}
}

func TestSuspenseReadyAfterResolution(t *testing.T) {
	scope := NewScope()
	defer scope.Enter()()

	s := DefineSuspense("Loading", nil)
	s.SetResolution([]string{"computed_abc"}, "")
	if s.Ready() {
		t.Fatal("expected suspense with a pending dep to not be ready")
	}
	s.SetResolution(nil, "<div>done</div>")
	if !s.Ready() {
		t.Fatal("expected suspense with no pending deps to be ready")
	}
}
