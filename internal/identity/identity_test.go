package identity

import "testing"

func TestStateCounterSequential(t *testing.T) {
	var c StateCounter
	first := c.Next("state")
	second := c.Next("state")
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
	if first != "state_1" || second != "state_2" {
		t.Fatalf("expected state_1, state_2, got %q, %q", first, second)
	}
}

func TestLogicIDStableAcrossCalls(t *testing.T) {
	a := LogicID("/app/logic/double.js")
	b := LogicID("/app/logic/double.js")
	if a != b {
		t.Fatalf("LogicID not stable: %q != %q", a, b)
	}
	if a[:len(LogicPrefix)] != LogicPrefix {
		t.Fatalf("expected %q prefix, got %q", LogicPrefix, a)
	}
	if len(a) != len(LogicPrefix)+HashLen {
		t.Fatalf("expected length %d, got %d", len(LogicPrefix)+HashLen, len(a))
	}
}

func TestLogicIDDiffersByPath(t *testing.T) {
	a := LogicID("/app/logic/double.js")
	b := LogicID("/app/logic/triple.js")
	if a == b {
		t.Fatalf("expected different ids for different paths")
	}
}

func TestDerivedIdempotent(t *testing.T) {
	id1 := Derived("logic_abc", []string{"state_1", "state_2"})
	id2 := Derived("logic_abc", []string{"state_1", "state_2"})
	if id1 != id2 {
		t.Fatalf("Derived not idempotent: %q != %q", id1, id2)
	}
}

func TestDerivedOrderSensitive(t *testing.T) {
	id1 := Derived("logic_abc", []string{"state_1", "state_2"})
	id2 := Derived("logic_abc", []string{"state_2", "state_1"})
	if id1 == id2 {
		t.Fatalf("Derived should be sensitive to dependency order")
	}
}

func TestDerivedDiffersByParent(t *testing.T) {
	id1 := Derived("logic_abc", []string{"state_1"})
	id2 := Derived("logic_xyz", []string{"state_1"})
	if id1 == id2 {
		t.Fatalf("expected different ids for different parents")
	}
}

func TestCanonicalPropsOrderIndependent(t *testing.T) {
	a := CanonicalProps(map[string]string{"title": "User", "name": "alice"})
	b := CanonicalProps(map[string]string{"name": "alice", "title": "User"})
	if a != b {
		t.Fatalf("CanonicalProps should be order-independent: %q != %q", a, b)
	}
}

func TestCollisionErrorMessage(t *testing.T) {
	err := &CollisionError{ID: "abc123"}
	if err.Error() == "" {
		t.Fatal("expected non-empty error message")
	}
}
