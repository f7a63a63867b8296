package live

import (
	"testing"

	"github.com/weaver-dev/weaver/pkg/wire"
)

func TestToPropagateEventSignalUpdate(t *testing.T) {
	ev, ok := toPropagateEvent(wire.LiveEvent{Kind: "signal-update", ID: "s1", Value: float64(3)})
	if !ok {
		t.Fatal("expected ok")
	}
	if ev.SignalUpdate == nil || ev.SignalUpdate.ID != "s1" || ev.SignalUpdate.Value != float64(3) {
		t.Errorf("got %+v", ev)
	}
	if ev.HandlerExecute != nil {
		t.Error("HandlerExecute should be nil for a signal-update event")
	}
}

func TestToPropagateEventHandlerExecute(t *testing.T) {
	ev, ok := toPropagateEvent(wire.LiveEvent{Kind: "handler-execute", ID: "h1", Event: map[string]any{"x": 1.0}})
	if !ok {
		t.Fatal("expected ok")
	}
	if ev.HandlerExecute == nil || ev.HandlerExecute.ID != "h1" {
		t.Errorf("got %+v", ev)
	}
	if ev.SignalUpdate != nil {
		t.Error("SignalUpdate should be nil for a handler-execute event")
	}
}

func TestToPropagateEventUnknownKindRejected(t *testing.T) {
	if _, ok := toPropagateEvent(wire.LiveEvent{Kind: "bogus"}); ok {
		t.Error("expected ok=false for an unrecognized event kind")
	}
}
