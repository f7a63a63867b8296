package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/weaver-dev/weaver/pkg/logicrt"
	"github.com/weaver-dev/weaver/pkg/signal"
	"github.com/weaver-dev/weaver/pkg/wire"
)

func newTestHandler(registerFns func(*logicrt.Registry)) *Handler {
	mods := logicrt.NewRegistry()
	registerFns(mods)
	mods.Freeze()
	return NewHandler(logicrt.NewLoader(mods, nil), nil, nil)
}

func postExecute(t *testing.T, h *Handler, req wire.ExecuteRequest) (int, wire.ExecuteResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, "/weaver/execute", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var resp wire.ExecuteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, w.Body.String())
	}
	return w.Code, resp
}

func TestExecuteComputedChain(t *testing.T) {
	h := newTestHandler(func(mods *logicrt.Registry) {
		mods.Register("/logic/double.js", func(ctx context.Context, args []any) (any, error) {
			n, _ := args[0].(float64)
			return n * 2, nil
		})
	})

	count := signal.NewState(float64(5))
	logic := signal.NewLogic("/logic/double.js")
	computed, err := signal.DefineComputed(logic, []signal.Signal{count})
	if err != nil {
		t.Fatal(err)
	}

	req := wire.ExecuteRequest{
		TargetID: computed.Id,
		Signals: []wire.ChainSignal{
			{Signal: count.Clean(), Value: float64(5)},
			{Signal: logic.Clean()},
			{Signal: computed.Clean()},
		},
	}

	status, resp := postExecute(t, h, req)
	if status != http.StatusOK {
		t.Fatalf("got status %d, want 200 (resp=%+v)", status, resp)
	}
	if resp.Value != float64(10) {
		t.Fatalf("got value %v, want 10", resp.Value)
	}
}

func TestExecuteUnknownTargetRejected(t *testing.T) {
	h := newTestHandler(func(mods *logicrt.Registry) {})

	count := signal.NewState(1)
	req := wire.ExecuteRequest{
		TargetID: "not-in-chain",
		Signals:  []wire.ChainSignal{{Signal: count.Clean()}},
	}

	status, resp := postExecute(t, h, req)
	if status != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", status)
	}
	if resp.Error == "" {
		t.Fatal("expected an error message")
	}
}

func TestExecuteRejectsNonExecutableTarget(t *testing.T) {
	h := newTestHandler(func(mods *logicrt.Registry) {})

	count := signal.NewState(1)
	req := wire.ExecuteRequest{
		TargetID: count.Id,
		Signals:  []wire.ChainSignal{{Signal: count.Clean(), Value: 1}},
	}

	status, resp := postExecute(t, h, req)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d, want 422", status)
	}
	if resp.Error == "" {
		t.Fatal("expected an error message for a non-executable target kind")
	}
}

func TestExecuteRejectsNonPostMethod(t *testing.T) {
	h := newTestHandler(func(mods *logicrt.Registry) {})
	r := httptest.NewRequest(http.MethodGet, "/weaver/execute", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got status %d, want 405", w.Code)
	}
}
