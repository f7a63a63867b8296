package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/weaver-dev/weaver/internal/werrors"
	"github.com/weaver-dev/weaver/pkg/logicrt"
	"github.com/weaver-dev/weaver/pkg/registry"
	"github.com/weaver-dev/weaver/pkg/signal"
	"github.com/weaver-dev/weaver/pkg/wire"
)

// Handler serves POST /weaver/execute. Loader resolves the logic
// modules a chain's target may reference; Pool dispatches any of them
// routed to worker context. Loader/Pool are shared process-wide, built
// once as an immutable loader at boot; the registry rebuilt from each
// request's chain is not.
type Handler struct {
	Loader *logicrt.Loader
	Pool   *logicrt.WorkerPool
	Log    *slog.Logger
}

// NewHandler creates a Handler. A nil logger defaults to slog.Default().
func NewHandler(loader *logicrt.Loader, pool *logicrt.WorkerPool, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{Loader: loader, Pool: pool, Log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req wire.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Log.Warn("weaver: malformed execute request", "err", err)
		h.writeResponse(w, http.StatusBadRequest, wire.ExecuteResponse{Error: "malformed request body"})
		return
	}

	reg := registry.New()
	for _, cs := range req.Signals {
		if err := reg.RegisterIfAbsent(cs.Signal); err != nil {
			werrErr := werrors.RegistryIntegrityError(cs.Signal.ID(), err.Error())
			h.Log.Error("weaver: execute chain integrity error", "signal_id", cs.Signal.ID(), "err", err)
			h.writeResponse(w, http.StatusBadRequest, wire.ExecuteResponse{Error: werrErr.Error()})
			return
		}
		if cs.Value != nil {
			reg.SetValue(cs.Signal.ID(), cs.Value)
		}
	}

	target := reg.Get(req.TargetID)
	if target == nil {
		h.writeResponse(w, http.StatusBadRequest, wire.ExecuteResponse{Error: "targetId not present in chain"})
		return
	}

	exec := logicrt.NewExecutor(reg, h.Loader, h.Pool, h.Log)
	res, err := dispatch(r.Context(), exec, target)
	if err != nil {
		execErr := werrors.ExecutionError(req.TargetID, err)
		h.Log.Error("weaver: execute chain target failed", "signal_id", req.TargetID, "err", err)
		h.writeResponse(w, http.StatusUnprocessableEntity, wire.ExecuteResponse{Error: execErr.Error()})
		return
	}

	// An RPC call is a single round trip with no stream to keep moving,
	// so unlike SSR a deferred completion here is awaited rather than
	// handed to a background watcher.
	if res.Deferred != nil {
		final := <-res.Deferred
		if final.Err != nil {
			execErr := werrors.ExecutionError(req.TargetID, final.Err)
			h.writeResponse(w, http.StatusUnprocessableEntity, wire.ExecuteResponse{Error: execErr.Error()})
			return
		}
		res.Value = final.Value
	}

	h.writeResponse(w, http.StatusOK, wire.ExecuteResponse{Value: res.Value})
}

// dispatch executes target according to its kind; only the signal
// kinds that carry their own logic module are valid RPC targets.
func dispatch(ctx context.Context, exec *logicrt.Executor, target signal.Signal) (logicrt.Result, error) {
	switch t := target.(type) {
	case *signal.Computed:
		return exec.ExecuteComputed(ctx, t), nil
	case *signal.Action:
		return exec.ExecuteAction(ctx, t), nil
	case *signal.Handler:
		return exec.ExecuteHandler(ctx, t, nil), nil
	default:
		return logicrt.Result{}, fmt.Errorf("weaver: signal kind %q is not an executable rpc target", target.Kind())
	}
}

func (h *Handler) writeResponse(w http.ResponseWriter, status int, resp wire.ExecuteResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
