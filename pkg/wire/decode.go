package wire

import (
	"encoding/json"
	"fmt"

	"github.com/weaver-dev/weaver/pkg/signal"
)

// kindPeek reads just enough of a signal's wire JSON to dispatch to the
// right concrete type before decoding the rest of it.
type kindPeek struct {
	Kind signal.Kind `json:"kind"`
}

// DecodeSignal unmarshals raw into the concrete signal type its "kind"
// field names. This is the decode half of the encode path every Signal
// already supports for free (marshaling an interface field marshals its
// underlying concrete value) — json.Unmarshal can't do the reverse into
// an interface on its own, so the execute-chain decoder needs this.
func DecodeSignal(raw json.RawMessage) (signal.Signal, error) {
	var peek kindPeek
	if err := json.Unmarshal(raw, &peek); err != nil {
		return nil, fmt.Errorf("weaver: malformed signal on wire: %w", err)
	}

	switch peek.Kind {
	case signal.KindState:
		var s signal.State
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case signal.KindLogic:
		var s signal.Logic
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case signal.KindComputed:
		var s signal.Computed
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case signal.KindAction:
		var s signal.Action
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case signal.KindHandler:
		var s signal.Handler
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case signal.KindComponent:
		var s signal.Component
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case signal.KindNode:
		var s signal.Node
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case signal.KindStream:
		var s signal.Stream
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case signal.KindSuspense:
		var s signal.Suspense
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case signal.KindReference:
		var s signal.Reference
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case signal.KindMutator:
		var s signal.Mutator
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("weaver: unknown signal kind %q", peek.Kind)
	}
}

// UnmarshalJSON decodes one execute-chain entry, resolving Signal to its
// concrete type via DecodeSignal before json's normal struct decoding
// path — which cannot target a non-empty interface field — ever runs.
func (c *ChainSignal) UnmarshalJSON(b []byte) error {
	var w struct {
		Signal json.RawMessage `json:"signal"`
		Value  any             `json:"value,omitempty"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	sig, err := DecodeSignal(w.Signal)
	if err != nil {
		return err
	}
	c.Signal = sig
	c.Value = w.Value
	return nil
}
