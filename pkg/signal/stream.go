package signal

import "github.com/weaver-dev/weaver/internal/identity"

// Stream reduces a ReadableStream-shaped source into a single registry
// value via Reducer, which receives the previous accumulated value and
// the next chunk and returns the next accumulated value.
type Stream struct {
	Id      string `json:"id"`
	K       Kind   `json:"kind"`
	Source  string `json:"source"`
	Reducer string `json:"reducer"`
	Init    any    `json:"init,omitempty"`

	SourceRef  *Logic `json:"-"`
	ReducerRef *Logic `json:"-"`
}

// DefineStream defines a stream signal over a source logic (producing
// chunks) and a reducer logic (folding chunks into a value).
func DefineStream(source, reducer *Logic, init any) *Stream {
	return &Stream{
		Id:         identity.Derived(source.Id, []string{reducer.Id}),
		K:          KindStream,
		Source:     source.Id,
		Reducer:    reducer.Id,
		Init:       init,
		SourceRef:  source,
		ReducerRef: reducer,
	}
}

func (s *Stream) ID() string   { return s.Id }
func (s *Stream) Kind() Kind   { return KindStream }
func (s *Stream) Clean() Signal {
	return &Stream{Id: s.Id, K: s.K, Source: s.Source, Reducer: s.Reducer, Init: s.Init}
}
