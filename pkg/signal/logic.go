package signal

import "github.com/weaver-dev/weaver/internal/identity"

// Logic is an addressable code module. Its id is derived from the
// resolved module path by the build-time transform; two
// Logic signals pointing at the same SrcPath always collapse to the
// same id.
type Logic struct {
	Id      string      `json:"id"`
	K       Kind        `json:"kind"`
	Src     string      `json:"src"`
	SSRSrc  string      `json:"ssrSrc,omitempty"`
	Context ExecContext `json:"context,omitempty"`

	// Timeout is a millisecond budget for async logic bodies. nil means
	// "block until resolved"; a pointer is required to
	// distinguish absent from 0 (0 means "always defer").
	Timeout *int `json:"timeout,omitempty"`
}

// NewLogic defines a logic signal for the module resolved at srcPath. A
// distinct ssrSrc may be supplied when the server-side loader resolves a
// different path than the client bundle.
func NewLogic(srcPath string, opts ...LogicOption) *Logic {
	l := &Logic{
		Id:  identity.LogicID(srcPath),
		K:   KindLogic,
		Src: srcPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogicOption configures a Logic signal at construction time.
type LogicOption func(*Logic)

// WithSSRSrc overrides the server-side module path.
func WithSSRSrc(path string) LogicOption {
	return func(l *Logic) { l.SSRSrc = path }
}

// WithContext pins where the logic is allowed to execute.
func WithContext(ctx ExecContext) LogicOption {
	return func(l *Logic) { l.Context = ctx }
}

// WithTimeout races the logic's async body against t milliseconds.
// Passing 0 means "always defer": the logic never blocks the stream,
// even if it would resolve immediately.
func WithTimeout(t int) LogicOption {
	return func(l *Logic) { l.Timeout = &t }
}

func (l *Logic) ID() string    { return l.Id }
func (l *Logic) Kind() Kind    { return KindLogic }
func (l *Logic) Clean() Signal {
	cp := *l
	return &cp
}
