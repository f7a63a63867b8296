package render

import "github.com/weaver-dev/weaver/pkg/signal"

// TokenKind tags the variant of a token the tokenizer emits.
type TokenKind int

const (
	TokOpen TokenKind = iota
	TokClose
	TokText
	TokRaw
	TokBindOpen
	TokBindClose
	TokSignalDef
	TokExecutable
)

// ExecutableKind distinguishes the three async placeholders the
// tokenizer can emit between bind markers.
type ExecutableKind int

const (
	ExecComputed ExecutableKind = iota
	ExecNode
	ExecSuspense
)

// Token is one item of the tokenizer's lazy sequence. Which fields are
// meaningful depends on Kind; see the comments on each group.
type Token struct {
	Kind TokenKind

	// TokOpen / TokClose
	Tag        string
	Attrs      map[string]string // plain, JSX-rewritten attribute values (not yet escaped)
	BoolAttrs  []string          // boolean attributes present and true
	EventAttrs map[string]string // data-w-on{event} -> handler signal id
	PropAttrs  map[string]string // data-w-{attr} -> bound signal id
	Void       bool

	// TokText / TokRaw
	Text string

	// TokBindOpen / TokBindClose
	BindID string

	// TokSignalDef
	Def signal.Signal // already Clean()'d

	// TokExecutable
	Exec   ExecutableKind
	Target signal.Signal // *signal.Computed, *signal.Node, or *signal.Suspense
}
