package render

import (
	"bytes"
	"context"

	"github.com/weaver-dev/weaver/pkg/signal"
)

// resolveSuspense resolves a suspense boundary: the children subtree is
// fully resolved and buffered first, scanned for any bind marker whose
// target is still PENDING, and only then is the suspense signal itself
// mutated (SetResolution) and serialized — its definition must not go
// out before PendingDeps/ChildrenHTML are known, since the client
// needs both to decide whether to show the fallback or swap in
// ChildrenHTML immediately.
func (p *Pipeline) resolveSuspense(ctx context.Context, s *signal.Suspense, out chan<- Token) {
	child, _ := s.Children.(*Node)

	defs, content := p.bufferSubtree(ctx, child)

	// A boundary isn't ready until every signal-definition AND every
	// bind-marker-open token inside it resolves to a concrete value: a
	// computed bound only to an attribute (data-w-{attr}) never gets a
	// bind marker of its own, so scanning TokBindOpen alone would miss
	// it and falsely mark the boundary ready.
	var pendingDeps []string
	seenPending := map[string]bool{}
	addPending := func(id string) {
		if !seenPending[id] {
			seenPending[id] = true
			pendingDeps = append(pendingDeps, id)
		}
	}
	for _, d := range defs {
		if d.Def != nil && p.Reg.IsPending(d.Def.ID()) {
			addPending(d.Def.ID())
		}
	}
	for _, tok := range content {
		if tok.Kind == TokBindOpen && p.Reg.IsPending(tok.BindID) {
			addPending(tok.BindID)
		}
	}

	var htmlBuf bytes.Buffer
	htmlSerializer := &Serializer{W: &htmlBuf}
	_ = htmlSerializer.writeAll(content)
	s.SetResolution(pendingDeps, htmlBuf.String())

	p.Reg.RegisterIfAbsent(s)
	for _, d := range defs {
		out <- d
	}
	out <- Token{Kind: TokSignalDef, Def: s.Clean()}
	out <- Token{Kind: TokBindOpen, BindID: s.Id}

	if len(pendingDeps) > 0 {
		if fallback, ok := s.Fallback.(*Node); ok {
			p.streamSubtree(ctx, fallback, out)
		}
	} else {
		for _, tok := range content {
			out <- tok
		}
	}

	out <- Token{Kind: TokBindClose, BindID: s.Id}
}

// bufferSubtree tokenizes and fully resolves node, returning its
// signal-definition tokens separately from its content tokens so the
// caller can hoist definitions ahead of bind markers.
func (p *Pipeline) bufferSubtree(ctx context.Context, node *Node) (defs, content []Token) {
	tokens := Tokenize(ctx, p.Reg, node)
	seq := newSequencer()
	go func() {
		p.expand(ctx, tokens, seq)
		seq.close()
	}()
	for tok := range seq.drain(ctx) {
		if tok.Kind == TokSignalDef {
			defs = append(defs, tok)
		} else {
			content = append(content, tok)
		}
	}
	return defs, content
}

// streamSubtree tokenizes and resolves node, writing its full token
// sequence (definitions included) directly to out in source order.
func (p *Pipeline) streamSubtree(ctx context.Context, node *Node, out chan<- Token) {
	tokens := Tokenize(ctx, p.Reg, node)
	seq := newSequencer()
	go func() {
		p.expand(ctx, tokens, seq)
		seq.close()
	}()
	for tok := range seq.drain(ctx) {
		out <- tok
	}
}
