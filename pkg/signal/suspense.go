package signal

// Suspense is a boundary around a subtree: Children is pre-rendered and
// scanned for PENDING values (pkg/render's suspense resolver does this);
// PendingDeps and ChildrenHTML are then written onto this struct in
// place, before the signal's own definition is serialized.
//
// Fallback/Children hold opaque author-authored trees (pkg/render's
// Node type in practice); Suspense itself does not depend on pkg/render
// to avoid an import cycle.
type Suspense struct {
	Id          string   `json:"id"`
	K           Kind     `json:"kind"`
	Fallback    any      `json:"-"`
	Children    any      `json:"-"`
	PendingDeps []string `json:"pendingDeps"`

	// ChildrenHTML is the pre-rendered HTML of Children, crossed on the
	// wire so the client can swap it in once all PendingDeps resolve.
	ChildrenHTML string `json:"_childrenHtml,omitempty"`
}

// DefineSuspense defines a suspense boundary. Its id is a sequential
// anchor id, like state — two Suspense boundaries around textually
// identical children are still distinct boundaries.
func DefineSuspense(fallback, children any) *Suspense {
	return &Suspense{
		Id:       NextSuspenseID(),
		K:        KindSuspense,
		Fallback: fallback,
		Children: children,
	}
}

func (s *Suspense) ID() string   { return s.Id }
func (s *Suspense) Kind() Kind   { return KindSuspense }
func (s *Suspense) Clean() Signal {
	return &Suspense{
		Id:           s.Id,
		K:            s.K,
		PendingDeps:  s.PendingDeps,
		ChildrenHTML: s.ChildrenHTML,
	}
}

// SetResolution is called by the suspense resolver once it has scanned
// the pre-rendered children: it records which deps are still pending and
// the pre-rendered HTML, mutating the signal in place prior to its
// definition being serialized.
func (s *Suspense) SetResolution(pendingDeps []string, childrenHTML string) {
	s.PendingDeps = pendingDeps
	s.ChildrenHTML = childrenHTML
}

// Ready reports whether every signal reachable from Children had
// resolved by the end of child processing.
func (s *Suspense) Ready() bool {
	return len(s.PendingDeps) == 0
}
