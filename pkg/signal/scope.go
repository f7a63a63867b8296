package signal

import (
	"runtime"
	"sync"

	"github.com/weaver-dev/weaver/internal/identity"
)

// Scope owns the sequential counter state ids are minted from. One Scope
// exists per render request on the server and persists for the page
// lifetime on the client: state ids are sequential per-scope.
//
// Scopes are attached to the calling goroutine so that NewState/NewLogic/...
// read naturally inside a render without every call site threading a
// Scope argument through.
type Scope struct {
	counter identity.StateCounter
}

// NewScope creates a fresh, unattached Scope.
func NewScope() *Scope {
	return &Scope{}
}

var (
	scopesMu sync.Mutex
	scopes   = map[uint64]*Scope{}
)

// getGoroutineID extracts the numeric goroutine id from the runtime stack
// trace. It is an implementation detail of the runtime, not a public Go
// API, and is only ever used to key a private lookup table.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := 10; i < n; i++ { // skip the "goroutine " prefix
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// Enter attaches s as the current scope for the calling goroutine. The
// returned func detaches it; callers defer the returned func to restore
// whatever scope (if any) was current before.
func (s *Scope) Enter() (exit func()) {
	gid := getGoroutineID()
	scopesMu.Lock()
	prev, hadPrev := scopes[gid]
	scopes[gid] = s
	scopesMu.Unlock()

	return func() {
		scopesMu.Lock()
		defer scopesMu.Unlock()
		if hadPrev {
			scopes[gid] = prev
		} else {
			delete(scopes, gid)
		}
	}
}

// current returns the Scope attached to the calling goroutine, or a
// throwaway Scope if none was entered (so constructors remain usable in
// unit tests without a server/client boot sequence around them).
func current() *Scope {
	gid := getGoroutineID()
	scopesMu.Lock()
	s, ok := scopes[gid]
	scopesMu.Unlock()
	if !ok {
		return &Scope{}
	}
	return s
}

// NextStateID mints the next sequential state anchor id for the current scope.
func NextStateID() string {
	return current().counter.Next("state")
}

// NextSuspenseID mints the next sequential suspense anchor id for the
// current scope.
func NextSuspenseID() string {
	return current().counter.Next("suspense")
}
