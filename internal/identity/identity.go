// Package identity assigns and validates the two id shapes signals use:
// anchor ids (stable, content- or sequence-derived) and derived ids
// (content-addressable hashes of a parent id plus its dependency ids).
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// HashLen is the number of hex characters a derived id is truncated to.
// 16 hex chars is 64 bits, wide enough that an accidental collision
// across a single process's signal population is not a realistic risk;
// the source implementation's 8-char (32-bit) truncation is the kind
// of narrowing that is fine at demo scale and wrong at fleet scale
// (see spec's Open Question on collisions).
const HashLen = 16

// LogicPrefix is prepended to logic ids derived from a resolved module path.
const LogicPrefix = "logic_"

// StateCounter generates sequential, per-scope anchor ids for state and
// suspense signals. A scope is typically one render request on the
// server or the page lifetime on the client; callers create one
// StateCounter per scope. Each distinct prefix (e.g. "state", "suspense")
// gets its own independent sequence.
type StateCounter struct {
	mu sync.Mutex
	n  map[string]uint64
}

// Next returns the next sequential id for prefix, formatted "<prefix>_<n>".
func (c *StateCounter) Next(prefix string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == nil {
		c.n = make(map[string]uint64)
	}
	c.n[prefix]++
	return fmt.Sprintf("%s_%d", prefix, c.n[prefix])
}

// LogicID derives a stable anchor id for a logic/component module from
// its resolved import path, matching the build-time transform contract's
// `"logic_" + first8(sha256(resolvedPath))` shape. Weaver widens the
// truncation to HashLen (16) hex chars rather than the narrow 8 the
// contract names, since an 8-char hash is too narrow for production use.
func LogicID(resolvedPath string) string {
	sum := sha256.Sum256([]byte(resolvedPath))
	return LogicPrefix + hex.EncodeToString(sum[:])[:HashLen]
}

// Derived computes a content-addressable id for a signal whose identity
// depends on a parent id and an ordered list of dependency ids (computed,
// action, handler, node signals). Calling Derived twice with the same
// parentID and deps yields the same id — this is what makes
// defineComputed/defineNode idempotent.
func Derived(parentID string, depIDs []string) string {
	h := sha256.New()
	h.Write([]byte(parentID))
	for _, d := range depIDs {
		h.Write([]byte{0})
		h.Write([]byte(d))
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:HashLen]
}

// CanonicalProps renders a props map into a deterministic string by
// sorting keys, used by defineNode to canonicalize props before hashing
// so that two calls with the same keys/values in different map iteration
// order collapse to the same node id.
func CanonicalProps(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(props[k])
		b.WriteByte(';')
	}
	return b.String()
}

// CollisionError is returned by a registry when two different signal
// definitions resolve to the same id. A wide-enough hash makes this a
// fatal, detectable bug rather than something to paper over by silently
// merging the two definitions.
type CollisionError struct {
	ID string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("weaver: id collision for %q: two different signal definitions hashed to the same id", e.ID)
}
