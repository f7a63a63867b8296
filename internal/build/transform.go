package build

import (
	"regexp"

	"github.com/weaver-dev/weaver/internal/identity"
)

// ModuleRef is one logic module discovered by Transform: a source path
// the build needs to bundle as its own entry point, and the id the
// rewritten call site now carries.
type ModuleRef struct {
	ID  string
	Src string
}

// defineCallRe matches `define<Kind>(import("./path"), ...)` — the
// primary form of the build-time transform contract: the
// first argument is a dynamic import of the logic module's source.
var defineCallRe = regexp.MustCompile(`define\w*\(\s*import\(\s*(['"])([^'"]+)['"]\s*\)`)

// objectAssignRe matches the fallback form, used when the import is
// assigned to a variable before being passed to a define* call:
// `Object.assign(import("./path"), {__logicId: ...})`.
var objectAssignRe = regexp.MustCompile(`Object\.assign\(\s*import\(\s*(['"])([^'"]+)['"]\s*\)\s*,\s*\{\s*__logicId:\s*[^}]*\}\s*\)`)

// Transform rewrites every define*(...import("./path"), ...) and
// Object.assign(import("./path"), {__logicId: ...}) call site in src so
// the id is baked in at build time, and returns the modules discovered
// so the caller can bundle each one as its own entry point. A module
// referenced more than once collapses to a single ModuleRef (same
// resolved path always derives the same id, per identity.LogicID).
func Transform(src []byte) ([]byte, []ModuleRef) {
	seen := make(map[string]bool)
	var modules []ModuleRef

	record := func(path string) string {
		id := identity.LogicID(path)
		if !seen[id] {
			seen[id] = true
			modules = append(modules, ModuleRef{ID: id, Src: path})
		}
		return id
	}

	callNameRe := regexp.MustCompile(`^define\w*\(`)

	out := defineCallRe.ReplaceAllFunc(src, func(m []byte) []byte {
		sub := defineCallRe.FindSubmatch(m)
		path := string(sub[2])
		id := record(path)
		// preserve the call's own spelling, e.g. "defineHandler(".
		callOpen := callNameRe.Find(m)
		callName := string(callOpen[:len(callOpen)-1])
		return []byte(callName + "({\"id\":\"" + id + "\",\"kind\":\"logic\",\"src\":\"" + path + "\",\"ssrSrc\":\"" + path + "\"}")
	})

	out = objectAssignRe.ReplaceAllFunc(out, func(m []byte) []byte {
		sub := objectAssignRe.FindSubmatch(m)
		quote := string(sub[1])
		path := string(sub[2])
		id := record(path)
		return []byte("Object.assign(import(" + quote + path + quote + "), {__logicId: \"" + id + "\"})")
	})

	return out, modules
}
