package werrors

// Template defines a registered error code.
type Template struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to templates, one per taxonomy entry in the
// error-handling design plus a handful of CLI/config codes carried over
// from the build-time tooling.
var registry = map[string]Template{
	"W001": {
		Category: CategoryLoad,
		Message:  "logic module failed to load",
		Detail:   "The logic signal's src (or ssrSrc) could not be resolved to a callable. The affected region is closed empty; the client may hydrate it later.",
		DocURL:   "https://weaver.dev/docs/errors/W001",
	},
	"W002": {
		Category: CategoryExecution,
		Message:  "logic execution failed",
		Detail:   "The logic module threw while executing. The signal's value falls back to its init, or PENDING if none was given.",
		DocURL:   "https://weaver.dev/docs/errors/W002",
	},
	"W003": {
		Category: CategorySerialization,
		Message:  "signal chain contains a non-JSON value",
		Detail:   "A signal's resolved value cannot be marshaled onto the wire. This propagates to the caller, typically an RPC handler returning 500.",
		DocURL:   "https://weaver.dev/docs/errors/W003",
	},
	"W004": {
		Category: CategoryIntegrity,
		Message:  "registry integrity violation",
		Detail:   "Either two different definitions were registered under the same id, or a signal references a dependency that was never registered.",
		DocURL:   "https://weaver.dev/docs/errors/W004",
	},
	"W005": {
		Category: CategoryTransport,
		Message:  "transport error",
		Detail:   "An RPC call returned a non-2xx response, or a worker rejected its request. The affected signal resolves to PENDING with an error flag.",
		DocURL:   "https://weaver.dev/docs/errors/W005",
	},
	"W006": {
		Category: CategoryConfig,
		Message:  "weaver.json could not be read or parsed",
		Detail:   "Either no weaver.json exists in this directory or a parent of it, or its contents are not valid JSON.",
		DocURL:   "https://weaver.dev/docs/errors/W006",
	},
	"W007": {
		Category: CategoryConfig,
		Message:  "invalid configuration value",
		Detail:   "A weaver.json field failed validation (out-of-range port, unknown worker pool size, ...).",
		DocURL:   "https://weaver.dev/docs/errors/W007",
	},
	"W008": {
		Category: CategoryCLI,
		Message:  "build step failed",
		Detail:   "The Go compile, client bundle, logic-module transform, Tailwind compile, or S3 upload step of `weaver build` failed.",
		DocURL:   "https://weaver.dev/docs/errors/W008",
	},
	"W009": {
		Category: CategoryCLI,
		Message:  "logic module transform failed",
		Detail:   "The build-time bundler step could not rewrite a define* call or resolve a logic module's source path.",
		DocURL:   "https://weaver.dev/docs/errors/W009",
	},
}

// GetTemplate returns the template registered for code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or overrides a template, used by host applications that
// want their own error codes to render through the same formatter.
func Register(code string, t Template) {
	registry[code] = t
}
