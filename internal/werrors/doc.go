// Package werrors provides structured, actionable error messages for
// the runtime's own failure modes, in the style of the CLI's build-time
// errors package but scoped to the error taxonomy the runtime itself
// defines:
//
//   - load: a logic module's src could not be resolved to a callable
//   - execution: a logic module threw while invoked
//   - serialization: a signal chain held a non-JSON value
//   - integrity: the registry detected an id collision or missing dependency
//   - transport: a client-side RPC or worker call failed
//
// Usage:
//
//	err := werrors.ExecutionError(c.Id, cause).
//	    WithSuggestion("check the logic module's error handling")
//	log.Error(err.FormatCompact())
package werrors
