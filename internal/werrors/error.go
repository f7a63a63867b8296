// Package werrors implements the structured error taxonomy described by
// the runtime's error-handling design: LoadError, ExecutionError,
// SerializationError, RegistryIntegrityError, and TransportError, each
// carrying a signal id and cause where one applies. Errors render with
// the same location/suggestion/doc-link shape as the CLI's build-time
// errors, so a runtime failure and a compile-time one look like they
// come from the same tool.
package werrors

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Category groups an error by where in the pipeline it originates.
type Category string

const (
	CategoryLoad          Category = "load"
	CategoryExecution     Category = "execution"
	CategorySerialization Category = "serialization"
	CategoryIntegrity     Category = "integrity"
	CategoryTransport     Category = "transport"
	CategoryCLI           Category = "cli"
	CategoryConfig        Category = "config"
)

// Location is a source position, kept for parity with the CLI's
// build-time diagnostics even though most runtime errors carry a
// SignalID instead.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// WeaverError is a structured error carrying enough context to explain
// a failure and suggest a fix, matching every field the CLI's
// build-time errors already carry.
type WeaverError struct {
	Code     string
	Category Category
	Message  string
	Detail   string

	// SignalID names the signal a runtime error concerns (LoadError,
	// ExecutionError, RegistryIntegrityError all set this).
	SignalID string

	Location   *Location
	Context    []string
	Suggestion string
	DocURL     string
	Wrapped    error
}

func (e *WeaverError) Error() string {
	switch {
	case e.Code != "" && e.SignalID != "":
		return fmt.Sprintf("%s: %s (signal %s)", e.Code, e.Message, e.SignalID)
	case e.Code != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.SignalID != "":
		return fmt.Sprintf("%s (signal %s)", e.Message, e.SignalID)
	default:
		return e.Message
	}
}

func (e *WeaverError) Unwrap() error { return e.Wrapped }

func (e *WeaverError) WithSignalID(id string) *WeaverError {
	e.SignalID = id
	return e
}

func (e *WeaverError) WithLocation(file string, line, column int) *WeaverError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

func (e *WeaverError) WithSuggestion(s string) *WeaverError {
	e.Suggestion = s
	return e
}

func (e *WeaverError) WithDetail(d string) *WeaverError {
	e.Detail = d
	return e
}

func (e *WeaverError) Wrap(err error) *WeaverError {
	e.Wrapped = err
	return e
}

func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}
	return lines
}

// New creates a WeaverError from a registered template code.
func New(code string) *WeaverError {
	t, ok := registry[code]
	if !ok {
		return &WeaverError{Code: code, Message: "unknown error"}
	}
	return &WeaverError{
		Code:     code,
		Category: t.Category,
		Message:  t.Message,
		Detail:   t.Detail,
		DocURL:   t.DocURL,
	}
}

// Newf creates an ad-hoc WeaverError with a formatted message.
func Newf(category Category, format string, args ...any) *WeaverError {
	return &WeaverError{Category: category, Message: fmt.Sprintf(format, args...)}
}

// LoadError reports a logic module that could not be resolved: per the
// error-handling design, this is logged and the affected region closes
// empty so the client may hydrate it later.
func LoadError(signalID, src string, cause error) *WeaverError {
	return New("W001").WithSignalID(signalID).WithDetail(fmt.Sprintf("src=%s", src)).Wrap(cause)
}

// ExecutionError reports a logic invocation that returned an error: the
// signal's value falls back to its init (or PENDING).
func ExecutionError(signalID string, cause error) *WeaverError {
	return New("W002").WithSignalID(signalID).Wrap(cause)
}

// SerializationError reports a signal chain containing a non-JSON
// value; callers (typically pkg/rpc) propagate this to the requester.
func SerializationError(signalID string, cause error) *WeaverError {
	return New("W003").WithSignalID(signalID).Wrap(cause)
}

// RegistryIntegrityError reports an id collision with differing content
// or a reference to a missing dependency: fatal in development, a
// warning in production (the caller decides which, based on build mode).
func RegistryIntegrityError(signalID, detail string) *WeaverError {
	return New("W004").WithSignalID(signalID).WithDetail(detail)
}

// TransportError reports a client-side RPC failure (non-2xx response,
// worker rejection): the affected signal resolves to PENDING with an
// error flag Suspense boundaries may observe.
func TransportError(signalID string, cause error) *WeaverError {
	return New("W005").WithSignalID(signalID).Wrap(cause)
}

func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
