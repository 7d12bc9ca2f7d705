// Package errs implements East's closed error taxonomy (spec §7).
//
// Grounded on pkgs/errors/errors.go's kind-tagged DevCmdError: a single
// struct carrying a closed-set Kind, a message, an optional Cause, plus
// East-specific additions (a type/value path for TypeMismatch/ParseError,
// and a call-site location stack for runtime errors per spec §4.F.2).
package errs

import (
	"fmt"
	"strings"
)

// Kind is the closed set of error kinds from spec §7.
type Kind string

const (
	TypeMismatch       Kind = "TypeMismatch"
	DomainError        Kind = "DomainError"
	MissingKey         Kind = "MissingKey"
	DuplicateKey       Kind = "DuplicateKey"
	FrozenMutation     Kind = "FrozenMutation"
	ConcurrentMutation Kind = "ConcurrentMutation"
	ParseError         Kind = "ParseError"
	UserError          Kind = "UserError"
	InternalError      Kind = "InternalError"
)

// Frame is one entry in a runtime error's call-site backtrace (spec §4.F.2).
type Frame struct {
	Location string // e.g. function name or IR source span text
}

// Error is the single error type every East component raises.
//
// Only *Error values whose Kind is not InternalError are catchable by
// TryCatch (spec §4.F.5); an InternalError, or any other Go error that
// escapes a Platform call, bypasses catch but still runs finally.
type Error struct {
	Kind    Kind
	Message string
	Path    []string // type-path or value-path segments, e.g. []string{"struct field age"}
	Stack   []Frame  // call-site backtrace, grown by Call boundaries
	Cause   error
}

// New constructs an Error with no path or stack.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error recording cause, without re-wrapping an
// existing *Error of the same kind (spec §4.A: "errors ... do NOT wrap
// themselves when re-thrown").
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	if e, ok := cause.(*Error); ok && e.Kind == kind {
		return e
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithPath returns a copy of e with path appended (most specific segment
// last), used while descending into struct fields, variant cases, and
// array/dict indices.
func (e *Error) WithPath(segment string) *Error {
	next := *e
	next.Path = append(append([]string(nil), e.Path...), segment)
	return &next
}

// PushFrame returns a copy of e with a call-site frame appended, used when
// a Call node rethrows an error that escaped the callee (spec §4.F.2).
func (e *Error) PushFrame(location string) *Error {
	next := *e
	next.Stack = append(append([]Frame(nil), e.Stack...), Frame{Location: location})
	return &next
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, ""))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	for _, f := range e.Stack {
		fmt.Fprintf(&b, "\n  at %s", f.Location)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
