// Package errors provides structured error handling for the controls module.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInvalidState indicates a lifecycle invariant violation.
	KindInvalidState
	// KindMarkup indicates a malformed or unsupported markup document.
	KindMarkup
	// KindConfig indicates a configuration loading error.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidState:
		return "invalid-state"
	case KindMarkup:
		return "markup"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ErrInvalidState is matched by every InvalidStateError via errors.Is.
var ErrInvalidState = stderrors.New("invalid state")

// InvalidStateError reports an operation that is illegal in the node's
// current lifecycle state, such as renaming an initialized node or an
// EndInit without a matching BeginInit.
type InvalidStateError struct {
	// Op is the operation that failed (e.g., "tree.SetName").
	Op string
	// Node describes the node involved, usually "Kind#name".
	Node string
	// Reason is a short human-readable explanation.
	Reason string
}

func (e *InvalidStateError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Node, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrInvalidState.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// IsInvalidState reports whether err is, or wraps, an InvalidStateError.
func IsInvalidState(err error) bool {
	return stderrors.Is(err, ErrInvalidState)
}

// LifecycleError represents a structured error raised outside the core
// tree operations, such as while loading markup or configuration.
type LifecycleError struct {
	// Op is the operation that failed (e.g., "markup.Load").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "ctltree.trace").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// MarkupError represents a problem at a specific element of a markup document.
type MarkupError struct {
	// Path is the element path within the document (e.g., "root.children[1]").
	Path string
	// Line is the 1-based source line, or 0 when unknown.
	Line int
	// Reason describes the problem. When empty, Err's message is used.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

func (e *MarkupError) Error() string {
	reason := e.Reason
	if reason == "" && e.Err != nil {
		reason = e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("markup %s (line %d): %s", e.Path, e.Line, reason)
	}
	return fmt.Sprintf("markup %s: %s", e.Path, reason)
}

func (e *MarkupError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by outer layers of the module.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *LifecycleError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
