// Package errors provides structured error handling for the switcher packages.
//
// Three classes of failure exist. Configuration errors ([ConfigError]) are
// returned from constructors and parsers. Invariant violations
// ([InvariantError]) are raised through [Assert]: they panic while
// [DebugMode] is on and are reported and degraded around otherwise. Load
// failures ([LoadError]) are delivered to the caller of the image adapter
// and never interrupt a transition.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates an invalid construction parameter.
	KindConfig
	// KindInvariant indicates a broken contract between caller and component.
	KindInvariant
	// KindLoad indicates a content decode or fetch failure.
	KindLoad
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindInvariant:
		return "invariant"
	case KindLoad:
		return "load"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// SwitchError is the envelope delivered to the global [Handler].
type SwitchError struct {
	// Op is the operation that failed (e.g., "switcher.OnChildChanged").
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

func (e *SwitchError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *SwitchError) Unwrap() error {
	return e.Err
}

// ConfigError reports an unsupported construction parameter.
type ConfigError struct {
	// Field names the offending option (e.g., "Kind").
	Field string
	// Value is the rejected value.
	Value any
	// Reason explains what was expected.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// InvariantError reports a violated caller contract.
type InvariantError struct {
	Op      string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Op, e.Message)
}

// LoadError reports that content for ContentID could not be produced.
type LoadError struct {
	ContentID string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q failed: %v", e.ContentID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "gapless.Similar").
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

// IsConfig reports whether err wraps a *ConfigError.
func IsConfig(err error) bool {
	var cfg *ConfigError
	return errors.As(err, &cfg)
}

// Handler receives errors reported by the switcher packages.
type Handler interface {
	// HandleError is called when an error occurs.
	HandleError(err *SwitchError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
