// Package fail defines the errors returned by creation calls. Every error
// type wraps one of the sentinels so callers can test with errors.Is.
package fail

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrUsage                = errors.New("usage error")
	ErrUnresolvedAssignment = errors.New("unresolved assignment")
	ErrUnusedSelector       = errors.New("unused selector")
	ErrAmbiguousOrigin      = errors.New("ambiguous origin")
	ErrInternal             = errors.New("internal error")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrAttemptsExceeded     = errors.New("generation attempts exceeded")
	ErrMaxDepthReached      = errors.New("max depth reached")
)

// UsageError reports invalid API arguments, detected when they are declared.
type UsageError struct {
	Message string
	// Site is the file:line the offending call was made from, when known.
	Site string
}

// Usage returns a UsageError with a formatted message.
func Usage(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// At sets the declaration site and returns e.
func (e *UsageError) At(site string) *UsageError {
	e.Site = site

	return e
}

func (e *UsageError) Error() string {
	if e.Site == "" {
		return fmt.Sprintf("%s: %s", ErrUsage, e.Message)
	}

	return fmt.Sprintf("%s: %s (at %s)", ErrUsage, e.Message, e.Site)
}

func (e *UsageError) Unwrap() error { return ErrUsage }

// Link is one origin to destination edge of an assignment rule.
type Link struct {
	Origin      string
	Destination string
}

// DelayedNode is a node still waiting for an origin value.
type DelayedNode struct {
	Path  string
	Depth int
}

// UnresolvedAssignmentError reports assignments whose origin values can never
// become available.
type UnresolvedAssignmentError struct {
	// Reason is set for immediate failures such as self reference, or when
	// an origin of a delayed node is ignored.
	Reason  string
	Links   []Link
	Delayed []DelayedNode
	// Cycle lists the rule chain that closes on itself, if one was found.
	Cycle []Link
}

func (e *UnresolvedAssignmentError) Error() string {
	var sb strings.Builder

	sb.WriteString("unresolved assignment expression")

	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}

	if len(e.Links) > 0 {
		sb.WriteString("\n\nThe following assignments could not be applied:")

		for _, l := range e.Links {
			fmt.Fprintf(&sb, "\n -> from [%s] to [%s]", l.Origin, l.Destination)
		}
	}

	if len(e.Cycle) > 0 {
		sb.WriteString("\n\nAssignment cycle:")

		for _, l := range e.Cycle {
			fmt.Fprintf(&sb, "\n -> from [%s] to [%s]", l.Origin, l.Destination)
		}
	}

	if len(e.Delayed) > 0 {
		sb.WriteString("\n\nUnresolved nodes:")

		for _, n := range e.Delayed {
			fmt.Fprintf(&sb, "\n -> %s (depth %d)", n.Path, n.Depth)
		}
	}

	return sb.String()
}

func (e *UnresolvedAssignmentError) Unwrap() error { return ErrUnresolvedAssignment }

// UnusedSelector describes a selector that matched no node.
type UnusedSelector struct {
	API      string
	Selector string
	Site     string
}

// UnusedSelectorError lists every non-lenient selector that matched nothing.
type UnusedSelectorError struct {
	Selectors []UnusedSelector
}

func (e *UnusedSelectorError) Error() string {
	var sb strings.Builder

	sb.WriteString("found unused selectors referenced in the following methods:")

	for _, s := range e.Selectors {
		fmt.Fprintf(&sb, "\n -> %s(): %s", s.API, s.Selector)

		if s.Site != "" {
			fmt.Fprintf(&sb, "\n    at %s", s.Site)
		}
	}

	sb.WriteString("\n\nSelectors are either invalid or belong to a different type. " +
		"Mark them Lenient() or call Lenient() on the builder to ignore unused selectors.")

	return sb.String()
}

func (e *UnusedSelectorError) Unwrap() error { return ErrUnusedSelector }

// AmbiguousOriginError reports an origin selector matching several nodes.
type AmbiguousOriginError struct {
	Origin  string
	Matches []string
}

func (e *AmbiguousOriginError) Error() string {
	return fmt.Sprintf("%s: selector %s matched %d nodes: %s",
		ErrAmbiguousOrigin, e.Origin, len(e.Matches), strings.Join(e.Matches, ", "))
}

func (e *AmbiguousOriginError) Unwrap() error { return ErrAmbiguousOrigin }

// InternalError wraps a reflective failure at a node.
type InternalError struct {
	Path string
	Err  error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s at %s: %v", ErrInternal, e.Path, e.Err)
}

func (e *InternalError) Unwrap() []error { return []error{ErrInternal, e.Err} }

// TypeMismatchError reports an explicit value that cannot be stored in a node.
type TypeMismatchError struct {
	Path   string
	Value  reflect.Type
	Target reflect.Type
	Err    error
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("%s at %s: value of type %v is not assignable to %v", ErrTypeMismatch, e.Path, e.Value, e.Target)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// AttemptsExceededError reports a filter or uniqueness constraint that could
// not be satisfied within the configured number of attempts.
type AttemptsExceededError struct {
	Path     string
	Attempts int
	Reason   string
}

func (e *AttemptsExceededError) Error() string {
	return fmt.Sprintf("%s at %s: %s after %d attempts", ErrAttemptsExceeded, e.Path, e.Reason, e.Attempts)
}

func (e *AttemptsExceededError) Unwrap() error { return ErrAttemptsExceeded }

// MaxDepthReachedError reports a truncated node when truncation is fatal.
type MaxDepthReachedError struct {
	Path  string
	Depth int
}

func (e *MaxDepthReachedError) Error() string {
	return fmt.Sprintf("%s: %s truncated at depth %d", ErrMaxDepthReached, e.Path, e.Depth)
}

func (e *MaxDepthReachedError) Unwrap() error { return ErrMaxDepthReached }
