package fixturegen

import "fixturegen/internal/fail"

// Sentinels wrapped by the errors of creation calls, for errors.Is.
var (
	ErrUsage                = fail.ErrUsage
	ErrUnresolvedAssignment = fail.ErrUnresolvedAssignment
	ErrUnusedSelector       = fail.ErrUnusedSelector
	ErrAmbiguousOrigin      = fail.ErrAmbiguousOrigin
	ErrInternal             = fail.ErrInternal
	ErrTypeMismatch         = fail.ErrTypeMismatch
	ErrAttemptsExceeded     = fail.ErrAttemptsExceeded
	ErrMaxDepthReached      = fail.ErrMaxDepthReached
)

// Error types, for errors.As.
type (
	UsageError                = fail.UsageError
	UnresolvedAssignmentError = fail.UnresolvedAssignmentError
	UnusedSelectorError       = fail.UnusedSelectorError
	AmbiguousOriginError      = fail.AmbiguousOriginError
	InternalError             = fail.InternalError
	TypeMismatchError         = fail.TypeMismatchError
	AttemptsExceededError     = fail.AttemptsExceededError
	MaxDepthReachedError      = fail.MaxDepthReachedError
)
