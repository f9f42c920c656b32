// Package apperrors is the structured error type used throughout the
// module, adapted from the teacher's errors package to the error taxonomy
// and exit/HTTP mapping tables of spec §7.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for targeted handling, exit codes, and HTTP
// status mapping.
type Kind string

const (
	KindNoError                     Kind = "no_error"
	KindInvalidArgument              Kind = "invalid_argument"
	KindInvalidGraph                 Kind = "invalid_graph"
	KindNodeArgInvalid               Kind = "node_arg_invalid"
	KindImageMalformed               Kind = "image_malformed"
	KindUnsupported                  Kind = "unsupported"
	KindAuthorizationRequired        Kind = "authorization_required"
	KindLicenseError                 Kind = "license_error"
	KindActionForbidden              Kind = "action_forbidden"
	KindPrimaryResourceNotFound      Kind = "primary_resource_not_found"
	KindOperationCancelled           Kind = "operation_cancelled"
	KindInternalError                Kind = "internal_error"
	KindNoSolution                   Kind = "no_solution"
	KindIOError                      Kind = "io_error"
	KindSecondaryNotFound            Kind = "secondary_not_found"
	KindUpstreamError                Kind = "upstream_error"
	KindOutOfMemory                  Kind = "out_of_memory"
	KindUpstreamTimeout               Kind = "upstream_timeout"
	KindErrorReportingInconsistency  Kind = "error_reporting_inconsistency"
	KindMaximumGraphPassesExceeded   Kind = "maximum_graph_passes_exceeded"
	KindGraphCouldNotBeCompleted     Kind = "graph_could_not_be_completed"
	KindInvalidInternalState         Kind = "invalid_internal_state"
)

// AsExitCode realizes the fixed exit-code mapping table of spec §7.
func (k Kind) AsExitCode() int {
	switch k {
	case KindNoError:
		return 0
	case KindInvalidArgument, KindInvalidGraph, KindNodeArgInvalid, KindImageMalformed, KindUnsupported:
		return 64
	case KindLicenseError:
		return 402
	case KindActionForbidden:
		return 77
	case KindPrimaryResourceNotFound:
		return 66
	case KindOperationCancelled:
		return 130
	case KindInternalError, KindInvalidInternalState, KindNoSolution, KindGraphCouldNotBeCompleted, KindMaximumGraphPassesExceeded:
		return 70
	case KindIOError, KindSecondaryNotFound:
		return 74
	case KindUpstreamError, KindUpstreamTimeout:
		return 69
	case KindOutOfMemory:
		return 71
	default:
		return 70
	}
}

// AsHTTPCode realizes the fixed HTTP-status mapping table of spec §7.
func (k Kind) AsHTTPCode() int {
	switch k {
	case KindNoError:
		return 200
	case KindInvalidArgument, KindInvalidGraph, KindNodeArgInvalid, KindImageMalformed, KindUnsupported:
		return 400
	case KindAuthorizationRequired:
		return 401
	case KindLicenseError:
		return 402
	case KindActionForbidden:
		return 403
	case KindPrimaryResourceNotFound:
		return 404
	case KindOperationCancelled:
		return 499
	case KindInternalError, KindInvalidInternalState, KindNoSolution, KindIOError, KindSecondaryNotFound, KindGraphCouldNotBeCompleted, KindMaximumGraphPassesExceeded, KindErrorReportingInconsistency:
		return 500
	case KindUpstreamError:
		return 502
	case KindOutOfMemory:
		return 503
	case KindUpstreamTimeout:
		return 504
	default:
		return 500
	}
}

// Recoverable reports whether a client may clear this error kind via
// try_clear_error (spec §7 policy paragraph). Cancellation, OOM, and the
// panic class (InternalError and its InvalidInternalState twin) are not.
func (k Kind) Recoverable() bool {
	switch k {
	case KindOperationCancelled, KindOutOfMemory, KindInternalError, KindInvalidInternalState:
		return false
	default:
		return true
	}
}

// Error is the structured error type carried on jobctx.Context.ErrorState
// and returned to callers.
type Error struct {
	Kind      Kind
	Op        string
	Err       error
	Callstack []string
}

func (e *Error) Error() string {
	if len(e.Callstack) == 0 {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v (via %v)", e.Kind, e.Op, e.Err, e.Callstack)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrap wraps err with context, returning nil if err is nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(kind, op, err)
}

// AddFrame appends a callstack frame, per add_to_callstack (spec §4.A) —
// only meaningful once an error is already set; callers should check first.
func (e *Error) AddFrame(frame string) {
	e.Callstack = append(e.Callstack, frame)
}

// KindOf extracts the Kind from err, or KindInternalError if err is not an
// *Error (an unexpected panic-class failure, per spec §7's panic policy).
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if err == nil {
		return KindNoError
	}
	return KindInternalError
}

// Sentinel errors for common structural failures, wrapped into *Error by
// callers via New/Wrap.
var (
	ErrEmptyInput          = errors.New("empty input")
	ErrCycleDetected        = errors.New("graph contains a cycle")
	ErrUnknownNodeType      = errors.New("unknown node type")
	ErrArityMismatch        = errors.New("node input/canvas arity mismatch")
	ErrNotImplemented       = errors.New("operation not implemented for this node type")
	ErrCropOutOfBounds      = errors.New("crop rectangle exceeds source bounds")
)
