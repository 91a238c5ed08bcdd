// Package apperror carries failures through the service layer as a closed
// kind enumeration. The kinds are mapped to transport status codes exactly
// once, at the response boundary.
package apperror

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	// Unmapped is the catch-all for internal faults without a known kind.
	Unmapped Kind = iota
	// NotFound: the target resource does not exist.
	NotFound
	// Forbidden: the resource exists but the principal lacks rights on it.
	Forbidden
	// Conflict: duplicate username/email or password confirmation mismatch.
	Conflict
	// InvalidRequest: malformed or missing fields, unknown role name.
	InvalidRequest

	// Kinds reported by the remote task service gateway. They surface to the
	// original caller as server-side failures, since the caller did not
	// directly cause them.
	AccessDenied
	ServiceUnavailable
	RemoteOperationFailed
	NetworkError
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case InvalidRequest:
		return "invalid request"
	case AccessDenied:
		return "access denied"
	case ServiceUnavailable:
		return "service unavailable"
	case RemoteOperationFailed:
		return "remote operation failed"
	case NetworkError:
		return "network error"
	default:
		return "unmapped"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind discriminant, or Unmapped for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unmapped
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
