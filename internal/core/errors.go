package core

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindMissingProcedure is reported when an entity type declares no procedure.
	KindMissingProcedure Kind = iota + 1
	// KindNullEntity is reported when a call is made without an entity.
	KindNullEntity
	// KindNoConnection is reported when no connection is bound.
	KindNoConnection
	// KindBinding is reported when a parameter could not be read, set or registered.
	KindBinding
	// KindDriver is reported for failures surfaced by the connection or statement.
	KindDriver
	// KindInvalidDeclaration is reported when a declaration cannot produce a valid call.
	KindInvalidDeclaration
)

func (k Kind) String() string {
	switch k {
	case KindMissingProcedure:
		return "missing procedure metadata"
	case KindNullEntity:
		return "null entity"
	case KindNoConnection:
		return "no connection"
	case KindBinding:
		return "binding"
	case KindDriver:
		return "driver"
	case KindInvalidDeclaration:
		return "invalid declaration"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinel errors, one per kind. Every *Error matches the sentinel of its kind
// with errors.Is.
var (
	ErrMissingProcedure   = errors.New("procmap: procedure declaration is missing")
	ErrNullEntity         = errors.New("procmap: nil stored procedure entity is not allowed")
	ErrNoConnection       = errors.New("procmap: connection is missing")
	ErrBinding            = errors.New("procmap: parameter binding failed")
	ErrDriver             = errors.New("procmap: driver failure")
	ErrInvalidDeclaration = errors.New("procmap: invalid procedure declaration")
)

var sentinels = map[Kind]error{
	KindMissingProcedure:   ErrMissingProcedure,
	KindNullEntity:         ErrNullEntity,
	KindNoConnection:       ErrNoConnection,
	KindBinding:            ErrBinding,
	KindDriver:             ErrDriver,
	KindInvalidDeclaration: ErrInvalidDeclaration,
}

// Error is the single error type returned across the package boundary. It
// carries either a descriptive message, a wrapped driver fault, or both.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("procmap: %s: %v", e.Message, e.Err)
	case e.Message != "":
		return "procmap: " + e.Message
	case e.Err != nil:
		return fmt.Sprintf("procmap: %s: %v", e.Kind, e.Err)
	default:
		return "procmap: " + e.Kind.String()
	}
}

// Unwrap returns the underlying fault, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...any) *Error {
	var e *Error
	if errors.As(err, &e) && format == "" {
		return e
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
