package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind discriminates the failure classes a board can report.
type ErrorKind int

const (
	// KindInvalidInput is a malformed square, move or position string.
	KindInvalidInput ErrorKind = iota + 1
	// KindIllegalMove is a well-formed move the authority does not allow.
	KindIllegalMove
	// KindSurfaceUnavailable is a rendering node that is missing or destroyed.
	KindSurfaceUnavailable
	// KindReentrancy is input that arrived while a commit was in flight.
	KindReentrancy
	// KindConfiguration is an invalid configuration value.
	KindConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindIllegalMove:
		return "illegal move"
	case KindSurfaceUnavailable:
		return "surface unavailable"
	case KindReentrancy:
		return "reentrant input"
	case KindConfiguration:
		return "invalid configuration"
	default:
		return "unknown error"
	}
}

// Sentinel errors, one per kind. Use with errors.Is.
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrIllegalMove        = &Error{Kind: KindIllegalMove}
	ErrSurfaceUnavailable = &Error{Kind: KindSurfaceUnavailable}
	ErrReentrancy         = &Error{Kind: KindReentrancy}
	ErrConfiguration      = &Error{Kind: KindConfiguration}
)

// Error is the single error type of the board. The kind says what went
// wrong; the remaining fields carry whatever context was available.
type Error struct {
	Kind   ErrorKind
	Square string
	Move   string
	Field  string
	Value  string
	Err    error
}

// Error formats the kind followed by all available context.
func (e *Error) Error() string {
	parts := []string{e.Kind.String()}
	if e.Field != "" {
		if e.Value != "" {
			parts = append(parts, fmt.Sprintf("%s %q", e.Field, e.Value))
		} else {
			parts = append(parts, e.Field)
		}
	}
	if e.Move != "" {
		parts = append(parts, "move "+e.Move)
	}
	if e.Square != "" {
		parts = append(parts, "square "+e.Square)
	}
	msg := strings.Join(parts, ": ")
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that the
// package sentinels match any error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or 0 if err is not a board error.
func KindOf(err error) ErrorKind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}

func invalidInput(field, value string) error {
	return &Error{Kind: KindInvalidInput, Field: field, Value: value}
}

// IllegalMove builds an IllegalMove error for m.
func IllegalMove(m Move, cause error) error {
	return &Error{Kind: KindIllegalMove, Move: m.String(), Err: cause}
}

// SurfaceUnavailable builds a SurfaceUnavailable error for the node id.
func SurfaceUnavailable(id PieceID, sq Square) error {
	return &Error{Kind: KindSurfaceUnavailable, Field: "node", Value: id.String(), Square: sq.String()}
}

// ConfigError builds a Configuration error for field.
func ConfigError(field string, value any, reason string) error {
	return &Error{Kind: KindConfiguration, Field: field, Value: fmt.Sprint(value), Err: errors.New(reason)}
}
