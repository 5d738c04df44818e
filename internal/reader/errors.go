package reader

import (
	"errors"

	"github.com/joshuapare/hivenav/internal/format"
)

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat      ErrKind = iota // malformed headers/signatures (e.g. bad "regf")
	ErrKindCorrupt                    // structural corruption (bad sizes/offsets/tags)
	ErrKindUnsupported                // valid feature we don't support
	ErrKindNotFound                   // missing key/value/path
	ErrKindType                       // requested decode doesn't match value type
	ErrKindState                      // invalid operation for current state
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels wrapped by the errors this package returns. Match with errors.Is.
var (
	// ErrNotHive indicates the file lacks a valid "regf" header.
	ErrNotHive = &Error{Kind: ErrKindFormat, Msg: "not a registry hive (bad regf header)"}
	// ErrCorrupt indicates non-recoverable structural inconsistency.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Msg: "corrupt hive structure"}
	// ErrUnsupported indicates a recognized but unsupported feature/variant.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported hive feature"}
	// ErrNotFound indicates a missing key/value/path.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrTypeMismatch indicates the requested decode doesn't match the value type.
	ErrTypeMismatch = &Error{Kind: ErrKindType, Msg: "registry value has different type"}
	// ErrClosed indicates an access after Close.
	ErrClosed = &Error{Kind: ErrKindState, Msg: "hive is closed"}
)

func corruptErr(msg string) error {
	return &Error{Kind: ErrKindCorrupt, Msg: msg, Err: ErrCorrupt}
}

// wrapFormatErr lifts low-level decode failures into the typed taxonomy.
func wrapFormatErr(err error) error {
	switch {
	case errors.Is(err, format.ErrSignatureMismatch):
		return &Error{Kind: ErrKindCorrupt, Msg: "unexpected record signature", Err: err}
	case errors.Is(err, format.ErrTruncated):
		return &Error{Kind: ErrKindCorrupt, Msg: "hive structure truncated", Err: err}
	case errors.Is(err, format.ErrFreeCell):
		return &Error{Kind: ErrKindCorrupt, Msg: "record references a free cell", Err: err}
	case errors.Is(err, format.ErrSanityLimit):
		return &Error{Kind: ErrKindCorrupt, Msg: "declared size beyond sane bounds", Err: err}
	case errors.Is(err, format.ErrUnsupported):
		return &Error{Kind: ErrKindUnsupported, Msg: "unsupported hive structure", Err: err}
	default:
		return &Error{Kind: ErrKindCorrupt, Msg: err.Error(), Err: err}
	}
}
