package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrFreeCell indicates a cell marked free was encountered where an
	// allocated one was required.
	ErrFreeCell = errors.New("format: cell not in use")
	// ErrSanityLimit indicates a declared length or count exceeded the bounds
	// any real hive stays within.
	ErrSanityLimit = errors.New("format: sanity limit exceeded")
	// ErrUnsupported indicates a structure variant this decoder does not handle.
	ErrUnsupported = errors.New("format: unsupported feature")
)
