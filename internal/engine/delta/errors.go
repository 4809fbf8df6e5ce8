package delta

import "errors"

var (
	// ErrLengthMismatch indicates a delta whose base length does not fit
	// the text it is applied to.
	ErrLengthMismatch = errors.New("delta length mismatch")

	// ErrInvalidOp indicates a serialized op that is not exactly one of
	// insert, retain, or delete.
	ErrInvalidOp = errors.New("invalid op")
)
