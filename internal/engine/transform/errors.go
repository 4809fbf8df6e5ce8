package transform

import (
	"errors"
	"fmt"
)

// Errors returned by steps and transforms.
var (
	// ErrUnknownStepType indicates a serialized step with an unknown type.
	ErrUnknownStepType = errors.New("unknown step type")

	// ErrNotTextblock indicates an inline edit outside a textblock.
	ErrNotTextblock = errors.New("position is not inside a textblock")
)

// UnsupportedRangeError reports a replace whose slice does not fit the
// range shape, e.g. a closed slice spanning blocks at different depths.
// The document is left unchanged.
type UnsupportedRangeError struct {
	From   int
	To     int
	Reason string
}

func (e *UnsupportedRangeError) Error() string {
	return fmt.Sprintf("unsupported range [%d, %d): %s", e.From, e.To, e.Reason)
}
