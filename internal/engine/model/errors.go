package model

import (
	"errors"
	"fmt"
)

// Errors returned by schema construction and position resolution.
var (
	// ErrUnknownType indicates a node or mark type name not in the schema.
	ErrUnknownType = errors.New("unknown type")

	// ErrInvalidSchema indicates a schema spec that cannot be compiled.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrPositionOutOfRange indicates an offset or index outside the node.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrLeafDescent indicates a path that descends into a leaf or text node.
	ErrLeafDescent = errors.New("path descends into a leaf")
)

// PositionError reports a position that could not be resolved against a
// tree. It is fatal to the operation that asked for the position; the tree
// is never modified.
type PositionError struct {
	Op     string // operation name, e.g. "resolve"
	Offset int    // flat offset or path offset involved
	Path   []int  // path involved, if any
	Err    error  // ErrPositionOutOfRange or ErrLeafDescent
}

func (e *PositionError) Error() string {
	if e.Path != nil {
		return fmt.Sprintf("%s: path %v offset %d: %v", e.Op, e.Path, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

// ReplaceError is returned when a slice does not fit the range it is
// supposed to replace.
type ReplaceError struct {
	Message string
}

func (e *ReplaceError) Error() string {
	return "replace: " + e.Message
}

// WarningKind classifies a ValidationWarning.
type WarningKind uint8

const (
	// WarnContent indicates content that does not match the content expression.
	WarnContent WarningKind = iota

	// WarnUnknownAttr indicates an attribute the type does not declare.
	WarnUnknownAttr

	// WarnMissingAttr indicates a required attribute that was not supplied.
	WarnMissingAttr

	// WarnMarkNotAllowed indicates a child mark the parent type does not allow.
	WarnMarkNotAllowed

	// WarnLeafContent indicates content supplied to a leaf or atom node.
	WarnLeafContent
)

// String returns the warning kind name.
func (k WarningKind) String() string {
	switch k {
	case WarnContent:
		return "content"
	case WarnUnknownAttr:
		return "unknown-attr"
	case WarnMissingAttr:
		return "missing-attr"
	case WarnMarkNotAllowed:
		return "mark-not-allowed"
	case WarnLeafContent:
		return "leaf-content"
	default:
		return "unknown"
	}
}

// ValidationWarning is a recoverable schema violation. The node that
// triggered it is still constructed.
type ValidationWarning struct {
	Kind   WarningKind
	Type   string // node or mark type name
	Detail string
}

func (w ValidationWarning) Error() string {
	return fmt.Sprintf("schema warning (%s) on %s: %s", w.Kind, w.Type, w.Detail)
}
