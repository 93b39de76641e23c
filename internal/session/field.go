package session

// fieldOp distinguishes "not provided" from "explicitly absent".
type fieldOp int

const (
	opKeep  fieldOp = iota // leave the current value
	opSet                  // replace with value
	opClear                // replace with the zero value
)

// Field is a per-field update marker passed to Snapshot.CopyWith.
type Field[T any] struct {
	op    fieldOp
	value T
}

// Keep leaves the field unchanged.
func Keep[T any]() Field[T] { return Field[T]{op: opKeep} }

// Set replaces the field with v.
func Set[T any](v T) Field[T] { return Field[T]{op: opSet, value: v} }

// Clear replaces the field with its zero value (nil session, initial status).
func Clear[T any]() Field[T] { return Field[T]{op: opClear} }

// Apply returns the field's value after the update.
func (f Field[T]) Apply(current T) T {
	switch f.op {
	case opSet:
		return f.value
	case opClear:
		var zero T
		return zero
	default:
		return current
	}
}

// IsKeep reports whether the marker leaves the field alone.
func (f Field[T]) IsKeep() bool { return f.op == opKeep }
