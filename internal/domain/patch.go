package domain

import "math"

// Field is one nullable column in a patch. Set reports whether the client sent the
// field at all; Set with a nil Value clears the column.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Some returns a Field that writes v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a Field that clears the column.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f Field[T]) applyTo(dst **T) {
	if f.Set {
		*dst = f.Value
	}
}

// RoundAmount rounds to the two decimal places amounts are stored with.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
