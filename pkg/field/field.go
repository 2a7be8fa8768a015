package field

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrIndexOutOfRange is wrapped by every IndexError.
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError reports an access outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("face index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// Field is an ordered, immutable sequence of per-face scalar values with
// its minimum and maximum computed once at construction.
type Field struct {
	values   []float64
	min, max float64
}

// New builds a Field from values. The slice is copied so later changes
// by the caller do not leak into the field.
func New(values []float64) *Field {
	f := &Field{values: make([]float64, len(values))}
	copy(f.values, values)
	if len(f.values) > 0 {
		f.min = floats.Min(f.values)
		f.max = floats.Max(f.values)
	}
	return f
}

// Empty returns a field with no faces.
func Empty() *Field {
	return &Field{}
}

// Len returns the number of faces.
func (f *Field) Len() int {
	return len(f.values)
}

// IsEmpty returns true if the field has no values.
func (f *Field) IsEmpty() bool {
	return len(f.values) == 0
}

// Min returns the smallest value, or 0 for an empty field.
func (f *Field) Min() float64 { return f.min }

// Max returns the largest value, or 0 for an empty field.
func (f *Field) Max() float64 { return f.max }

// Value returns the value for face i.
func (f *Field) Value(i int) (float64, error) {
	if i < 0 || i >= len(f.values) {
		return 0, &IndexError{Index: i, Len: len(f.values)}
	}
	return f.values[i], nil
}

// Values returns a copy of all values in face order.
func (f *Field) Values() []float64 {
	out := make([]float64, len(f.values))
	copy(out, f.values)
	return out
}

// Position maps v onto the field's logarithmic range:
//
//	u = (ln(v+1) - ln(min+1)) / (ln(max+1) - ln(min+1))
//
// A flat field (max == min), an empty field and any non-finite result all
// yield 0. Values below -1 have no logarithm; measurements are expected to
// be non-negative.
func (f *Field) Position(v float64) float64 {
	if len(f.values) == 0 || f.max == f.min {
		return 0
	}
	lo := math.Log(f.min + 1)
	hi := math.Log(f.max + 1)
	if hi == lo {
		return 0
	}
	u := (math.Log(v+1) - lo) / (hi - lo)
	if math.IsNaN(u) || math.IsInf(u, 0) {
		return 0
	}
	return u
}

// PositionAt is Position applied to the value of face i.
func (f *Field) PositionAt(i int) (float64, error) {
	v, err := f.Value(i)
	if err != nil {
		return 0, err
	}
	return f.Position(v), nil
}
