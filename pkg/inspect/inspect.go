// Package inspect maps a picked face back to its scalar value for display.
package inspect

import (
	"fmt"
	"strconv"

	"github.com/chazu/thickview/pkg/field"
)

// NoHit is the face index a picker reports when the ray hits nothing.
const NoHit = -1

// DefaultUnit is the unit label used by Result.String.
const DefaultUnit = "mm"

// Result describes one inspected face.
type Result struct {
	Face     int     `json:"face"`
	Value    float64 `json:"value"`
	Position float64 `json:"position"` // normalized log position, see field.Position
	Unit     string  `json:"unit"`
}

func (r Result) String() string {
	return fmt.Sprintf("face %d: %s %s (u=%.3f)",
		r.Face, strconv.FormatFloat(r.Value, 'g', -1, 64), r.Unit, r.Position)
}

// Index answers lookups against a single field. It holds no state beyond
// the field pointer, so building one per pick is cheap.
type Index struct {
	f    *field.Field
	unit string
}

// New returns an Index over f. A nil f behaves like an empty field.
func New(f *field.Field) *Index {
	if f == nil {
		f = field.Empty()
	}
	return &Index{f: f, unit: DefaultUnit}
}

// WithUnit sets the unit label reported in results.
func (x *Index) WithUnit(unit string) *Index {
	x.unit = unit
	return x
}

// Lookup returns the value under face. For NoHit it returns ok == false
// and no error, so callers can clear their display. Any other index
// outside the field is an error wrapping field.ErrIndexOutOfRange.
func (x *Index) Lookup(face int) (res Result, ok bool, err error) {
	if face == NoHit {
		return Result{}, false, nil
	}
	v, err := x.f.Value(face)
	if err != nil {
		return Result{}, false, fmt.Errorf("inspect: %w", err)
	}
	return Result{
		Face:     face,
		Value:    v,
		Position: x.f.Position(v),
		Unit:     x.unit,
	}, true, nil
}
