// Package colormap turns a scalar field into one RGBA color per face.
//
// Two modes exist. The continuous mode places each value on a log scale
// between the field's min and max and extrapolates from the start color;
// faces above the transparency cutoff become fully transparent. The
// threshold mode compares raw values against a bound and paints each face
// with one of the two endpoint colors.
//
// Every call produces a fresh buffer; nothing is patched incrementally.
package colormap

import (
	"image/color"
	"math"

	"github.com/chazu/thickview/pkg/field"
)

const (
	// SnapEpsilon is the normalized position below which a face takes the
	// end color's RGB verbatim.
	SnapEpsilon = 9e-6

	// AboveBoundAlpha is the alpha for faces strictly above the bound in
	// threshold mode. Faces at or below it are opaque.
	AboveBoundAlpha = 100
)

// Buffer holds one color per face, index aligned with the field.
type Buffer []color.NRGBA

// Bytes flattens the buffer into R,G,B,A bytes, four per face, the layout
// renderers expect for cell color attributes.
func (b Buffer) Bytes() []byte {
	out := make([]byte, 0, 4*len(b))
	for _, c := range b {
		out = append(out, c.R, c.G, c.B, c.A)
	}
	return out
}

// Len returns the number of faces.
func (b Buffer) Len() int { return len(b) }

// Map colors every face of f according to p.Mode.
func Map(f *field.Field, p Params) Buffer {
	if p.Mode.Kind == ModeThreshold {
		return Threshold(f, p.Mode.Bound, p.Start, p.End)
	}
	return Continuous(f, p.Start, p.End, p.Transparency)
}

// Continuous applies the log gradient to every face of f.
func Continuous(f *field.Field, start, end color.NRGBA, transparency float64) Buffer {
	if f == nil {
		return Buffer{}
	}
	buf := make(Buffer, f.Len())
	for i := range buf {
		u, _ := f.PositionAt(i)
		buf[i] = GradientColor(u, start, end, transparency)
	}
	return buf
}

// GradientColor returns the color of a face at normalized position u.
//
// Each channel is start + (start - end) * u, rounded half up and clamped
// to [0, 255]. The face is opaque when u <= transparency and invisible
// otherwise. Positions under SnapEpsilon use end's RGB.
func GradientColor(u float64, start, end color.NRGBA, transparency float64) color.NRGBA {
	if math.IsNaN(u) || math.IsInf(u, 0) {
		u = 0
	}
	c := color.NRGBA{
		R: extrapolate(start.R, end.R, u),
		G: extrapolate(start.G, end.G, u),
		B: extrapolate(start.B, end.B, u),
	}
	if u <= transparency {
		c.A = 255
	}
	if u < SnapEpsilon {
		c.R, c.G, c.B = end.R, end.G, end.B
	}
	return c
}

func extrapolate(s, e uint8, u float64) uint8 {
	v := math.Floor(float64(s) + (float64(s)-float64(e))*u + 0.5)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// Threshold classifies every face of f against bound: values strictly
// greater than bound take start's RGB with AboveBoundAlpha, the rest take
// end's RGB fully opaque.
func Threshold(f *field.Field, bound float64, start, end color.NRGBA) Buffer {
	if f == nil {
		return Buffer{}
	}
	buf := make(Buffer, f.Len())
	for i := range buf {
		v, _ := f.Value(i)
		buf[i] = ThresholdColor(v, bound, start, end)
	}
	return buf
}

// ThresholdColor returns the threshold-mode color for a raw value.
func ThresholdColor(v, bound float64, start, end color.NRGBA) color.NRGBA {
	if v > bound {
		return color.NRGBA{R: start.R, G: start.G, B: start.B, A: AboveBoundAlpha}
	}
	return color.NRGBA{R: end.R, G: end.G, B: end.B, A: 255}
}
