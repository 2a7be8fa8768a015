// Package measure computes per-face wall thickness of a solid.
//
// For every triangle of a mesh tessellated from the solid, a ray is cast
// from the face centroid along the inward normal and sphere traced
// through the signed distance field until it leaves the material. The
// distance travelled is the face's thickness. The result is a scalar
// field indexed like the mesh triangles.
package measure

import (
	"context"
	"fmt"
	"math"

	"github.com/chazu/thickview/pkg/field"
	"github.com/chazu/thickview/pkg/kernel"
)

// Options tunes the ray march. Zero values pick defaults scaled to the
// solid's bounding box.
type Options struct {
	// Epsilon is the surface tolerance and initial offset into the solid.
	Epsilon float64
	// MinStep is the smallest advance per iteration.
	MinStep float64
	// MaxSteps bounds the iterations per face.
	MaxSteps int
}

const defaultMaxSteps = 512

// ctxCheckEvery is how many faces are measured between context checks.
const ctxCheckEvery = 256

func (o Options) withDefaults(diag float64) Options {
	if o.Epsilon <= 0 {
		o.Epsilon = diag * 1e-5
	}
	if o.MinStep <= 0 {
		o.MinStep = o.Epsilon / 2
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = defaultMaxSteps
	}
	return o
}

// Thickness measures every face of m against s. Faces whose ray never
// leaves the solid within the bounding box diagonal, and degenerate
// faces, measure 0.
func Thickness(ctx context.Context, s kernel.Solid, m *kernel.Mesh, opts Options) ([]float64, error) {
	lo, hi := s.BoundingBox()
	diag := math.Sqrt(sq(hi[0]-lo[0]) + sq(hi[1]-lo[1]) + sq(hi[2]-lo[2]))
	opts = opts.withDefaults(diag)

	n := m.TriangleCount()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		c, err := m.Centroid(i)
		if err != nil {
			return nil, fmt.Errorf("measure: %w", err)
		}
		nrm, err := m.FaceNormal(i)
		if err != nil {
			return nil, fmt.Errorf("measure: %w", err)
		}
		out[i] = march(s, c, nrm, diag, opts)
	}
	return out, nil
}

// Field measures m against s and wraps the result as a scalar field.
func Field(ctx context.Context, s kernel.Solid, m *kernel.Mesh, opts Options) (*field.Field, error) {
	values, err := Thickness(ctx, s, m, opts)
	if err != nil {
		return nil, err
	}
	return field.New(values), nil
}

// march traces from c along -n until the field turns positive. A zero n
// is what kernel.Mesh.FaceNormal reports for a degenerate face.
func march(s kernel.Solid, c, n [3]float32, limit float64, o Options) float64 {
	if n == ([3]float32{}) {
		return 0
	}
	dir := [3]float64{-float64(n[0]), -float64(n[1]), -float64(n[2])}
	origin := [3]float64{float64(c[0]), float64(c[1]), float64(c[2])}

	t := o.Epsilon
	for step := 0; step < o.MaxSteps && t <= limit; step++ {
		p := [3]float64{
			origin[0] + dir[0]*t,
			origin[1] + dir[1]*t,
			origin[2] + dir[2]*t,
		}
		d := s.Distance(p)
		if d >= -o.Epsilon && t > 2*o.Epsilon {
			return t
		}
		t += math.Max(math.Abs(d), o.MinStep)
	}
	return 0
}

func sq(v float64) float64 { return v * v }
