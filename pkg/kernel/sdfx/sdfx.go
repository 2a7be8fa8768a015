// Package sdfx builds sample solids with github.com/deadsy/sdfx. Every
// solid is a signed distance function, so the same value that is
// tessellated can be queried for wall thickness afterwards.
package sdfx

import (
	"fmt"

	"github.com/chazu/thickview/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells is the marching cubes resolution along the longest
// axis when ToMesh is called with zero cells.
const defaultMeshCells = 64

// minArea drops slivers marching cubes emits where the surface grazes a
// cell corner. Their normals are meaningless and they measure as zero.
const minArea = 1e-6

type solid struct {
	sdf sdf.SDF3
}

func (s *solid) BoundingBox() (min, max [3]float64) {
	bb := s.sdf.BoundingBox()
	return vec(bb.Min), vec(bb.Max)
}

// Distance evaluates the signed distance field at p.
func (s *solid) Distance(p [3]float64) float64 {
	return s.sdf.Evaluate(v3.Vec{X: p[0], Y: p[1], Z: p[2]})
}

func vec(v v3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// SdfxKernel implements kernel.Kernel. Primitives are centered on the
// origin.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

func of(s kernel.Solid) sdf.SDF3 {
	return s.(*solid).sdf
}

// must panics on constructor errors. sdfx only rejects non-positive
// dimensions, which are programming errors in the sample shapes.
func must(name string, s sdf.SDF3, err error) kernel.Solid {
	if err != nil {
		panic(fmt.Sprintf("sdfx.%s: %v", name, err))
	}
	return &solid{sdf: s}
}

func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	return must("Box3D", s, err)
}

// Cylinder is aligned with Z.
func (k *SdfxKernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	return must("Cylinder3D", s, err)
}

func (k *SdfxKernel) Sphere(radius float64) kernel.Solid {
	s, err := sdf.Sphere3D(radius)
	return must("Sphere3D", s, err)
}

func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return &solid{sdf: sdf.Union3D(of(a), of(b))}
}

// Difference returns a minus b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return &solid{sdf: sdf.Difference3D(of(a), of(b))}
}

func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return &solid{sdf: sdf.Transform3D(of(s), sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))}
}

// ToMesh tessellates s with uniform marching cubes. Vertices are not
// shared, so face i owns vertices 3i..3i+2 and its flat normal.
func (k *SdfxKernel) ToMesh(s kernel.Solid, cells int) (*kernel.Mesh, error) {
	switch {
	case cells < 0:
		return nil, fmt.Errorf("sdfx: negative mesh resolution %d", cells)
	case cells == 0:
		cells = defaultMeshCells
	}

	tris := render.ToTriangles(of(s), render.NewMarchingCubesUniform(cells))
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, len(tris)*9),
		Normals:  make([]float32, 0, len(tris)*9),
		Indices:  make([]uint32, 0, len(tris)*3),
	}
	for _, t := range tris {
		cross := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
		if cross.Length()/2 < minArea {
			continue
		}
		n := cross.Normalize()
		base := uint32(m.VertexCount())
		for j, p := range t {
			m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, base+uint32(j))
		}
	}
	if m.IsEmpty() {
		return nil, fmt.Errorf("sdfx: solid produced no triangles at %d cells", cells)
	}
	return m, nil
}
