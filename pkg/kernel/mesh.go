package kernel

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Triangle i is face i of any thickness field measured on the mesh.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle returns the corners of face i.
func (m *Mesh) Triangle(i int) ([3][3]float32, error) {
	var tri [3][3]float32
	if i < 0 || i >= m.TriangleCount() {
		return tri, fmt.Errorf("face %d out of range [0, %d)", i, m.TriangleCount())
	}
	for c := 0; c < 3; c++ {
		v := int(m.Indices[i*3+c])
		if v*3+2 >= len(m.Vertices) {
			return tri, fmt.Errorf("face %d references vertex %d of %d", i, v, m.VertexCount())
		}
		tri[c] = [3]float32{m.Vertices[v*3], m.Vertices[v*3+1], m.Vertices[v*3+2]}
	}
	return tri, nil
}

// Centroid returns the center of face i.
func (m *Mesh) Centroid(i int) ([3]float32, error) {
	tri, err := m.Triangle(i)
	if err != nil {
		return [3]float32{}, err
	}
	var c [3]float32
	for k := 0; k < 3; k++ {
		c[k] = (tri[0][k] + tri[1][k] + tri[2][k]) / 3
	}
	return c, nil
}

// FaceNormal returns the unit normal of face i from its winding order.
// Degenerate faces yield the zero vector.
func (m *Mesh) FaceNormal(i int) ([3]float32, error) {
	tri, err := m.Triangle(i)
	if err != nil {
		return [3]float32{}, err
	}
	n := cross(sub(tri[1], tri[0]), sub(tri[2], tri[0]))
	l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l == 0 {
		return [3]float32{}, nil
	}
	return [3]float32{n[0] / l, n[1] / l, n[2] / l}, nil
}

// Area returns the area of face i.
func (m *Mesh) Area(i int) (float32, error) {
	tri, err := m.Triangle(i)
	if err != nil {
		return 0, err
	}
	n := cross(sub(tri[1], tri[0]), sub(tri[2], tri[0]))
	return math32.Sqrt(n[0]*n[0]+n[1]*n[1]+n[2]*n[2]) / 2, nil
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
