// Package kernel defines the abstract geometry kernel used to build
// sample parts. A solid answers signed distance queries so per-face wall
// thickness can be measured against it, and tessellates into a Mesh whose
// triangles are the faces a thickness field is indexed by.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// Distance returns the signed distance from p to the surface:
	// negative inside, positive outside.
	Distance(p [3]float64) float64
}

// Kernel builds solids and tessellates them.
type Kernel interface {
	// Primitives, centered on the origin.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid

	// ToMesh tessellates s. cells is the marching cubes resolution along
	// the longest axis; zero picks the kernel default.
	ToMesh(s Solid, cells int) (*Mesh, error)
}
