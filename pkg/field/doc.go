// Package field holds per-face scalar measurements ("thickness") for a
// mesh. A Field is immutable once built: a new measurement file produces
// a new Field, it is never patched in place.
//
// Face i of the mesh is described by value i of the field. The field does
// not know the mesh, so keeping the two aligned is the caller's job.
package field
