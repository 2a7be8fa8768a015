// Package snapshot renders a face-colored mesh headlessly with fauxgl.
//
// A Scene implements the viewer's Renderer and Picker: it receives one
// color per triangle, rasterizes them to an image, and resolves a pixel
// back to the triangle drawn there. Triangle order is the face order of
// the thickness field, so OBJ input must already be triangulated.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chazu/thickview/pkg/colormap"
	"github.com/chazu/thickview/pkg/inspect"
	"github.com/chazu/thickview/pkg/kernel"
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
)

// ErrFaceCount is returned when a color buffer does not match the mesh.
var ErrFaceCount = errors.New("color count does not match face count")

// ErrOutOfBounds is returned by Pick for pixels outside the image.
var ErrOutOfBounds = errors.New("pixel outside image")

// ambient is the light level of faces turned away from the camera.
const ambient = 0.3

// baseColor is used for every face until colors are set.
var baseColor = fauxgl.HexColor("#468966")

// Scene is a mesh plus the face colors and camera used to draw it.
// It is safe for concurrent use.
type Scene struct {
	mu     sync.Mutex
	tris   []*fauxgl.Triangle
	colors colormap.Buffer
	cam    Camera

	// ids caches the last pick render; nil after a camera change.
	ids *image.NRGBA
}

// Load reads an STL or OBJ file, chosen by extension.
func Load(path string) (*Scene, error) {
	var (
		m   *fauxgl.Mesh
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		m, err = fauxgl.LoadSTL(path)
	case ".obj":
		m, err = fauxgl.LoadOBJ(path)
	default:
		return nil, fmt.Errorf("snapshot: unsupported mesh format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: load %s: %w", path, err)
	}
	return NewScene(m), nil
}

// NewScene takes ownership of m and fits it into the bi-unit cube.
func NewScene(m *fauxgl.Mesh) *Scene {
	if len(m.Triangles) > 0 {
		m.BiUnitCube()
	}
	for _, t := range m.Triangles {
		n := t.Normal()
		t.V1.Normal, t.V2.Normal, t.V3.Normal = n, n, n
	}
	return &Scene{tris: m.Triangles, cam: DefaultCamera()}
}

// FromKernel converts a kernel mesh to a fauxgl mesh, one triangle per
// face in the same order.
func FromKernel(km *kernel.Mesh) (*fauxgl.Mesh, error) {
	tris := make([]*fauxgl.Triangle, 0, km.TriangleCount())
	for i := 0; i < km.TriangleCount(); i++ {
		t, err := km.Triangle(i)
		if err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		tris = append(tris, fauxgl.NewTriangleForPoints(v32(t[0]), v32(t[1]), v32(t[2])))
	}
	return fauxgl.NewTriangleMesh(tris), nil
}

// SaveSTL writes a kernel mesh as a binary STL file.
func SaveSTL(path string, km *kernel.Mesh) error {
	m, err := FromKernel(km)
	if err != nil {
		return err
	}
	if err := fauxgl.SaveSTL(path, m); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", path, err)
	}
	return nil
}

func v32(p [3]float32) fauxgl.Vector {
	return fauxgl.V(float64(p[0]), float64(p[1]), float64(p[2]))
}

// FaceCount returns the number of triangles.
func (s *Scene) FaceCount() int {
	return len(s.tris)
}

// Geometry returns the normalized corner positions, nine floats per face.
func (s *Scene) Geometry() []float32 {
	out := make([]float32, 0, len(s.tris)*9)
	for _, t := range s.tris {
		for _, v := range []fauxgl.Vertex{t.V1, t.V2, t.V3} {
			out = append(out, float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z))
		}
	}
	return out
}

// Camera returns the current camera.
func (s *Scene) Camera() Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam
}

// SetCamera replaces the camera.
func (s *Scene) SetCamera(c Camera) error {
	if err := c.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = c
	s.ids = nil
	return nil
}

// SetFaceColors stores one color per face. An empty buffer restores the
// base color; any other length must match FaceCount. A mismatched buffer
// also restores the base color, so the scene never shows colors from a
// field that is no longer loaded.
func (s *Scene) SetFaceColors(buf colormap.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(buf) != 0 && len(buf) != len(s.tris) {
		s.colors = nil
		return fmt.Errorf("snapshot: %w: %d colors for %d faces", ErrFaceCount, len(buf), len(s.tris))
	}
	s.colors = append(colormap.Buffer(nil), buf...)
	return nil
}

// Render draws the scene. Faces with zero alpha are not drawn; partially
// transparent faces are blended over the opaque ones.
func (s *Scene) Render() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cam := s.cam
	if err := cam.validate(); err != nil {
		return nil, err
	}

	var opaque, blended []*fauxgl.Triangle
	for i, t := range s.tris {
		c := baseColor
		if len(s.colors) > 0 {
			nc := s.colors[i]
			if nc.A == 0 {
				continue
			}
			c = toColor(nc)
		}
		ct := withColor(t, c)
		if c.A < 1 {
			blended = append(blended, ct)
		} else {
			opaque = append(opaque, ct)
		}
	}

	w, h := cam.Width*cam.Supersample, cam.Height*cam.Supersample
	ctx := fauxgl.NewContext(w, h)
	ctx.ClearColorBufferWith(toColor(cam.Background))
	ctx.Shader = &faceShader{matrix: cam.matrix(), light: cam.headlight(), ambient: ambient}
	ctx.AlphaBlend = true
	ctx.DrawTriangles(opaque)
	ctx.DrawTriangles(blended)

	img := ctx.Image()
	if cam.Supersample > 1 {
		img = resize.Resize(uint(cam.Width), uint(cam.Height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePNG renders the scene to a PNG file.
func (s *Scene) SavePNG(path string) error {
	img, err := s.Render()
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

// Pick returns the face drawn at pixel (x, y) of the output image, or
// inspect.NoHit for background. Picking follows geometry only, so a face
// hidden by a zero alpha color can still be picked.
func (s *Scene) Pick(x, y int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cam := s.cam
	if x < 0 || y < 0 || x >= cam.Width || y >= cam.Height {
		return inspect.NoHit, fmt.Errorf("snapshot: %w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, cam.Width, cam.Height)
	}
	if len(s.tris) > maxPickFaces {
		return inspect.NoHit, fmt.Errorf("snapshot: %d faces exceed the pick limit %d", len(s.tris), maxPickFaces)
	}
	if s.ids == nil {
		if err := cam.validate(); err != nil {
			return inspect.NoHit, err
		}
		s.ids = s.renderIDs(cam)
	}
	c := s.ids.NRGBAAt(x, y)
	if c.A == 0 {
		return inspect.NoHit, nil
	}
	id := decodeID(c.R, c.G, c.B)
	if id < 0 || id >= len(s.tris) {
		return inspect.NoHit, nil
	}
	return id, nil
}

func (s *Scene) renderIDs(cam Camera) *image.NRGBA {
	tris := make([]*fauxgl.Triangle, len(s.tris))
	for i, t := range s.tris {
		tris[i] = withColor(t, encodeID(i))
	}
	ctx := fauxgl.NewContext(cam.Width, cam.Height)
	ctx.ClearColorBufferWith(fauxgl.Color{})
	ctx.Shader = &idShader{matrix: cam.matrix()}
	ctx.AlphaBlend = false
	ctx.DrawTriangles(tris)

	img := ctx.Image()
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	out := image.NewNRGBA(img.Bounds())
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			out.SetNRGBA(x, y, color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA))
		}
	}
	return out
}

// withColor returns a copy of t with every vertex set to c.
func withColor(t *fauxgl.Triangle, c fauxgl.Color) *fauxgl.Triangle {
	ct := *t
	ct.V1.Color, ct.V2.Color, ct.V3.Color = c, c, c
	return &ct
}

func toColor(c color.NRGBA) fauxgl.Color {
	return fauxgl.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}
