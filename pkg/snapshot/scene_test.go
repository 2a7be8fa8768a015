package snapshot

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/thickview/pkg/colormap"
	"github.com/chazu/thickview/pkg/inspect"
	"github.com/chazu/thickview/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoPanels builds two rectangles in the z=0 plane facing +z, split by a
// gap at x=0. Faces 0 and 1 are the left panel, 2 and 3 the right one.
func twoPanels() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{
			-1, -1, 0, -0.1, -1, 0, -0.1, 1, 0, -1, 1, 0,
			0.1, -1, 0, 1, -1, 0, 1, 1, 0, 0.1, 1, 0,
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4},
	}
}

func topCamera() Camera {
	c := DefaultCamera()
	c.Eye = [3]float64{0, 0, 4}
	c.Center = [3]float64{0, 0, 0}
	c.Up = [3]float64{0, 1, 0}
	c.Width, c.Height = 64, 64
	c.Supersample = 2
	return c
}

func panelScene(t *testing.T) *Scene {
	t.Helper()
	m, err := FromKernel(twoPanels())
	require.NoError(t, err)
	s := NewScene(m)
	require.NoError(t, s.SetCamera(topCamera()))
	return s
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestPick(t *testing.T) {
	s := panelScene(t)
	require.Equal(t, 4, s.FaceCount())

	left, err := s.Pick(16, 32)
	require.NoError(t, err)
	assert.Contains(t, []int{0, 1}, left)

	right, err := s.Pick(48, 32)
	require.NoError(t, err)
	assert.Contains(t, []int{2, 3}, right)

	gap, err := s.Pick(32, 32)
	require.NoError(t, err)
	assert.Equal(t, inspect.NoHit, gap)

	corner, err := s.Pick(0, 0)
	require.NoError(t, err)
	assert.Equal(t, inspect.NoHit, corner)
}

func TestPickOutOfBounds(t *testing.T) {
	s := panelScene(t)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {64, 0}, {0, 64}} {
		_, err := s.Pick(p[0], p[1])
		assert.ErrorIs(t, err, ErrOutOfBounds, "pixel %v", p)
	}
}

func TestPickIgnoresColors(t *testing.T) {
	s := panelScene(t)
	require.NoError(t, s.SetFaceColors(colormap.Buffer{{}, {}, {}, {}}))
	got, err := s.Pick(48, 32)
	require.NoError(t, err)
	assert.Contains(t, []int{2, 3}, got)
}

func TestRenderFaceColors(t *testing.T) {
	s := panelScene(t)
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	require.NoError(t, s.SetFaceColors(colormap.Buffer{red, red, blue, blue}))

	img, err := s.Render()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())

	l := nrgbaAt(img, 16, 32)
	assert.Greater(t, int(l.R), 200)
	assert.Less(t, int(l.B), 50)

	r := nrgbaAt(img, 48, 32)
	assert.Greater(t, int(r.B), 200)
	assert.Less(t, int(r.R), 50)

	bg := topCamera().Background
	assert.Equal(t, bg, nrgbaAt(img, 0, 0))
}

func TestRenderSkipsInvisibleFaces(t *testing.T) {
	s := panelScene(t)
	red := color.NRGBA{R: 255, A: 255}
	hidden := color.NRGBA{B: 255, A: 0}
	require.NoError(t, s.SetFaceColors(colormap.Buffer{red, red, hidden, hidden}))

	img, err := s.Render()
	require.NoError(t, err)
	assert.Equal(t, topCamera().Background, nrgbaAt(img, 48, 32))
}

func TestRenderBlendsTranslucentFaces(t *testing.T) {
	s := panelScene(t)
	faint := color.NRGBA{R: 255, A: 100}
	require.NoError(t, s.SetFaceColors(colormap.Buffer{faint, faint, faint, faint}))

	img, err := s.Render()
	require.NoError(t, err)
	px := nrgbaAt(img, 16, 32)
	bg := topCamera().Background
	// Blending red over the light background keeps some of its green.
	assert.Greater(t, int(px.G), 0)
	assert.Less(t, int(px.G), int(bg.G))
}

func TestSetFaceColorsLength(t *testing.T) {
	s := panelScene(t)
	err := s.SetFaceColors(colormap.Buffer{{A: 255}})
	assert.ErrorIs(t, err, ErrFaceCount)
	assert.NoError(t, s.SetFaceColors(nil), "empty buffer resets to the base color")
}

func TestSetFaceColorsMismatchClearsColors(t *testing.T) {
	s := panelScene(t)
	red := color.NRGBA{R: 255, A: 255}
	require.NoError(t, s.SetFaceColors(colormap.Buffer{red, red, red, red}))

	err := s.SetFaceColors(colormap.Buffer{red, red, red})
	require.ErrorIs(t, err, ErrFaceCount)

	img, err := s.Render()
	require.NoError(t, err)
	px := nrgbaAt(img, 16, 32)
	assert.Greater(t, int(px.G), int(px.R), "left panel falls back to the base color, got %v", px)
}

func TestSetCameraValidates(t *testing.T) {
	s := panelScene(t)
	c := topCamera()
	c.Width = 0
	assert.Error(t, s.SetCamera(c))

	c = topCamera()
	c.Eye = c.Center
	assert.Error(t, s.SetCamera(c))

	assert.Equal(t, 64, s.Camera().Width, "rejected camera leaves the old one")
}

func TestEncodeDecodeID(t *testing.T) {
	for _, id := range []int{0, 1, 254, 255, 256, 65535, 70000, maxPickFaces - 1} {
		c := encodeID(id).NRGBA()
		assert.Equal(t, id, decodeID(c.R, c.G, c.B), "id %d", id)
	}
	assert.Equal(t, inspect.NoHit, decodeID(0, 0, 0))
}

func TestSaveAndLoadSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.stl")
	require.NoError(t, SaveSTL(path, twoPanels()))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, s.FaceCount())

	_, err = Load(filepath.Join(t.TempDir(), "panels.ply"))
	assert.Error(t, err)
}

func TestSavePNG(t *testing.T) {
	s := panelScene(t)
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, s.SavePNG(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFromKernelBadMesh(t *testing.T) {
	_, err := FromKernel(&kernel.Mesh{Indices: []uint32{0, 1, 2}})
	assert.Error(t, err)
}

func TestGeometry(t *testing.T) {
	s := panelScene(t)
	g := s.Geometry()
	require.Len(t, g, 4*9)
	// The panels already span the bi-unit square, so corners are unchanged.
	assert.InDelta(t, -1.0, g[0], 1e-6)
	assert.InDelta(t, -1.0, g[1], 1e-6)
	assert.InDelta(t, 0.0, g[2], 1e-6)
}
