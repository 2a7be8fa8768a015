package snapshot

import (
	"math"

	"github.com/fogleman/fauxgl"
)

// faceShader shades flat per-face colors with a single directional
// light. Both sides of a face are lit.
type faceShader struct {
	matrix  fauxgl.Matrix
	light   fauxgl.Vector
	ambient float64
}

func (s *faceShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.matrix.MulPositionW(v.Position)
	return v
}

func (s *faceShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	d := math.Abs(v.Normal.Dot(s.light))
	k := s.ambient + (1-s.ambient)*d
	c := v.Color
	return fauxgl.Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}

// idShader writes each vertex color unshaded. Pick renders carry the
// face id encoded in that color.
type idShader struct {
	matrix fauxgl.Matrix
}

func (s *idShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.matrix.MulPositionW(v.Position)
	return v
}

func (s *idShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	return v.Color
}

// maxPickFaces is the number of ids that fit the 24 bit RGB encoding,
// leaving 0 for the background.
const maxPickFaces = 1<<24 - 1

// encodeID maps face i to a color whose 8 bit channels read back as i+1.
// Channels sit at the middle of their quantization step so interpolation
// error cannot push them into a neighbor.
func encodeID(i int) fauxgl.Color {
	id := i + 1
	ch := func(b int) float64 { return (float64(b&0xff) + 0.5) / 255 }
	return fauxgl.Color{R: ch(id >> 16), G: ch(id >> 8), B: ch(id), A: 1}
}

// decodeID is the inverse of encodeID; 0 (the background) yields -1.
func decodeID(r, g, b uint8) int {
	return (int(r)<<16 | int(g)<<8 | int(b)) - 1
}
