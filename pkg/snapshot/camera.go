package snapshot

import (
	"fmt"
	"image/color"

	"github.com/chazu/thickview/pkg/config"
	"github.com/fogleman/fauxgl"
)

// Camera describes the view. Positions are in the bi-unit cube the scene
// is normalized into.
type Camera struct {
	Eye, Center, Up [3]float64
	Fovy            float64 // vertical field of view in degrees
	Near, Far       float64
	Width, Height   int
	Supersample     int // render at this multiple, then downsample
	Background      color.NRGBA
}

// DefaultCamera is an iso view from above.
func DefaultCamera() Camera {
	return CameraFromConfig(config.Default().Camera)
}

// CameraFromConfig converts the camera section of a config file.
func CameraFromConfig(c config.Camera) Camera {
	return Camera{
		Eye:         c.Eye,
		Center:      c.Center,
		Up:          c.Up,
		Fovy:        c.Fovy,
		Near:        0.1,
		Far:         100,
		Width:       c.Width,
		Height:      c.Height,
		Supersample: c.Supersample,
		Background:  color.NRGBA{R: 0xff, G: 0xf8, B: 0xe3, A: 0xff},
	}
}

func (c Camera) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("snapshot: image size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Supersample < 1 {
		return fmt.Errorf("snapshot: supersample %d must be at least 1", c.Supersample)
	}
	if c.Eye == c.Center {
		return fmt.Errorf("snapshot: eye and center coincide")
	}
	return nil
}

func (c Camera) matrix() fauxgl.Matrix {
	aspect := float64(c.Width) / float64(c.Height)
	return fauxgl.LookAt(vec(c.Eye), vec(c.Center), vec(c.Up)).Perspective(c.Fovy, aspect, c.Near, c.Far)
}

// headlight points from the scene toward the eye.
func (c Camera) headlight() fauxgl.Vector {
	return vec(c.Eye).Sub(vec(c.Center)).Normalize()
}

func vec(v [3]float64) fauxgl.Vector {
	return fauxgl.V(v[0], v[1], v[2])
}
