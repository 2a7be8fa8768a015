package colormap

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Default gradient endpoints.
var (
	DefaultStart = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	DefaultEnd   = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
)

// ParseHex parses "#rrggbb" or "#rgb" (the leading '#' is optional) into
// an opaque color.
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustParseHex is like ParseHex but panics on error.
func MustParseHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the RGB channels of c as "#rrggbb". Alpha is dropped.
func Hex(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
