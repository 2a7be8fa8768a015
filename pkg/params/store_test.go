package params

import (
	"image/color"
	"math"
	"sync"
	"testing"

	"github.com/chazu/thickview/pkg/colormap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := New()
	p := s.Params()
	assert.Equal(t, colormap.DefaultStart, p.Start)
	assert.Equal(t, colormap.DefaultEnd, p.End)
	assert.Equal(t, 1.0, p.Transparency)
	assert.Equal(t, colormap.ModeContinuous, p.Mode.Kind)
	assert.Equal(t, uint64(0), s.Revision())
}

func TestSetColors(t *testing.T) {
	s := New()
	green := color.NRGBA{G: 255, A: 255}
	gray := color.NRGBA{R: 9, G: 9, B: 9, A: 255}
	s.SetStartColor(green)
	s.SetEndColor(gray)

	p := s.Params()
	assert.Equal(t, green, p.Start)
	assert.Equal(t, gray, p.End)
	assert.Equal(t, uint64(2), s.Revision())
}

func TestSetTransparencyResetsBound(t *testing.T) {
	s := New()
	require.NoError(t, s.SetBound(5))
	assert.Equal(t, colormap.ThresholdMode(5), s.Params().Mode)

	require.NoError(t, s.SetTransparency(0.4))
	p := s.Params()
	assert.Equal(t, colormap.ContinuousMode(), p.Mode)
	assert.Equal(t, 0.4, p.Transparency)
}

func TestSetTransparencyClamps(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.2, 0},
		{0, 0},
		{0.37, 0.37},
		{1, 1},
		{3, 1},
	}
	s := New()
	for _, tt := range tests {
		require.NoError(t, s.SetTransparency(tt.in))
		assert.Equal(t, tt.want, s.Params().Transparency, "SetTransparency(%g)", tt.in)
	}
}

func TestSetBoundZeroDisables(t *testing.T) {
	s := New()
	require.NoError(t, s.SetBound(2))
	require.NoError(t, s.SetBound(0))
	assert.Equal(t, colormap.ContinuousMode(), s.Params().Mode)
}

func TestSetBoundKeepsTransparency(t *testing.T) {
	s := New()
	require.NoError(t, s.SetTransparency(0.3))
	require.NoError(t, s.SetBound(7))
	p := s.Params()
	assert.Equal(t, 0.3, p.Transparency)
	assert.Equal(t, colormap.ThresholdMode(7), p.Mode)
}

func TestRejectsNonFinite(t *testing.T) {
	s := New()
	before := s.Params()

	assert.ErrorIs(t, s.SetTransparency(math.NaN()), ErrInvalidParameter)
	assert.ErrorIs(t, s.SetBound(math.Inf(1)), ErrInvalidParameter)
	assert.ErrorIs(t, s.SetMode(colormap.ThresholdMode(math.NaN())), ErrInvalidParameter)

	bad := colormap.DefaultParams()
	bad.Transparency = math.Inf(-1)
	assert.ErrorIs(t, s.Apply(bad), ErrInvalidParameter)

	assert.Equal(t, before, s.Params())
	assert.Equal(t, uint64(0), s.Revision())
}

func TestApply(t *testing.T) {
	s := New()
	next := colormap.Params{
		Start:        color.NRGBA{R: 1, A: 255},
		End:          color.NRGBA{B: 1, A: 255},
		Transparency: 2,
		Mode:         colormap.ThresholdMode(0.5),
	}
	require.NoError(t, s.Apply(next))
	got := s.Params()
	assert.Equal(t, 1.0, got.Transparency)
	assert.Equal(t, next.Mode, got.Mode)
	assert.Equal(t, next.Start, got.Start)
	assert.Equal(t, uint64(1), s.Revision())
}

func TestConcurrentSetters(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.SetTransparency(float64(j) / 100)
				s.SetStartColor(color.NRGBA{R: uint8(i), A: 255})
				_ = s.Params()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, uint64(8*200), s.Revision())
}

func TestNewWithValidates(t *testing.T) {
	tests := []struct {
		name string
		edit func(p *colormap.Params)
	}{
		{"nan transparency", func(p *colormap.Params) { p.Transparency = math.NaN() }},
		{"inf transparency", func(p *colormap.Params) { p.Transparency = math.Inf(1) }},
		{"inf bound", func(p *colormap.Params) { p.Mode = colormap.ThresholdMode(math.Inf(1)) }},
		{"nan bound", func(p *colormap.Params) { p.Mode = colormap.ThresholdMode(math.NaN()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := colormap.DefaultParams()
			tt.edit(&p)
			s, err := NewWith(p)
			assert.ErrorIs(t, err, ErrInvalidParameter)
			assert.Nil(t, s)
		})
	}

	p := colormap.DefaultParams()
	p.Transparency = -3
	s, err := NewWith(p)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Params().Transparency)
}
