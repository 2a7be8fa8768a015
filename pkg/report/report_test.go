package report

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/thickview/pkg/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	f := field.New([]float64{5, 1, 3, 2, 4})
	s := Summarize(f)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.5811388, s.StdDev, 1e-6)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 1.0, s.P05)
	assert.Equal(t, 5.0, s.P95)
	assert.Contains(t, s.String(), "n=5")

	// The field keeps its order.
	v, err := f.Value(0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestSummarizeEdges(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, Summary{}, Summarize(field.Empty()))

	one := Summarize(field.New([]float64{7}))
	assert.Equal(t, 0.0, one.StdDev)
	assert.Equal(t, 7.0, one.Median)
}

func TestCountAtOrBelow(t *testing.T) {
	f := field.New([]float64{1, 5, 9, 5})
	tests := []struct {
		bound float64
		want  int
	}{
		{0, 0},
		{1, 1},
		{5, 3},
		{100, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountAtOrBelow(f, tt.bound), "bound %g", tt.bound)
	}
	assert.Equal(t, 0, CountAtOrBelow(nil, 1))
}

func TestWriteHistogramPNG(t *testing.T) {
	f := field.New([]float64{0.5, 0.8, 1.1, 1.2, 1.9, 2.4, 2.5, 3.0})
	opts := DefaultHistogramOptions()
	opts.Bins = 4
	opts.Bound = 1.5

	var buf bytes.Buffer
	require.NoError(t, WriteHistogram(&buf, f, opts, "png"))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
	assert.Positive(t, img.Bounds().Dy())
}

func TestHistogramErrors(t *testing.T) {
	_, err := Histogram(field.Empty(), DefaultHistogramOptions())
	assert.ErrorIs(t, err, ErrEmpty)

	opts := DefaultHistogramOptions()
	opts.Bins = 0
	_, err = Histogram(field.New([]float64{1, 2}), opts)
	assert.Error(t, err)

	var buf bytes.Buffer
	err = WriteHistogram(&buf, field.New([]float64{1, 2}), DefaultHistogramOptions(), "bmp-nope")
	assert.Error(t, err)
}

func TestSaveHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist.svg")
	require.NoError(t, SaveHistogram(path, field.New([]float64{1, 2, 3}), DefaultHistogramOptions()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}
