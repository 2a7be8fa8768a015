// Package report summarizes a thickness field: distribution statistics
// and a histogram image.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"

	"github.com/chazu/thickview/pkg/field"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrEmpty is returned when there is nothing to plot.
var ErrEmpty = errors.New("report: empty field")

// Summary describes a field's distribution.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Median float64 `json:"median"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`
}

// Summarize computes the distribution of f. An empty field gives a zero
// Summary.
func Summarize(f *field.Field) Summary {
	if f == nil || f.IsEmpty() {
		return Summary{}
	}
	v := f.Values()
	sort.Float64s(v)
	mean, sd := stat.MeanStdDev(v, nil)
	if len(v) == 1 {
		sd = 0
	}
	return Summary{
		Count:  len(v),
		Min:    f.Min(),
		Max:    f.Max(),
		Mean:   mean,
		StdDev: sd,
		Median: stat.Quantile(0.5, stat.Empirical, v, nil),
		P05:    stat.Quantile(0.05, stat.Empirical, v, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, v, nil),
	}
}

// CountAtOrBelow returns how many values are <= bound; these are the
// faces threshold mode paints with the end color.
func CountAtOrBelow(f *field.Field, bound float64) int {
	if f == nil {
		return 0
	}
	n := 0
	for _, v := range f.Values() {
		if v <= bound {
			n++
		}
	}
	return n
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d min=%g max=%g mean=%.4g sd=%.4g median=%g p05=%g p95=%g",
		s.Count, s.Min, s.Max, s.Mean, s.StdDev, s.Median, s.P05, s.P95)
}

// HistogramOptions controls the histogram image.
type HistogramOptions struct {
	Bins          int
	Title         string
	Unit          string
	Fill          color.Color
	Width, Height vg.Length
	// Bound, when non-zero, is drawn as a vertical marker.
	Bound float64
}

// DefaultHistogramOptions returns a 4x3 inch, 20 bin histogram.
func DefaultHistogramOptions() HistogramOptions {
	return HistogramOptions{
		Bins:   20,
		Title:  "Wall thickness",
		Unit:   "mm",
		Fill:   color.NRGBA{R: 0x46, G: 0x89, B: 0x66, A: 0xff},
		Width:  4 * vg.Inch,
		Height: 3 * vg.Inch,
	}
}

// Histogram plots the distribution of f.
func Histogram(f *field.Field, opts HistogramOptions) (*plot.Plot, error) {
	if f == nil || f.IsEmpty() {
		return nil, ErrEmpty
	}
	if opts.Bins <= 0 {
		return nil, fmt.Errorf("report: bins must be positive, got %d", opts.Bins)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "thickness"
	if opts.Unit != "" {
		p.X.Label.Text += " (" + opts.Unit + ")"
	}
	p.Y.Label.Text = "faces"

	h, err := plotter.NewHist(plotter.Values(f.Values()), opts.Bins)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	if opts.Fill != nil {
		h.FillColor = opts.Fill
	}
	p.Add(h)

	if opts.Bound != 0 {
		top := 0.0
		for _, b := range h.Bins {
			if b.Weight > top {
				top = b.Weight
			}
		}
		l, err := plotter.NewLine(plotter.XYs{{X: opts.Bound, Y: 0}, {X: opts.Bound, Y: top}})
		if err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
		l.Color = color.NRGBA{R: 0xff, A: 0xff}
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("bound %g", opts.Bound), l)
	}
	return p, nil
}

// WriteHistogram renders the histogram of f as an image. format is any
// extension gonum/plot understands: png, svg, pdf, ...
func WriteHistogram(w io.Writer, f *field.Field, opts HistogramOptions, format string) error {
	p, err := Histogram(f, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveHistogram writes the histogram to path; the format follows the
// file extension.
func SaveHistogram(path string, f *field.Field, opts HistogramOptions) error {
	p, err := Histogram(f, opts)
	if err != nil {
		return err
	}
	return p.Save(opts.Width, opts.Height, path)
}
