// Package params holds the user-tunable visualization parameters.
//
// The store only records state. Whoever owns it decides when a change is
// pushed through the color mapper (see package viewer).
package params

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/chazu/thickview/pkg/colormap"
)

// ErrInvalidParameter is returned for NaN or infinite inputs.
var ErrInvalidParameter = errors.New("invalid parameter")

// Store is a mutex-guarded colormap.Params. The zero value is not usable;
// call New.
type Store struct {
	mu       sync.Mutex
	p        colormap.Params
	revision uint64
}

// New returns a store seeded with colormap.DefaultParams.
func New() *Store {
	return &Store{p: colormap.DefaultParams()}
}

// NewWith returns a store seeded with p. Transparency is clamped like in
// SetTransparency; non-finite values are rejected like in Apply.
func NewWith(p colormap.Params) (*Store, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	p.Transparency = clampUnit(p.Transparency)
	return &Store{p: p}, nil
}

// Params returns a snapshot of the current parameters.
func (s *Store) Params() colormap.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p
}

// Revision counts accepted changes since the store was created.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// SetStartColor sets the gradient start color.
func (s *Store) SetStartColor(c color.NRGBA) {
	s.update(func(p *colormap.Params) { p.Start = c })
}

// SetEndColor sets the gradient end color.
func (s *Store) SetEndColor(c color.NRGBA) {
	s.update(func(p *colormap.Params) { p.End = c })
}

// SetTransparency sets the visibility cutoff, clamped to [0, 1]. It also
// switches back to continuous mode: moving the cutoff slider disables
// the threshold.
func (s *Store) SetTransparency(t float64) error {
	if !finite(t) {
		return fmt.Errorf("transparency %v: %w", t, ErrInvalidParameter)
	}
	s.update(func(p *colormap.Params) {
		p.Transparency = clampUnit(t)
		p.Mode = colormap.ContinuousMode()
	})
	return nil
}

// SetBound sets the threshold bound in raw field units. A bound of 0
// turns threshold mode off.
func (s *Store) SetBound(b float64) error {
	if !finite(b) {
		return fmt.Errorf("bound %v: %w", b, ErrInvalidParameter)
	}
	s.update(func(p *colormap.Params) { p.Mode = colormap.ModeForBound(b) })
	return nil
}

// SetMode sets the mapping mode directly.
func (s *Store) SetMode(m colormap.Mode) error {
	if m.Kind == colormap.ModeThreshold && !finite(m.Bound) {
		return fmt.Errorf("bound %v: %w", m.Bound, ErrInvalidParameter)
	}
	s.update(func(p *colormap.Params) { p.Mode = m })
	return nil
}

// Apply replaces every parameter at once and counts as a single change.
func (s *Store) Apply(next colormap.Params) error {
	if err := check(next); err != nil {
		return err
	}
	next.Transparency = clampUnit(next.Transparency)
	s.update(func(p *colormap.Params) { *p = next })
	return nil
}

func (s *Store) update(fn func(p *colormap.Params)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.p)
	s.revision++
}

// check rejects parameters no setter would accept.
func check(p colormap.Params) error {
	if !finite(p.Transparency) {
		return fmt.Errorf("transparency %v: %w", p.Transparency, ErrInvalidParameter)
	}
	if p.Mode.Kind == colormap.ModeThreshold && !finite(p.Mode.Bound) {
		return fmt.Errorf("bound %v: %w", p.Mode.Bound, ErrInvalidParameter)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampUnit(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
