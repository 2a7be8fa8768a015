// Package viewer owns the current scalar field and visualization
// parameters and pushes a freshly mapped color buffer to a renderer
// whenever either changes.
//
// The sequence is always explicit: a setter updates the parameter store,
// then Refresh maps the whole field and hands the buffer to the renderer.
// There is no background scheduling.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"sync"
	"sync/atomic"

	"github.com/chazu/thickview/pkg/colormap"
	"github.com/chazu/thickview/pkg/field"
	"github.com/chazu/thickview/pkg/inspect"
	"github.com/chazu/thickview/pkg/params"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// ErrNoPicker is returned by PickAt when the renderer cannot pick.
var ErrNoPicker = errors.New("renderer does not support picking")

// Renderer receives per-face colors. It is the external collaborator
// that owns the mesh, the camera and the display.
type Renderer interface {
	SetFaceColors(buf colormap.Buffer) error
}

// Picker is implemented by renderers that can resolve a screen position
// to a face index, or inspect.NoHit.
type Picker interface {
	Pick(x, y int) (int, error)
}

// Controller ties a field, a parameter store and a renderer together.
// It is safe for concurrent use.
type Controller struct {
	mu       sync.Mutex // serializes refreshes
	field    atomic.Pointer[field.Field]
	store    *params.Store
	renderer Renderer
	log      logger.Logger
	unit     string
	last     colormap.Buffer
}

// Option configures a Controller.
type Option func(*Controller)

// WithStore uses s instead of a store with default parameters.
func WithStore(s *params.Store) Option {
	return func(c *Controller) { c.store = s }
}

// WithUnit sets the unit label used for inspection results.
func WithUnit(unit string) Option {
	return func(c *Controller) { c.unit = unit }
}

// New creates a controller with an empty field. A nil renderer discards
// buffers; a nil log discards messages.
func New(r Renderer, log logger.Logger, opts ...Option) *Controller {
	if r == nil {
		r = discard{}
	}
	if log == nil {
		log = nopLogger{}
	}
	c := &Controller{
		store:    params.New(),
		renderer: r,
		log:      log,
		unit:     inspect.DefaultUnit,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.field.Store(field.Empty())
	return c
}

// Field returns the currently published field. It is never nil.
func (c *Controller) Field() *field.Field {
	return c.field.Load()
}

// Params returns a snapshot of the current parameters.
func (c *Controller) Params() colormap.Params {
	return c.store.Params()
}

// Store exposes the parameter store.
func (c *Controller) Store() *params.Store {
	return c.store
}

// Buffer returns a copy of the most recently published buffer.
func (c *Controller) Buffer() colormap.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(colormap.Buffer(nil), c.last...)
}

// Load parses a measurement source and publishes it. The new field only
// becomes visible once parsing has fully succeeded. On failure the empty
// field is published instead and the parse error is returned.
func (c *Controller) Load(ctx context.Context, r io.Reader) error {
	f, err := field.Parse(ctx, r)
	return c.publishLoaded(f, err)
}

// LoadFile is Load for a file on disk.
func (c *Controller) LoadFile(ctx context.Context, path string) error {
	f, err := field.Load(ctx, path)
	return c.publishLoaded(f, err)
}

func (c *Controller) publishLoaded(f *field.Field, err error) error {
	if err != nil {
		c.log.Error(fmt.Sprintf("load measurements: %v", err))
		if rerr := c.SetField(field.Empty()); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	c.log.Info(fmt.Sprintf("loaded %d faces, min %g, max %g", f.Len(), f.Min(), f.Max()))
	return c.SetField(f)
}

// SetField publishes f and refreshes. A nil f is treated as empty.
func (c *Controller) SetField(f *field.Field) error {
	if f == nil {
		f = field.Empty()
	}
	c.field.Store(f)
	return c.Refresh()
}

// SetStartColor updates the gradient start color and refreshes.
func (c *Controller) SetStartColor(col color.NRGBA) error {
	c.store.SetStartColor(col)
	return c.Refresh()
}

// SetEndColor updates the gradient end color and refreshes.
func (c *Controller) SetEndColor(col color.NRGBA) error {
	c.store.SetEndColor(col)
	return c.Refresh()
}

// SetTransparency updates the cutoff, leaves threshold mode, and refreshes.
func (c *Controller) SetTransparency(t float64) error {
	if err := c.store.SetTransparency(t); err != nil {
		return err
	}
	return c.Refresh()
}

// SetBound updates the threshold bound and refreshes. 0 disables it.
func (c *Controller) SetBound(b float64) error {
	if err := c.store.SetBound(b); err != nil {
		return err
	}
	return c.Refresh()
}

// SetMode switches the mapping mode and refreshes.
func (c *Controller) SetMode(m colormap.Mode) error {
	if err := c.store.SetMode(m); err != nil {
		return err
	}
	return c.Refresh()
}

// ApplyParams replaces all parameters and refreshes once.
func (c *Controller) ApplyParams(p colormap.Params) error {
	if err := c.store.Apply(p); err != nil {
		return err
	}
	return c.Refresh()
}

// Refresh maps the current field with the current parameters and hands
// the result to the renderer.
func (c *Controller) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := c.field.Load()
	p := c.store.Params()
	buf := colormap.Map(f, p)
	c.last = buf
	if err := c.renderer.SetFaceColors(buf); err != nil {
		c.log.Warning(fmt.Sprintf("publish face colors: %v", err))
		return fmt.Errorf("publish face colors: %w", err)
	}
	c.log.Debug(fmt.Sprintf("published %d face colors (%s)", buf.Len(), p.Mode))
	return nil
}

// Inspect looks up the value of a picked face. ok is false when face is
// inspect.NoHit.
func (c *Controller) Inspect(face int) (inspect.Result, bool, error) {
	return inspect.New(c.field.Load()).WithUnit(c.unit).Lookup(face)
}

// PickAt asks the renderer which face lies under (x, y) and inspects it.
func (c *Controller) PickAt(x, y int) (inspect.Result, bool, error) {
	p, ok := c.renderer.(Picker)
	if !ok {
		return inspect.Result{}, false, ErrNoPicker
	}
	face, err := p.Pick(x, y)
	if err != nil {
		return inspect.Result{}, false, fmt.Errorf("pick (%d, %d): %w", x, y, err)
	}
	return c.Inspect(face)
}

type discard struct{}

func (discard) SetFaceColors(colormap.Buffer) error { return nil }

type nopLogger struct{}

func (nopLogger) Print(string)   {}
func (nopLogger) Trace(string)   {}
func (nopLogger) Debug(string)   {}
func (nopLogger) Info(string)    {}
func (nopLogger) Warning(string) {}
func (nopLogger) Error(string)   {}
func (nopLogger) Fatal(string)   {}
