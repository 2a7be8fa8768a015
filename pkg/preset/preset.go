// Package preset evaluates small Lisp scripts that describe visualization
// parameters, so a color scheme and cutoff can be saved and shared:
//
//	; wall thickness review
//	(gradient :from "#ff0000" :to "#0000ff")
//	(transparency 0.8)
//	(threshold 1.5)
//
// Scripts run in a fresh zygomys sandbox per evaluation. Each builtin call
// appends an Op; applying a Preset replays the ops in source order, so a
// later (transparency ...) still switches threshold mode off.
package preset

import (
	"fmt"
	"image/color"

	"github.com/chazu/thickview/pkg/colormap"
	"github.com/chazu/thickview/pkg/params"
)

// OpKind identifies one parameter change.
type OpKind int

const (
	OpStartColor OpKind = iota
	OpEndColor
	OpTransparency
	OpBound
	OpContinuous
)

func (k OpKind) String() string {
	switch k {
	case OpStartColor:
		return "start-color"
	case OpEndColor:
		return "end-color"
	case OpTransparency:
		return "transparency"
	case OpBound:
		return "threshold"
	case OpContinuous:
		return "continuous"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is a single recorded parameter change.
type Op struct {
	Kind  OpKind
	Color color.NRGBA // OpStartColor, OpEndColor
	Value float64     // OpTransparency, OpBound
}

// Preset is the ordered list of changes produced by a script.
type Preset struct {
	Name string
	Ops  []Op
}

// Apply replays the ops onto s in order.
func (p *Preset) Apply(s *params.Store) error {
	for _, op := range p.Ops {
		var err error
		switch op.Kind {
		case OpStartColor:
			s.SetStartColor(op.Color)
		case OpEndColor:
			s.SetEndColor(op.Color)
		case OpTransparency:
			err = s.SetTransparency(op.Value)
		case OpBound:
			err = s.SetBound(op.Value)
		case OpContinuous:
			err = s.SetMode(colormap.ContinuousMode())
		default:
			err = fmt.Errorf("unknown op %v", op.Kind)
		}
		if err != nil {
			return fmt.Errorf("preset %s: %s: %w", p.name(), op.Kind, err)
		}
	}
	return nil
}

// Params folds the ops over base and returns the result without touching
// any shared store.
func (p *Preset) Params(base colormap.Params) (colormap.Params, error) {
	s, err := params.NewWith(base)
	if err != nil {
		return base, err
	}
	if err := p.Apply(s); err != nil {
		return base, err
	}
	return s.Params(), nil
}

func (p *Preset) name() string {
	if p.Name == "" {
		return "<inline>"
	}
	return p.Name
}
