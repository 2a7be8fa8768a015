package colormap

import (
	"fmt"
	"image/color"
)

// ModeKind selects how scalar values become colors.
type ModeKind uint8

const (
	// ModeContinuous is the log-scaled gradient with a transparency cutoff.
	ModeContinuous ModeKind = iota
	// ModeThreshold splits faces into two classes around a raw bound.
	ModeThreshold
)

func (k ModeKind) String() string {
	switch k {
	case ModeContinuous:
		return "continuous"
	case ModeThreshold:
		return "threshold"
	}
	return fmt.Sprintf("ModeKind(%d)", uint8(k))
}

// Mode is the active mapping mode. Bound is only meaningful for
// ModeThreshold and is expressed in the field's raw units.
type Mode struct {
	Kind  ModeKind `json:"kind"`
	Bound float64  `json:"bound"`
}

// ContinuousMode returns the gradient mode.
func ContinuousMode() Mode {
	return Mode{Kind: ModeContinuous}
}

// ThresholdMode returns the binary mode splitting at bound.
func ThresholdMode(bound float64) Mode {
	return Mode{Kind: ModeThreshold, Bound: bound}
}

// ModeForBound maps the "bound" control to a mode: 0 disables the
// threshold, anything else enables it.
func ModeForBound(bound float64) Mode {
	if bound == 0 {
		return ContinuousMode()
	}
	return ThresholdMode(bound)
}

func (m Mode) String() string {
	if m.Kind == ModeThreshold {
		return fmt.Sprintf("threshold(%g)", m.Bound)
	}
	return m.Kind.String()
}

// Params is the full set of visualization parameters consumed by Map.
type Params struct {
	Start        color.NRGBA `json:"start"`
	End          color.NRGBA `json:"end"`
	Transparency float64     `json:"transparency"`
	Mode         Mode        `json:"mode"`
}

// DefaultParams returns red-to-blue, fully visible, continuous mode.
func DefaultParams() Params {
	return Params{
		Start:        DefaultStart,
		End:          DefaultEnd,
		Transparency: 1.0,
		Mode:         ContinuousMode(),
	}
}
