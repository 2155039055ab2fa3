package gapless

import (
	"fmt"
	"math"

	"github.com/go-drift/switcher/pkg/graphics"
)

// Fit controls how a frame is scaled within its box.
type Fit int

const (
	// FitContain scales the frame to fit within its bounds.
	// This is the zero value.
	FitContain Fit = iota
	// FitFill stretches the frame to fill its bounds.
	FitFill
	// FitCover scales the frame to cover its bounds.
	FitCover
	// FitNone leaves the frame at its intrinsic size.
	FitNone
	// FitScaleDown fits the frame if needed, otherwise keeps intrinsic size.
	FitScaleDown
)

// String returns a human-readable representation of the fit mode.
func (f Fit) String() string {
	switch f {
	case FitFill:
		return "fill"
	case FitContain:
		return "contain"
	case FitCover:
		return "cover"
	case FitNone:
		return "none"
	case FitScaleDown:
		return "scale_down"
	default:
		return fmt.Sprintf("Fit(%d)", int(f))
	}
}

// Apply returns the painted size of a frame of size intrinsic in box.
func (f Fit) Apply(box, intrinsic graphics.Size) graphics.Size {
	if intrinsic.Width <= 0 || intrinsic.Height <= 0 {
		return graphics.Size{}
	}
	sx := box.Width / intrinsic.Width
	sy := box.Height / intrinsic.Height
	switch f {
	case FitFill:
		return box
	case FitCover:
		s := math.Max(sx, sy)
		return graphics.Size{Width: intrinsic.Width * s, Height: intrinsic.Height * s}
	case FitNone:
		return intrinsic
	case FitScaleDown:
		s := math.Min(1, math.Min(sx, sy))
		return graphics.Size{Width: intrinsic.Width * s, Height: intrinsic.Height * s}
	default:
		s := math.Min(sx, sy)
		return graphics.Size{Width: intrinsic.Width * s, Height: intrinsic.Height * s}
	}
}
