package gapless

import (
	"image"

	"github.com/go-drift/switcher/pkg/graphics"
)

// DerivedPaint is how one frame should be painted at a given opacity.
type DerivedPaint struct {
	Paint graphics.Paint

	// NeedsLayer is set when the opacity could not be folded into the
	// paint and the host has to composite the frame in an opacity layer.
	NeedsLayer bool
}

// DerivePaint folds opacity into the paint of a raw bitmap frame. The tint,
// when given, runs first and the alpha multiply second, so a tinted frame
// fades as a whole. Frames that are not bitmaps keep the tint in their
// paint and report NeedsLayer for any opacity below one.
func DerivePaint(frame any, opacity float64, tint *graphics.ColorFilter, quality graphics.FilterQuality) DerivedPaint {
	paint := graphics.Paint{FilterQuality: quality}
	if tint != nil {
		paint = paint.WithColorFilter(*tint)
	}
	if opacity >= 1 {
		return DerivedPaint{Paint: paint}
	}
	if _, ok := frame.(image.Image); !ok {
		return DerivedPaint{Paint: paint, NeedsLayer: true}
	}
	fade := graphics.ColorFilterOpacity(opacity)
	if tint != nil {
		fade = fade.Compose(*tint)
	}
	return DerivedPaint{Paint: paint.WithColorFilter(fade)}
}

// Render applies the derived paint to frame on the CPU. Hosts that
// composite on a GPU apply Paint.ColorFilter themselves.
func (d DerivedPaint) Render(frame image.Image) *image.NRGBA {
	if d.Paint.ColorFilter == nil {
		return graphics.ApplyColorFilter(frame, graphics.ColorFilterOpacity(1))
	}
	return graphics.ApplyColorFilter(frame, *d.Paint.ColorFilter)
}
