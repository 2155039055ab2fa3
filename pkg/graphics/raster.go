package graphics

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ApplyColorFilter renders src through cf into a new straight-alpha image.
// It is the CPU reference for what a compositor does with Paint.ColorFilter.
func ApplyColorFilter(src image.Image, cf ColorFilter) *image.NRGBA {
	bounds := src.Bounds()
	out := image.NewNRGBA(bounds)
	if bounds.Empty() {
		return out
	}
	draw.Draw(out, bounds, src, bounds.Min, draw.Src)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := out.NRGBAAt(x, y)
			c := cf.Apply(RGBA8(px.R, px.G, px.B, px.A))
			r, g, b, a := c.Channels()
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	return out
}
