package transition

import "github.com/go-drift/switcher/pkg/graphics"

// Visual is the transform applied to one child when it is painted.
//
// Translate is in logical units. Fraction is a translation in multiples of
// the child's own size, resolved by the renderer at paint time. Clip asks the
// renderer to clip the child to its bounds.
type Visual struct {
	Opacity   float64
	Translate graphics.Offset
	Fraction  graphics.Offset
	Scale     float64
	Clip      bool
}

// Identity is the untransformed visual.
var Identity = Visual{Opacity: 1, Scale: 1}

// Then composes v with an inner visual: opacity and scale multiply,
// translations add, and clipping is kept if either side clips.
func (v Visual) Then(inner Visual) Visual {
	return Visual{
		Opacity:   v.Opacity * inner.Opacity,
		Translate: v.Translate.Add(inner.Translate),
		Fraction:  v.Fraction.Add(inner.Fraction),
		Scale:     v.Scale * inner.Scale,
		Clip:      v.Clip || inner.Clip,
	}
}

// IsIdentity reports whether v leaves a child unchanged, within eps.
func (v Visual) IsIdentity(eps float64) bool {
	return near(v.Opacity, 1, eps) && near(v.Scale, 1, eps) &&
		near(v.Translate.X, 0, eps) && near(v.Translate.Y, 0, eps) &&
		near(v.Fraction.X, 0, eps) && near(v.Fraction.Y, 0, eps)
}

// IsHidden reports whether the child would not be visible at all.
func (v Visual) IsHidden() bool {
	return v.Opacity <= 0 || v.Scale <= 0
}

func near(a, b, eps float64) bool {
	d := a - b
	return d <= eps && d >= -eps
}
