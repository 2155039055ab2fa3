package animation

import "github.com/go-drift/switcher/pkg/graphics"

// Tween maps track progress onto a range of T.
//
// Curve, when set, eases progress before interpolation, so a tween can run
// on its own curve while the track that feeds it stays linear.
type Tween[T any] struct {
	Begin T
	End   T
	Lerp  func(a, b T, t float64) T
	Curve func(float64) float64
}

// Evaluate returns the value at progress t.
func (tw Tween[T]) Evaluate(t float64) T {
	if tw.Curve != nil {
		t = tw.Curve(t)
	}
	if tw.Lerp == nil {
		if t < 1 {
			return tw.Begin
		}
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// Transform evaluates the tween at the controller's current value.
func (tw Tween[T]) Transform(controller *AnimationController) T {
	return tw.Evaluate(controller.Value())
}

// WithCurve returns a copy easing progress through curve.
func (tw Tween[T]) WithCurve(curve func(float64) float64) Tween[T] {
	tw.Curve = curve
	return tw
}

// Reversed returns a copy running from End to Begin.
func (tw Tween[T]) Reversed() Tween[T] {
	tw.Begin, tw.End = tw.End, tw.Begin
	return tw
}

// LerpFloat64 interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// LerpOffset interpolates between two offsets component-wise.
func LerpOffset(a, b graphics.Offset, t float64) graphics.Offset {
	return graphics.Offset{
		X: LerpFloat64(a.X, b.X, t),
		Y: LerpFloat64(a.Y, b.Y, t),
	}
}

// TweenFloat64 returns a linear tween between two numbers.
func TweenFloat64(begin, end float64) Tween[float64] {
	return Tween[float64]{Begin: begin, End: end, Lerp: LerpFloat64}
}

// TweenOffset returns a linear tween between two offsets.
func TweenOffset(begin, end graphics.Offset) Tween[graphics.Offset] {
	return Tween[graphics.Offset]{Begin: begin, End: end, Lerp: LerpOffset}
}
