package transition

import (
	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/graphics"
)

// AxisDistance is how far, in logical units, axis transitions travel.
const AxisDistance = 30.0

const (
	scaleSmall = 0.80
	scaleLarge = 1.10
)

var (
	fadeInTail  = animation.Interval(0.3, 1.0, animation.EaseOut)
	fadeOutHead = animation.Interval(0.0, 0.3, animation.EaseIn)
)

// Compose computes the visual of a child playing role in a transition of
// the given kind at progress in [0, 1]. reverse mirrors the direction of
// travel. Compose has no state: any progress, including one reached by an
// interrupted track, maps to the same visual.
func Compose(role Role, kind Kind, progress float64, reverse bool) Visual {
	p := clampUnit(progress)
	switch kind {
	case KindAxisHorizontal, KindAxisVertical:
		return composeAxis(role, kind, p, reverse)
	case KindScale:
		return composeScale(role, p, reverse)
	case KindSlide:
		return composeSlide(role, p, reverse)
	case KindInstant:
		return composeInstant(role, p)
	default:
		return composeFade(role, p)
	}
}

func composeFade(role Role, p float64) Visual {
	v := Identity
	if role == Entering {
		v.Opacity = animation.EaseInOut(p)
	} else {
		v.Opacity = 1 - animation.EaseInOut(p)
	}
	return v
}

func composeAxis(role Role, kind Kind, p float64, reverse bool) Visual {
	sign := 1.0
	if reverse {
		sign = -1
	}
	// An exiting child leaves along the path an opposite entering child
	// would arrive on.
	travel := animation.TweenFloat64(sign*AxisDistance, 0)
	if role == Exiting {
		travel = animation.TweenFloat64(-sign*AxisDistance, 0).Reversed()
	}
	distance := travel.WithCurve(animation.FastOutSlowIn).Evaluate(p)

	v := Identity
	if role == Entering {
		v.Opacity = fadeInTail(p)
	} else {
		v.Opacity = 1 - fadeOutHead(p)
	}
	if kind == KindAxisVertical {
		v.Translate = graphics.Offset{Y: distance}
	} else {
		v.Translate = graphics.Offset{X: distance}
	}
	return v
}

func composeScale(role Role, p float64, reverse bool) Visual {
	small, large := scaleSmall, scaleLarge
	if reverse {
		small, large = large, small
	}
	v := Identity
	var zoom animation.Tween[float64]
	if role == Entering {
		v.Opacity = fadeInTail(p)
		zoom = animation.TweenFloat64(small, 1)
	} else {
		v.Opacity = 1 - fadeOutHead(p)
		zoom = animation.TweenFloat64(large, 1).Reversed()
	}
	v.Scale = zoom.WithCurve(animation.FastOutSlowIn).Evaluate(p)
	return v
}

// composeSlide moves whole child sizes. The entering child comes in from
// the right while the exiting one leaves to the left; reverse mirrors both.
func composeSlide(role Role, p float64, reverse bool) Visual {
	side := graphics.Offset{X: 1}
	if reverse {
		side.X = -1
	}
	slide := animation.TweenOffset(side, graphics.Offset{})
	if role == Exiting {
		slide = animation.TweenOffset(graphics.Offset{X: -side.X}, graphics.Offset{}).Reversed()
	}
	v := Identity
	v.Clip = true
	v.Fraction = slide.WithCurve(animation.FastOutSlowIn).Evaluate(p)
	return v
}

func composeInstant(role Role, p float64) Visual {
	v := Identity
	if role == Entering && p <= 0 {
		v.Opacity = 0
	}
	if role == Exiting && p > 0 {
		v.Opacity = 0
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
