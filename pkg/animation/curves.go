package animation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"

	"github.com/go-drift/switcher/pkg/errors"
)

// Easing curves transform linear animation progress into natural-feeling motion.
//
// Each curve is a function that takes a value t in [0, 1] and returns a
// transformed value. Set an [AnimationController]'s Curve field to apply easing.
//
// Standard curves: [LinearCurve], [Ease], [EaseIn], [EaseOut], [EaseInOut],
// [FastOutSlowIn]. Use [CubicBezier] for custom curves, [Interval] to
// restrict a curve to part of the timeline, and [FromEase] to adopt any
// gween easing function.

// LinearCurve returns linear progress (no easing).
func LinearCurve(t float64) float64 {
	return t
}

// Ease is a standard cubic bezier curve for general-purpose easing.
// Equivalent to CSS ease.
var Ease = CubicBezier(0.25, 0.1, 0.25, 1.0)

// EaseIn starts slowly and accelerates. Use for elements exiting the screen.
var EaseIn = CubicBezier(0.42, 0.0, 1.0, 1.0)

// EaseOut starts quickly and decelerates. Use for elements entering the screen.
var EaseOut = CubicBezier(0.0, 0.0, 0.58, 1.0)

// EaseInOut starts and ends slowly with acceleration in the middle.
var EaseInOut = CubicBezier(0.42, 0.0, 0.58, 1.0)

// FastOutSlowIn is the standard curve for shared-axis motion.
var FastOutSlowIn = CubicBezier(0.4, 0.0, 0.2, 1.0)

// CubicBezier returns a cubic-bezier easing function matching CSS cubic-bezier().
// The parameters define the two control points (x1,y1) and (x2,y2) of the curve.
// The curve starts at (0,0) and ends at (1,1).
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		// Newton-Raphson converges quickly for most values.
		for range 8 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, clampUnit(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Fallback to bisection to guarantee a stable solution in [0,1].
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 12 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}

		return sampleCurve(y1, y2, u)
	}
}

// Interval maps [begin, end] of the timeline onto the whole of curve.
// Progress before begin yields 0 and progress after end yields 1.
func Interval(begin, end float64, curve func(float64) float64) func(float64) float64 {
	return func(t float64) float64 {
		if t <= begin {
			return 0
		}
		if t >= end {
			return 1
		}
		local := (t - begin) / (end - begin)
		if curve == nil {
			return local
		}
		return curve(local)
	}
}

// Flipped returns the curve played backwards: 1 - curve(1 - t).
func Flipped(curve func(float64) float64) func(float64) float64 {
	return func(t float64) float64 {
		return 1 - curve(1-t)
	}
}

// FromEase adapts a gween easing function to a unit curve.
func FromEase(fn ease.TweenFunc) func(float64) float64 {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return float64(fn(float32(t), 0, 1, 1))
	}
}

var namedCurves = map[string]func(float64) float64{
	"linear":        LinearCurve,
	"ease":          Ease,
	"easein":        EaseIn,
	"easeout":       EaseOut,
	"easeinout":     EaseInOut,
	"fastoutslowin": FastOutSlowIn,
	"inquad":        FromEase(ease.InQuad),
	"outquad":       FromEase(ease.OutQuad),
	"inoutquad":     FromEase(ease.InOutQuad),
	"incubic":       FromEase(ease.InCubic),
	"outcubic":      FromEase(ease.OutCubic),
	"inoutcubic":    FromEase(ease.InOutCubic),
	"insine":        FromEase(ease.InSine),
	"outsine":       FromEase(ease.OutSine),
	"inoutsine":     FromEase(ease.InOutSine),
	"inexpo":        FromEase(ease.InExpo),
	"outexpo":       FromEase(ease.OutExpo),
	"inoutexpo":     FromEase(ease.InOutExpo),
	"outback":       FromEase(ease.OutBack),
	"outbounce":     FromEase(ease.OutBounce),
}

// CurveByName resolves a curve name such as "easeInOut", "fastOutSlowIn" or
// "outCubic". Matching ignores case, dashes and underscores.
func CurveByName(name string) (func(float64) float64, error) {
	key := strings.ToLower(name)
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	if curve, ok := namedCurves[key]; ok {
		return curve, nil
	}
	return nil, &errors.ConfigError{
		Field:  "Curve",
		Value:  name,
		Reason: fmt.Sprintf("unknown curve (known: %s)", strings.Join(CurveNames(), ", ")),
	}
}

// CurveNames returns the normalized names accepted by CurveByName.
func CurveNames() []string {
	names := make([]string, 0, len(namedCurves))
	for name := range namedCurves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
