package graphics

// ColorFilterType specifies the algorithm used by a ColorFilter.
type ColorFilterType int

const (
	// ColorFilterBlend blends a constant color with the input using a blend mode.
	// Requires Color and BlendMode fields to be set.
	ColorFilterBlend ColorFilterType = iota

	// ColorFilterMatrix applies a 5x4 color transformation matrix.
	// Requires the Matrix field to be set.
	ColorFilterMatrix
)

// ColorFilter transforms colors as an image is painted.
//
// Filters can be chained using the Compose method. When composed, the inner
// filter is applied first, then the outer filter processes the result. The
// image fade path relies on this ordering: a tint is always the inner
// filter and the opacity multiply is the outer one.
type ColorFilter struct {
	// Type specifies the filter algorithm.
	Type ColorFilterType

	// Color is the constant color for ColorFilterBlend.
	Color Color

	// BlendMode controls how Color is blended for ColorFilterBlend.
	BlendMode BlendMode

	// Matrix is a 5x4 color transformation matrix for ColorFilterMatrix,
	// stored row-major as [R, G, B, A, translate] for each output channel.
	// Input values are in the range [0, 255].
	Matrix [20]float64

	// Inner is an optional filter to apply before this one.
	Inner *ColorFilter
}

// ColorFilterTint creates a color filter that blends a constant color
// with the input using the specified blend mode.
func ColorFilterTint(color Color, mode BlendMode) ColorFilter {
	return ColorFilter{
		Type:      ColorFilterBlend,
		Color:     color,
		BlendMode: mode,
	}
}

// ColorFilterOpacity creates a matrix filter that multiplies alpha by opacity.
func ColorFilterOpacity(opacity float64) ColorFilter {
	a := clamp01(opacity)
	return ColorFilter{
		Type: ColorFilterMatrix,
		Matrix: [20]float64{
			1, 0, 0, 0, 0,
			0, 1, 0, 0, 0,
			0, 0, 1, 0, 0,
			0, 0, 0, a, 0,
		},
	}
}

// ColorFilterGrayscale creates a color filter that converts colors to grayscale
// using the ITU-R BT.709 luminance weights.
func ColorFilterGrayscale() ColorFilter {
	return ColorFilter{
		Type: ColorFilterMatrix,
		Matrix: [20]float64{
			0.2126, 0.7152, 0.0722, 0, 0,
			0.2126, 0.7152, 0.0722, 0, 0,
			0.2126, 0.7152, 0.0722, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// Compose returns a new ColorFilter that applies inner first, then this filter.
//
// The returned filter is independent of the inputs; modifying inner after
// calling Compose does not affect the composed filter.
func (cf ColorFilter) Compose(inner ColorFilter) ColorFilter {
	result := cf
	innerCopy := inner
	if inner.Inner != nil {
		nested := *inner.Inner
		innerCopy.Inner = &nested
	}
	if cf.Inner != nil {
		// Keep any existing chain: inner runs before the old inner.
		old := *cf.Inner
		chained := old.Compose(innerCopy)
		result.Inner = &chained
		return result
	}
	result.Inner = &innerCopy
	return result
}

// Depth returns the number of filters in the chain.
func (cf ColorFilter) Depth() int {
	n := 1
	for f := cf.Inner; f != nil; f = f.Inner {
		n++
	}
	return n
}

// Apply evaluates the filter chain for a single color.
func (cf ColorFilter) Apply(c Color) Color {
	r, g, b, a := c.RGBAF()
	out := cf.apply([4]float64{r, g, b, a})
	return RGBA8(toByte(out[0]), toByte(out[1]), toByte(out[2]), toByte(out[3]))
}

func (cf ColorFilter) apply(px [4]float64) [4]float64 {
	if cf.Inner != nil {
		px = cf.Inner.apply(px)
	}
	switch cf.Type {
	case ColorFilterMatrix:
		m := cf.Matrix
		var out [4]float64
		for row := 0; row < 4; row++ {
			o := row * 5
			v := m[o]*px[0]*maxByte + m[o+1]*px[1]*maxByte + m[o+2]*px[2]*maxByte + m[o+3]*px[3]*maxByte + m[o+4]
			out[row] = clamp01(v / maxByte)
		}
		return out
	default:
		r, g, b, a := cf.Color.RGBAF()
		return cf.BlendMode.blend([4]float64{r, g, b, a}, px)
	}
}

func toByte(v float64) uint8 {
	return alpha01ToByte(v)
}
