package graphics

import "fmt"

// BlendMode controls how a constant filter color is combined with the
// source pixels.
type BlendMode int

const (
	// BlendModeSrcOver draws the filter color over the source.
	BlendModeSrcOver BlendMode = iota
	// BlendModeSrcIn replaces color in opaque areas, keeping source coverage.
	BlendModeSrcIn
	// BlendModeSrcATop tints while preserving original transparency.
	BlendModeSrcATop
	// BlendModeModulate multiplies every channel, including alpha.
	BlendModeModulate
	// BlendModeMultiply multiplies color channels and keeps source alpha.
	BlendModeMultiply
	// BlendModeScreen inverts, multiplies and inverts again, brightening.
	BlendModeScreen
)

// String returns a human-readable representation of the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendModeSrcOver:
		return "src_over"
	case BlendModeSrcIn:
		return "src_in"
	case BlendModeSrcATop:
		return "src_atop"
	case BlendModeModulate:
		return "modulate"
	case BlendModeMultiply:
		return "multiply"
	case BlendModeScreen:
		return "screen"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
}

// blend combines filter color c over source channels (all 0-1, straight alpha).
func (m BlendMode) blend(c [4]float64, src [4]float64) [4]float64 {
	sa := src[3]
	ca := c[3]
	switch m {
	case BlendModeSrcIn:
		return [4]float64{c[0], c[1], c[2], ca * sa}
	case BlendModeSrcATop:
		return [4]float64{
			c[0]*ca + src[0]*(1-ca),
			c[1]*ca + src[1]*(1-ca),
			c[2]*ca + src[2]*(1-ca),
			sa,
		}
	case BlendModeModulate:
		return [4]float64{src[0] * c[0], src[1] * c[1], src[2] * c[2], sa * ca}
	case BlendModeMultiply:
		return [4]float64{
			src[0] * (c[0]*ca + 1 - ca),
			src[1] * (c[1]*ca + 1 - ca),
			src[2] * (c[2]*ca + 1 - ca),
			sa,
		}
	case BlendModeScreen:
		return [4]float64{
			1 - (1-src[0])*(1-c[0]*ca),
			1 - (1-src[1])*(1-c[1]*ca),
			1 - (1-src[2])*(1-c[2]*ca),
			sa,
		}
	default:
		outA := ca + sa*(1-ca)
		if outA == 0 {
			return [4]float64{}
		}
		mix := func(cc, sc float64) float64 {
			return (cc*ca + sc*sa*(1-ca)) / outA
		}
		return [4]float64{mix(c[0], src[0]), mix(c[1], src[1]), mix(c[2], src[2]), outA}
	}
}
