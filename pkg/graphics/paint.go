package graphics

import "fmt"

// FilterQuality controls image sampling quality during scaling.
type FilterQuality int

const (
	FilterQualityNone   FilterQuality = iota // Nearest neighbor (pixelated)
	FilterQualityLow                         // Bilinear
	FilterQualityMedium                      // Bilinear + mipmaps
	FilterQualityHigh                        // Bicubic
)

// String returns a human-readable representation of the filter quality.
func (q FilterQuality) String() string {
	switch q {
	case FilterQualityNone:
		return "none"
	case FilterQualityLow:
		return "low"
	case FilterQualityMedium:
		return "medium"
	case FilterQualityHigh:
		return "high"
	default:
		return fmt.Sprintf("FilterQuality(%d)", int(q))
	}
}

// Paint describes how a bitmap is drawn. A nil ColorFilter draws the
// source pixels unchanged.
type Paint struct {
	ColorFilter   *ColorFilter
	FilterQuality FilterQuality
}

// WithColorFilter returns a copy of the paint using cf.
func (p Paint) WithColorFilter(cf ColorFilter) Paint {
	p.ColorFilter = &cf
	return p
}
