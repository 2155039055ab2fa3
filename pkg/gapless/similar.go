package gapless

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// SimilarByThumbnail returns a comparator that treats two bitmaps as the
// same picture when their size x size thumbnails differ by at most
// tolerance, measured as the mean absolute channel difference in [0, 1].
// Frames with different aspect ratios, or that are not bitmaps, are never
// similar.
func SimilarByThumbnail(size int, tolerance float64) func(prev, next any) bool {
	if size < 1 {
		size = 1
	}
	return func(prev, next any) bool {
		a, ok := prev.(image.Image)
		if !ok {
			return false
		}
		b, ok := next.(image.Image)
		if !ok {
			return false
		}
		if !sameAspect(a.Bounds(), b.Bounds()) {
			return false
		}
		return thumbnailDistance(thumbnail(a, size), thumbnail(b, size)) <= tolerance
	}
}

func sameAspect(a, b image.Rectangle) bool {
	if a.Empty() || b.Empty() {
		return a.Empty() && b.Empty()
	}
	ra := float64(a.Dx()) / float64(a.Dy())
	rb := float64(b.Dx()) / float64(b.Dy())
	return math.Abs(ra-rb)/ra < 0.01
}

func thumbnail(src image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func thumbnailDistance(a, b *image.NRGBA) float64 {
	if len(a.Pix) == 0 {
		return 0
	}
	var sum float64
	for i := range a.Pix {
		sum += math.Abs(float64(a.Pix[i]) - float64(b.Pix[i]))
	}
	return sum / float64(len(a.Pix)) / 255
}
