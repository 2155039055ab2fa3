package graphics

// Offset represents a 2D point or vector in logical coordinates.
type Offset struct {
	X float64
	Y float64
}

// Add returns the component-wise sum of two offsets.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Size represents width and height dimensions in logical pixels.
type Size struct {
	Width  float64
	Height float64
}

// Alignment positions a child within its parent. X and Y range from -1
// (left/top) to 1 (right/bottom); the zero value is centered.
type Alignment struct {
	X float64
	Y float64
}

// Common alignments.
var (
	AlignmentCenter      = Alignment{}
	AlignmentBottomRight = Alignment{X: 1, Y: 1}
)

// Within returns the top-left offset that places a child of size child
// inside a parent of size parent.
func (a Alignment) Within(parent, child Size) Offset {
	dx := (parent.Width - child.Width) / 2
	dy := (parent.Height - child.Height) / 2
	return Offset{X: dx + a.X*dx, Y: dy + a.Y*dy}
}
