package state

// Scale limits and wheel sensitivity.
const (
	MinScale     = 0.5
	MaxScale     = 3.0
	WheelDivisor = 500.0
)

// Point is a 2D coordinate, logical or screen depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform maps logical ("true") coordinates onto screen pixels:
//
//	screen = (logical + offset) * scale
//
// Scale is kept inside [MinScale, MaxScale].
type Transform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// NewTransform returns the identity transform.
func NewTransform() *Transform {
	return &Transform{Scale: 1}
}

// ToScreen projects a logical point onto the screen.
func (t Transform) ToScreen(p Point) Point {
	return Point{
		X: (p.X + t.OffsetX) * t.Scale,
		Y: (p.Y + t.OffsetY) * t.Scale,
	}
}

// ToLogical maps a screen point back into logical space.
func (t Transform) ToLogical(p Point) Point {
	return Point{
		X: p.X/t.Scale - t.OffsetX,
		Y: p.Y/t.Scale - t.OffsetY,
	}
}

// ZoomAt applies a wheel delta anchored at the screen cursor: the logical
// point under the cursor projects to the same screen point afterwards.
// Returns true when scale or offset changed.
func (t *Transform) ZoomAt(cursor Point, wheelDelta float64) bool {
	newScale := clamp(t.Scale-wheelDelta/WheelDivisor, MinScale, MaxScale)

	// Logical point under the cursor, using the old scale.
	anchor := t.ToLogical(cursor)

	before := *t
	t.Scale = newScale
	t.OffsetX = cursor.X/newScale - anchor.X
	t.OffsetY = cursor.Y/newScale - anchor.Y

	return *t != before
}

// PanBy moves the view by a screen-space delta.
func (t *Transform) PanBy(dx, dy float64) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	t.OffsetX += dx / t.Scale
	t.OffsetY += dy / t.Scale
	return true
}

// Reset restores the identity transform.
func (t *Transform) Reset() {
	*t = Transform{Scale: 1}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
