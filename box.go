package strtree

import "math"

// Point is a 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// Box is an axis-aligned bounding box. MinX <= MaxX and MinY <= MaxY for every
// Box produced by this package, except the empty box returned by InvertedBox.
type Box struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// NewBox creates a box from its lower-left and upper-right corners.
// Corners given in the wrong order are swapped per axis. A point (ll == ur)
// is a valid box with zero area.
func NewBox(ll, ur Point) (Box, error) {
	for _, v := range [4]float64{ll.X, ll.Y, ur.X, ur.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Box{}, ErrInvalidGeometry
		}
	}
	b := Box{
		MinX: min(ll.X, ur.X),
		MinY: min(ll.Y, ur.Y),
		MaxX: max(ll.X, ur.X),
		MaxY: max(ll.Y, ur.Y),
	}
	return b, nil
}

// InvertedBox returns the empty box. It is the identity of Union, and is the
// envelope of a node without children.
func InvertedBox() Box {
	return Box{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
	}
}

// IsEmpty reports whether b encloses nothing, i.e. it is inverted on some axis.
func (b Box) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// LL is the lower-left corner.
func (b Box) LL() Point { return Point{b.MinX, b.MinY} }

// UR is the upper-right corner.
func (b Box) UR() Point { return Point{b.MaxX, b.MaxY} }

// Union gives the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

// Contains reports whether o lies entirely inside b. Edges may touch.
func (b Box) Contains(o Box) bool {
	return b.MinX <= o.MinX && o.MaxX <= b.MaxX && b.MinY <= o.MinY && o.MaxY <= b.MaxY
}

// Intersects reports whether b and o share at least one point.
func (b Box) Intersects(o Box) bool {
	return o.MaxX >= b.MinX && o.MinX <= b.MaxX && o.MaxY >= b.MinY && o.MinY <= b.MaxY
}

// Area is zero for degenerate boxes and for the empty box.
func (b Box) Area() float64 {
	if b.IsEmpty() {
		return 0
	}
	return (b.MaxX - b.MinX) * (b.MaxY - b.MinY)
}

// Center is the midpoint of the box.
func (b Box) Center() Point {
	return Point{b.MinX/2 + b.MaxX/2, b.MinY/2 + b.MaxY/2}
}

