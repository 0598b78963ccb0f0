package geo

import "math"

// Orientation is the turn direction of an ordered point triple.
type Orientation int

// Orientation values.
const (
	Collinear Orientation = iota
	Clockwise
	CounterClockwise
)

func (o Orientation) String() string {
	switch o {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counterclockwise"
	default:
		return "collinear"
	}
}

// Orient returns the orientation of p3 relative to the directed segment p1->p2,
// from the sign of the cross product (p2-p1) x (p3-p2).
func Orient(p1, p2, p3 Point) Orientation {
	v := (p2.Lat-p1.Lat)*(p3.Lon-p2.Lon) - (p2.Lon-p1.Lon)*(p3.Lat-p2.Lat)

	switch {
	case v > 0:
		return Clockwise
	case v < 0:
		return CounterClockwise
	default:
		return Collinear
	}
}

// onSegment reports whether q lies inside the bounding box of segment p-r.
// Only meaningful when p, q and r are collinear.
func onSegment(p, q, r Point) bool {
	return q.Lon <= math.Max(p.Lon, r.Lon) && q.Lon >= math.Min(p.Lon, r.Lon) &&
		q.Lat <= math.Max(p.Lat, r.Lat) && q.Lat >= math.Min(p.Lat, r.Lat)
}

// SegmentsIntersect reports whether segment a1-a2 and segment b1-b2 share at least one point.
// Touching endpoints and overlapping collinear segments, including identical ones, intersect.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	o1 := Orient(a1, a2, b1)
	o2 := Orient(a1, a2, b2)
	o3 := Orient(b1, b2, a1)
	o4 := Orient(b1, b2, a2)

	if o1 != o2 && o3 != o4 {
		return true
	}

	switch {
	case o1 == Collinear && onSegment(a1, b1, a2):
		return true
	case o2 == Collinear && onSegment(a1, b2, a2):
		return true
	case o3 == Collinear && onSegment(b1, a1, b2):
		return true
	case o4 == Collinear && onSegment(b1, a2, b2):
		return true
	}

	return false
}
