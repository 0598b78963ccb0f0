package geo

// Planar predicates treat longitude as x and latitude as y.

// PointInPolygon reports whether point lies inside ring using ray casting.
//
// A horizontal ray is cast from point and every ring edge it crosses flips the result.
// Points exactly on an edge or vertex may be reported either way. Self-intersecting
// rings give undefined results. Rings with fewer than three vertices contain nothing.
func PointInPolygon(point Point, ring Polygon) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]

		if (pi.Lat > point.Lat) != (pj.Lat > point.Lat) &&
			point.Lon < (pj.Lon-pi.Lon)*(point.Lat-pi.Lat)/(pj.Lat-pi.Lat)+pi.Lon {
			inside = !inside
		}
	}

	return inside
}

// Contains is PointInPolygon with the ring as receiver.
func (r Polygon) Contains(point Point) bool {
	return PointInPolygon(point, r)
}

// edges calls fn for every edge of the implicitly closed ring, stopping when fn returns false.
func (r Polygon) edges(fn func(a, b Point) bool) {
	n := len(r)
	for i := 0; i < n; i++ {
		if !fn(r[i], r[(i+1)%n]) {
			return
		}
	}
}
