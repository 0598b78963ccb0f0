package geo

// PolygonsOverlap reports whether two rings share any area.
//
// A vertex of either ring inside the other is enough. Otherwise the rings still overlap when any
// pair of edges intersects, which covers two rings crossing like a plus sign with no vertex
// inside the other. Runs in O(n*m).
func PolygonsOverlap(a, b Polygon) bool {
	for _, p := range a {
		if PointInPolygon(p, b) {
			return true
		}
	}
	for _, p := range b {
		if PointInPolygon(p, a) {
			return true
		}
	}

	found := false
	a.edges(func(a1, a2 Point) bool {
		b.edges(func(b1, b2 Point) bool {
			found = SegmentsIntersect(a1, a2, b1, b2)
			return !found
		})
		return !found
	})

	return found
}

// ContainingPolygons returns the indexes of rings that contain point.
func ContainingPolygons(point Point, rings []Polygon) []int {
	var idx []int
	for i, r := range rings {
		if PointInPolygon(point, r) {
			idx = append(idx, i)
		}
	}
	return idx
}
