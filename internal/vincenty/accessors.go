package vincenty

import "github.com/woozymasta/geodesy/internal/geo"

// Distance returns the geodesic distance between p1 and p2 in meters.
func (s *Solver) Distance(p1, p2 geo.Point) (float64, error) {
	res, err := s.Inverse(p1, p2)
	return res.DistanceMeters, err
}

// InitialBearing returns the azimuth leaving p1 toward p2.
func (s *Solver) InitialBearing(p1, p2 geo.Point) (float64, error) {
	res, err := s.Inverse(p1, p2)
	return res.InitialBearingDeg, err
}

// FinalBearing returns the azimuth arriving at p2 from p1.
func (s *Solver) FinalBearing(p1, p2 geo.Point) (float64, error) {
	res, err := s.Inverse(p1, p2)
	return res.FinalBearingDeg, err
}

// DestinationPoint mirrors geo.Destination on the ellipsoid.
func (s *Solver) DestinationPoint(origin geo.Point, bearingDeg, distanceMeters float64) (geo.Point, error) {
	res, err := s.Direct(origin, distanceMeters, bearingDeg)
	return res.Destination, err
}

// FinalBearingOn returns the azimuth on arrival after walking distanceMeters from origin.
func (s *Solver) FinalBearingOn(origin geo.Point, bearingDeg, distanceMeters float64) (float64, error) {
	res, err := s.Direct(origin, distanceMeters, bearingDeg)
	return res.FinalBearingDeg, err
}
