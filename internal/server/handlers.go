// Package server handles HTTP requests and middleware.
package server

import (
	"fmt"
	"net/http"

	"github.com/woozymasta/geodesy/internal/ellipsoid"
	"github.com/woozymasta/geodesy/internal/geo"
	"github.com/woozymasta/geodesy/internal/measure"
	"github.com/woozymasta/geodesy/internal/metrics"
	"github.com/woozymasta/geodesy/internal/normalize"
	"github.com/woozymasta/geodesy/internal/vincenty"
)

type distanceRequest struct {
	P1        normalize.Value `json:"p1"`
	P2        normalize.Value `json:"p2"`
	Method    string          `json:"method"`
	Ellipsoid string          `json:"ellipsoid"`
	TimeUsed  float64         `json:"timeUsed"` // seconds
	Fallback  *bool           `json:"fallback"`
}

type inverseRequest struct {
	P1        normalize.Value `json:"p1"`
	P2        normalize.Value `json:"p2"`
	Ellipsoid string          `json:"ellipsoid"`
}

type directRequest struct {
	P1        normalize.Value `json:"p1"`
	Ellipsoid string          `json:"ellipsoid"`
	Distance  float64         `json:"distance"` // meters
	Bearing   float64         `json:"bearing"`
}

type destinationRequest struct {
	P1       normalize.Value `json:"p1"`
	Bearing  float64         `json:"bearing"`
	Distance float64         `json:"distance"` // meters
}

type pointsRequest struct {
	P1     normalize.Value `json:"p1"`
	P2     normalize.Value `json:"p2"`
	Step   float64         `json:"step"`
	Encode bool            `json:"encode"`
}

type pointsResponse struct {
	Points   []geo.Point `json:"points"`
	Polyline string      `json:"polyline,omitempty"`
	Count    int         `json:"count"`
	Step     float64     `json:"step"`
}

type speedRequest struct {
	DistanceKm float64 `json:"distanceKm"`
	Seconds    float64 `json:"seconds"`
}

type insideRequest struct {
	Point   normalize.Value `json:"point"`
	Polygon normalize.Value `json:"polygon"`
}

type intersectRequest struct {
	A1 normalize.Value `json:"a1"`
	A2 normalize.Value `json:"a2"`
	B1 normalize.Value `json:"b1"`
	B2 normalize.Value `json:"b2"`
}

type overlapRequest struct {
	A normalize.Value `json:"a"`
	B normalize.Value `json:"b"`
}

// HandleIndex serves the main HTML page.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleEllipsoids lists the ellipsoid catalog.
func (s *ServerContext) HandleEllipsoids(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ellipsoid.All())
}

// HandleDatums lists the datum catalog.
func (s *ServerContext) HandleDatums(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ellipsoid.Datums())
}

// HandleDistance measures two points with the configured or requested method.
func (s *ServerContext) HandleDistance(w http.ResponseWriter, r *http.Request) {
	var req distanceRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p1, p2, err := pointPair(req.P1, req.P2)
	if err != nil {
		writeError(w, r, err)
		return
	}

	method, err := s.resolveMethod(req.Method)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.resolveEllipsoid(req.Ellipsoid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	fallback := s.Config.Fallback
	if req.Fallback != nil {
		fallback = *req.Fallback
	}

	res, err := measure.Distance(p1, p2, measure.Options{
		Method:         method,
		Ellipsoid:      e,
		ElapsedSeconds: req.TimeUsed,
		Fallback:       fallback,
		Observe:        metrics.ObserveSolver,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleInverse runs the Vincenty inverse solution.
func (s *ServerContext) HandleInverse(w http.ResponseWriter, r *http.Request) {
	var req inverseRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p1, p2, err := pointPair(req.P1, req.P2)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.resolveEllipsoid(req.Ellipsoid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := vincenty.New(e).Inverse(p1, p2)
	metrics.ObserveSolver("inverse", res.Iterations, err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleDirect runs the Vincenty direct solution.
func (s *ServerContext) HandleDirect(w http.ResponseWriter, r *http.Request) {
	var req directRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p1, err := req.P1.Point()
	if err != nil {
		writeError(w, r, fmt.Errorf("p1: %w", err))
		return
	}
	e, err := s.resolveEllipsoid(req.Ellipsoid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := vincenty.New(e).Direct(p1, req.Distance, req.Bearing)
	metrics.ObserveSolver("direct", res.Iterations, err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleDestination walks a spherical great circle from p1.
func (s *ServerContext) HandleDestination(w http.ResponseWriter, r *http.Request) {
	var req destinationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p1, err := req.P1.Point()
	if err != nil {
		writeError(w, r, fmt.Errorf("p1: %w", err))
		return
	}
	for name, v := range map[string]float64{"bearing": req.Bearing, "distance": req.Distance} {
		if err := geo.CheckNumber(name, v); err != nil {
			writeError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]geo.Point{"point": geo.Destination(p1, req.Bearing, req.Distance)})
}

// HandlePoints generates points every step meters from p1 towards p2.
func (s *ServerContext) HandlePoints(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p1, p2, err := pointPair(req.P1, req.P2)
	if err != nil {
		writeError(w, r, err)
		return
	}

	step := req.Step
	if step <= 0 {
		step = s.Config.StepOrDefault()
	}

	points, err := geo.GeneratePoints(p1, p2, step)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res := pointsResponse{Points: points, Count: len(points), Step: step}
	if res.Points == nil {
		res.Points = []geo.Point{}
	}
	if req.Encode {
		res.Polyline = normalize.EncodePolyline(points)
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleSpeed derives speed and pace from a distance and an elapsed time.
func (s *ServerContext) HandleSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	speed, err := geo.DeriveSpeed(req.DistanceKm, req.Seconds)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, speed)
}

// HandleInside tests a point against a polygon.
func (s *ServerContext) HandleInside(w http.ResponseWriter, r *http.Request) {
	var req insideRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := req.Point.Point()
	if err != nil {
		writeError(w, r, fmt.Errorf("point: %w", err))
		return
	}
	ring, err := req.Polygon.Polygon()
	if err != nil {
		writeError(w, r, fmt.Errorf("polygon: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"inside": geo.PointInPolygon(p, ring)})
}

// HandleIntersect tests two segments for intersection.
func (s *ServerContext) HandleIntersect(w http.ResponseWriter, r *http.Request) {
	var req intersectRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	names := []string{"a1", "a2", "b1", "b2"}
	var pts [4]geo.Point
	for i, v := range []normalize.Value{req.A1, req.A2, req.B1, req.B2} {
		p, err := v.Point()
		if err != nil {
			writeError(w, r, fmt.Errorf("%s: %w", names[i], err))
			return
		}
		pts[i] = p
	}

	writeJSON(w, http.StatusOK, map[string]bool{"intersect": geo.SegmentsIntersect(pts[0], pts[1], pts[2], pts[3])})
}

// HandleOverlap tests two polygons for overlap.
func (s *ServerContext) HandleOverlap(w http.ResponseWriter, r *http.Request) {
	var req overlapRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := req.A.Polygon()
	if err != nil {
		writeError(w, r, fmt.Errorf("a: %w", err))
		return
	}
	b, err := req.B.Polygon()
	if err != nil {
		writeError(w, r, fmt.Errorf("b: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"overlap": geo.PolygonsOverlap(a, b)})
}

func pointPair(v1, v2 normalize.Value) (geo.Point, geo.Point, error) {
	p1, err := v1.Point()
	if err != nil {
		return geo.Point{}, geo.Point{}, fmt.Errorf("p1: %w", err)
	}
	p2, err := v2.Point()
	if err != nil {
		return geo.Point{}, geo.Point{}, fmt.Errorf("p2: %w", err)
	}
	return p1, p2, nil
}
