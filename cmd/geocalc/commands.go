package main

import (
	"fmt"

	"github.com/woozymasta/geodesy/internal/ellipsoid"
	"github.com/woozymasta/geodesy/internal/geo"
	"github.com/woozymasta/geodesy/internal/measure"
	"github.com/woozymasta/geodesy/internal/normalize"
	"github.com/woozymasta/geodesy/internal/vincenty"
)

type command struct {
	name, short, long string
	data              interface{}
}

func commands(a *app) []command {
	return []command{
		{"distance", "Distance and bearing between two points", "Measures on the sphere (haversine) or the ellipsoid (vincenty), optionally with speed for an elapsed time.", &distanceCommand{app: a}},
		{"inverse", "Vincenty inverse solution", "Geodesic distance in meters with initial and final bearings.", &inverseCommand{app: a}},
		{"direct", "Vincenty direct solution", "Destination and final bearing after a distance along a geodesic.", &directCommand{app: a}},
		{"destination", "Spherical destination point", "Destination after a distance along a great circle (R = 6371 km).", &destinationCommand{app: a}},
		{"points", "Points along a leg", "Points every step meters from P1 towards P2, excluding both ends.", &pointsCommand{app: a}},
		{"speed", "Speed and pace", "Speed in km/h and mph with pace per km for a distance and an elapsed time.", &speedCommand{app: a}},
		{"inside", "Point in polygon", "Tests a point against a polygon given as lat,lon;lat,lon;... or an encoded polyline.", &insideCommand{app: a}},
		{"intersect", "Segment intersection", "Tests whether segments A1-A2 and B1-B2 intersect.", &intersectCommand{app: a}},
		{"overlap", "Polygon overlap", "Tests whether two polygons overlap.", &overlapCommand{app: a}},
		{"export", "Export fences", "Writes configured fences as GeoJSON, YAML or KML.", &exportCommand{app: a}},
		{"trips", "Summarize trips", "Reads a YAML trips file and prints distance and speed per trip.", &tripsCommand{app: a}},
	}
}

type pointPairArgs struct {
	P1 string `positional-arg-name:"P1" description:"lat,lon"`
	P2 string `positional-arg-name:"P2" description:"lat,lon"`
}

func (p pointPairArgs) points() (geo.Point, geo.Point, error) {
	p1, err := normalize.ParsePoint(p.P1)
	if err != nil {
		return geo.Point{}, geo.Point{}, fmt.Errorf("P1: %w", err)
	}
	p2, err := normalize.ParsePoint(p.P2)
	if err != nil {
		return geo.Point{}, geo.Point{}, fmt.Errorf("P2: %w", err)
	}
	return p1, p2, nil
}

func (a *app) ellipsoid(name string) (ellipsoid.Ellipsoid, error) {
	if name == "" {
		return a.cfg.EllipsoidOrDefault(), nil
	}
	return ellipsoid.Resolve(name)
}

type distanceCommand struct {
	app *app

	Method    string  `short:"m" long:"method"    description:"Distance method (config default, else haversine)" choice:"haversine" choice:"vincenty"`
	Ellipsoid string  `short:"e" long:"ellipsoid" description:"Ellipsoid or datum for vincenty"`
	Time      float64 `short:"t" long:"time"      description:"Elapsed seconds, adds speed and pace"`
	Fallback  bool    `short:"F" long:"fallback"  description:"Use haversine when vincenty does not converge"`

	Args pointPairArgs `positional-args:"yes" required:"yes"`
}

func (c *distanceCommand) Execute([]string) error {
	p1, p2, err := c.Args.points()
	if err != nil {
		return err
	}

	method := c.app.cfg.MethodOrDefault()
	if c.Method != "" {
		if method, err = measure.ParseMethod(c.Method); err != nil {
			return err
		}
	}
	e, err := c.app.ellipsoid(c.Ellipsoid)
	if err != nil {
		return err
	}

	res, err := measure.Distance(p1, p2, measure.Options{
		Method:         method,
		Ellipsoid:      e,
		ElapsedSeconds: c.Time,
		Fallback:       c.Fallback || c.app.cfg.Fallback,
	})
	if err != nil {
		return err
	}
	return c.app.emit(res)
}

type inverseCommand struct {
	app *app

	Ellipsoid string `short:"e" long:"ellipsoid" description:"Ellipsoid or datum"`

	Args pointPairArgs `positional-args:"yes" required:"yes"`
}

func (c *inverseCommand) Execute([]string) error {
	p1, p2, err := c.Args.points()
	if err != nil {
		return err
	}
	e, err := c.app.ellipsoid(c.Ellipsoid)
	if err != nil {
		return err
	}

	res, err := vincenty.New(e).Inverse(p1, p2)
	if err != nil {
		return err
	}
	return c.app.emit(res)
}

type directCommand struct {
	app *app

	Ellipsoid string  `short:"e" long:"ellipsoid" description:"Ellipsoid or datum"`
	Distance  float64 `short:"d" long:"distance"  description:"Distance in meters" required:"true"`
	Bearing   float64 `short:"b" long:"bearing"   description:"Initial bearing in degrees" required:"true"`

	Args struct {
		P1 string `positional-arg-name:"P1" description:"lat,lon"`
	} `positional-args:"yes" required:"yes"`
}

func (c *directCommand) Execute([]string) error {
	p1, err := normalize.ParsePoint(c.Args.P1)
	if err != nil {
		return fmt.Errorf("P1: %w", err)
	}
	e, err := c.app.ellipsoid(c.Ellipsoid)
	if err != nil {
		return err
	}

	res, err := vincenty.New(e).Direct(p1, c.Distance, c.Bearing)
	if err != nil {
		return err
	}
	return c.app.emit(res)
}

type destinationCommand struct {
	app *app

	Distance float64 `short:"d" long:"distance" description:"Distance in meters" required:"true"`
	Bearing  float64 `short:"b" long:"bearing"  description:"Bearing in degrees" required:"true"`

	Args struct {
		P1 string `positional-arg-name:"P1" description:"lat,lon"`
	} `positional-args:"yes" required:"yes"`
}

func (c *destinationCommand) Execute([]string) error {
	p1, err := normalize.ParsePoint(c.Args.P1)
	if err != nil {
		return fmt.Errorf("P1: %w", err)
	}

	return c.app.emit(map[string]geo.Point{"point": geo.Destination(p1, c.Bearing, c.Distance)})
}

type pointsCommand struct {
	app *app

	Step   float64 `short:"s" long:"step"   description:"Meters between points (config default, else 100)"`
	Encode bool    `short:"p" long:"polyline" description:"Print an encoded polyline instead of a point list"`

	Args pointPairArgs `positional-args:"yes" required:"yes"`
}

func (c *pointsCommand) Execute([]string) error {
	p1, p2, err := c.Args.points()
	if err != nil {
		return err
	}

	step := c.Step
	if step <= 0 {
		step = c.app.cfg.StepOrDefault()
	}

	points, err := geo.GeneratePoints(p1, p2, step)
	if err != nil {
		return err
	}

	if c.Encode {
		return c.app.emit(map[string]string{"polyline": normalize.EncodePolyline(points)})
	}
	if points == nil {
		points = []geo.Point{}
	}
	return c.app.emit(points)
}

type speedCommand struct {
	app *app

	DistanceKm float64 `short:"d" long:"distance" description:"Distance in km" required:"true"`
	Seconds    float64 `short:"t" long:"time"     description:"Elapsed seconds" required:"true"`
}

func (c *speedCommand) Execute([]string) error {
	s, err := geo.DeriveSpeed(c.DistanceKm, c.Seconds)
	if err != nil {
		return err
	}
	return c.app.emit(s)
}

type insideCommand struct {
	app *app

	Args struct {
		Point   string `positional-arg-name:"POINT"   description:"lat,lon"`
		Polygon string `positional-arg-name:"POLYGON" description:"lat,lon;lat,lon;... or encoded polyline"`
	} `positional-args:"yes" required:"yes"`
}

func (c *insideCommand) Execute([]string) error {
	p, err := normalize.ParsePoint(c.Args.Point)
	if err != nil {
		return fmt.Errorf("POINT: %w", err)
	}
	ring, err := normalize.Polygon(c.Args.Polygon)
	if err != nil {
		return fmt.Errorf("POLYGON: %w", err)
	}

	return c.app.emit(map[string]bool{"inside": geo.PointInPolygon(p, ring)})
}

type intersectCommand struct {
	app *app

	Args struct {
		A1 string `positional-arg-name:"A1"`
		A2 string `positional-arg-name:"A2"`
		B1 string `positional-arg-name:"B1"`
		B2 string `positional-arg-name:"B2"`
	} `positional-args:"yes" required:"yes"`
}

func (c *intersectCommand) Execute([]string) error {
	var pts [4]geo.Point
	for i, s := range []string{c.Args.A1, c.Args.A2, c.Args.B1, c.Args.B2} {
		p, err := normalize.ParsePoint(s)
		if err != nil {
			return fmt.Errorf("point %d: %w", i+1, err)
		}
		pts[i] = p
	}

	return c.app.emit(map[string]bool{"intersect": geo.SegmentsIntersect(pts[0], pts[1], pts[2], pts[3])})
}

type overlapCommand struct {
	app *app

	Args struct {
		A string `positional-arg-name:"A" description:"polygon"`
		B string `positional-arg-name:"B" description:"polygon"`
	} `positional-args:"yes" required:"yes"`
}

func (c *overlapCommand) Execute([]string) error {
	a, err := normalize.Polygon(c.Args.A)
	if err != nil {
		return fmt.Errorf("A: %w", err)
	}
	b, err := normalize.Polygon(c.Args.B)
	if err != nil {
		return fmt.Errorf("B: %w", err)
	}

	return c.app.emit(map[string]bool{"overlap": geo.PolygonsOverlap(a, b)})
}
