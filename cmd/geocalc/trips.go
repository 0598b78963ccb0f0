package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/woozymasta/geodesy/internal/fence"
	"github.com/woozymasta/geodesy/internal/geo"
	"github.com/woozymasta/geodesy/internal/measure"
	"github.com/woozymasta/geodesy/internal/normalize"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Trip is a recorded track with its elapsed time.
type Trip struct {
	Name    string          `yaml:"name"`
	Seconds float64         `yaml:"seconds,omitempty"`
	Track   normalize.Value `yaml:"track"`
}

// TripSummary is the measured result of a trip.
type TripSummary struct {
	Name       string     `json:"name" yaml:"name"`
	Method     string     `json:"method" yaml:"method"`
	Points     int        `json:"points" yaml:"points"`
	DistanceKm float64    `json:"distanceKm" yaml:"distanceKm"`
	Speed      *geo.Speed `json:"speed,omitempty" yaml:"speed,omitempty"`
	StartIn    []string   `json:"startIn,omitempty" yaml:"startIn,omitempty"`
	EndIn      []string   `json:"endIn,omitempty" yaml:"endIn,omitempty"`
}

type tripsCommand struct {
	app *app

	Limit    []string `short:"l" long:"limit"     description:"Limit processing to specific trip names"`
	Method   string   `short:"m" long:"method"    description:"Distance method (config default, else haversine)" choice:"haversine" choice:"vincenty"`
	Fallback bool     `short:"F" long:"fallback"  description:"Use haversine for legs where vincenty does not converge"`

	Args struct {
		File string `positional-arg-name:"FILE" description:"YAML file with a trips list"`
	} `positional-args:"yes" required:"yes"`
}

func (c *tripsCommand) Execute([]string) error {
	data, err := os.ReadFile(c.Args.File)
	if err != nil {
		return err
	}

	var doc struct {
		Trips []Trip `yaml:"trips"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", c.Args.File, err)
	}

	method := c.app.cfg.MethodOrDefault()
	if c.Method != "" {
		if method, err = measure.ParseMethod(c.Method); err != nil {
			return err
		}
	}
	opts := measure.Options{
		Method:    method,
		Ellipsoid: c.app.cfg.EllipsoidOrDefault(),
		Fallback:  c.Fallback || c.app.cfg.Fallback,
	}

	var fences *fence.Registry
	if len(c.app.cfg.Fences) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		fences, err = fence.Load(ctx, &http.Client{Timeout: 15 * time.Second}, c.app.cfg)
		cancel()
		if err != nil {
			return err
		}
	}

	trips := filterTrips(doc.Trips, c.Limit)
	log.Info().
		Int("trips_total", len(doc.Trips)).
		Int("trips_queued", len(trips)).
		Str("method", string(method)).
		Msg("Summarizing trips")

	summaries := make([]TripSummary, 0, len(trips))
	for i, t := range trips {
		if t.Name == "" {
			t.Name = "trip-" + strconv.Itoa(i+1)
		}
		s, err := summarize(t, opts, fences)
		if err != nil {
			return fmt.Errorf("trip %s: %w", t.Name, err)
		}
		summaries = append(summaries, s)
	}

	return c.app.emit(summaries)
}

// filterTrips keeps the named trips in the order given, reporting unknown names.
func filterTrips(all []Trip, limit []string) []Trip {
	if len(limit) == 0 {
		return all
	}

	byName := make(map[string]Trip, len(all))
	for _, t := range all {
		byName[t.Name] = t
	}

	out := make([]Trip, 0, len(limit))
	seen := make(map[string]bool)
	for _, name := range limit {
		if seen[name] {
			continue
		}
		seen[name] = true

		if t, ok := byName[name]; ok {
			out = append(out, t)
		} else {
			log.Error().Str("name", name).Msg("Trip specified in --limit not found in file")
		}
	}
	return out
}

// summarize measures every leg of the track with opts and derives speed from the trip time.
func summarize(t Trip, opts measure.Options, fences *fence.Registry) (TripSummary, error) {
	track, err := t.Track.Points()
	if err != nil {
		return TripSummary{}, err
	}
	if len(track) < 2 {
		return TripSummary{}, fmt.Errorf("track needs at least 2 points, got %d", len(track))
	}

	s := TripSummary{Name: t.Name, Method: string(opts.Method), Points: len(track)}

	var total float64
	for i := 1; i < len(track); i++ {
		km, method, err := measure.Leg(track[i-1], track[i], opts)
		if err != nil {
			return TripSummary{}, fmt.Errorf("leg %d: %w", i, err)
		}
		if method != opts.Method {
			s.Method = string(method)
		}
		total += km
	}
	s.DistanceKm = math.Round(total*1000) / 1000

	if t.Seconds != 0 {
		speed, err := geo.DeriveSpeed(s.DistanceKm, t.Seconds)
		if err != nil {
			return TripSummary{}, err
		}
		s.Speed = &speed
	}

	if fences != nil {
		s.StartIn = fenceNames(fences.Containing(track[0]))
		s.EndIn = fenceNames(fences.Containing(track[len(track)-1]))
	}

	return s, nil
}

func fenceNames(fences []fence.Fence) []string {
	if len(fences) == 0 {
		return nil
	}
	names := make([]string, len(fences))
	for i, f := range fences {
		names[i] = f.Name
	}
	return names
}
