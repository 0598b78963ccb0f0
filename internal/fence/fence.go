// Package fence keeps the named geofences of the configuration: it resolves their rings,
// maps names and aliases to fences and answers containment queries.
package fence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodesy/internal/config"
	"github.com/woozymasta/geodesy/internal/geo"
)

// ErrNotFound is returned when neither a fence name nor an alias matches.
var ErrNotFound = errors.New("fence not found")

// Fence is a resolved geofence.
type Fence struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Aliases     []string    `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Ring        geo.Polygon `json:"polygon" yaml:"polygon"`

	index *int
}

// Contains reports whether p lies inside the fence.
func (f Fence) Contains(p geo.Point) bool {
	return f.Ring.Contains(p)
}

// Feature renders the fence as a GeoJSON polygon feature.
func (f Fence) Feature() geo.GeoJSONFeature {
	props := map[string]interface{}{"name": f.Name}
	if f.Description != "" {
		props["description"] = f.Description
	}
	if len(f.Aliases) > 0 {
		props["aliases"] = strings.Join(f.Aliases, ",")
	}
	return geo.PolygonFeature(f.Ring, props)
}

// Registry holds fences in display order and resolves names and aliases case-insensitively.
type Registry struct {
	fences   []Fence
	resolver map[string]int
}

// Load resolves every fence in cfg. Sourced rings are read from disk or fetched with client.
// A fence whose source cannot be read is skipped with a warning, as are duplicates.
func Load(ctx context.Context, client *http.Client, cfg *config.Config) (*Registry, error) {
	if client == nil {
		client = http.DefaultClient
	}

	fences := make([]Fence, 0, len(cfg.Fences))
	for _, cf := range cfg.Fences {
		ring := cf.Ring
		if ring == nil && cf.Source != "" {
			var err error
			ring, err = fetchSource(ctx, client, cf.Source)
			if err != nil {
				log.Warn().
					Err(err).
					Str("fence", cf.Name).
					Str("source", cf.Source).
					Msg("Skipping fence: source could not be loaded")
				continue
			}
		}

		if err := geo.CheckPolygon(cf.Name, ring); err != nil {
			return nil, fmt.Errorf("fence %q: %w", cf.Name, err)
		}

		fences = append(fences, Fence{
			Name:        cf.Name,
			Description: cf.Description,
			Aliases:     cf.Aliases,
			Ring:        ring,
			index:       cf.Index,
		})

		log.Debug().
			Str("fence", cf.Name).
			Int("vertices", len(ring)).
			Strs("aliases", cf.Aliases).
			Msg("Fence added to registry")
	}

	return NewRegistry(fences...), nil
}

// NewRegistry sorts fences by index, then name, and indexes names and aliases.
func NewRegistry(fences ...Fence) *Registry {
	sorted := append([]Fence(nil), fences...)
	sort.SliceStable(sorted, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if sorted[i].index != nil {
			idxI = *sorted[i].index
		}
		if sorted[j].index != nil {
			idxJ = *sorted[j].index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return sorted[i].Name < sorted[j].Name
	})

	r := &Registry{fences: sorted, resolver: make(map[string]int)}
	for i, f := range sorted {
		for _, key := range append([]string{f.Name}, f.Aliases...) {
			k := strings.ToLower(key)
			if _, taken := r.resolver[k]; taken {
				log.Warn().Str("fence", f.Name).Str("name", key).Msg("Duplicate fence name ignored")
				continue
			}
			r.resolver[k] = i
		}
	}

	return r
}

// All returns the fences in display order.
func (r *Registry) All() []Fence {
	return r.fences
}

// Len returns the number of fences.
func (r *Registry) Len() int {
	return len(r.fences)
}

// Resolve finds a fence by name or alias.
func (r *Registry) Resolve(name string) (Fence, error) {
	i, ok := r.resolver[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Fence{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return r.fences[i], nil
}

// Containing returns every fence that contains p, in display order.
func (r *Registry) Containing(p geo.Point) []Fence {
	rings := make([]geo.Polygon, len(r.fences))
	for i, f := range r.fences {
		rings[i] = f.Ring
	}

	out := []Fence{}
	for _, i := range geo.ContainingPolygons(p, rings) {
		out = append(out, r.fences[i])
	}
	return out
}

// FeatureCollection renders the named fences, or all fences when names is empty.
func (r *Registry) FeatureCollection(names ...string) (geo.GeoJSONFeatureCollection, error) {
	selected := r.fences
	if len(names) > 0 {
		selected = make([]Fence, 0, len(names))
		for _, n := range names {
			f, err := r.Resolve(n)
			if err != nil {
				return geo.GeoJSONFeatureCollection{}, err
			}
			selected = append(selected, f)
		}
	}

	features := make([]geo.GeoJSONFeature, 0, len(selected))
	for _, f := range selected {
		features = append(features, f.Feature())
	}
	return geo.NewFeatureCollection(features...), nil
}
