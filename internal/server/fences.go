package server

import (
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodesy/internal/export"
	"github.com/woozymasta/geodesy/internal/fence"
	"github.com/woozymasta/geodesy/internal/geo"
	"github.com/woozymasta/geodesy/internal/metrics"
	"github.com/woozymasta/geodesy/internal/normalize"
)

type fenceHit struct {
	Fence  string `json:"fence"`
	Inside bool   `json:"inside"`
}

// HandleFencesList serves the configured fences.
func (s *ServerContext) HandleFencesList(w http.ResponseWriter, r *http.Request) {
	fences := s.Fences.All()
	if fences == nil {
		fences = []fence.Fence{}
	}
	writeJSON(w, http.StatusOK, fences)
}

// HandleFencesContaining lists every fence containing the queried point.
func (s *ServerContext) HandleFencesContaining(w http.ResponseWriter, r *http.Request) {
	p, err := queryPoint(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	hits := s.Fences.Containing(p)
	if len(hits) == 0 {
		metrics.FenceLookups.WithLabelValues("outside").Inc()
	} else {
		metrics.FenceLookups.WithLabelValues("inside").Inc()
	}

	writeJSON(w, http.StatusOK, hits)
}

// HandleFenceContains tests the queried point against one fence, by name or alias.
func (s *ServerContext) HandleFenceContains(w http.ResponseWriter, r *http.Request) {
	f, err := s.Fences.Resolve(r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := queryPoint(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	inside := f.Contains(p)
	if inside {
		metrics.FenceLookups.WithLabelValues("inside").Inc()
	} else {
		metrics.FenceLookups.WithLabelValues("outside").Inc()
	}

	writeJSON(w, http.StatusOK, fenceHit{Fence: f.Name, Inside: inside})
}

// HandleFenceExport serves /fences/{name}.{geojson,json,yaml,kml}.
func (s *ServerContext) HandleFenceExport(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	ext := path.Ext(file)
	if ext == "" {
		http.NotFound(w, r)
		return
	}

	format, err := export.ParseFormat(strings.TrimPrefix(ext, "."))
	if err != nil {
		writeError(w, r, err)
		return
	}

	f, err := s.Fences.Resolve(strings.TrimSuffix(file, ext))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "public, no-cache")
	if err := export.Write(w, geo.NewFeatureCollection(f.Feature()), format, f.Name); err != nil {
		log.Error().Err(err).Str("fence", f.Name).Msg("Fence export failed")
	}
}

// queryPoint reads ?point=lat,lon or ?lat=&lon=.
func queryPoint(r *http.Request) (geo.Point, error) {
	q := r.URL.Query()
	if v := q.Get("point"); v != "" {
		return normalize.ParsePoint(v)
	}

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%w: lat: %v", geo.ErrTypeMismatch, err)
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%w: lon: %v", geo.ErrTypeMismatch, err)
	}

	p := geo.Point{Lat: lat, Lon: lon}
	return p, geo.CheckPoint("point", p)
}
