package server

import (
	"net/http"

	"github.com/woozymasta/geodesy/internal/metrics"
)

// Routes registers every endpoint and wraps the mux with logging and metrics middleware.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.HandleIndex)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/ellipsoids", s.HandleEllipsoids)
	mux.HandleFunc("GET /api/datums", s.HandleDatums)

	mux.HandleFunc("POST /api/distance", s.HandleDistance)
	mux.HandleFunc("POST /api/inverse", s.HandleInverse)
	mux.HandleFunc("POST /api/direct", s.HandleDirect)
	mux.HandleFunc("POST /api/destination", s.HandleDestination)
	mux.HandleFunc("POST /api/points", s.HandlePoints)
	mux.HandleFunc("POST /api/speed", s.HandleSpeed)
	mux.HandleFunc("POST /api/inside", s.HandleInside)
	mux.HandleFunc("POST /api/intersect", s.HandleIntersect)
	mux.HandleFunc("POST /api/overlap", s.HandleOverlap)

	mux.HandleFunc("GET /api/fences", s.HandleFencesList)
	mux.HandleFunc("GET /api/fences/contains", s.HandleFencesContaining)
	mux.HandleFunc("GET /fences/{name}/contains", s.HandleFenceContains)
	mux.HandleFunc("GET /fences/{file}", s.HandleFenceExport)

	return RequestLogger(metrics.Middleware(mux))
}
