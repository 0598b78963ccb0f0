package server

import (
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodesy/internal/config"
	"github.com/woozymasta/geodesy/internal/ellipsoid"
	"github.com/woozymasta/geodesy/internal/fence"
	"github.com/woozymasta/geodesy/internal/measure"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Fences    *fence.Registry
	IndexHTML []byte

	ellipsoid ellipsoid.Ellipsoid
	method    measure.Method
}

// NewServerContext initializes the context from a validated configuration and resolved fences.
func NewServerContext(cfg *config.Config, fences *fence.Registry, index []byte) *ServerContext {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if fences == nil {
		fences = fence.NewRegistry()
	}

	s := &ServerContext{
		Config:    cfg,
		Fences:    fences,
		IndexHTML: index,
		ellipsoid: cfg.EllipsoidOrDefault(),
		method:    cfg.MethodOrDefault(),
	}

	log.Info().
		Str("ellipsoid", s.ellipsoid.Name).
		Str("method", string(s.method)).
		Float64("step", cfg.StepOrDefault()).
		Bool("fallback", cfg.Fallback).
		Int("fences_count", fences.Len()).
		Msg("Server context initialized successfully")

	return s
}

// resolveEllipsoid returns the named ellipsoid or datum, the configured default when empty.
func (s *ServerContext) resolveEllipsoid(name string) (ellipsoid.Ellipsoid, error) {
	if name == "" {
		return s.ellipsoid, nil
	}
	return ellipsoid.Resolve(name)
}

// resolveMethod returns the named distance method, the configured default when empty.
func (s *ServerContext) resolveMethod(name string) (measure.Method, error) {
	if name == "" {
		return s.method, nil
	}
	return measure.ParseMethod(name)
}
