package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodesy/internal/ellipsoid"
	"github.com/woozymasta/geodesy/internal/export"
	"github.com/woozymasta/geodesy/internal/fence"
	"github.com/woozymasta/geodesy/internal/geo"
	"github.com/woozymasta/geodesy/internal/measure"
	"github.com/woozymasta/geodesy/internal/vincenty"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes it as JSON.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Request rejected")
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, geo.ErrTypeMismatch),
		errors.Is(err, geo.ErrInvalidDuration),
		errors.Is(err, geo.ErrInvalidDistance),
		errors.Is(err, geo.ErrInvalidPolygon),
		errors.Is(err, geo.ErrTooManyPoints),
		errors.Is(err, measure.ErrUnknownMethod),
		errors.Is(err, ellipsoid.ErrUnknown),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, vincenty.ErrConvergenceFailure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fence.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
