package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-catalog/internal/domain"
)

// ListTrips handles GET /trips. The body is a bare JSON array.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := decodeTrip(w, r)
	if !ok {
		return
	}

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("trip not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /trips/{id}. The path ID wins over any ID in the body.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	trip, ok := decodeTrip(w, r)
	if !ok {
		return
	}
	trip.ID = id

	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, notFoundBody("trip not found"))
		case errors.Is(err, domain.ErrValidation):
			writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		default:
			s.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("trip not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- request helpers ----------------------------------------------------------

// pathID binds the {id} path parameter the way generated OpenAPI servers do.
// On failure it writes a 400 and reports false.
func pathID(w http.ResponseWriter, r *http.Request) (domain.ID, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || id == "" {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid trip id"))
		return "", false
	}
	return domain.ID(id), true
}

// decodeTrip reads a Trip from the request body. On failure it writes 413
// for oversized bodies and 422 for anything else, and reports false.
func decodeTrip(w http.ResponseWriter, r *http.Request) (domain.Trip, bool) {
	var trip domain.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, requestBody("request body too large"))
			return domain.Trip{}, false
		}
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("malformed trip body: "+err.Error()))
		return domain.Trip{}, false
	}
	return trip, true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "handler: unexpected error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, internalBody())
}
