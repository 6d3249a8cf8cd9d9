package sosapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/beacon/internal/authmw"
	"github.com/linnemanlabs/beacon/internal/classify"
	"github.com/linnemanlabs/beacon/internal/signal"
	"github.com/linnemanlabs/beacon/internal/team"
)

type createSignalRequest struct {
	Latitude    *float64         `json:"latitude"`
	Longitude   *float64         `json:"longitude"`
	Description *string          `json:"description"`
	Images      []classify.Image `json:"images"`
}

func (a *API) handleCreateSignal(w http.ResponseWriter, r *http.Request) {
	var req createSignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if req.Latitude == nil || req.Longitude == nil || req.Description == nil || *req.Description == "" {
		http.Error(w, `{"error":"latitude, longitude and description are required"}`, http.StatusBadRequest)
		return
	}

	sig, err := a.signals.Create(r.Context(), signal.CreateRequest{
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Description: *req.Description,
		Images:      req.Images,
	})
	if err != nil {
		a.logger.Error(r.Context(), err, "create signal failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("beacon.signal.id", sig.ID),
		attribute.String("beacon.signal.danger_level", string(sig.DangerLevel)),
	)

	writeJSON(w, http.StatusCreated, sig)
}

func (a *API) handleListSignals(w http.ResponseWriter, r *http.Request) {
	var f signal.Filter

	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := signal.ParseStatus(raw)
		if !ok {
			http.Error(w, `{"error":"invalid status filter"}`, http.StatusBadRequest)
			return
		}
		f.Status = st
	}
	if raw := r.URL.Query().Get("danger_level"); raw != "" {
		sev, ok := classify.ParseSeverity(raw)
		if !ok {
			http.Error(w, `{"error":"invalid danger_level filter"}`, http.StatusBadRequest)
			return
		}
		f.Danger = sev
	}

	sigs, err := a.signals.List(r.Context(), f)
	if err != nil {
		a.logger.Error(r.Context(), err, "list signals failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if sigs == nil {
		sigs = []*signal.Signal{}
	}

	writeJSON(w, http.StatusOK, sigs)
}

func (a *API) handleGetSignal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("beacon.signal.id", id))

	sig, err := a.signals.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, signal.ErrNotFound) {
			http.Error(w, `{"error":"signal not found"}`, http.StatusNotFound)
			return
		}
		a.logger.Error(r.Context(), err, "get signal failed", "id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, sig)
}

type updateStatusRequest struct {
	Status      *string `json:"status"`
	RescueNotes string  `json:"rescue_notes"`
}

func (a *API) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := authmw.TeamFromContext(r.Context())

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if req.Status == nil {
		http.Error(w, `{"error":"status is required"}`, http.StatusBadRequest)
		return
	}
	next, ok := signal.ParseStatus(*req.Status)
	if !ok {
		http.Error(w, `{"error":"invalid status value"}`, http.StatusBadRequest)
		return
	}

	sig, err := a.signals.UpdateStatus(r.Context(), id, next, req.RescueNotes, caller)
	if err != nil {
		switch {
		case errors.Is(err, signal.ErrNotFound):
			http.Error(w, `{"error":"signal not found"}`, http.StatusNotFound)
		case errors.Is(err, signal.ErrAlreadyClaimed):
			http.Error(w, `{"error":"signal claimed by another team"}`, http.StatusConflict)
		case errors.Is(err, signal.ErrBadTransition):
			http.Error(w, `{"error":"illegal status transition"}`, http.StatusConflict)
		case errors.Is(err, signal.ErrConcurrentUpdate):
			http.Error(w, `{"error":"signal changed concurrently, retry"}`, http.StatusConflict)
		case errors.Is(err, team.ErrUnauthenticated):
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
		default:
			a.logger.Error(r.Context(), err, "update status failed", "id", id)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("beacon.signal.status", string(sig.Status)))

	writeJSON(w, http.StatusOK, sig)
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.signals.Stats(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "dashboard stats failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
