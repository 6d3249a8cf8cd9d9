package sosapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/beacon/internal/authmw"
	"github.com/linnemanlabs/beacon/internal/team"
	"github.com/linnemanlabs/beacon/internal/track"
)

type recordLocationRequest struct {
	SignalID  *string  `json:"signal_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (a *API) handleRecordLocation(w http.ResponseWriter, r *http.Request) {
	caller := authmw.TeamFromContext(r.Context())

	var req recordLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if req.SignalID == nil || *req.SignalID == "" || req.Latitude == nil || req.Longitude == nil {
		http.Error(w, `{"error":"signal_id, latitude and longitude are required"}`, http.StatusBadRequest)
		return
	}

	l, err := a.tracks.Record(r.Context(), *req.SignalID, *req.Latitude, *req.Longitude, caller)
	if err != nil {
		if errors.Is(err, team.ErrUnauthenticated) {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		a.logger.Error(r.Context(), err, "record location failed", "signal_id", *req.SignalID)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, l)
}

func (a *API) handleListLocations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	locs, err := a.tracks.List(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "list locations failed", "signal_id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if locs == nil {
		locs = []*track.Location{}
	}

	writeJSON(w, http.StatusOK, locs)
}
