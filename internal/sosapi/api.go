// Package sosapi exposes the emergency signal service over HTTP.
package sosapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/beacon/internal/authmw"
	"github.com/linnemanlabs/beacon/internal/signal"
	"github.com/linnemanlabs/beacon/internal/team"
	"github.com/linnemanlabs/beacon/internal/track"
)

// API holds dependencies for HTTP handlers.
type API struct {
	logger  log.Logger
	teams   *team.Service
	signals *signal.Service
	tracks  *track.Service
}

// New creates a new API handler.
func New(logger log.Logger, teams *team.Service, signals *signal.Service, tracks *track.Service) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if teams == nil || signals == nil || tracks == nil {
		panic(xerrors.New("all services are required"))
	}
	return &API{
		logger:  logger,
		teams:   teams,
		signals: signals,
		tracks:  tracks,
	}
}

// RegisterRoutes attaches API endpoints to the router. Reporting and
// reading signals is open to anyone in distress; status changes,
// location reports, and the dashboard require a team token.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", a.handleRoot)

		r.Post("/teams/register", a.handleRegister)
		r.Post("/teams/login", a.handleLogin)

		r.Post("/signals", a.handleCreateSignal)
		r.Get("/signals", a.handleListSignals)
		r.Get("/signals/{id}", a.handleGetSignal)
		r.Get("/signals/{id}/locations", a.handleListLocations)

		r.Group(func(r chi.Router) {
			r.Use(authmw.Require(a.teams))
			r.Put("/signals/{id}/status", a.handleUpdateStatus)
			r.Post("/locations", a.handleRecordLocation)
			r.Get("/dashboard/stats", a.handleStats)
		})
	})
}

func (a *API) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "beacon",
		"status":  "running",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
