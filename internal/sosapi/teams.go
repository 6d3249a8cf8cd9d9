package sosapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/linnemanlabs/beacon/internal/team"
)

type registerRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	TeamName *string `json:"team_name"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if req.Username == nil || *req.Username == "" ||
		req.Password == nil || *req.Password == "" ||
		req.TeamName == nil || *req.TeamName == "" {
		http.Error(w, `{"error":"username, password and team_name are required"}`, http.StatusBadRequest)
		return
	}

	tm, err := a.teams.Register(r.Context(), *req.Username, *req.Password, *req.TeamName)
	if err != nil {
		if errors.Is(err, team.ErrUsernameTaken) {
			http.Error(w, `{"error":"username already registered"}`, http.StatusConflict)
			return
		}
		a.logger.Error(r.Context(), err, "register failed", "username", *req.Username)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, tm)
}

type loginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	Team  *team.Team `json:"team"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if req.Username == nil || *req.Username == "" || req.Password == nil || *req.Password == "" {
		http.Error(w, `{"error":"username and password are required"}`, http.StatusBadRequest)
		return
	}

	tm, token, err := a.teams.Login(r.Context(), *req.Username, *req.Password)
	if err != nil {
		if errors.Is(err, team.ErrInvalidCredentials) {
			http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		a.logger.Error(r.Context(), err, "login failed", "username", *req.Username)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, Team: tm})
}
