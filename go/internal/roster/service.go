package roster

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service exposes the roster over HTTP JSON.
type Service struct {
	app *App
}

// NewService creates a new roster service.
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers the roster routes with an HTTP mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/roster", s.handleList)
	mux.HandleFunc("POST /api/roster", s.handleAdd)
	mux.HandleFunc("DELETE /api/roster/{id}", s.handleRemove)
	mux.HandleFunc("POST /api/roster/reset", s.handleReset)
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.ListPlayers(r.Context()))
}

type addPlayerRequest struct {
	Name string `json:"name"`
}

func (s *Service) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, err := s.app.AddPlayer(r.Context(), req.Name)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

func (s *Service) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid player id")
		return
	}

	if err := s.app.RemovePlayer(r.Context(), id); err != nil {
		writeErrorJSON(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	s.app.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

func writeErrorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
