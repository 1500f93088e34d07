// Package matchapi exposes the session engine's user-facing operations
// over an HTTP JSON API: start/pause, record goals, rename teams, reset,
// state snapshots and the shareable summary.
package matchapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/Twenty2Eleven78/matchtrack/go/internal/models"
	"github.com/Twenty2Eleven78/matchtrack/go/internal/session"
	"github.com/Twenty2Eleven78/matchtrack/go/internal/summary"
)

// SessionApp defines what the service layer needs from the session app.
type SessionApp interface {
	Start(ctx context.Context)
	Pause(ctx context.Context)
	RecordGoal(ctx context.Context, side models.Side, scorerName, assistName string) (*models.Event, error)
	RenameTeam(ctx context.Context, side models.Side, newName string) error
	Reset(ctx context.Context, confirm bool) error
	Snapshot() models.Snapshot
}

// Service implements the match HTTP API.
type Service struct {
	app              SessionApp
	shareURLTemplate string
}

// NewService creates a new match API service. shareURLTemplate is the
// destination the summary text is appended to, query-escaped; pass ""
// to omit share URLs from summary responses.
func NewService(app SessionApp, shareURLTemplate string) *Service {
	return &Service{
		app:              app,
		shareURLTemplate: shareURLTemplate,
	}
}

// RegisterRoutes registers the API routes with an HTTP mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/clock/start", s.handleClockStart)
	mux.HandleFunc("POST /api/clock/pause", s.handleClockPause)
	mux.HandleFunc("POST /api/goals", s.handleRecordGoal)
	mux.HandleFunc("POST /api/teams/rename", s.handleRenameTeam)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
}

func (s *Service) handleClockStart(w http.ResponseWriter, r *http.Request) {
	s.app.Start(r.Context())
	writeJSON(w, http.StatusOK, s.app.Snapshot())
}

func (s *Service) handleClockPause(w http.ResponseWriter, r *http.Request) {
	s.app.Pause(r.Context())
	writeJSON(w, http.StatusOK, s.app.Snapshot())
}

type recordGoalRequest struct {
	Side       models.Side `json:"side"`
	ScorerName string      `json:"scorer_name"`
	AssistName string      `json:"assist_name"`
}

func (s *Service) handleRecordGoal(w http.ResponseWriter, r *http.Request) {
	var req recordGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := s.app.RecordGoal(r.Context(), req.Side, req.ScorerName, req.AssistName)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

type renameTeamRequest struct {
	Side models.Side `json:"side"`
	Name string      `json:"name"`
}

func (s *Service) handleRenameTeam(w http.ResponseWriter, r *http.Request) {
	var req renameTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.app.RenameTeam(r.Context(), req.Side, req.Name); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Snapshot().TeamNames)
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.app.Reset(r.Context(), req.Confirm); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Snapshot())
}

func (s *Service) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Snapshot())
}

type summaryResponse struct {
	Text     string `json:"text"`
	ShareURL string `json:"share_url,omitempty"`
}

func (s *Service) handleSummary(w http.ResponseWriter, r *http.Request) {
	text, err := summary.BuildReport(s.app.Snapshot())
	if err != nil {
		if errors.Is(err, summary.ErrNothingToShare) {
			writeError(w, http.StatusConflict, "nothing to share yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	resp := summaryResponse{Text: text}
	if s.shareURLTemplate != "" {
		// Escaping belongs to this transport boundary, not the
		// summary generator.
		resp.ShareURL = s.shareURLTemplate + url.QueryEscape(text)
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeAppError maps session validation errors to status codes.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownSide),
		errors.Is(err, session.ErrMissingScorer),
		errors.Is(err, session.ErrEmptyTeamName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrResetNotConfirmed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
