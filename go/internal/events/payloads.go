// Package events defines the domain event envelope and payloads emitted
// by the session engine, plus the optional NATS JetStream publisher that
// forwards them to out-of-process consumers.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Twenty2Eleven78/matchtrack/go/internal/models"
)

// EventType represents the type of session event.
type EventType string

const (
	EventTypeClockStarted EventType = "ClockStarted"
	EventTypeClockPaused  EventType = "ClockPaused"
	EventTypeGoalRecorded EventType = "GoalRecorded"
	EventTypeTeamRenamed  EventType = "TeamRenamed"
	EventTypeSessionReset EventType = "SessionReset"
)

// MatchEvent is the envelope shared by all session events.
type MatchEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewMatchEvent wraps a payload in an envelope with a fresh event ID.
func NewMatchEvent(eventType EventType, at time.Time, payload interface{}) (*MatchEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &MatchEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: at,
		Data:      data,
	}, nil
}

// ClockStartedPayload is the payload for a ClockStarted event.
type ClockStartedPayload struct {
	StartedAt      time.Time `json:"started_at"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
}

// ClockPausedPayload is the payload for a ClockPaused event.
type ClockPausedPayload struct {
	PausedAt       time.Time `json:"paused_at"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
}

// GoalRecordedPayload is the payload for a GoalRecorded event.
type GoalRecordedPayload struct {
	EventID       string      `json:"event_id"`
	Side          models.Side `json:"side"`
	ScorerName    string      `json:"scorer_name"`
	AssistName    string      `json:"assist_name"`
	RawTimeSec    int         `json:"raw_time_sec"`
	DisplayMinute int         `json:"display_minute"`
	RecordedAt    time.Time   `json:"recorded_at"`
}

// TeamRenamedPayload is the payload for a TeamRenamed event.
type TeamRenamedPayload struct {
	Side      models.Side `json:"side"`
	OldName   string      `json:"old_name"`
	NewName   string      `json:"new_name"`
	RenamedAt time.Time   `json:"renamed_at"`
}

// SessionResetPayload is the payload for a SessionReset event.
type SessionResetPayload struct {
	ResetAt time.Time `json:"reset_at"`
}
