package models

import (
	"github.com/google/uuid"
)

// Event represents one recorded goal. Events are immutable once created:
// renaming a team later does not rewrite the attribution stored here,
// which is why a mid-match rename leaves earlier log entries under the
// old name.
type Event struct {
	ID            uuid.UUID `json:"id"`
	RawTime       int       `json:"raw_time"`
	DisplayMinute int       `json:"display_minute"`
	ScorerName    string    `json:"scorer_name"`
	AssistName    string    `json:"assist_name"`
	Side          Side      `json:"side"`
}

// DisplayMinute converts raw elapsed seconds into the match minute shown
// in logs and reports. A goal in the opening minute is minute 1, a goal
// at 125s is minute 3.
func DisplayMinute(rawTimeSec int) int {
	minute := (rawTimeSec + 59) / 60
	if minute < 1 {
		minute = 1
	}
	return minute
}

// NewEvent builds a goal event for the given side at the given elapsed
// time. The side tag is fixed here and never recomputed.
func NewEvent(side Side, rawTimeSec int, scorerName, assistName string) Event {
	return Event{
		ID:            uuid.New(),
		RawTime:       rawTimeSec,
		DisplayMinute: DisplayMinute(rawTimeSec),
		ScorerName:    scorerName,
		AssistName:    assistName,
		Side:          side,
	}
}
