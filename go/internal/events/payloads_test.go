package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Twenty2Eleven78/matchtrack/go/internal/models"
)

func TestNewMatchEventWrapsPayload(t *testing.T) {
	at := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	event, err := NewMatchEvent(EventTypeGoalRecorded, at, GoalRecordedPayload{
		EventID:       "abc",
		Side:          models.SideHome,
		ScorerName:    "Alice",
		RawTimeSec:    125,
		DisplayMinute: 3,
		RecordedAt:    at,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventTypeGoalRecorded, event.Type)
	assert.Equal(t, at, event.Timestamp)

	var payload GoalRecordedPayload
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, "Alice", payload.ScorerName)
	assert.Equal(t, models.SideHome, payload.Side)
}

func TestNopPublisher(t *testing.T) {
	event, err := NewMatchEvent(EventTypeSessionReset, time.Now(), SessionResetPayload{ResetAt: time.Now()})
	require.NoError(t, err)

	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), event))
	p.Close()
}

func TestSubjectPerEventType(t *testing.T) {
	p := &JetStreamPublisher{config: DefaultJetStreamConfig()}
	assert.Equal(t, "match.events.goalrecorded", p.subjectFor(EventTypeGoalRecorded))
	assert.Equal(t, "match.events.clockstarted", p.subjectFor(EventTypeClockStarted))
}
