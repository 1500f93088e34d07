// Package session owns the authoritative in-memory match state: timer,
// event log, scoreboard and team identities. All mutations funnel
// through the App, which mirrors every change to the durable store and
// notifies the gateway and event publisher.
package session

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Twenty2Eleven78/matchtrack/go/internal/clock"
	"github.com/Twenty2Eleven78/matchtrack/go/internal/events"
	"github.com/Twenty2Eleven78/matchtrack/go/internal/models"
)

// Repository defines what the app layer needs from the store.
type Repository interface {
	LoadRunning() bool
	LoadAnchor() (time.Time, bool)
	LoadElapsed() int
	LoadEvents() []models.Event
	LoadScoreboard() models.Scoreboard
	LoadTeamNames() models.TeamNames

	SaveRunning(running bool)
	SaveAnchor(t *time.Time)
	SaveElapsed(seconds int)
	SaveEvents(events []models.Event)
	SaveScoreboard(board models.Scoreboard)
	SaveTeamNames(names models.TeamNames)
	Clear()
}

// Broadcaster pushes fresh snapshots to connected renderers.
type Broadcaster interface {
	BroadcastSnapshot(snap models.Snapshot)
}

// App handles session business logic. It is the only writer of the event
// log, the scoreboard and the team names; timer fields are delegated to
// the clock.
type App struct {
	mu        sync.Mutex
	repo      Repository
	wallClock clockwork.Clock
	clock     *clock.Clock
	publisher events.Publisher

	events []models.Event
	board  models.Scoreboard
	names  models.TeamNames

	broadcaster Broadcaster
}

// NewApp creates a session App with a paused zero clock. Call
// LoadSession once at startup to reconcile persisted state.
func NewApp(repo Repository, wallClock clockwork.Clock, refreshInterval time.Duration, publisher events.Publisher) *App {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	a := &App{
		repo:      repo,
		wallClock: wallClock,
		publisher: publisher,
		names:     models.DefaultTeamNames(),
	}
	a.clock = clock.New(wallClock, refreshInterval, a.handleRefresh)
	return a
}

// SetBroadcaster wires the renderer fan-out. Called once during startup,
// before any mutation is accepted.
func (a *App) SetBroadcaster(b Broadcaster) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.broadcaster = b
}

// Start begins the match clock. No-op if already running.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.clock.Running() {
		return
	}
	a.clock.Start()
	a.persistTimerLocked()

	a.emit(ctx, events.EventTypeClockStarted, events.ClockStartedPayload{
		StartedAt:      a.wallClock.Now(),
		ElapsedSeconds: a.clock.CurrentElapsed(),
	})
	a.broadcastLocked()
}

// Pause freezes the match clock. No-op if not running.
func (a *App) Pause(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.clock.Running() {
		return
	}
	a.clock.Pause()
	a.persistTimerLocked()

	a.emit(ctx, events.EventTypeClockPaused, events.ClockPausedPayload{
		PausedAt:       a.wallClock.Now(),
		ElapsedSeconds: a.clock.CurrentElapsed(),
	})
	a.broadcastLocked()
}

// RecordGoal appends a goal event at the current elapsed time and bumps
// the matching scoreboard counter. For the away side the caller-supplied
// attribution is ignored and both names are forced to the current away
// team name: an away goal records "the opposition scored", not an
// individual.
func (a *App) RecordGoal(ctx context.Context, side models.Side, scorerName, assistName string) (*models.Event, error) {
	if !side.Valid() {
		return nil, ErrUnknownSide
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	scorerName = strings.TrimSpace(scorerName)
	assistName = strings.TrimSpace(assistName)
	if side == models.SideAway {
		scorerName = a.names.Away
		assistName = a.names.Away
	} else if scorerName == "" {
		return nil, ErrMissingScorer
	}

	event := models.NewEvent(side, a.clock.CurrentElapsed(), scorerName, assistName)
	a.events = append(a.events, event)
	if side == models.SideHome {
		a.board.Home++
	} else {
		a.board.Away++
	}

	a.repo.SaveEvents(a.events)
	a.repo.SaveScoreboard(a.board)

	log.Info().
		Str("side", string(side)).
		Str("scorer", scorerName).
		Int("minute", event.DisplayMinute).
		Msg("goal recorded")

	a.emit(ctx, events.EventTypeGoalRecorded, events.GoalRecordedPayload{
		EventID:       event.ID.String(),
		Side:          event.Side,
		ScorerName:    event.ScorerName,
		AssistName:    event.AssistName,
		RawTimeSec:    event.RawTime,
		DisplayMinute: event.DisplayMinute,
		RecordedAt:    a.wallClock.Now(),
	})
	a.broadcastLocked()
	return &event, nil
}

// RenameTeam updates a side's display name. Historical events keep the
// attribution they were recorded with; only future events pick up the
// new name. This point-in-time semantic is deliberate and is what the
// summary output reflects.
func (a *App) RenameTeam(ctx context.Context, side models.Side, newName string) error {
	if !side.Valid() {
		return ErrUnknownSide
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyTeamName
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var oldName string
	if side == models.SideHome {
		oldName, a.names.Home = a.names.Home, newName
	} else {
		oldName, a.names.Away = a.names.Away, newName
	}
	a.repo.SaveTeamNames(a.names)

	a.emit(ctx, events.EventTypeTeamRenamed, events.TeamRenamedPayload{
		Side:      side,
		OldName:   oldName,
		NewName:   newName,
		RenamedAt: a.wallClock.Now(),
	})
	a.broadcastLocked()
	return nil
}

// Reset destroys the session: clock to zero, log and scoreboard emptied,
// team names back to defaults, store keys erased. The caller must pass
// explicit confirmation; gathering it is a UI concern. The mutex keeps
// observers from ever seeing a partially cleared state.
func (a *App) Reset(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrResetNotConfirmed
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.clock.Pause()
	a.clock.SetElapsed(0)
	a.events = nil
	a.board = models.Scoreboard{}
	a.names = models.DefaultTeamNames()
	a.repo.Clear()

	log.Info().Msg("session reset")

	a.emit(ctx, events.EventTypeSessionReset, events.SessionResetPayload{
		ResetAt: a.wallClock.Now(),
	})
	a.broadcastLocked()
	return nil
}

// Snapshot returns a read-only copy of the session for renderers and
// the summary generator.
func (a *App) Snapshot() models.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Flush persists the current elapsed reading. Called on shutdown so a
// restart resumes from a fresh value even if the last refresh tick is
// stale.
func (a *App) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.repo.SaveElapsed(a.clock.CurrentElapsed())
}

func (a *App) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		ElapsedSeconds: a.clock.CurrentElapsed(),
		Running:        a.clock.Running(),
		Events:         make([]models.Event, len(a.events)),
		TeamNames:      a.names,
		Scoreboard:     a.board,
	}
	copy(snap.Events, a.events)
	// Display order: raw time ascending, insertion order on ties.
	sort.SliceStable(snap.Events, func(i, j int) bool {
		return snap.Events[i].RawTime < snap.Events[j].RawTime
	})
	return snap
}

// persistTimerLocked mirrors the clock's state to the store. Each field
// is a separate best-effort write; the reconciler tolerates a crash
// between them.
func (a *App) persistTimerLocked() {
	a.repo.SaveRunning(a.clock.Running())
	if anchor, ok := a.clock.Anchor(); ok {
		a.repo.SaveAnchor(&anchor)
	} else {
		a.repo.SaveAnchor(nil)
	}
	a.repo.SaveElapsed(a.clock.CurrentElapsed())
}

// handleRefresh runs on the clock's periodic tick. It keeps the
// persisted elapsed value and connected renderers fresh; correctness
// never depends on it. The tick-time value is ignored; the elapsed
// value is re-read under the mutex so a tick cannot overwrite state a
// concurrent Pause already persisted.
func (a *App) handleRefresh(int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.clock.Running() {
		return
	}
	a.repo.SaveElapsed(a.clock.CurrentElapsed())
	a.broadcastLocked()
}

func (a *App) broadcastLocked() {
	if a.broadcaster == nil {
		return
	}
	a.broadcaster.BroadcastSnapshot(a.snapshotLocked())
}

// emit publishes a domain event best-effort. Publish failures never fail
// the mutation that produced them.
func (a *App) emit(ctx context.Context, eventType events.EventType, payload interface{}) {
	event, err := events.NewMatchEvent(eventType, a.wallClock.Now(), payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to build event")
		return
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_type", string(eventType)).Msg("failed to publish event")
	}
}
