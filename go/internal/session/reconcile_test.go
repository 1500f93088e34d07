package session

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Twenty2Eleven78/matchtrack/go/internal/models"
	"github.com/Twenty2Eleven78/matchtrack/go/internal/store"
)

func TestLoadSessionFromEmptyStore(t *testing.T) {
	fake := clockwork.NewFakeClock()
	repo := newTestRepo(t)

	app := NewApp(repo, fake, testRefreshInterval, nil)
	app.LoadSession()

	snap := app.Snapshot()
	assert.Equal(t, 0, snap.ElapsedSeconds)
	assert.False(t, snap.Running)
	assert.Empty(t, snap.Events)
	assert.Equal(t, models.Scoreboard{}, snap.Scoreboard)
	assert.Equal(t, models.DefaultTeamNames(), snap.TeamNames)
}

func TestLoadSessionResumesRunningClock(t *testing.T) {
	// Persisted 90 seconds ago with 10 elapsed seconds on the clock:
	// the anchor therefore sits 100 seconds in the past, and the
	// restored session reads 100 and keeps ticking.
	fake := clockwork.NewFakeClock()
	repo := newTestRepo(t)

	anchor := fake.Now().Add(-100 * time.Second)
	repo.SaveRunning(true)
	repo.SaveAnchor(&anchor)
	repo.SaveElapsed(10)

	app := NewApp(repo, fake, testRefreshInterval, nil)
	app.LoadSession()

	snap := app.Snapshot()
	assert.True(t, snap.Running)
	assert.Equal(t, 100, snap.ElapsedSeconds)

	fake.Advance(5 * time.Second)
	assert.Equal(t, 105, app.Snapshot().ElapsedSeconds, "clock must keep ticking after resume")
}

func TestLoadSessionPausedStateIsExact(t *testing.T) {
	fake := clockwork.NewFakeClock()
	repo := newTestRepo(t)

	repo.SaveRunning(false)
	repo.SaveElapsed(47)

	app := NewApp(repo, fake, testRefreshInterval, nil)
	app.LoadSession()

	fake.Advance(time.Hour)
	snap := app.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, 47, snap.ElapsedSeconds)
}

func TestLoadSessionRunningWithoutAnchorLoadsAsPaused(t *testing.T) {
	fake := clockwork.NewFakeClock()
	repo := newTestRepo(t)

	// Inconsistent pair: a crash between the running-flag write and the
	// anchor write. Must not resume blindly.
	repo.SaveRunning(true)
	repo.SaveElapsed(33)

	app := NewApp(repo, fake, testRefreshInterval, nil)
	app.LoadSession()

	snap := app.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, 33, snap.ElapsedSeconds)
	assert.False(t, repo.LoadRunning(), "inconsistent running flag is corrected in the store")
}

func TestLoadSessionMalformedEventsDegradesToEmpty(t *testing.T) {
	fake := clockwork.NewFakeClock()
	db, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := store.NewSessionRepository(db)

	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("session:events"), []byte("][ not json"))
	}))

	app := NewApp(repo, fake, testRefreshInterval, nil)
	app.LoadSession()

	snap := app.Snapshot()
	assert.Empty(t, snap.Events)
	assert.Equal(t, models.Scoreboard{}, snap.Scoreboard)
}

func TestLoadSessionToleratesScoreboardDrift(t *testing.T) {
	fake := clockwork.NewFakeClock()
	repo := newTestRepo(t)

	// Externally mutated store: counters disagree with the log. The
	// load must neither crash nor repair; persisted counters win.
	repo.SaveEvents([]models.Event{models.NewEvent(models.SideHome, 10, "Alice", "")})
	repo.SaveScoreboard(models.Scoreboard{Home: 4, Away: 2})

	app := NewApp(repo, fake, testRefreshInterval, nil)
	app.LoadSession()

	snap := app.Snapshot()
	assert.Len(t, snap.Events, 1)
	assert.Equal(t, models.Scoreboard{Home: 4, Away: 2}, snap.Scoreboard)
}

func TestPersistenceRoundTrip(t *testing.T) {
	fake := clockwork.NewFakeClock()
	db, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := store.NewSessionRepository(db)
	ctx := context.Background()

	first := NewApp(repo, fake, testRefreshInterval, nil)
	first.LoadSession()
	first.Start(ctx)
	fake.Advance(40 * time.Second)
	_, err = first.RecordGoal(ctx, models.SideHome, "Alice", "Bob")
	require.NoError(t, err)
	require.NoError(t, first.RenameTeam(ctx, models.SideAway, "Rovers"))
	_, err = first.RecordGoal(ctx, models.SideAway, "", "")
	require.NoError(t, err)
	first.Flush()
	saved := first.Snapshot()

	// Simulated restart 20 seconds later: the clock logically kept
	// running while the process was down.
	fake.Advance(20 * time.Second)
	second := NewApp(repo, fake, testRefreshInterval, nil)
	second.LoadSession()
	restored := second.Snapshot()

	assert.Equal(t, saved.Events, restored.Events)
	assert.Equal(t, saved.Scoreboard, restored.Scoreboard)
	assert.Equal(t, saved.TeamNames, restored.TeamNames)
	assert.True(t, restored.Running)
	assert.Equal(t, saved.ElapsedSeconds+20, restored.ElapsedSeconds)
}

func TestPausedRoundTripIsExact(t *testing.T) {
	fake := clockwork.NewFakeClock()
	db, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := store.NewSessionRepository(db)
	ctx := context.Background()

	first := NewApp(repo, fake, testRefreshInterval, nil)
	first.LoadSession()
	first.Start(ctx)
	fake.Advance(70 * time.Second)
	first.Pause(ctx)
	saved := first.Snapshot()

	fake.Advance(time.Hour)
	second := NewApp(repo, fake, testRefreshInterval, nil)
	second.LoadSession()
	restored := second.Snapshot()

	assert.Equal(t, saved, restored, "a paused session restores exactly")
}
