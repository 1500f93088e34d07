package session

import (
	"time"

	"github.com/rs/zerolog/log"
)

// LoadSession rebuilds the in-memory session from the durable store. It
// runs exactly once at process start, before the App accepts mutations.
//
// Every field loads independently and falls back to its type default on
// absence or corruption, so a damaged store degrades to a fresh session
// instead of failing startup. If the clock was left running, elapsed
// time is recomputed from the stored anchor — covering the case where
// the process was down while the match clock logically kept ticking —
// and live ticking resumes from the corrected value.
//
// Loaded scoreboard counters are trusted as-is; drift against the event
// count is logged, not repaired.
func (a *App) LoadSession() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.events = a.repo.LoadEvents()
	a.board = a.repo.LoadScoreboard()
	a.names = a.repo.LoadTeamNames()

	if a.board.Total() != len(a.events) {
		log.Warn().
			Int("scoreboard_total", a.board.Total()).
			Int("event_count", len(a.events)).
			Msg("scoreboard does not match event log, keeping persisted counters")
	}

	running := a.repo.LoadRunning()
	anchor, hasAnchor := a.repo.LoadAnchor()
	elapsed := a.repo.LoadElapsed()

	switch {
	case running && hasAnchor:
		recomputed := int(a.wallClock.Now().Sub(anchor) / time.Second)
		if recomputed < 0 {
			recomputed = 0
		}
		a.clock.SetElapsed(recomputed)
		a.clock.Start()
		a.persistTimerLocked()
		log.Info().
			Int("stored_elapsed_sec", elapsed).
			Int("resumed_elapsed_sec", recomputed).
			Msg("session loaded, clock resumed")

	case running && !hasAnchor:
		// Running without an anchor is an invalid pair, likely a crash
		// between the two writes. Resuming blindly could fabricate
		// time, so treat it as paused at the stored elapsed value.
		a.clock.SetElapsed(elapsed)
		a.repo.SaveRunning(false)
		log.Warn().
			Int("elapsed_sec", elapsed).
			Msg("stored running flag without clock anchor, loading as paused")

	default:
		a.clock.SetElapsed(elapsed)
		log.Info().
			Int("elapsed_sec", elapsed).
			Int("event_count", len(a.events)).
			Msg("session loaded")
	}
}
