package store

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"

	"github.com/Twenty2Eleven78/matchtrack/go/internal/models"
)

// SessionRepository persists the session fields. Each field lives under
// its own key and each write is its own transaction; there is no
// cross-key guarantee, which is why the startup reconciler treats
// inconsistent pairs (running flag without an anchor) defensively.
type SessionRepository struct {
	db *badger.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *badger.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// getJSON loads key into out. Returns false, leaving out untouched, when
// the key is absent or the stored value does not parse.
func (r *SessionRepository) getJSON(key string, out interface{}) bool {
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("store read failed, using default")
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("malformed stored value, using default")
		return false
	}
	return true
}

// setJSON writes key best-effort. Failures are logged, not returned.
func (r *SessionRepository) setJSON(key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode value for store")
		return
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("store write failed")
	}
}

// delete removes key best-effort.
func (r *SessionRepository) delete(key string) {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("store delete failed")
	}
}

// LoadRunning returns the persisted running flag, false by default.
func (r *SessionRepository) LoadRunning() bool {
	var running bool
	r.getJSON(keyRunning, &running)
	return running
}

// SaveRunning persists the running flag.
func (r *SessionRepository) SaveRunning(running bool) {
	r.setJSON(keyRunning, running)
}

// LoadAnchor returns the persisted clock anchor. The second return is
// false when no anchor is stored.
func (r *SessionRepository) LoadAnchor() (time.Time, bool) {
	var unixMillis int64
	if !r.getJSON(keyClockAnchor, &unixMillis) {
		return time.Time{}, false
	}
	return time.UnixMilli(unixMillis), true
}

// SaveAnchor persists the clock anchor, or erases it when t is nil.
func (r *SessionRepository) SaveAnchor(t *time.Time) {
	if t == nil {
		r.delete(keyClockAnchor)
		return
	}
	r.setJSON(keyClockAnchor, t.UnixMilli())
}

// LoadElapsed returns the persisted frozen elapsed seconds, 0 by
// default and never negative.
func (r *SessionRepository) LoadElapsed() int {
	var elapsed int
	r.getJSON(keyElapsed, &elapsed)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// SaveElapsed persists the elapsed seconds.
func (r *SessionRepository) SaveElapsed(seconds int) {
	r.setJSON(keyElapsed, seconds)
}

// LoadEvents returns the persisted event log, empty by default. A
// malformed log degrades to empty rather than failing the load.
func (r *SessionRepository) LoadEvents() []models.Event {
	var events []models.Event
	if !r.getJSON(keyEvents, &events) {
		return nil
	}
	return events
}

// SaveEvents persists the full event log.
func (r *SessionRepository) SaveEvents(events []models.Event) {
	if events == nil {
		events = []models.Event{}
	}
	r.setJSON(keyEvents, events)
}

// LoadScoreboard returns the persisted tallies, {0,0} by default.
// Negative counters clamp to zero. The two sides load independently.
func (r *SessionRepository) LoadScoreboard() models.Scoreboard {
	var board models.Scoreboard
	r.getJSON(keyHomeScore, &board.Home)
	r.getJSON(keyAwayScore, &board.Away)
	if board.Home < 0 {
		board.Home = 0
	}
	if board.Away < 0 {
		board.Away = 0
	}
	return board
}

// SaveScoreboard persists both tallies.
func (r *SessionRepository) SaveScoreboard(board models.Scoreboard) {
	r.setJSON(keyHomeScore, board.Home)
	r.setJSON(keyAwayScore, board.Away)
}

// LoadTeamNames returns the persisted team identities, falling back to
// the defaults per side independently.
func (r *SessionRepository) LoadTeamNames() models.TeamNames {
	names := models.DefaultTeamNames()
	r.getJSON(keyHomeTeamName, &names.Home)
	r.getJSON(keyAwayTeamName, &names.Away)
	if names.Home == "" {
		names.Home = models.DefaultHomeTeamName
	}
	if names.Away == "" {
		names.Away = models.DefaultAwayTeamName
	}
	return names
}

// SaveTeamNames persists both team names.
func (r *SessionRepository) SaveTeamNames(names models.TeamNames) {
	r.setJSON(keyHomeTeamName, names.Home)
	r.setJSON(keyAwayTeamName, names.Away)
}

// Clear erases every session key in a single transaction, so observers
// of the store never see a partially reset session.
func (r *SessionRepository) Clear() {
	err := r.db.Update(func(txn *badger.Txn) error {
		for _, key := range sessionKeys {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to clear session keys")
	}
}
