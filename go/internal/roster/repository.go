package roster

import (
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

const keyPlayers = "roster:players"

// Repository persists the roster under its own key, isolated from the
// session keys so a session reset leaves the roster intact.
type Repository struct {
	db *badger.DB
}

// NewRepository creates a new roster repository.
func NewRepository(db *badger.DB) *Repository {
	return &Repository{db: db}
}

// LoadPlayers returns the persisted roster, empty on absence or
// corruption.
func (r *Repository) LoadPlayers() []Player {
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPlayers))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			log.Warn().Err(err).Msg("roster read failed, using empty roster")
		}
		return nil
	}

	var players []Player
	if err := json.Unmarshal(raw, &players); err != nil {
		log.Warn().Err(err).Msg("malformed roster, using empty roster")
		return nil
	}
	return players
}

// SavePlayers persists the roster best-effort.
func (r *Repository) SavePlayers(players []Player) {
	raw, err := json.Marshal(players)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode roster")
		return
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPlayers), raw)
	})
	if err != nil {
		log.Error().Err(err).Msg("roster write failed")
	}
}

// ClearPlayers erases the roster key.
func (r *Repository) ClearPlayers() {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPlayers))
	})
	if err != nil {
		log.Error().Err(err).Msg("roster delete failed")
	}
}
