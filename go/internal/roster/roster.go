// Package roster maintains the player-name list backing the widget's
// scorer and assist pickers. It is initialized independently at startup
// and is neither read nor written by the session engine.
package roster

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Player is one roster entry.
type Player struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

// PlayerRepository defines what the app layer needs from the repository.
type PlayerRepository interface {
	LoadPlayers() []Player
	SavePlayers(players []Player)
	ClearPlayers()
}

// App handles roster business logic.
type App struct {
	mu      sync.Mutex
	repo    PlayerRepository
	players []Player
}

// NewApp creates a roster App and loads the persisted list.
func NewApp(repo PlayerRepository) *App {
	a := &App{repo: repo}
	a.players = repo.LoadPlayers()
	log.Info().Int("player_count", len(a.players)).Msg("roster loaded")
	return a
}

// ListPlayers returns the roster sorted by name.
func (a *App) ListPlayers(ctx context.Context) []Player {
	a.mu.Lock()
	defer a.mu.Unlock()

	players := make([]Player, len(a.players))
	copy(players, a.players)
	sort.Slice(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})
	return players
}

// AddPlayer appends a new player. Names must be non-empty and unique.
func (a *App) AddPlayer(ctx context.Context, name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("player name must not be empty")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, p := range a.players {
		if strings.EqualFold(p.Name, name) {
			return nil, fmt.Errorf("player %q already on roster", name)
		}
	}

	player := Player{
		ID:      uuid.New(),
		Name:    name,
		AddedAt: time.Now(),
	}
	a.players = append(a.players, player)
	a.repo.SavePlayers(a.players)
	return &player, nil
}

// RemovePlayer deletes a player by ID.
func (a *App) RemovePlayer(ctx context.Context, id uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, p := range a.players {
		if p.ID == id {
			a.players = append(a.players[:i], a.players[i+1:]...)
			a.repo.SavePlayers(a.players)
			return nil
		}
	}
	return fmt.Errorf("player %s not on roster", id)
}

// Reset clears the roster back to its default, which is an empty list.
func (a *App) Reset(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.players = nil
	a.repo.ClearPlayers()
	log.Info().Msg("roster reset")
}
