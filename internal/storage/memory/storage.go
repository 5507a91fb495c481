package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Games are stored encoded so callers never share state with the store.
type Storage struct {
	mu    sync.RWMutex
	games map[model.GameID][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games: make(map[model.GameID][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGame(ctx context.Context, game *model.SavedGame) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = data
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.SavedGame, error) {
	s.mu.RLock()
	data, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrGameNotFound
	}

	var game model.SavedGame
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *Storage) ListGames(ctx context.Context) ([]model.GameID, error) {
	s.mu.RLock()
	ids := lo.Keys(s.games)
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids, nil
}
