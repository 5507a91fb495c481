package storage

import (
	"context"

	"github.com/mcoot/tilegame-go/internal/model"
)

// Storage persists game snapshots
type Storage interface {
	SaveGame(ctx context.Context, game *model.SavedGame) error
	GetGame(ctx context.Context, id model.GameID) (*model.SavedGame, error)
	DeleteGame(ctx context.Context, id model.GameID) error

	// ListGames returns the IDs of all stored games in ascending order
	ListGames(ctx context.Context) ([]model.GameID, error)
}
