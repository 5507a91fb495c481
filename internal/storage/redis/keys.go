package redis

import (
	"fmt"

	"github.com/mcoot/tilegame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "tilegame"

// gameKey returns the Redis key for a SavedGame
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of stored game IDs
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}
