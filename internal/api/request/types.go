package request

import "github.com/mcoot/tilegame-go/internal/model"

// CreateGameRequest is the request body for creating a game. An empty body
// uses the server's default game config.
type CreateGameRequest struct {
	model.GameConfig
}

// SelectRequest is the request body for selecting a rack tile
type SelectRequest struct {
	TileID string `json:"tile_id"`
}

// PlaceRequest is the request body for placing a tile. When TileID is set
// the tile is selected and turned to Rotation first.
type PlaceRequest struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	TileID   string `json:"tile_id,omitempty"`
	Rotation int    `json:"rotation,omitempty"`
}

// AutoplayRequest is the request body for letting a bot take turns
type AutoplayRequest struct {
	Strategy string `json:"strategy,omitempty"`
	Turns    int    `json:"turns,omitempty"`
}

// RestoreRequest is the request body for restoring a snapshot. A nil
// Config keeps the game's current config.
type RestoreRequest struct {
	Config   *model.GameConfig `json:"config,omitempty"`
	Snapshot model.Snapshot    `json:"snapshot"`
}
