package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventTilePlaced       EventType = "tile_placed"
	EventScoreUpdate      EventType = "score_update"
	EventTurnChange       EventType = "turn_change"
	EventTileSelected     EventType = "tile_selected"
	EventTileRotated      EventType = "tile_rotated"
	EventPathUpdate       EventType = "path_update"
	EventTimerTick        EventType = "timer_tick"
	EventInvalidPlacement EventType = "invalid_placement"
	EventGameEnd          EventType = "game_end"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	PlayerID  PlayerID // The player who triggered or is affected
	Payload   any      // Type-specific data
}

// TilePlacedPayload contains data for tile placed events.
// Seeded starter tiles are reported with an empty PlayerID.
type TilePlacedPayload struct {
	Position Position       `json:"position"`
	Tile     Tile           `json:"tile"`
	Score    ScoreBreakdown `json:"score"`
}

// ScoreUpdatePayload contains data for score update events
type ScoreUpdatePayload struct {
	Player Player `json:"player"`
}

// TurnChangePayload contains data for turn change events
type TurnChangePayload struct {
	PlayerIndex int      `json:"player_index"`
	PlayerID    PlayerID `json:"player_id"`
	Forced      bool     `json:"forced"` // true when the turn timer expired
}

// TileSelectedPayload contains data for tile selected events
type TileSelectedPayload struct {
	Tile Tile `json:"tile"`
}

// TileRotatedPayload contains data for tile rotated events
type TileRotatedPayload struct {
	Rotation   int        `json:"rotation"`
	ValidMoves []Position `json:"valid_moves"`
}

// PathUpdatePayload contains data for path update events
type PathUpdatePayload struct {
	Path []Position `json:"path"`
}

// TimerTickPayload contains data for timer tick events
type TimerTickPayload struct {
	SecondsLeft int `json:"seconds_left"`
}

// InvalidPlacementPayload contains data for invalid placement events
type InvalidPlacementPayload struct {
	Position Position         `json:"position"`
	Reason   PlacementFailure `json:"reason"`
}

// GameEndPayload contains data for game end events
type GameEndPayload struct {
	FinalScores []FinalScore `json:"final_scores"`
}
