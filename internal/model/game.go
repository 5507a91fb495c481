package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the current phase of a game
type GameStatus string

const (
	GameStatusSetup      GameStatus = "setup"       // Board being seeded
	GameStatusInProgress GameStatus = "in_progress" // Players taking turns
	GameStatusEnded      GameStatus = "ended"       // Terminal
)

// ScoreBreakdown is the itemised result of scoring a move or a whole game
type ScoreBreakdown struct {
	Total     int        `json:"total"`
	Base      int        `json:"base"`       // Match score after the starter multiplier
	Bonus     int        `json:"bonus"`      // Flat bonuses (centre, intersection, patterns, end-game path)
	PathBonus int        `json:"path_bonus"` // Incremental path improvement
	Path      []Position `json:"path,omitempty"`

	// PathLength is the longest path found while scoring, 0 when none
	PathLength int `json:"path_length,omitempty"`
}

// FinalScore is one row of the end-of-game table
type FinalScore struct {
	PlayerID PlayerID       `json:"player_id"`
	Name     string         `json:"name"`
	Score    ScoreBreakdown `json:"score"`
}

// PlacementFailure tags why a placement was refused
type PlacementFailure string

const (
	FailureNone             PlacementFailure = ""
	FailureNoTileSelected   PlacementFailure = "no_tile_selected"
	FailurePositionOccupied PlacementFailure = "position_occupied"
	FailureInvalidPlacement PlacementFailure = "invalid_placement"
	FailureGameOver         PlacementFailure = "game_over"
)

// Err maps a failure onto its sentinel error, nil for FailureNone
func (f PlacementFailure) Err() error {
	switch f {
	case FailureNoTileSelected:
		return ErrNoTileSelected
	case FailurePositionOccupied:
		return ErrPositionOccupied
	case FailureInvalidPlacement:
		return ErrInvalidPlacement
	case FailureGameOver:
		return ErrGameEnded
	default:
		return nil
	}
}

// PlaceResult is the outcome of a placement attempt
type PlaceResult struct {
	Success  bool             `json:"success"`
	Failure  PlacementFailure `json:"failure,omitempty"`
	Position Position         `json:"position"`
	Tile     *Tile            `json:"tile,omitempty"`
	Score    ScoreBreakdown   `json:"score"`
	PlayerID PlayerID         `json:"player_id,omitempty"`
	GameOver bool             `json:"game_over"`
}

// Snapshot is the persisted state of a session
type Snapshot struct {
	BoardSize          int          `json:"board_size"`
	RackSize           int          `json:"rack_size"`
	Board              *Board       `json:"board"`
	Players            []Player     `json:"players"`
	CurrentPlayerIndex int          `json:"current_player_index"`
	FirstMove          bool         `json:"first_move"`
	Status             GameStatus   `json:"status"`
	FinalScores        []FinalScore `json:"final_scores,omitempty"`
}

// SavedGame is what storage persists for a game
type SavedGame struct {
	ID        GameID     `json:"id"`
	Config    GameConfig `json:"config"`
	Snapshot  Snapshot   `json:"snapshot"`
	UpdatedAt time.Time  `json:"updated_at"`
}
