package bot

import (
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/rules"
	"github.com/mcoot/tilegame-go/internal/services/scoring"
)

// Turn is what a strategy sees when it is asked to move
type Turn struct {
	Board   *model.Board
	Player  model.Player
	Ruleset rules.Ruleset
	Scoring scoring.Engine
}

// Move is one legal placement: a rack tile, the rotation to apply and where
// it goes. Tile is the rack tile with the rotation applied.
type Move struct {
	TileID   model.TileID
	Rotation int
	Position model.Position
	Tile     model.Tile
}

// Strategy defines how a bot chooses its move
type Strategy interface {
	Name() string

	// ChooseMove returns false when the player has no legal move
	ChooseMove(turn Turn) (Move, bool)
}

// LegalMoves lists every legal move for the player, ordered by rack
// position, then rotation, then row-major board position. Candidates from
// ValidMoves are rechecked with IsValidPlacement, since the opening move
// lists every empty cell regardless of the border rule.
func LegalMoves(turn Turn) []Move {
	var moves []Move
	for _, tile := range turn.Player.Rack {
		for r := 0; r < 4; r++ {
			rotated := tile.WithRotation(r)
			for _, pos := range turn.Ruleset.ValidMoves(turn.Board, rotated) {
				if !turn.Ruleset.IsValidPlacement(turn.Board, pos, rotated) {
					continue
				}
				moves = append(moves, Move{TileID: tile.ID, Rotation: r, Position: pos, Tile: rotated})
			}
		}
	}
	return moves
}
