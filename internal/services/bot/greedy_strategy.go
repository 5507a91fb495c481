package bot

import (
	"github.com/samber/lo"

	"github.com/mcoot/tilegame-go/internal/model"
)

// GreedyStrategy plays the move that scores most right now. Ties go to the
// first move in LegalMoves order.
type GreedyStrategy struct{}

// NewGreedyStrategy creates a new GreedyStrategy
func NewGreedyStrategy() *GreedyStrategy {
	return &GreedyStrategy{}
}

func (s *GreedyStrategy) Name() string {
	return model.BotStrategyGreedy
}

func (s *GreedyStrategy) ChooseMove(turn Turn) (Move, bool) {
	moves := LegalMoves(turn)
	if len(moves) == 0 {
		return Move{}, false
	}
	if turn.Scoring == nil {
		return moves[0], true
	}

	mover := turn.Player.Clone()
	scores := lo.Map(moves, func(m Move, _ int) int {
		return turn.Scoring.CalculateScore(turn.Board, m.Position, m.Tile, mover).Total
	})

	best := 0
	for i := range moves {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return moves[best], true
}

var _ Strategy = (*GreedyStrategy)(nil)
