package bot

import (
	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/model"
)

// RandomStrategy picks uniformly among all legal moves
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

func (s *RandomStrategy) Name() string {
	return model.BotStrategyRandom
}

func (s *RandomStrategy) ChooseMove(turn Turn) (Move, bool) {
	moves := LegalMoves(turn)
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[s.random.Intn(len(moves))], true
}

var _ Strategy = (*RandomStrategy)(nil)
