package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/samber/lo"

	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/game"
)

// MaxBotIterations is a safety limit for the play loops
const MaxBotIterations = 1000

// ActionType represents the type of action a bot took
type ActionType string

const (
	ActionPlace        ActionType = "place"
	ActionSkip         ActionType = "skip"
	ActionGameComplete ActionType = "game_complete"
)

// Action represents a single action taken by a bot
type Action struct {
	Type     ActionType     `json:"type"`
	PlayerID model.PlayerID `json:"player_id,omitempty"`
	TileID   model.TileID   `json:"tile_id,omitempty"`
	Rotation int            `json:"rotation"`
	Position model.Position `json:"position"`
	Score    int            `json:"score"`
}

// Service plays turns on behalf of the current player
type Service struct {
	gameController *game.Controller
	strategies     map[string]Strategy
	logger         *slog.Logger
}

// DefaultStrategies returns the built-in strategies by name
func DefaultStrategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		model.BotStrategyRandom: NewRandomStrategy(rnd),
		model.BotStrategyGreedy: NewGreedyStrategy(),
	}
}

// NewService creates a new bot Service. gameController may be nil when only
// local sessions are played.
func NewService(gameController *game.Controller, strategies map[string]Strategy, logger *slog.Logger) *Service {
	return &Service{
		gameController: gameController,
		strategies:     strategies,
		logger:         logger.With(slog.String("component", "bot-service")),
	}
}

// Strategy looks up a strategy by name
func (s *Service) Strategy(name string) (Strategy, error) {
	strategy, ok := s.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownBotStrategy, name)
	}
	return strategy, nil
}

// Strategies returns the registered strategy names in order
func (s *Service) Strategies() []string {
	names := lo.Keys(s.strategies)
	slices.Sort(names)
	return names
}

func turnFor(session *game.Session) Turn {
	return Turn{
		Board:   session.Board(),
		Player:  session.CurrentPlayer(),
		Ruleset: session.Ruleset(),
		Scoring: session.Scoring(),
	}
}

// PlayTurn makes one move for the current player of session, skipping when
// nothing fits
func (s *Service) PlayTurn(session *game.Session, strategy Strategy) (Action, error) {
	if session.Status() == model.GameStatusEnded {
		return Action{}, model.ErrGameEnded
	}

	turn := turnFor(session)
	move, ok := strategy.ChooseMove(turn)
	if !ok {
		if err := session.SkipTurn(); err != nil {
			return Action{}, err
		}
		return s.skipped(session.ID(), turn.Player.ID), nil
	}

	result, err := session.Play(move.TileID, move.Rotation, move.Position)
	if err != nil {
		return Action{}, err
	}
	return s.placed(session.ID(), move, result)
}

// PlayToEnd plays every turn until the game ends
func (s *Service) PlayToEnd(session *game.Session, strategy Strategy) ([]Action, error) {
	var actions []Action
	for range MaxBotIterations {
		if session.Status() == model.GameStatusEnded {
			actions = append(actions, Action{Type: ActionGameComplete})
			return actions, nil
		}
		action, err := s.PlayTurn(session, strategy)
		if err != nil {
			return actions, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// Autoplay plays up to turns moves on a stored game through the controller,
// so every move is persisted. turns <= 0 plays until the game ends.
func (s *Service) Autoplay(ctx context.Context, gameID model.GameID, strategyName string, turns int) ([]Action, error) {
	if s.gameController == nil {
		return nil, errors.New("bot service has no game controller")
	}
	strategy, err := s.Strategy(strategyName)
	if err != nil {
		return nil, err
	}
	if turns <= 0 || turns > MaxBotIterations {
		turns = MaxBotIterations
	}

	var actions []Action
	for range turns {
		session, err := s.gameController.GetSession(ctx, gameID)
		if err != nil {
			return actions, err
		}
		if session.Status() == model.GameStatusEnded {
			break
		}

		turn := turnFor(session)
		move, ok := strategy.ChooseMove(turn)
		if !ok {
			if err := s.gameController.SkipTurn(ctx, gameID); err != nil {
				return actions, err
			}
			actions = append(actions, s.skipped(gameID, turn.Player.ID))
			continue
		}

		result, err := s.gameController.Play(ctx, gameID, move.TileID, move.Rotation, move.Position)
		if err != nil {
			return actions, err
		}
		action, err := s.placed(gameID, move, result)
		if err != nil {
			return actions, err
		}
		actions = append(actions, action)
	}

	session, err := s.gameController.GetSession(ctx, gameID)
	if err != nil {
		return actions, err
	}
	if session.Status() == model.GameStatusEnded && len(actions) > 0 {
		actions = append(actions, Action{Type: ActionGameComplete})
	}

	s.logger.Info("autoplay finished",
		slog.String("game_id", string(gameID)),
		slog.String("strategy", strategy.Name()),
		slog.Int("actions", len(actions)),
	)
	return actions, nil
}

func (s *Service) skipped(gameID model.GameID, playerID model.PlayerID) Action {
	s.logger.Debug("bot skipped",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
	)
	return Action{Type: ActionSkip, PlayerID: playerID}
}

func (s *Service) placed(gameID model.GameID, move Move, result model.PlaceResult) (Action, error) {
	if !result.Success {
		// The board changed under the bot, usually a turn timeout
		return Action{}, fmt.Errorf("bot move refused: %w", result.Failure.Err())
	}
	s.logger.Debug("bot placed tile",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(result.PlayerID)),
		slog.String("tile_id", string(move.TileID)),
		slog.Int("x", move.Position.X),
		slog.Int("y", move.Position.Y),
		slog.Int("score", result.Score.Total),
	)
	return Action{
		Type:     ActionPlace,
		PlayerID: result.PlayerID,
		TileID:   move.TileID,
		Rotation: move.Rotation,
		Position: move.Position,
		Score:    result.Score.Total,
	}, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Strategy(name string) (Strategy, error)
	Strategies() []string
	PlayTurn(session *game.Session, strategy Strategy) (Action, error)
	PlayToEnd(session *game.Session, strategy Strategy) ([]Action, error)
	Autoplay(ctx context.Context, gameID model.GameID, strategyName string, turns int) ([]Action, error)
}

var _ ServiceInterface = (*Service)(nil)
