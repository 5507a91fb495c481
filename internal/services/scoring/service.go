package scoring

import (
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/pathfinder"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// Engine scores moves and finished games
type Engine interface {
	Name() string
	Mode() PathMode

	// CalculateScore scores tile at pos for mover without modifying board
	// or mover. PathLength reports the mover's longest path with the tile
	// in place so the caller can update the incremental record.
	CalculateScore(board *model.Board, pos model.Position, tile model.Tile, mover *model.Player) model.ScoreBreakdown

	// FinalScore settles a player's end-of-game total
	FinalScore(board *model.Board, player *model.Player) model.ScoreBreakdown
}

// Service is the configurable scoring engine behind every preset
type Service struct {
	config       Config
	connector    model.Side
	hasConnector bool
}

// New creates a scoring engine for the catalog's alphabet
func New(config Config, catalog tileset.Catalog) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	connector, ok := catalog.Connector()
	return &Service{
		config:       config,
		connector:    connector,
		hasConnector: ok,
	}, nil
}

func (s *Service) Name() string {
	return s.config.Name
}

func (s *Service) Mode() PathMode {
	return s.config.PathMode
}

// Config returns the weights in use
func (s *Service) Config() Config {
	return s.config
}

func (s *Service) CalculateScore(board *model.Board, pos model.Position, tile model.Tile, mover *model.Player) model.ScoreBreakdown {
	var result model.ScoreBreakdown

	result.Base = s.config.MatchScores[s.countMatches(board, pos, tile)]
	if board.TouchesStarter(pos) {
		result.Base *= s.config.StarterMultiplier
	}

	result.Bonus = s.flatBonus(board, pos, tile)

	if s.tracksPaths() && mover != nil {
		speculative := board.Clone()
		speculative.Place(pos, tile)
		path := pathfinder.LongestPath(speculative, mover.Color, s.connector)
		if path != nil {
			result.Path = path
			result.PathLength = len(path)
			if s.config.PathMode == PathModeIncremental && len(path) > mover.BestPathLength {
				result.PathBonus = (len(path) - mover.BestPathLength) * s.config.PointsPerTile
			}
		}
	}

	result.Total = result.Base + result.Bonus + result.PathBonus
	return result
}

func (s *Service) FinalScore(board *model.Board, player *model.Player) model.ScoreBreakdown {
	result := model.ScoreBreakdown{
		Total:     player.Score,
		Base:      player.Score - player.BonusScore,
		PathBonus: player.BonusScore,
	}

	if s.config.PathMode == PathModeEndGame && s.hasConnector {
		path := pathfinder.LongestPath(board, player.Color, s.connector)
		result.Path = path
		result.PathLength = len(path)
		result.Bonus = len(path) * s.config.PointsPerTile
		result.Total += result.Bonus
	}
	return result
}

// countMatches counts facing sides that score. Blank never scores; in
// connector-only mode both sides must be the connector.
func (s *Service) countMatches(board *model.Board, pos model.Position, tile model.Tile) int {
	sides := tile.RotatedSides()
	matches := 0
	for _, d := range model.Directions {
		neighbor := board.Get(pos.Neighbor(d))
		if neighbor == nil {
			continue
		}
		mine, theirs := sides[d], neighbor.Edge(d.Opposite())
		if s.config.ConnectorOnly {
			if s.hasConnector && mine == s.connector && theirs == s.connector {
				matches++
			}
			continue
		}
		if mine == model.SideBlank || theirs == model.SideBlank {
			continue
		}
		if mine == theirs {
			matches++
		}
	}
	return matches
}

func (s *Service) flatBonus(board *model.Board, pos model.Position, tile model.Tile) int {
	bonus := s.config.PatternScores[tile.CenterPattern]
	if s.config.CenterBonus != 0 && pos == board.Center() {
		bonus += s.config.CenterBonus
	}
	if s.config.IntersectionBonus != 0 && s.hasConnector && tile.AllSidesEqual(s.connector) {
		bonus += s.config.IntersectionBonus
	}
	return bonus
}

func (s *Service) tracksPaths() bool {
	return s.hasConnector && s.config.PathMode != PathModeNone
}

var _ Engine = (*Service)(nil)
