package seeder

import (
	"log/slog"

	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/rules"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// Limits bounds the seeding search so it always terminates
type Limits struct {
	// RandomCandidateAttempts is how many tiles (each in 4 rotations) are
	// tried per cell by random and centre seeding
	RandomCandidateAttempts int

	// BorderCandidateAttempts is how many tiles are tried per perimeter cell
	BorderCandidateAttempts int

	// MaxRestarts is how many times the perimeter walk starts over
	MaxRestarts int

	// MaxSearchSteps caps candidate checks within a single perimeter walk
	MaxSearchSteps int
}

// DefaultLimits returns the standard seeding budget
func DefaultLimits() Limits {
	return Limits{
		RandomCandidateAttempts: 50,
		BorderCandidateAttempts: 120,
		MaxRestarts:             40,
		MaxSearchSteps:          200_000,
	}
}

// Placement is one seeded tile
type Placement struct {
	Position model.Position
	Tile     model.Tile
}

// Seeder places starter tiles before the first move
type Seeder struct {
	random random.Random
	limits Limits
	logger *slog.Logger
}

// New creates a Seeder
func New(rnd random.Random, limits Limits, logger *slog.Logger) *Seeder {
	return &Seeder{
		random: rnd,
		limits: limits,
		logger: logger.With(slog.String("component", "seeder")),
	}
}

// PlaceInitialTiles computes starter tiles for board without modifying it.
// Shortfall is not an error: the best partial placement is returned.
func (s *Seeder) PlaceInitialTiles(board *model.Board, ruleset rules.Ruleset, catalog tileset.Catalog, cfg model.InitialTiles) []Placement {
	var placements []Placement
	switch {
	case cfg.Type == model.InitialTilesRandom:
		placements = s.seedRandom(board, ruleset, catalog, cfg.Count)
	case cfg.Type == model.InitialTilesArrangement && cfg.Style == model.ArrangementCentre:
		placements = s.seedCentre(board, ruleset, catalog)
	case cfg.Type == model.InitialTilesArrangement && cfg.Style == model.ArrangementBorder:
		placements = s.seedBorder(board, ruleset, catalog)
	default:
		return nil
	}

	s.logger.Debug("initial tiles seeded",
		slog.String("type", string(cfg.Type)),
		slog.String("style", string(cfg.Style)),
		slog.Int("requested", cfg.Count),
		slog.Int("placed", len(placements)),
	)
	return placements
}

func (s *Seeder) seedRandom(board *model.Board, ruleset rules.Ruleset, catalog tileset.Catalog, count int) []Placement {
	scratch := board.Clone()
	positions := board.EmptyPositions()
	s.random.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	var placements []Placement
	for i := 0; i < count && i < len(positions); i++ {
		pos := positions[i]
		tile, ok := s.findTile(scratch, pos, ruleset, catalog, s.limits.RandomCandidateAttempts)
		if !ok {
			continue
		}
		scratch.Place(pos, tile)
		placements = append(placements, Placement{Position: pos, Tile: tile})
	}
	return placements
}

func (s *Seeder) seedCentre(board *model.Board, ruleset rules.Ruleset, catalog tileset.Catalog) []Placement {
	pos := board.Center()
	if !board.IsEmpty(pos) {
		return nil
	}
	tile, ok := s.findTile(board.Clone(), pos, ruleset, catalog, s.limits.RandomCandidateAttempts)
	if !ok {
		return nil
	}
	return []Placement{{Position: pos, Tile: tile}}
}

// findTile draws up to attempts tiles and returns the first rotation that
// passes the border policy and matches seeded neighbours
func (s *Seeder) findTile(scratch *model.Board, pos model.Position, ruleset rules.Ruleset, catalog tileset.Catalog, attempts int) (model.Tile, bool) {
	for range attempts {
		candidate := s.starterTile(catalog)
		for r := 0; r < 4; r++ {
			rotated := candidate.WithRotation(r)
			if fits(scratch, pos, rotated, ruleset) {
				return rotated, true
			}
		}
	}
	return model.Tile{}, false
}

func (s *Seeder) starterTile(catalog tileset.Catalog) model.Tile {
	tile := catalog.GenerateTile(-1, 0)
	tile.IsStarter = true
	return tile
}

func fits(scratch *model.Board, pos model.Position, tile model.Tile, ruleset rules.Ruleset) bool {
	return ruleset.BorderAllows(scratch, pos, tile) && ruleset.EdgesMatch(scratch, pos, tile)
}

// PerimeterPath walks the outer ring clockwise from the top-left corner
func PerimeterPath(size int) []model.Position {
	if size <= 0 {
		return nil
	}
	if size == 1 {
		return []model.Position{{X: 0, Y: 0}}
	}
	path := make([]model.Position, 0, 4*(size-1))
	for x := 0; x < size; x++ {
		path = append(path, model.Position{X: x, Y: 0})
	}
	for y := 1; y < size; y++ {
		path = append(path, model.Position{X: size - 1, Y: y})
	}
	for x := size - 2; x >= 0; x-- {
		path = append(path, model.Position{X: x, Y: size - 1})
	}
	for y := size - 2; y >= 1; y-- {
		path = append(path, model.Position{X: 0, Y: y})
	}
	return path
}
