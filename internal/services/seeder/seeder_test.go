package seeder

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tilegame-go/internal/dependencies/mocks"
	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/rules"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
	"github.com/mcoot/tilegame-go/internal/testutil"
)

type SeederSuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
}

func TestSeederSuite(t *testing.T) {
	suite.Run(t, new(SeederSuite))
}

func (s *SeederSuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
}

func (s *SeederSuite) assertConsistent(board *model.Board, placements []Placement, ruleset rules.Ruleset) {
	scratch := board.Clone()
	for _, p := range placements {
		s.True(p.Tile.IsStarter)
		s.Empty(p.Tile.Color)
		s.True(ruleset.BorderAllows(scratch, p.Position, p.Tile), "border policy at %v", p.Position)
		s.True(ruleset.EdgesMatch(scratch, p.Position, p.Tile), "edges at %v", p.Position)
		s.Require().True(scratch.Place(p.Position, p.Tile), "duplicate position %v", p.Position)
	}
}

func (s *SeederSuite) TestPerimeterPathClockwise() {
	path := PerimeterPath(3)
	s.Equal([]model.Position{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 2, Y: 1}, {X: 2, Y: 2},
		{X: 1, Y: 2}, {X: 0, Y: 2},
		{X: 0, Y: 1},
	}, path)
	s.Len(PerimeterPath(5), 16)
	s.Len(PerimeterPath(9), 32)
}

func (s *SeederSuite) TestBorderSeedingTouchesOnlyPerimeter() {
	rnd := random.NewSeeded(7)
	catalog := tileset.NewStreets(tileset.DefaultStreetsOptions(), rnd)
	ruleset := rules.NewBasic(rules.Options{EnableBorderRule: true}, catalog)
	seeder := New(rnd, DefaultLimits(), testutil.NopLogger())
	board := model.NewBoard(5)

	placements := seeder.PlaceInitialTiles(board, ruleset, catalog, model.InitialTiles{Type: model.InitialTilesArrangement, Style: model.ArrangementBorder})

	s.NotEmpty(placements)
	s.LessOrEqual(len(placements), 16)
	for _, p := range placements {
		s.True(board.IsBorder(p.Position), "interior cell %v seeded", p.Position)
	}
	s.assertConsistent(board, placements, ruleset)
	s.Equal(25, board.EmptyCount(), "seeding must not write to the board")
}

func (s *SeederSuite) TestBorderSeedingCompletesWhenEverythingMatches() {
	// All tiles come out as four streets
	catalog := tileset.NewStreets(tileset.DefaultStreetsOptions(), s.mockRandom)
	ruleset := rules.NewBasic(rules.Options{}, catalog)
	seeder := New(s.mockRandom, DefaultLimits(), testutil.NopLogger())
	board := model.NewBoard(5)

	placements := seeder.PlaceInitialTiles(board, ruleset, catalog, model.InitialTiles{Type: model.InitialTilesArrangement, Style: model.ArrangementBorder})

	s.Require().Len(placements, 16)
	s.Equal(PerimeterPath(5)[0], placements[0].Position)
	s.assertConsistent(board, placements, ruleset)
}

func (s *SeederSuite) TestBorderSeedingGivesUpWithinBudget() {
	// Shapes without blanks can never satisfy the border rule
	catalog := tileset.NewShapes(tileset.DefaultShapesOptions(), random.NewSeeded(1))
	ruleset := rules.NewBasic(rules.Options{EnableBorderRule: true}, catalog)
	limits := Limits{RandomCandidateAttempts: 5, BorderCandidateAttempts: 5, MaxRestarts: 3, MaxSearchSteps: 100}
	seeder := New(random.NewSeeded(1), limits, testutil.NopLogger())

	placements := seeder.PlaceInitialTiles(model.NewBoard(5), ruleset, catalog, model.InitialTiles{Type: model.InitialTilesArrangement, Style: model.ArrangementBorder})
	s.Empty(placements)
}

func (s *SeederSuite) TestBorderSeedingReturnsBestPartial() {
	rnd := random.NewSeeded(3)
	opts := tileset.DefaultShapesOptions()
	opts.EnableBlankSides = true
	catalog := tileset.NewShapes(opts, rnd)
	ruleset := rules.NewBasic(rules.Options{EnableBorderRule: true}, catalog)
	limits := Limits{RandomCandidateAttempts: 5, BorderCandidateAttempts: 3, MaxRestarts: 2, MaxSearchSteps: 500}
	seeder := New(rnd, limits, testutil.NopLogger())
	board := model.NewBoard(5)

	placements := seeder.PlaceInitialTiles(board, ruleset, catalog, model.InitialTiles{Type: model.InitialTilesArrangement, Style: model.ArrangementBorder})

	path := PerimeterPath(5)
	for i, p := range placements {
		s.Equal(path[i], p.Position)
	}
	s.assertConsistent(board, placements, ruleset)
}

func (s *SeederSuite) TestRandomSeedingPlacesCount() {
	catalog := tileset.NewStreets(tileset.DefaultStreetsOptions(), s.mockRandom)
	ruleset := rules.NewBasic(rules.Options{}, catalog)
	seeder := New(s.mockRandom, DefaultLimits(), testutil.NopLogger())
	board := model.NewBoard(5)

	placements := seeder.PlaceInitialTiles(board, ruleset, catalog, model.InitialTiles{Type: model.InitialTilesRandom, Count: 3})

	s.Require().Len(placements, 3)
	s.Equal(model.Position{X: 0, Y: 0}, placements[0].Position)
	s.assertConsistent(board, placements, ruleset)
}

func (s *SeederSuite) TestRandomSeedingSkipsCellsThatCannotFit() {
	rnd := random.NewSeeded(11)
	catalog := tileset.NewShapes(tileset.DefaultShapesOptions(), rnd)
	ruleset := rules.NewBasic(rules.Options{}, catalog)
	seeder := New(rnd, Limits{RandomCandidateAttempts: 2, BorderCandidateAttempts: 1, MaxRestarts: 1, MaxSearchSteps: 10}, testutil.NopLogger())
	board := model.NewBoard(4)

	placements := seeder.PlaceInitialTiles(board, ruleset, catalog, model.InitialTiles{Type: model.InitialTilesRandom, Count: 16})

	s.NotEmpty(placements)
	s.LessOrEqual(len(placements), 16)
	s.assertConsistent(board, placements, ruleset)
}

func (s *SeederSuite) TestCentreSeeding() {
	catalog := tileset.NewStreets(tileset.DefaultStreetsOptions(), s.mockRandom)
	ruleset := rules.NewBasic(rules.Options{EnableBorderRule: true}, catalog)
	seeder := New(s.mockRandom, DefaultLimits(), testutil.NopLogger())

	placements := seeder.PlaceInitialTiles(model.NewBoard(9), ruleset, catalog, model.InitialTiles{Type: model.InitialTilesArrangement, Style: model.ArrangementCentre})

	s.Require().Len(placements, 1)
	s.Equal(model.Position{X: 4, Y: 4}, placements[0].Position)
	s.True(placements[0].Tile.IsStarter)
}

func (s *SeederSuite) TestNoSeedingRequested() {
	catalog := tileset.NewStreets(tileset.DefaultStreetsOptions(), s.mockRandom)
	ruleset := rules.NewBasic(rules.Options{}, catalog)
	seeder := New(s.mockRandom, DefaultLimits(), testutil.NopLogger())

	s.Nil(seeder.PlaceInitialTiles(model.NewBoard(5), ruleset, catalog, model.InitialTiles{}))
}
