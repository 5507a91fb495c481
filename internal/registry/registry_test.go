package registry

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tilegame-go/internal/dependencies/mocks"
	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/rules"
	"github.com/mcoot/tilegame-go/internal/services/scoring"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// brokenCatalog generates tiles outside its own alphabet
type brokenCatalog struct {
	*tileset.Streets
}

func (c brokenCatalog) GenerateTile(ownerIndex, playerCount int) model.Tile {
	return model.Tile{Sides: [4]model.Side{"lava", "lava", "lava", "lava"}}
}

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = Default()
}

func (s *RegistrySuite) TestDefaultVariants() {
	s.Equal([]Variant{
		{Name: "shapes", Description: "Coloured shapes matched edge to edge"},
		{Name: "streets", Description: "Roads that join up across tiles"},
	}, s.registry.TileSets())
	s.Len(s.registry.Rulesets(), 1)
	s.Len(s.registry.ScoringSystems(), 3)
}

func (s *RegistrySuite) TestScoringFallback() {
	s.Equal(scoring.StreetName, s.registry.ScoringFor(tileset.StreetsName))
	s.Equal(scoring.StandardName, s.registry.ScoringFor(tileset.ShapesName))
	s.Equal(scoring.StandardName, s.registry.ScoringFor("anything"))
}

func (s *RegistrySuite) TestBuildUsesTileSetScoring() {
	cfg := (&model.GameConfig{}).Normalize()
	components, err := s.registry.Build(cfg, mocks.NewMockRandom())
	s.Require().NoError(err)

	s.Equal(tileset.StreetsName, components.Catalog.Name())
	s.Equal(rules.BasicName, components.Ruleset.Name())
	s.Equal(scoring.StreetName, components.Scoring.Name())
	s.Equal(scoring.PathModeIncremental, components.Scoring.Mode())
}

func (s *RegistrySuite) TestBuildHonoursExplicitScoring() {
	cfg := (&model.GameConfig{TileSet: tileset.ShapesName, Scoring: scoring.EnhancedName}).Normalize()
	components, err := s.registry.Build(cfg, random.New())
	s.Require().NoError(err)
	s.Equal(scoring.EnhancedName, components.Scoring.Name())
	s.Equal(tileset.ShapesName, components.Catalog.Name())
}

func (s *RegistrySuite) TestBuildUnknownNames() {
	_, err := s.registry.Build((&model.GameConfig{TileSet: "tarot"}).Normalize(), random.New())
	s.ErrorIs(err, model.ErrUnknownTileSet)

	_, err = s.registry.Build((&model.GameConfig{Ruleset: "chess"}).Normalize(), random.New())
	s.ErrorIs(err, model.ErrUnknownRuleset)

	_, err = s.registry.Build((&model.GameConfig{Scoring: "golf"}).Normalize(), random.New())
	s.ErrorIs(err, model.ErrUnknownScoring)
}

func (s *RegistrySuite) TestBuildPropagatesPathConflict() {
	yes := true
	cfg := (&model.GameConfig{ScoringOptions: model.ScoringOptions{IncrementalPaths: &yes, EndGamePaths: &yes}}).Normalize()
	_, err := s.registry.Build(cfg, random.New())
	s.ErrorIs(err, model.ErrConflictingPathModes)
}

func (s *RegistrySuite) TestRegisterRejectsBadEntries() {
	s.ErrorIs(s.registry.RegisterTileSet("", "", nil), model.ErrInvalidRegistration)
	s.ErrorIs(s.registry.RegisterRuleset("x", "", nil), model.ErrInvalidRegistration)
	s.ErrorIs(s.registry.RegisterScoring("", "", nil), model.ErrInvalidRegistration)

	err := s.registry.RegisterTileSet("broken", "", func(_ model.TileSetOptions, rnd random.Random) tileset.Catalog {
		return brokenCatalog{tileset.NewStreets(tileset.DefaultStreetsOptions(), rnd)}
	})
	s.ErrorIs(err, model.ErrInvalidRegistration)

	err = s.registry.RegisterScoring("bad", "", func(_ model.ScoringOptions, c tileset.Catalog) (scoring.Engine, error) {
		cfg := scoring.Standard()
		cfg.StarterMultiplier = 0
		return scoring.New(cfg, c)
	})
	s.ErrorIs(err, model.ErrInvalidRegistration)
}

func (s *RegistrySuite) TestRegisterRejectsDuplicates() {
	err := s.registry.RegisterTileSet(tileset.StreetsName, "", func(_ model.TileSetOptions, rnd random.Random) tileset.Catalog {
		return tileset.NewStreets(tileset.DefaultStreetsOptions(), rnd)
	})
	s.ErrorIs(err, model.ErrDuplicateRegistration)
}

func (s *RegistrySuite) TestMustRegisterPanics() {
	s.Panics(func() {
		s.registry.MustRegisterRuleset(rules.BasicName, "", func(_ model.RulesetOptions, c tileset.Catalog) rules.Ruleset {
			return rules.NewBasic(rules.Options{}, c)
		})
	})
}

func (s *RegistrySuite) TestSetDefaultScoringValidatesNames() {
	s.ErrorIs(s.registry.SetDefaultScoring("tarot", scoring.StandardName), model.ErrUnknownTileSet)
	s.ErrorIs(s.registry.SetDefaultScoring(tileset.ShapesName, "golf"), model.ErrUnknownScoring)

	s.Require().NoError(s.registry.SetDefaultScoring(tileset.ShapesName, scoring.EnhancedName))
	s.Equal(scoring.EnhancedName, s.registry.ScoringFor(tileset.ShapesName))
}
