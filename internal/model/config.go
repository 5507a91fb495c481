package model

import (
	"fmt"
	"time"
)

const (
	DefaultBoardSize = 9
	DefaultRackSize  = 5
	DefaultTimeLimit = 60 // seconds
	DefaultTileSet   = "streets"
	DefaultRuleset   = "basic"

	MinBoardSize = 3
	MaxBoardSize = 25
	MaxRackSize  = 12
	MaxPlayers   = 8
)

// InitialTilesType selects how starter tiles are seeded
type InitialTilesType string

const (
	InitialTilesNone        InitialTilesType = ""
	InitialTilesRandom      InitialTilesType = "random"
	InitialTilesArrangement InitialTilesType = "arrangement"
)

// ArrangementStyle selects the fixed arrangement shape
type ArrangementStyle string

const (
	ArrangementBorder ArrangementStyle = "border"
	ArrangementCentre ArrangementStyle = "centre"
)

// InitialTiles configures board seeding
type InitialTiles struct {
	Type  InitialTilesType `json:"type,omitempty" yaml:"type,omitempty"`
	Count int              `json:"count,omitempty" yaml:"count,omitempty"`
	Style ArrangementStyle `json:"style,omitempty" yaml:"style,omitempty"`
}

// Enabled reports whether any seeding is requested
func (it InitialTiles) Enabled() bool {
	switch it.Type {
	case InitialTilesRandom:
		return it.Count > 0
	case InitialTilesArrangement:
		return true
	default:
		return false
	}
}

// TileSetOptions tunes tile generation. Zero values select the defaults.
type TileSetOptions struct {
	// Streets
	StreetProbability      float64 `json:"street_probability,omitempty" yaml:"street_probability,omitempty"`
	EnableCenterPatterns   *bool   `json:"enable_center_patterns,omitempty" yaml:"enable_center_patterns,omitempty"`
	CenterPatternFrequency float64 `json:"center_pattern_frequency,omitempty" yaml:"center_pattern_frequency,omitempty"`
	CirclesWeight          float64 `json:"circles_weight,omitempty" yaml:"circles_weight,omitempty"`

	// Shapes
	ShapeCount       int     `json:"shape_count,omitempty" yaml:"shape_count,omitempty"`
	EnableBlankSides bool    `json:"enable_blank_sides,omitempty" yaml:"enable_blank_sides,omitempty"`
	BlankProbability float64 `json:"blank_probability,omitempty" yaml:"blank_probability,omitempty"`
}

// RulesetOptions toggles rule variations
type RulesetOptions struct {
	EnableFreePlay    bool `json:"enable_free_play,omitempty" yaml:"enable_free_play,omitempty"`
	EnableBorderRule  bool `json:"enable_border_rule,omitempty" yaml:"enable_border_rule,omitempty"`
	AllowBlankMatches bool `json:"allow_blank_matches,omitempty" yaml:"allow_blank_matches,omitempty"`
}

// ScoringOptions overrides a scoring preset. Nil and zero fields keep the
// preset's value.
type ScoringOptions struct {
	StarterTileMultiplier int  `json:"starter_tile_multiplier,omitempty" yaml:"starter_tile_multiplier,omitempty"`
	CenterBonus           *int `json:"center_bonus,omitempty" yaml:"center_bonus,omitempty"`
	IntersectionBonus     *int `json:"intersection_bonus,omitempty" yaml:"intersection_bonus,omitempty"`
	PathPoints            int  `json:"path_points,omitempty" yaml:"path_points,omitempty"`

	IncrementalPaths *bool `json:"incremental_paths,omitempty" yaml:"incremental_paths,omitempty"`
	EndGamePaths     *bool `json:"end_game_paths,omitempty" yaml:"end_game_paths,omitempty"`
}

// GameConfig is the setup-time description of a game
type GameConfig struct {
	BoardSize    int           `json:"board_size" yaml:"board_size"`
	RackSize     int           `json:"rack_size" yaml:"rack_size"`
	TileSet      string        `json:"tile_set" yaml:"tile_set"`
	Ruleset      string        `json:"ruleset" yaml:"ruleset"`
	Scoring      string        `json:"scoring,omitempty" yaml:"scoring,omitempty"` // Empty selects the tile set's default
	InitialTiles InitialTiles  `json:"initial_tiles" yaml:"initial_tiles"`
	EnableTimer  bool          `json:"enable_timer" yaml:"enable_timer"`
	TimeLimit    int           `json:"time_limit" yaml:"time_limit"` // seconds
	Players      []PlayerSetup `json:"players" yaml:"players"`

	TileSetOptions TileSetOptions `json:"tile_set_options" yaml:"tile_set_options"`
	RulesetOptions RulesetOptions `json:"ruleset_options" yaml:"ruleset_options"`
	ScoringOptions ScoringOptions `json:"scoring_options" yaml:"scoring_options"`
}

// Normalize fills defaults in place and returns the config
func (c *GameConfig) Normalize() *GameConfig {
	if c.BoardSize == 0 {
		c.BoardSize = DefaultBoardSize
	}
	if c.RackSize == 0 {
		c.RackSize = DefaultRackSize
	}
	if c.TileSet == "" {
		c.TileSet = DefaultTileSet
	}
	if c.Ruleset == "" {
		c.Ruleset = DefaultRuleset
	}
	if c.TimeLimit == 0 {
		c.TimeLimit = DefaultTimeLimit
	}
	if len(c.Players) == 0 {
		c.Players = []PlayerSetup{{Name: "Player 1"}}
	}
	for i := range c.Players {
		if c.Players[i].Name == "" {
			c.Players[i].Name = fmt.Sprintf("Player %d", i+1)
		}
	}

	// Anything that is not an arrangement is treated as random seeding
	switch c.InitialTiles.Type {
	case InitialTilesArrangement:
		if c.InitialTiles.Style == "" {
			c.InitialTiles.Style = ArrangementBorder
		}
		c.InitialTiles.Count = 0
	default:
		if c.InitialTiles.Count > 0 {
			c.InitialTiles.Type = InitialTilesRandom
		} else {
			c.InitialTiles = InitialTiles{}
		}
	}
	return c
}

// Validate checks a normalized config
func (c *GameConfig) Validate() error {
	if c.BoardSize < MinBoardSize || c.BoardSize > MaxBoardSize {
		return fmt.Errorf("%w: board size must be between %d and %d", ErrInvalidConfig, MinBoardSize, MaxBoardSize)
	}
	if c.RackSize < 1 || c.RackSize > MaxRackSize {
		return fmt.Errorf("%w: rack size must be between 1 and %d", ErrInvalidConfig, MaxRackSize)
	}
	if len(c.Players) == 0 {
		return ErrNoPlayers
	}
	if len(c.Players) > MaxPlayers {
		return fmt.Errorf("%w: at most %d players", ErrInvalidConfig, MaxPlayers)
	}
	if c.EnableTimer && c.TimeLimit < 1 {
		return fmt.Errorf("%w: time limit must be positive", ErrInvalidConfig)
	}
	if c.InitialTiles.Count < 0 || c.InitialTiles.Count > c.BoardSize*c.BoardSize {
		return fmt.Errorf("%w: initial tile count out of range", ErrInvalidConfig)
	}
	if c.InitialTiles.Type == InitialTilesArrangement {
		switch c.InitialTiles.Style {
		case ArrangementBorder, ArrangementCentre:
		default:
			return fmt.Errorf("%w: unknown arrangement style %q", ErrInvalidConfig, c.InitialTiles.Style)
		}
	}
	o := c.ScoringOptions
	if o.IncrementalPaths != nil && o.EndGamePaths != nil && *o.IncrementalPaths && *o.EndGamePaths {
		return ErrConflictingPathModes
	}
	return nil
}

// TurnDuration returns the per-turn time limit
func (c *GameConfig) TurnDuration() time.Duration {
	return time.Duration(c.TimeLimit) * time.Second
}
