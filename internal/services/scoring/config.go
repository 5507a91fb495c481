package scoring

import (
	"fmt"
	"maps"

	"github.com/mcoot/tilegame-go/internal/model"
)

// Preset names
const (
	StandardName = "standard"
	EnhancedName = "enhanced"
	StreetName   = "street"
)

// PathMode selects how longest-path bonuses are awarded
type PathMode string

const (
	PathModeNone        PathMode = "none"
	PathModeIncremental PathMode = "incremental" // improvement credited move by move
	PathModeEndGame     PathMode = "endgame"     // whole path credited once at the end
)

// Config holds the weights for one scoring system
type Config struct {
	Name string

	// MatchScores maps a match count to points
	MatchScores map[int]int

	// ConnectorOnly counts only connector-to-connector matches
	ConnectorOnly bool

	StarterMultiplier int
	CenterBonus       int
	IntersectionBonus int
	PatternScores     map[model.CenterPattern]int

	PathMode      PathMode
	PointsPerTile int
}

func quadratic() map[int]int {
	return map[int]int{1: 1, 2: 4, 3: 9, 4: 16}
}

// Standard scores equal facing sides, ignoring blanks
func Standard() Config {
	return Config{
		Name:              StandardName,
		MatchScores:       quadratic(),
		StarterMultiplier: 2,
		PathMode:          PathModeNone,
		PointsPerTile:     3,
	}
}

// Enhanced is Standard plus centre and intersection bonuses
func Enhanced() Config {
	c := Standard()
	c.Name = EnhancedName
	c.CenterBonus = 5
	c.IntersectionBonus = 5
	return c
}

// Street scores road connections, centre patterns, and longest paths
func Street() Config {
	return Config{
		Name:              StreetName,
		MatchScores:       quadratic(),
		ConnectorOnly:     true,
		StarterMultiplier: 2,
		PatternScores: map[model.CenterPattern]int{
			model.PatternSquares: 20,
			model.PatternCircles: 10,
		},
		PathMode:      PathModeIncremental,
		PointsPerTile: 3,
	}
}

// Presets returns the built-in configs by name
func Presets() map[string]Config {
	return map[string]Config{
		StandardName: Standard(),
		EnhancedName: Enhanced(),
		StreetName:   Street(),
	}
}

// Apply overlays config options on a copy of c
func (c Config) Apply(o model.ScoringOptions) (Config, error) {
	out := c
	out.MatchScores = maps.Clone(c.MatchScores)
	out.PatternScores = maps.Clone(c.PatternScores)

	if o.StarterTileMultiplier > 0 {
		out.StarterMultiplier = o.StarterTileMultiplier
	}
	if o.CenterBonus != nil {
		out.CenterBonus = *o.CenterBonus
	}
	if o.IntersectionBonus != nil {
		out.IntersectionBonus = *o.IntersectionBonus
	}
	if o.PathPoints > 0 {
		out.PointsPerTile = o.PathPoints
	}

	incremental := o.IncrementalPaths != nil && *o.IncrementalPaths
	endGame := o.EndGamePaths != nil && *o.EndGamePaths
	switch {
	case incremental && endGame:
		return Config{}, model.ErrConflictingPathModes
	case incremental:
		out.PathMode = PathModeIncremental
	case endGame:
		out.PathMode = PathModeEndGame
	case o.IncrementalPaths != nil && out.PathMode == PathModeIncremental,
		o.EndGamePaths != nil && out.PathMode == PathModeEndGame:
		// Explicitly switched off
		out.PathMode = PathModeNone
	}
	return out, nil
}

// Validate checks that the config describes exactly one path mode and
// sane weights
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: scoring config has no name", model.ErrInvalidConfig)
	}
	if len(c.MatchScores) == 0 {
		return fmt.Errorf("%w: scoring %q has no match table", model.ErrInvalidConfig, c.Name)
	}
	if c.StarterMultiplier < 1 {
		return fmt.Errorf("%w: scoring %q starter multiplier must be at least 1", model.ErrInvalidConfig, c.Name)
	}
	switch c.PathMode {
	case PathModeNone:
	case PathModeIncremental, PathModeEndGame:
		if c.PointsPerTile < 1 {
			return fmt.Errorf("%w: scoring %q needs points per tile", model.ErrInvalidConfig, c.Name)
		}
	default:
		return fmt.Errorf("%w: unknown path mode %q", model.ErrInvalidConfig, c.PathMode)
	}
	return nil
}
