package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/rules"
	"github.com/mcoot/tilegame-go/internal/services/scoring"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// TileSetFactory builds a catalog drawing from rnd
type TileSetFactory func(opts model.TileSetOptions, rnd random.Random) tileset.Catalog

// RulesetFactory builds a ruleset for catalog
type RulesetFactory func(opts model.RulesetOptions, catalog tileset.Catalog) rules.Ruleset

// ScoringFactory builds a scoring engine for catalog
type ScoringFactory func(opts model.ScoringOptions, catalog tileset.Catalog) (scoring.Engine, error)

// Variant describes a registered entry
type Variant struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type tileSetEntry struct {
	Variant
	factory TileSetFactory
}

type rulesetEntry struct {
	Variant
	factory RulesetFactory
}

type scoringEntry struct {
	Variant
	factory ScoringFactory
}

// Components are the variant implementations a session plays with
type Components struct {
	Catalog tileset.Catalog
	Ruleset rules.Ruleset
	Scoring scoring.Engine
}

// Registry maps variant names to factories. Safe for concurrent use.
type Registry struct {
	mu             sync.RWMutex
	tileSets       map[string]tileSetEntry
	rulesets       map[string]rulesetEntry
	scoring        map[string]scoringEntry
	defaultScoring map[string]string
	fallback       string
}

// New creates an empty registry. Tile sets without a mapped scoring
// system fall back to the standard preset.
func New() *Registry {
	return &Registry{
		tileSets:       make(map[string]tileSetEntry),
		rulesets:       make(map[string]rulesetEntry),
		scoring:        make(map[string]scoringEntry),
		defaultScoring: make(map[string]string),
		fallback:       scoring.StandardName,
	}
}

// Default returns a registry holding the built-in variants
func Default() *Registry {
	r := New()

	r.MustRegisterTileSet(tileset.StreetsName, "Roads that join up across tiles",
		func(opts model.TileSetOptions, rnd random.Random) tileset.Catalog {
			return tileset.NewStreets(tileset.StreetsOptionsFrom(opts), rnd)
		})
	r.MustRegisterTileSet(tileset.ShapesName, "Coloured shapes matched edge to edge",
		func(opts model.TileSetOptions, rnd random.Random) tileset.Catalog {
			return tileset.NewShapes(tileset.ShapesOptionsFrom(opts), rnd)
		})

	r.MustRegisterRuleset(rules.BasicName, "Adjacent placement with matching edges",
		func(opts model.RulesetOptions, catalog tileset.Catalog) rules.Ruleset {
			return rules.NewBasic(rules.OptionsFrom(opts), catalog)
		})

	presets := scoring.Presets()
	for _, name := range []string{scoring.StandardName, scoring.EnhancedName, scoring.StreetName} {
		r.MustRegisterScoring(name, presetDescriptions[name], presetFactory(presets[name]))
	}
	r.MustSetDefaultScoring(tileset.StreetsName, scoring.StreetName)

	return r
}

var presetDescriptions = map[string]string{
	scoring.StandardName: "Points for matching edges",
	scoring.EnhancedName: "Matching edges plus centre and intersection bonuses",
	scoring.StreetName:   "Road connections, patterns and longest paths",
}

func presetFactory(preset scoring.Config) ScoringFactory {
	return func(opts model.ScoringOptions, catalog tileset.Catalog) (scoring.Engine, error) {
		cfg, err := preset.Apply(opts)
		if err != nil {
			return nil, err
		}
		return scoring.New(cfg, catalog)
	}
}

// RegisterTileSet adds a tile set. The factory's default instance must
// generate tiles that it accepts as valid.
func (r *Registry) RegisterTileSet(name, description string, factory TileSetFactory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("%w: tile set needs a name and a factory", model.ErrInvalidRegistration)
	}

	catalog := factory(model.TileSetOptions{}, random.New())
	if catalog == nil || len(catalog.Alphabet()) == 0 {
		return fmt.Errorf("%w: tile set %q has no alphabet", model.ErrInvalidRegistration, name)
	}
	if !catalog.ValidateTile(catalog.GenerateTile(-1, 0)) {
		return fmt.Errorf("%w: tile set %q generates tiles it rejects", model.ErrInvalidRegistration, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tileSets[name]; ok {
		return fmt.Errorf("%w: tile set %q", model.ErrDuplicateRegistration, name)
	}
	r.tileSets[name] = tileSetEntry{Variant: Variant{Name: name, Description: description}, factory: factory}
	return nil
}

// RegisterRuleset adds a ruleset. The factory's default instance must
// accept the opening move on an empty board.
func (r *Registry) RegisterRuleset(name, description string, factory RulesetFactory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("%w: ruleset needs a name and a factory", model.ErrInvalidRegistration)
	}

	probe := tileset.NewStreets(tileset.DefaultStreetsOptions(), random.New())
	ruleset := factory(model.RulesetOptions{}, probe)
	if ruleset == nil {
		return fmt.Errorf("%w: ruleset %q factory returned nil", model.ErrInvalidRegistration, name)
	}
	if len(ruleset.ValidMoves(model.NewBoard(model.MinBoardSize), probe.GenerateTile(-1, 0))) == 0 {
		return fmt.Errorf("%w: ruleset %q allows no opening move", model.ErrInvalidRegistration, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rulesets[name]; ok {
		return fmt.Errorf("%w: ruleset %q", model.ErrDuplicateRegistration, name)
	}
	r.rulesets[name] = rulesetEntry{Variant: Variant{Name: name, Description: description}, factory: factory}
	return nil
}

// RegisterScoring adds a scoring system. The factory's default instance
// must build without error.
func (r *Registry) RegisterScoring(name, description string, factory ScoringFactory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("%w: scoring system needs a name and a factory", model.ErrInvalidRegistration)
	}

	probe := tileset.NewStreets(tileset.DefaultStreetsOptions(), random.New())
	engine, err := factory(model.ScoringOptions{}, probe)
	if err != nil {
		return fmt.Errorf("%w: scoring system %q: %v", model.ErrInvalidRegistration, name, err)
	}
	if engine == nil {
		return fmt.Errorf("%w: scoring system %q factory returned nil", model.ErrInvalidRegistration, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scoring[name]; ok {
		return fmt.Errorf("%w: scoring system %q", model.ErrDuplicateRegistration, name)
	}
	r.scoring[name] = scoringEntry{Variant: Variant{Name: name, Description: description}, factory: factory}
	return nil
}

// SetDefaultScoring maps a tile set to the scoring system it uses when a
// game config does not name one
func (r *Registry) SetDefaultScoring(tileSet, scoringName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tileSets[tileSet]; !ok {
		return fmt.Errorf("%w: %q", model.ErrUnknownTileSet, tileSet)
	}
	if _, ok := r.scoring[scoringName]; !ok {
		return fmt.Errorf("%w: %q", model.ErrUnknownScoring, scoringName)
	}
	r.defaultScoring[tileSet] = scoringName
	return nil
}

// MustRegisterTileSet is RegisterTileSet but panics on error
func (r *Registry) MustRegisterTileSet(name, description string, factory TileSetFactory) {
	if err := r.RegisterTileSet(name, description, factory); err != nil {
		panic(err)
	}
}

// MustRegisterRuleset is RegisterRuleset but panics on error
func (r *Registry) MustRegisterRuleset(name, description string, factory RulesetFactory) {
	if err := r.RegisterRuleset(name, description, factory); err != nil {
		panic(err)
	}
}

// MustRegisterScoring is RegisterScoring but panics on error
func (r *Registry) MustRegisterScoring(name, description string, factory ScoringFactory) {
	if err := r.RegisterScoring(name, description, factory); err != nil {
		panic(err)
	}
}

// MustSetDefaultScoring is SetDefaultScoring but panics on error
func (r *Registry) MustSetDefaultScoring(tileSet, scoringName string) {
	if err := r.SetDefaultScoring(tileSet, scoringName); err != nil {
		panic(err)
	}
}

// ScoringFor returns the scoring system a tile set uses by default
func (r *Registry) ScoringFor(tileSet string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.defaultScoring[tileSet]; ok {
		return name
	}
	return r.fallback
}

// Build creates the components for a normalized config. Catalogs draw
// from rnd.
func (r *Registry) Build(cfg *model.GameConfig, rnd random.Random) (*Components, error) {
	r.mu.RLock()
	ts, ok := r.tileSets[cfg.TileSet]
	rs, rsOK := r.rulesets[cfg.Ruleset]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownTileSet, cfg.TileSet)
	}
	if !rsOK {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownRuleset, cfg.Ruleset)
	}

	scoringName := cfg.Scoring
	if scoringName == "" {
		scoringName = r.ScoringFor(cfg.TileSet)
	}
	r.mu.RLock()
	sc, ok := r.scoring[scoringName]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownScoring, scoringName)
	}

	catalog := ts.factory(cfg.TileSetOptions, rnd)
	engine, err := sc.factory(cfg.ScoringOptions, catalog)
	if err != nil {
		return nil, err
	}

	return &Components{
		Catalog: catalog,
		Ruleset: rs.factory(cfg.RulesetOptions, catalog),
		Scoring: engine,
	}, nil
}

// TileSets lists registered tile sets by name
func (r *Registry) TileSets() []Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedVariants(r.tileSets, func(e tileSetEntry) Variant { return e.Variant })
}

// Rulesets lists registered rulesets by name
func (r *Registry) Rulesets() []Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedVariants(r.rulesets, func(e rulesetEntry) Variant { return e.Variant })
}

// ScoringSystems lists registered scoring systems by name
func (r *Registry) ScoringSystems() []Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedVariants(r.scoring, func(e scoringEntry) Variant { return e.Variant })
}

func sortedVariants[E any](entries map[string]E, variant func(E) Variant) []Variant {
	out := make([]Variant, 0, len(entries))
	for _, e := range entries {
		out = append(out, variant(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
