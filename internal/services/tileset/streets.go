package tileset

import (
	"github.com/samber/lo"

	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/model"
)

// StreetsName is the registry name of the streets tile set
const StreetsName = "streets"

// StreetsOptions tunes street tile generation
type StreetsOptions struct {
	StreetProbability      float64
	EnableCenterPatterns   bool
	CenterPatternFrequency float64
	CirclesWeight          float64 // chance a stamped pattern is circles rather than squares
}

// DefaultStreetsOptions returns the standard generation weights
func DefaultStreetsOptions() StreetsOptions {
	return StreetsOptions{
		StreetProbability:      0.75,
		EnableCenterPatterns:   true,
		CenterPatternFrequency: 0.2,
		CirclesWeight:          0.7,
	}
}

// StreetsOptionsFrom applies config overrides to the defaults
func StreetsOptionsFrom(o model.TileSetOptions) StreetsOptions {
	opts := DefaultStreetsOptions()
	if o.StreetProbability > 0 {
		opts.StreetProbability = o.StreetProbability
	}
	if o.EnableCenterPatterns != nil {
		opts.EnableCenterPatterns = *o.EnableCenterPatterns
	}
	if o.CenterPatternFrequency > 0 {
		opts.CenterPatternFrequency = o.CenterPatternFrequency
	}
	if o.CirclesWeight > 0 {
		opts.CirclesWeight = o.CirclesWeight
	}
	return opts
}

var streetsAlphabet = []model.Side{model.SideStreet, model.SideNonStreet}

// Streets is the road-network tile set. The street side is the path
// connector; circles and squares centre patterns mark path endpoints.
type Streets struct {
	options StreetsOptions
	random  random.Random
}

// NewStreets creates a streets catalog
func NewStreets(options StreetsOptions, rnd random.Random) *Streets {
	return &Streets{
		options: options,
		random:  rnd,
	}
}

func (c *Streets) Name() string {
	return StreetsName
}

func (c *Streets) Alphabet() []model.Side {
	return streetsAlphabet
}

func (c *Streets) Connector() (model.Side, bool) {
	return model.SideStreet, true
}

// Options returns the generation options in use
func (c *Streets) Options() StreetsOptions {
	return c.options
}

// GenerateTile draws each edge independently, then maybe stamps a centre
// pattern. Owned tiles carry the owner's colour.
func (c *Streets) GenerateTile(ownerIndex, playerCount int) model.Tile {
	tile := model.Tile{
		ID: model.TileID(c.random.String(TileIDLength, TileIDAlphabet)),
	}
	for i := range tile.Sides {
		if c.random.Float64() < c.options.StreetProbability {
			tile.Sides[i] = model.SideStreet
		} else {
			tile.Sides[i] = model.SideNonStreet
		}
	}

	if c.options.EnableCenterPatterns && c.random.Float64() < c.options.CenterPatternFrequency {
		if c.random.Float64() < c.options.CirclesWeight {
			tile.CenterPattern = model.PatternCircles
		} else {
			tile.CenterPattern = model.PatternSquares
		}
	}

	if ownerIndex >= 0 {
		tile.Color = model.PlayerColor(ownerIndex, playerCount)
	}
	return tile
}

func (c *Streets) ValidateTile(tile model.Tile) bool {
	for _, side := range tile.Sides {
		if !lo.Contains(streetsAlphabet, side) {
			return false
		}
	}
	return true
}

// OutwardAllowed forbids roads running off the board
func (c *Streets) OutwardAllowed(side model.Side) bool {
	return side != model.SideStreet
}

var streetPatterns = map[model.Side][]Primitive{
	model.SideStreet: {
		{Kind: KindPolygon, Points: []Point{{150, 150}, {200, 100}, {200, 0}, {100, 0}, {100, 100}}, Fill: "#000000"},
		{Kind: KindRect, X: 147.76, Y: 105.95, Width: 4.49, Height: 39.06, Fill: "#FFFFFF"},
		{Kind: KindRect, X: 147.76, Y: 55.23, Width: 4.49, Height: 39.06, Fill: "#FFFFFF"},
		{Kind: KindRect, X: 147.76, Y: 4.98, Width: 4.49, Height: 38.59, Fill: "#FFFFFF"},
		{Kind: KindPolygon, Points: []Point{{102.25, 0}, {103.64, 0}, {103.64, 103.64}, {102.25, 102.25}}, Fill: "#FFFFFF"},
		{Kind: KindPolygon, Points: []Point{{196.36, 103.64}, {196.36, 0}, {197.75, 0}, {197.75, 102.25}}, Fill: "#FFFFFF"},
	},
	model.SideNonStreet: {
		{Kind: KindPolygon, Points: []Point{{150, 150}, {200, 100}, {100, 100}}, Fill: "#000000"},
		{Kind: KindPolygon, Points: []Point{{197.75, 102.25}, {102.25, 102.25}, {103.64, 103.64}, {196.37, 103.64}}, Fill: "#FFFFFF"},
	},
}

var centerPatterns = map[model.CenterPattern][]Primitive{
	model.PatternCircles: {
		{Kind: KindCircle, CX: 150, CY: 150, R: 100, Fill: "#000000"},
		{Kind: KindCircle, CX: 150, CY: 150, R: 96, Stroke: "#FFFFFF", Fill: "none", StrokeWidth: 2},
	},
	model.PatternSquares: {
		{Kind: KindRect, X: 25, Y: 25, Width: 250, Height: 250, Fill: "#000000"},
		{Kind: KindRect, X: 89.19, Y: 89.19, Width: 121.62, Height: 121.62, Stroke: "#FFFFFF", Fill: "#000000"},
		{Kind: KindRect, X: 94.91, Y: 94.91, Width: 110.19, Height: 110.19, Fill: "#FFFFFF"},
	},
}

// Render draws the owner colour, one edge pattern per rotated side, the
// centre pattern, then the starter overlay
func (c *Streets) Render(tile model.Tile, rotation int) []Primitive {
	fill := "#ffffff"
	if tile.Color != "" {
		fill = string(tile.Color)
	}
	prims := []Primitive{background(fill)}

	for i, side := range model.RotateSides(tile.Sides, rotation) {
		prims = append(prims, withQuarter(streetPatterns[side], i)...)
	}
	if tile.CenterPattern != model.PatternNone {
		prims = append(prims, withQuarter(centerPatterns[tile.CenterPattern], 0)...)
	}
	if tile.IsStarter {
		prims = append(prims, Primitive{Kind: KindCircle, CX: 150, CY: 150, R: 135, Fill: "rgba(68, 68, 68, 0.5)"})
	}
	return prims
}

var _ Catalog = (*Streets)(nil)
