package tileset

import (
	"github.com/samber/lo"

	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/model"
)

// ShapesName is the registry name of the shapes tile set
const ShapesName = "shapes"

// ShapesOptions tunes shape tile generation
type ShapesOptions struct {
	ShapeCount       int // how many colours are in play, from the front of the palette
	EnableBlankSides bool
	BlankProbability float64
}

// DefaultShapesOptions returns six shapes and no blanks
func DefaultShapesOptions() ShapesOptions {
	return ShapesOptions{
		ShapeCount:       6,
		EnableBlankSides: false,
		BlankProbability: 0.2,
	}
}

// ShapesOptionsFrom applies config overrides to the defaults
func ShapesOptionsFrom(o model.TileSetOptions) ShapesOptions {
	opts := DefaultShapesOptions()
	if o.ShapeCount > 0 {
		opts.ShapeCount = min(o.ShapeCount, len(shapePalette))
	}
	opts.EnableBlankSides = o.EnableBlankSides
	if o.BlankProbability > 0 {
		opts.BlankProbability = o.BlankProbability
	}
	return opts
}

type shapeStyle struct {
	side  model.Side
	color string
	path  string
}

var shapePalette = []shapeStyle{
	{model.SidePurple, "#a200ff", "M34.2,0 L89.4,0 L89,0.3 L150,61.3 L211,0.3 L210.6,0 L265.8,0 L150,115.8 Z"},
	{model.SideBlue, "#008bda", "M56.7,0 L94.8,0 L94.8,31.8 L122.4,47.7 L150,63.6 L177.6,47.7 L205.2,31.8 L205.2,0 L243.3,0 L243.3,53.9 L196.6,80.8 L150,107.7 L103.4,80.8 L56.7,53.9 Z"},
	{model.SideGreen, "#1f9100", "M68.1,0 L105.5,0 L105.5,44.5 L194,44.5 L194,0 L231.8,0 L231.8,81.8 L68.1,81.8 Z"},
	{model.SideRed, "#df0000", "M243.2,0 C243.2,51.5 201.5,93.2 150,93.2 S56.8,51.5 56.8,0 H95.6 C95.6,30 120,54.4 150,54.4 S204.4,30 204.4,0 H243.2 Z"},
	{model.SideCyan, "#00b0c0", "M71.1,0 H228.9 C228.9,43.5 193.7,78.8 150,78.8 S71.1,43.5 71.1,0 Z"},
	{model.SideOrange, "#ff9018", "M52.1,0 L247.9,0 L247.9,0 L150,97.9 L52.1,0 Z"},
	{model.SidePink, "#ff64ee", "M71,0 L229,0 L229,45.6 L189.4,68.3 L150,91.1 L110.6,68.3 L71,45.6 Z"},
	{model.SideYellow, "#ffde00", "M80.8,0 L219.2,0 L219.2,69.2 L80.8,69.2 Z"},
}

var shapesAlphabet = append(
	[]model.Side{model.SideBlank},
	lo.Map(shapePalette, func(s shapeStyle, _ int) model.Side { return s.side })...,
)

// Shapes is the coloured-shape tile set. It has no connector; Blank is the
// wildcard edge.
type Shapes struct {
	options ShapesOptions
	random  random.Random
}

// NewShapes creates a shapes catalog
func NewShapes(options ShapesOptions, rnd random.Random) *Shapes {
	if options.ShapeCount <= 0 || options.ShapeCount > len(shapePalette) {
		options.ShapeCount = DefaultShapesOptions().ShapeCount
	}
	return &Shapes{
		options: options,
		random:  rnd,
	}
}

func (c *Shapes) Name() string {
	return ShapesName
}

func (c *Shapes) Alphabet() []model.Side {
	return shapesAlphabet
}

func (c *Shapes) Connector() (model.Side, bool) {
	return "", false
}

// Options returns the generation options in use
func (c *Shapes) Options() ShapesOptions {
	return c.options
}

// GenerateTile picks each edge from the active colours, or Blank when blank
// sides are enabled. Shape tiles are never owned.
func (c *Shapes) GenerateTile(ownerIndex, playerCount int) model.Tile {
	tile := model.Tile{
		ID: model.TileID(c.random.String(TileIDLength, TileIDAlphabet)),
	}
	for i := range tile.Sides {
		if c.options.EnableBlankSides && c.random.Float64() < c.options.BlankProbability {
			tile.Sides[i] = model.SideBlank
			continue
		}
		tile.Sides[i] = shapePalette[c.random.Intn(c.options.ShapeCount)].side
	}
	return tile
}

func (c *Shapes) ValidateTile(tile model.Tile) bool {
	for _, side := range tile.Sides {
		if !lo.Contains(shapesAlphabet, side) {
			return false
		}
	}
	return true
}

// OutwardAllowed only lets blanks face off the board
func (c *Shapes) OutwardAllowed(side model.Side) bool {
	return side == model.SideBlank
}

// Render draws a black ground, the starter disc, then one shape per
// non-blank rotated side
func (c *Shapes) Render(tile model.Tile, rotation int) []Primitive {
	prims := []Primitive{background("#000000")}
	if tile.IsStarter {
		prims = append(prims, Primitive{Kind: KindCircle, CX: 150, CY: 150, R: 117, Fill: "#555555"})
	}

	for i, side := range model.RotateSides(tile.Sides, rotation) {
		style, ok := lo.Find(shapePalette, func(s shapeStyle) bool { return s.side == side })
		if !ok {
			continue
		}
		prims = append(prims, Primitive{Kind: KindPath, D: style.path, Fill: style.color, Quarter: i})
	}
	return prims
}

var _ Catalog = (*Shapes)(nil)
