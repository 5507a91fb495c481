package rules

import (
	"github.com/samber/lo"

	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// BasicName is the registry name of the basic ruleset
const BasicName = "basic"

// Ruleset decides where tiles may go
type Ruleset interface {
	Name() string
	IsValidPlacement(board *model.Board, pos model.Position, tile model.Tile) bool

	// ValidMoves lists legal positions for tile in row-major order
	ValidMoves(board *model.Board, tile model.Tile) []model.Position

	// OnTilePlaced is called after a tile is committed
	OnTilePlaced(board *model.Board, pos model.Position, tile model.Tile)

	// BorderAllows applies the border policy only
	BorderAllows(board *model.Board, pos model.Position, tile model.Tile) bool

	// EdgesMatch checks the tile against every occupied neighbour only
	EdgesMatch(board *model.Board, pos model.Position, tile model.Tile) bool
}

// Options toggles rule variations
type Options struct {
	EnableFreePlay    bool
	EnableBorderRule  bool
	AllowBlankMatches bool
}

// OptionsFrom converts config options
func OptionsFrom(o model.RulesetOptions) Options {
	return Options{
		EnableFreePlay:    o.EnableFreePlay,
		EnableBorderRule:  o.EnableBorderRule,
		AllowBlankMatches: o.AllowBlankMatches,
	}
}

// Basic enforces adjacency and edge matching, with optional free play,
// border rule and blank wildcards
type Basic struct {
	options Options
	catalog tileset.Catalog
}

// NewBasic creates a basic ruleset. The catalog supplies the border policy.
func NewBasic(options Options, catalog tileset.Catalog) *Basic {
	return &Basic{
		options: options,
		catalog: catalog,
	}
}

func (r *Basic) Name() string {
	return BasicName
}

// Options returns the rule variations in use
func (r *Basic) Options() Options {
	return r.options
}

// IsValidPlacement checks, in order: bounds, occupancy, border policy,
// free play, the opening move, then adjacency and edge matches
func (r *Basic) IsValidPlacement(board *model.Board, pos model.Position, tile model.Tile) bool {
	if !board.IsValidPosition(pos) {
		return false
	}
	if !board.IsEmpty(pos) {
		return false
	}
	if !r.BorderAllows(board, pos, tile) {
		return false
	}

	if r.options.EnableFreePlay {
		return r.EdgesMatch(board, pos, tile)
	}

	// Opening move with no starters may go anywhere
	if board.IsFirstMove() && !board.HasStarterTiles() {
		return true
	}

	if !board.HasAdjacentTile(pos) {
		return false
	}
	return r.EdgesMatch(board, pos, tile)
}

// ValidMoves scans the board row-major. The opening move with no starters
// short-circuits to every empty cell.
func (r *Basic) ValidMoves(board *model.Board, tile model.Tile) []model.Position {
	if board.IsFirstMove() && !board.HasStarterTiles() {
		return board.EmptyPositions()
	}

	return lo.Filter(board.Positions(), func(pos model.Position, _ int) bool {
		return r.IsValidPlacement(board, pos, tile)
	})
}

func (r *Basic) OnTilePlaced(board *model.Board, pos model.Position, tile model.Tile) {}

// BorderAllows rejects tiles whose outward-facing edges break the tile
// set's border policy. Always true when the border rule is off.
func (r *Basic) BorderAllows(board *model.Board, pos model.Position, tile model.Tile) bool {
	if !r.options.EnableBorderRule || r.catalog == nil || !board.IsBorder(pos) {
		return true
	}

	sides := tile.RotatedSides()
	outward := map[model.Direction]bool{
		model.Top:    pos.Y == 0,
		model.Right:  pos.X == board.Size-1,
		model.Bottom: pos.Y == board.Size-1,
		model.Left:   pos.X == 0,
	}
	for _, d := range model.Directions {
		if outward[d] && !r.catalog.OutwardAllowed(sides[d]) {
			return false
		}
	}
	return true
}

// EdgesMatch compares rotated facing sides against every occupied
// neighbour. Blank matches anything when blank matches are allowed.
func (r *Basic) EdgesMatch(board *model.Board, pos model.Position, tile model.Tile) bool {
	sides := tile.RotatedSides()
	for _, d := range model.Directions {
		neighbor := board.Get(pos.Neighbor(d))
		if neighbor == nil {
			continue
		}
		if !SidesMatch(sides[d], neighbor.Edge(d.Opposite()), r.options.AllowBlankMatches) {
			return false
		}
	}
	return true
}

// SidesMatch compares two facing sides
func SidesMatch(a, b model.Side, allowBlank bool) bool {
	if allowBlank && (a == model.SideBlank || b == model.SideBlank) {
		return true
	}
	return a == b
}

var _ Ruleset = (*Basic)(nil)
