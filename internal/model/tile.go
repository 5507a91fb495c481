package model

// TileID uniquely identifies a tile within a game
type TileID string

// Side is the symbolic value printed on one edge of a tile
type Side string

// Streets alphabet
const (
	SideStreet    Side = "street"
	SideNonStreet Side = "non-street"
)

// Shapes alphabet. SideBlank is the wildcard edge.
const (
	SideBlank  Side = "Blank"
	SidePurple Side = "Purple"
	SideBlue   Side = "Blue"
	SideGreen  Side = "Green"
	SideRed    Side = "Red"
	SideCyan   Side = "Cyan"
	SideOrange Side = "Orange"
	SidePink   Side = "Pink"
	SideYellow Side = "Yellow"
)

// CenterPattern marks path endpoints drawn in the middle of a tile
type CenterPattern string

const (
	PatternNone    CenterPattern = ""
	PatternSquares CenterPattern = "squares" // path source
	PatternCircles CenterPattern = "circles" // path sink
)

// Color is a hex colour string such as "#df0000"
type Color string

// Direction indexes the four edges of a tile, clockwise from the top
type Direction int

const (
	Top Direction = iota
	Right
	Bottom
	Left
)

// Directions lists all edges in index order
var Directions = [4]Direction{Top, Right, Bottom, Left}

// Opposite returns the edge facing this one on the neighbouring cell
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the (dx, dy) offset to the neighbour in this direction
func (d Direction) Delta() (int, int) {
	switch d {
	case Top:
		return 0, -1
	case Right:
		return 1, 0
	case Bottom:
		return 0, 1
	default:
		return -1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Tile is a placeable unit with four directional sides.
// Sides holds the edges as drawn; Rotation is the number of clockwise
// quarter turns applied on top of them.
type Tile struct {
	ID            TileID        `json:"id"`
	Sides         [4]Side       `json:"sides"`
	Rotation      int           `json:"rotation"`
	CenterPattern CenterPattern `json:"center_pattern,omitempty"`
	Color         Color         `json:"color,omitempty"`
	IsStarter     bool          `json:"is_starter,omitempty"`
}

// RotateSides shifts sides clockwise by r quarter turns.
// The side at index i moves to index (i+r) mod 4.
func RotateSides(sides [4]Side, r int) [4]Side {
	r = normalizeRotation(r)
	var out [4]Side
	for i := range sides {
		out[(i+r)%4] = sides[i]
	}
	return out
}

// RotatedSides returns the sides with the tile's rotation applied
func (t Tile) RotatedSides() [4]Side {
	return RotateSides(t.Sides, t.Rotation)
}

// Edge returns the rotated side facing the given direction
func (t Tile) Edge(d Direction) Side {
	return t.RotatedSides()[d]
}

// WithRotation returns a copy of the tile with the given rotation
func (t Tile) WithRotation(r int) Tile {
	t.Rotation = normalizeRotation(r)
	return t
}

// Rotated returns a copy of the tile turned one more quarter clockwise
func (t Tile) Rotated() Tile {
	return t.WithRotation(t.Rotation + 1)
}

// AllSidesEqual reports whether every side equals s
func (t Tile) AllSidesEqual(s Side) bool {
	for _, side := range t.Sides {
		if side != s {
			return false
		}
	}
	return true
}

func normalizeRotation(r int) int {
	r %= 4
	if r < 0 {
		r += 4
	}
	return r
}
