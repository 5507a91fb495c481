package tileset

import (
	"github.com/mcoot/tilegame-go/internal/model"
)

const (
	// TileIDAlphabet is the character set for generated tile IDs
	TileIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// TileIDLength is the length of generated tile IDs
	TileIDLength = 9

	// ViewBox is the side length of the square all primitives are drawn in
	ViewBox = 300
)

// Catalog describes one tile set: its side alphabet, how tiles are
// generated, and how they are drawn
type Catalog interface {
	Name() string
	Alphabet() []model.Side

	// Connector returns the side value that links tiles into paths, if any
	Connector() (model.Side, bool)

	// GenerateTile creates a fresh tile. ownerIndex < 0 means unowned.
	GenerateTile(ownerIndex, playerCount int) model.Tile

	// ValidateTile reports whether every side is in the alphabet
	ValidateTile(tile model.Tile) bool

	// OutwardAllowed reports whether side may face off the board when the
	// border rule is in force
	OutwardAllowed(side model.Side) bool

	// Render describes the tile as drawing primitives in a ViewBox square
	Render(tile model.Tile, rotation int) []Primitive
}

// PrimitiveKind identifies a drawing primitive
type PrimitiveKind string

const (
	KindPolygon PrimitiveKind = "polygon"
	KindRect    PrimitiveKind = "rect"
	KindCircle  PrimitiveKind = "circle"
	KindPath    PrimitiveKind = "path"
)

// Point is a 2D coordinate within the view box
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Primitive is one shape for an external renderer. Quarter is the number of
// clockwise quarter turns about the tile centre to apply before drawing.
type Primitive struct {
	Kind        PrimitiveKind `json:"kind"`
	Points      []Point       `json:"points,omitempty"`
	X           float64       `json:"x,omitempty"`
	Y           float64       `json:"y,omitempty"`
	Width       float64       `json:"width,omitempty"`
	Height      float64       `json:"height,omitempty"`
	CX          float64       `json:"cx,omitempty"`
	CY          float64       `json:"cy,omitempty"`
	R           float64       `json:"r,omitempty"`
	D           string        `json:"d,omitempty"`
	Fill        string        `json:"fill,omitempty"`
	Stroke      string        `json:"stroke,omitempty"`
	StrokeWidth float64       `json:"stroke_width,omitempty"`
	Quarter     int           `json:"quarter"`
}

func background(fill string) Primitive {
	return Primitive{Kind: KindRect, Width: ViewBox, Height: ViewBox, Fill: fill}
}

func withQuarter(prims []Primitive, quarter int) []Primitive {
	out := make([]Primitive, len(prims))
	for i, p := range prims {
		p.Quarter = quarter
		out[i] = p
	}
	return out
}
