package board

import (
	"strings"

	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// CellWidth is the number of characters a cell takes in each direction
const CellWidth = 3

// Summary counts what is on a board
type Summary struct {
	Size     int  `json:"size"`
	Occupied int  `json:"occupied"`
	Empty    int  `json:"empty"`
	Starters int  `json:"starters"`
	Full     bool `json:"full"`
}

// Service provides read-only board views for text clients
type Service struct{}

// New creates a new board Service
func New() *Service {
	return &Service{}
}

// Summarize counts occupied, empty and starter cells
func (s *Service) Summarize(board *model.Board) Summary {
	summary := Summary{Size: board.Size}
	for _, pos := range board.Positions() {
		tile := board.Get(pos)
		switch {
		case tile == nil:
			summary.Empty++
		case tile.IsStarter:
			summary.Starters++
			summary.Occupied++
		default:
			summary.Occupied++
		}
	}
	summary.Full = summary.Empty == 0
	return summary
}

// Cell returns the tile at pos, nil when empty
func (s *Service) Cell(board *model.Board, pos model.Position) (*model.Tile, error) {
	if !board.IsValidPosition(pos) {
		return nil, model.ErrInvalidPosition
	}
	return board.Get(pos), nil
}

// Text draws the board as a character grid, CellWidth characters square per
// cell. With a connector, connector edges are drawn as road arms; otherwise
// each edge shows the initial of its side.
func (s *Service) Text(board *model.Board, catalog tileset.Catalog) string {
	connector, hasConnector := catalog.Connector()

	var b strings.Builder
	for y := 0; y < board.Size; y++ {
		rows := [CellWidth]strings.Builder{}
		for x := 0; x < board.Size; x++ {
			cell := cellGlyphs(board.Get(model.Position{X: x, Y: y}), connector, hasConnector)
			for i := range rows {
				rows[i].WriteString(cell[i])
			}
		}
		for i := range rows {
			b.WriteString(strings.TrimRight(rows[i].String(), " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cellGlyphs(tile *model.Tile, connector model.Side, hasConnector bool) [CellWidth]string {
	if tile == nil {
		return [CellWidth]string{"   ", " . ", "   "}
	}

	sides := tile.RotatedSides()
	edge := func(d model.Direction, arm byte) byte {
		side := sides[d]
		if hasConnector {
			if side == connector {
				return arm
			}
			return ' '
		}
		if side == model.SideBlank || side == "" {
			return ' '
		}
		return strings.ToLower(string(side))[0]
	}

	return [CellWidth]string{
		string([]byte{' ', edge(model.Top, '|'), ' '}),
		string([]byte{edge(model.Left, '-'), centreGlyph(tile), edge(model.Right, '-')}),
		string([]byte{' ', edge(model.Bottom, '|'), ' '}),
	}
}

func centreGlyph(tile *model.Tile) byte {
	switch {
	case tile.CenterPattern == model.PatternCircles:
		return 'o'
	case tile.CenterPattern == model.PatternSquares:
		return '#'
	case tile.IsStarter:
		return '*'
	default:
		return '+'
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	Summarize(board *model.Board) Summary
	Cell(board *model.Board, pos model.Position) (*model.Tile, error)
	Text(board *model.Board, catalog tileset.Catalog) string
}

var _ ServiceInterface = (*Service)(nil)
