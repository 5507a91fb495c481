package model

// Position identifies a cell on the board
type Position struct {
	X int `json:"x"` // column, 0-indexed from left
	Y int `json:"y"` // row, 0-indexed from top
}

// Neighbor returns the adjacent position in the given direction
func (p Position) Neighbor(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Board is the shared grid for a game.
// Occupied cells never revert to empty: there is no removal operation, so
// "no player tile exists" is equivalent to "no player has moved yet".
type Board struct {
	Size  int       `json:"size"`
	Cells [][]*Tile `json:"cells"` // Row-major: Cells[y][x], nil means empty
}

// NewBoard creates an empty board of the given size
func NewBoard(size int) *Board {
	cells := make([][]*Tile, size)
	for i := range cells {
		cells[i] = make([]*Tile, size)
	}
	return &Board{
		Size:  size,
		Cells: cells,
	}
}

// Get returns the tile at the given position, or nil if empty or out of bounds
func (b *Board) Get(pos Position) *Tile {
	if !b.IsValidPosition(pos) {
		return nil
	}
	return b.Cells[pos.Y][pos.X]
}

// Place commits a copy of the tile to an empty cell.
// Returns false if the position is out of bounds or already occupied.
func (b *Board) Place(pos Position, tile Tile) bool {
	if !b.IsValidPosition(pos) || !b.IsEmpty(pos) {
		return false
	}
	committed := tile
	b.Cells[pos.Y][pos.X] = &committed
	return true
}

// IsEmpty returns true if the cell at the given position is empty
func (b *Board) IsEmpty(pos Position) bool {
	return b.Get(pos) == nil
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.X >= 0 && pos.X < b.Size && pos.Y >= 0 && pos.Y < b.Size
}

// IsBorder returns true if the position lies on the outer ring
func (b *Board) IsBorder(pos Position) bool {
	return pos.X == 0 || pos.Y == 0 || pos.X == b.Size-1 || pos.Y == b.Size-1
}

// Center returns the centre cell, rounding down on even sizes
func (b *Board) Center() Position {
	return Position{X: b.Size / 2, Y: b.Size / 2}
}

// IsFull returns true if all cells are filled
func (b *Board) IsFull() bool {
	return b.EmptyCount() == 0
}

// EmptyCount returns the number of empty cells
func (b *Board) EmptyCount() int {
	count := 0
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if b.Cells[y][x] == nil {
				count++
			}
		}
	}
	return count
}

// Positions returns every position in row-major order
func (b *Board) Positions() []Position {
	positions := make([]Position, 0, b.Size*b.Size)
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			positions = append(positions, Position{X: x, Y: y})
		}
	}
	return positions
}

// EmptyPositions returns every empty position in row-major order
func (b *Board) EmptyPositions() []Position {
	var positions []Position
	for _, pos := range b.Positions() {
		if b.IsEmpty(pos) {
			positions = append(positions, pos)
		}
	}
	return positions
}

// HasStarterTiles returns true if any seeded tile is on the board
func (b *Board) HasStarterTiles() bool {
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if t := b.Cells[y][x]; t != nil && t.IsStarter {
				return true
			}
		}
	}
	return false
}

// IsFirstMove returns true while no player tile has been placed
func (b *Board) IsFirstMove() bool {
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if t := b.Cells[y][x]; t != nil && !t.IsStarter {
				return false
			}
		}
	}
	return true
}

// HasAdjacentTile returns true if any orthogonal neighbour is occupied
func (b *Board) HasAdjacentTile(pos Position) bool {
	for _, d := range Directions {
		if b.Get(pos.Neighbor(d)) != nil {
			return true
		}
	}
	return false
}

// TouchesStarter returns true if any orthogonal neighbour is a starter tile
func (b *Board) TouchesStarter(pos Position) bool {
	for _, d := range Directions {
		if t := b.Get(pos.Neighbor(d)); t != nil && t.IsStarter {
			return true
		}
	}
	return false
}

// Clone returns a board with its own grid. Tiles are shared; they are
// never mutated after commit.
func (b *Board) Clone() *Board {
	clone := NewBoard(b.Size)
	for y := 0; y < b.Size; y++ {
		copy(clone.Cells[y], b.Cells[y])
	}
	return clone
}

// OccupiedCount returns the number of filled cells
func (b *Board) OccupiedCount() int {
	return b.Size*b.Size - b.EmptyCount()
}
