// Package pathfinder enumerates connector-linked paths between a player's
// source and sink tiles.
package pathfinder

import (
	"github.com/mcoot/tilegame-go/internal/model"
)

// FindAllSimplePaths returns every simple path from start to end. Nodes are
// occupied cells owned by owner; two neighbours are linked when both facing
// rotated sides equal connector. Paths include both endpoints.
func FindAllSimplePaths(board *model.Board, start, end model.Position, owner model.Color, connector model.Side) [][]model.Position {
	if !isNode(board, start, owner) || !isNode(board, end, owner) {
		return nil
	}

	s := &search{
		board:     board,
		end:       end,
		owner:     owner,
		connector: connector,
		visited:   make([][]bool, board.Size),
	}
	for i := range s.visited {
		s.visited[i] = make([]bool, board.Size)
	}

	s.dfs(start, []model.Position{start})
	return s.paths
}

// LongestPath returns the owner's longest source-to-sink path, or nil when
// the owner lacks a source or a sink. Sources and sinks are enumerated
// row-major; a later path replaces the best only when strictly longer.
func LongestPath(board *model.Board, owner model.Color, connector model.Side) []model.Position {
	sources := patternCells(board, model.PatternSquares, owner)
	sinks := patternCells(board, model.PatternCircles, owner)
	if len(sources) == 0 || len(sinks) == 0 {
		return nil
	}

	var best []model.Position
	for _, src := range sources {
		for _, sink := range sinks {
			for _, path := range FindAllSimplePaths(board, src, sink, owner, connector) {
				if len(path) > len(best) {
					best = path
				}
			}
		}
	}
	return best
}

type search struct {
	board     *model.Board
	end       model.Position
	owner     model.Color
	connector model.Side
	visited   [][]bool
	paths     [][]model.Position
}

func (s *search) dfs(cur model.Position, path []model.Position) {
	s.visited[cur.Y][cur.X] = true
	defer func() { s.visited[cur.Y][cur.X] = false }()

	if cur == s.end {
		found := make([]model.Position, len(path))
		copy(found, path)
		s.paths = append(s.paths, found)
		return
	}

	for _, next := range s.linkedNeighbors(cur) {
		if s.visited[next.Y][next.X] {
			continue
		}
		s.dfs(next, append(path, next))
	}
}

func (s *search) linkedNeighbors(pos model.Position) []model.Position {
	tile := s.board.Get(pos)
	var out []model.Position
	for _, d := range model.Directions {
		next := pos.Neighbor(d)
		if !isNode(s.board, next, s.owner) {
			continue
		}
		if tile.Edge(d) == s.connector && s.board.Get(next).Edge(d.Opposite()) == s.connector {
			out = append(out, next)
		}
	}
	return out
}

func isNode(board *model.Board, pos model.Position, owner model.Color) bool {
	t := board.Get(pos)
	return t != nil && t.Color == owner
}

func patternCells(board *model.Board, pattern model.CenterPattern, owner model.Color) []model.Position {
	var out []model.Position
	for _, pos := range board.Positions() {
		if t := board.Get(pos); t != nil && t.CenterPattern == pattern && t.Color == owner {
			out = append(out, pos)
		}
	}
	return out
}
