package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tilegame-go/internal/model"
)

const (
	st  = model.SideStreet
	ns  = model.SideNonStreet
	red = model.Color("#df0000")
)

type PathFinderSuite struct {
	suite.Suite
	board *model.Board
}

func TestPathFinderSuite(t *testing.T) {
	suite.Run(t, new(PathFinderSuite))
}

func (s *PathFinderSuite) SetupTest() {
	s.board = model.NewBoard(5)
}

func (s *PathFinderSuite) place(x, y int, color model.Color, pattern model.CenterPattern, sides ...model.Side) {
	t := model.Tile{
		ID:            model.TileID("t"),
		Sides:         [4]model.Side{sides[0], sides[1], sides[2], sides[3]},
		Color:         color,
		CenterPattern: pattern,
	}
	s.Require().True(s.board.Place(model.Position{X: x, Y: y}, t))
}

// straightChain lays a source-to-sink road along row 2
func (s *PathFinderSuite) straightChain(color model.Color) {
	s.place(0, 2, color, model.PatternSquares, ns, st, ns, ns)
	s.place(1, 2, color, model.PatternNone, ns, st, ns, st)
	s.place(2, 2, color, model.PatternNone, ns, st, ns, st)
	s.place(3, 2, color, model.PatternNone, ns, st, ns, st)
	s.place(4, 2, color, model.PatternCircles, ns, ns, ns, st)
}

func (s *PathFinderSuite) TestStraightChain() {
	s.straightChain(red)

	path := LongestPath(s.board, red, st)
	s.Require().Len(path, 5)
	s.Equal(model.Position{X: 0, Y: 2}, path[0])
	s.Equal(model.Position{X: 4, Y: 2}, path[4])
}

func (s *PathFinderSuite) TestOtherOwnerBreaksChain() {
	s.straightChain(red)
	blue := model.Color("#008bda")

	s.Nil(LongestPath(s.board, blue, st))

	board := model.NewBoard(5)
	for _, pos := range s.board.Positions() {
		if t := s.board.Get(pos); t != nil {
			if pos.X == 2 {
				t2 := *t
				t2.Color = blue
				board.Place(pos, t2)
				continue
			}
			board.Place(pos, *t)
		}
	}
	s.Nil(LongestPath(board, red, st))
}

func (s *PathFinderSuite) TestMissingSinkReturnsNil() {
	s.place(0, 0, red, model.PatternSquares, st, st, st, st)
	s.Nil(LongestPath(s.board, red, st))
}

func (s *PathFinderSuite) TestBothFacingSidesMustBeConnectors() {
	s.place(0, 2, red, model.PatternSquares, ns, st, ns, ns)
	s.place(1, 2, red, model.PatternCircles, ns, ns, ns, ns)
	s.Empty(FindAllSimplePaths(s.board, model.Position{X: 0, Y: 2}, model.Position{X: 1, Y: 2}, red, st))
}

func (s *PathFinderSuite) TestFindsEverySimplePath() {
	// A 2x2 loop with the source and sink on opposite corners
	s.place(0, 0, red, model.PatternSquares, ns, st, st, ns)
	s.place(1, 0, red, model.PatternNone, ns, ns, st, st)
	s.place(0, 1, red, model.PatternNone, st, st, ns, ns)
	s.place(1, 1, red, model.PatternCircles, st, ns, ns, st)

	paths := FindAllSimplePaths(s.board, model.Position{X: 0, Y: 0}, model.Position{X: 1, Y: 1}, red, st)
	s.Len(paths, 2)
	for _, p := range paths {
		s.Len(p, 3)
	}
}

func (s *PathFinderSuite) TestTiesKeepFirstFound() {
	s.place(0, 0, red, model.PatternSquares, ns, st, st, ns)
	s.place(1, 0, red, model.PatternNone, ns, ns, st, st)
	s.place(0, 1, red, model.PatternNone, st, st, ns, ns)
	s.place(1, 1, red, model.PatternCircles, st, ns, ns, st)

	first := FindAllSimplePaths(s.board, model.Position{X: 0, Y: 0}, model.Position{X: 1, Y: 1}, red, st)[0]
	s.Equal(first, LongestPath(s.board, red, st))
	// Top edge is scanned before right, so the route goes right first
	s.Equal(model.Position{X: 1, Y: 0}, first[1])
}

func (s *PathFinderSuite) TestLongerDetourWins() {
	// Direct route (0,0)->(1,0) and a detour through row 1
	s.place(0, 0, red, model.PatternSquares, ns, st, st, ns)
	s.place(1, 0, red, model.PatternCircles, ns, ns, st, st)
	s.place(0, 1, red, model.PatternNone, st, st, ns, ns)
	s.place(1, 1, red, model.PatternNone, st, ns, ns, st)

	s.Len(LongestPath(s.board, red, st), 4)
}
