package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tilegame-go/internal/dependencies/mocks"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/registry"
	"github.com/mcoot/tilegame-go/internal/services/scoring"
	"github.com/mcoot/tilegame-go/internal/services/seeder"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
	"github.com/mcoot/tilegame-go/internal/testutil"
)

const (
	st = model.SideStreet
	ns = model.SideNonStreet
)

type SessionSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	random *mocks.MockRandom
	events []model.Event
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	// Every generated streets tile is four streets
	s.random = mocks.NewMockRandom()
	s.events = nil
}

func (s *SessionSuite) deps(cfg model.GameConfig) Deps {
	cfg.Normalize()
	components, err := registry.Default().Build(&cfg, s.random)
	s.Require().NoError(err)
	return Deps{
		Components: *components,
		Seeder:     seeder.New(s.random, seeder.DefaultLimits(), testutil.NopLogger()),
		Clock:      s.clock,
		Logger:     testutil.NopLogger(),
	}
}

func (s *SessionSuite) record(session *Session) {
	session.Subscribe(func(e model.Event) {
		s.events = append(s.events, e)
	})
}

func (s *SessionSuite) start(cfg model.GameConfig) *Session {
	session, err := NewSession("game-1", cfg, s.deps(cfg))
	s.Require().NoError(err)
	s.record(session)
	session.Start()
	return session
}

func (s *SessionSuite) play(session *Session, x, y int) model.PlaceResult {
	current := session.CurrentPlayer()
	_, err := session.SelectTile(current.Rack[0].ID)
	s.Require().NoError(err)
	return session.PlaceTile(model.Position{X: x, Y: y})
}

func (s *SessionSuite) eventTypes() []model.EventType {
	types := make([]model.EventType, len(s.events))
	for i, e := range s.events {
		types[i] = e.Type
	}
	return types
}

func twoPlayers(scoringName string) model.GameConfig {
	return model.GameConfig{
		BoardSize: 3,
		Scoring:   scoringName,
		Players:   []model.PlayerSetup{{Name: "Alice"}, {Name: "Bob"}},
	}
}

// Lifecycle tests

func (s *SessionSuite) TestNewSessionStartsInSetup() {
	cfg := twoPlayers(scoring.StandardName)
	session, err := NewSession("game-1", cfg, s.deps(cfg))
	s.Require().NoError(err)

	s.Equal(model.GameStatusSetup, session.Status())
	_, err = session.SelectTile("x")
	s.ErrorIs(err, model.ErrGameNotStarted)

	session.Start()
	s.Equal(model.GameStatusInProgress, session.Status())
	s.Equal(5, len(session.CurrentPlayer().Rack))
}

func (s *SessionSuite) TestNewSessionValidatesConfig() {
	cfg := twoPlayers(scoring.StandardName)
	deps := s.deps(cfg)
	cfg.BoardSize = 2
	_, err := NewSession("game-1", cfg, deps)
	s.ErrorIs(err, model.ErrInvalidConfig)

	_, err = NewSession("game-1", twoPlayers(scoring.StandardName), Deps{})
	s.ErrorIs(err, model.ErrInvalidConfig)
}

func (s *SessionSuite) TestStartSeedsBorder() {
	cfg := model.GameConfig{
		BoardSize:    5,
		InitialTiles: model.InitialTiles{Type: model.InitialTilesArrangement, Style: model.ArrangementBorder},
	}
	session := s.start(cfg)

	types := s.eventTypes()
	s.Require().Len(types, 17)
	for _, t := range types[:16] {
		s.Equal(model.EventTilePlaced, t)
	}
	s.Equal(model.EventTurnChange, types[16])

	board := session.Board()
	s.Equal(16, board.OccupiedCount())
	s.True(board.HasStarterTiles())
	s.Nil(board.Get(board.Center()))
}

// Selection tests

func (s *SessionSuite) TestSelectTileNotInRack() {
	session := s.start(twoPlayers(scoring.StandardName))

	_, err := session.SelectTile("not-a-tile")
	s.ErrorIs(err, model.ErrTileNotInRack)
}

func (s *SessionSuite) TestRotateRequiresSelection() {
	session := s.start(twoPlayers(scoring.StandardName))
	_, _, err := session.RotateSelection()
	s.ErrorIs(err, model.ErrNoTileSelected)
	s.Nil(session.ValidMoves())
}

func (s *SessionSuite) TestRotateReportsValidMoves() {
	session := s.start(twoPlayers(scoring.StandardName))
	s.Require().True(s.play(session, 0, 0).Success)

	_, err := session.SelectTile(session.CurrentPlayer().Rack[0].ID)
	s.Require().NoError(err)
	s.events = nil

	rotation, moves, err := session.RotateSelection()
	s.Require().NoError(err)
	s.Equal(1, rotation)
	s.Equal([]model.Position{{X: 1, Y: 0}, {X: 0, Y: 1}}, moves)
	s.Equal(moves, session.ValidMoves())

	s.Require().Len(s.events, 1)
	payload := s.events[0].Payload.(model.TileRotatedPayload)
	s.Equal(1, payload.Rotation)

	for range 3 {
		rotation, _, _ = session.RotateSelection()
	}
	s.Equal(0, rotation)
}

// Placement tests

func (s *SessionSuite) TestPlaceWithoutSelection() {
	session := s.start(twoPlayers(scoring.StandardName))
	s.events = nil

	result := session.PlaceTile(model.Position{X: 0, Y: 0})
	s.False(result.Success)
	s.Equal(model.FailureNoTileSelected, result.Failure)

	s.Require().Len(s.events, 1)
	s.Equal(model.EventInvalidPlacement, s.events[0].Type)
	s.Equal(model.FailureNoTileSelected, s.events[0].Payload.(model.InvalidPlacementPayload).Reason)
}

func (s *SessionSuite) TestPlaceRefusals() {
	session := s.start(twoPlayers(scoring.StandardName))
	s.Require().True(s.play(session, 0, 0).Success)

	s.Equal(model.FailurePositionOccupied, s.play(session, 0, 0).Failure)
	s.Equal(model.FailureInvalidPlacement, s.play(session, 2, 2).Failure)
	s.Equal(model.FailureInvalidPlacement, s.play(session, 5, 5).Failure)

	// Refusals keep the turn
	s.Equal(model.PlayerID("player-2"), session.CurrentPlayer().ID)
}

func (s *SessionSuite) TestPlaceCommitsRotatedCopyAndRefillsRack() {
	s.random.QueueString("AAAAAAAAA", "BBBBBBBBB", "CCCCCCCCC")
	cfg := model.GameConfig{BoardSize: 3, RackSize: 3, Scoring: scoring.StandardName}
	session := s.start(cfg)
	s.random.QueueString("GGGGGGGGG")

	_, err := session.SelectTile("BBBBBBBBB")
	s.Require().NoError(err)
	_, _, err = session.RotateSelection()
	s.Require().NoError(err)
	s.events = nil

	result := session.PlaceTile(model.Position{X: 1, Y: 1})
	s.Require().True(result.Success)
	s.Equal(1, result.Tile.Rotation)

	committed := session.Board().Get(model.Position{X: 1, Y: 1})
	s.Require().NotNil(committed)
	s.Equal(model.TileID("BBBBBBBBB"), committed.ID)
	s.Equal(1, committed.Rotation)

	rack := session.CurrentPlayer().Rack
	s.Equal([]model.TileID{"AAAAAAAAA", "CCCCCCCCC", "GGGGGGGGG"}, []model.TileID{rack[0].ID, rack[1].ID, rack[2].ID})
	for _, t := range rack {
		s.Equal(0, t.Rotation)
	}

	s.Equal([]model.EventType{model.EventTilePlaced, model.EventScoreUpdate, model.EventTurnChange}, s.eventTypes())
	_, selected := session.Selection()
	s.False(selected)
}

func (s *SessionSuite) TestTurnsAdvanceCyclically() {
	session := s.start(twoPlayers(scoring.StandardName))

	s.Equal(model.PlayerID("player-1"), session.CurrentPlayer().ID)
	s.play(session, 0, 0)
	s.Equal(model.PlayerID("player-2"), session.CurrentPlayer().ID)
	s.play(session, 1, 0)
	s.Equal(model.PlayerID("player-1"), session.CurrentPlayer().ID)

	s.Require().NoError(session.SkipTurn())
	s.Equal(model.PlayerID("player-2"), session.CurrentPlayer().ID)
}

func (s *SessionSuite) TestPlayInOneStep() {
	session := s.start(twoPlayers(scoring.StandardName))
	tile := session.CurrentPlayer().Rack[0]

	result, err := session.Play(tile.ID, 7, model.Position{X: 2, Y: 2})
	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal(3, result.Tile.Rotation)
	s.Equal(model.PlayerID("player-1"), result.PlayerID)
}

// End of game tests

func (s *SessionSuite) TestFinalFillEndsGameWithStableSort() {
	session := s.start(twoPlayers(scoring.StandardName))

	moves := [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}, {0, 2}, {1, 2}}
	for _, m := range moves {
		result := s.play(session, m[0], m[1])
		s.Require().True(result.Success)
		s.False(result.GameOver)
	}
	s.events = nil

	last := s.play(session, 2, 2)
	s.Require().True(last.Success)
	s.True(last.GameOver)
	s.Equal(model.GameStatusEnded, session.Status())

	// Both players finish on 10; seat order breaks the tie
	scores := session.FinalScores()
	s.Require().Len(scores, 2)
	s.Equal(model.PlayerID("player-1"), scores[0].PlayerID)
	s.Equal(10, scores[0].Score.Total)
	s.Equal(model.PlayerID("player-2"), scores[1].PlayerID)
	s.Equal(10, scores[1].Score.Total)

	types := s.eventTypes()
	s.Equal(model.EventGameEnd, types[len(types)-1])
	s.Equal(scores, s.events[len(s.events)-1].Payload.(model.GameEndPayload).FinalScores)

	after := session.PlaceTile(model.Position{X: 0, Y: 0})
	s.Equal(model.FailureGameOver, after.Failure)
	s.True(after.GameOver)
	s.ErrorIs(session.SkipTurn(), model.ErrGameEnded)
}

func (s *SessionSuite) TestFinalScoresSortedDescending() {
	session := s.start(twoPlayers(scoring.EnhancedName))
	s.Require().NoError(session.SkipTurn())

	// Bob opens, so he takes the centre
	moves := [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
	for _, m := range moves {
		s.Require().True(s.play(session, m[0], m[1]).Success)
	}

	scores := session.FinalScores()
	s.Require().Len(scores, 2)
	s.Equal("Bob", scores[0].Name)
	s.Equal(40, scores[0].Score.Total)
	s.Equal("Alice", scores[1].Name)
	s.Equal(30, scores[1].Score.Total)
}

func (s *SessionSuite) TestNoPlayableTileEndsGame() {
	// Plain shapes never satisfy the border rule, so after the opening move
	// in the only interior cell nothing fits
	cfg := model.GameConfig{
		BoardSize:      3,
		TileSet:        tileset.ShapesName,
		RulesetOptions: model.RulesetOptions{EnableBorderRule: true},
	}
	session := s.start(cfg)

	result := s.play(session, 1, 1)
	s.True(result.Success)
	s.True(result.GameOver)
	s.False(session.Board().IsFull())
}

// Path scoring tests

func (s *SessionSuite) TestPathBonusCreditedAsBonus() {
	cfg := model.GameConfig{BoardSize: 7, Players: []model.PlayerSetup{{Name: "Solo"}}}
	cfg.Normalize()
	white := model.PlayerColor(0, 1)
	owned := func(id model.TileID, pattern model.CenterPattern, sides ...model.Side) model.Tile {
		return model.Tile{ID: id, Sides: [4]model.Side{sides[0], sides[1], sides[2], sides[3]}, CenterPattern: pattern, Color: white}
	}

	board := model.NewBoard(7)
	board.Place(model.Position{X: 0, Y: 1}, owned("a", model.PatternSquares, ns, st, ns, ns))
	board.Place(model.Position{X: 1, Y: 1}, owned("b", model.PatternNone, ns, st, ns, st))
	board.Place(model.Position{X: 2, Y: 1}, owned("c", model.PatternNone, ns, st, ns, st))
	board.Place(model.Position{X: 3, Y: 1}, owned("d", model.PatternNone, ns, st, ns, st))

	snapshot := model.Snapshot{
		BoardSize: 7,
		RackSize:  5,
		Board:     board,
		Players: []model.Player{{
			ID:    "player-1",
			Name:  "Solo",
			Color: white,
			Rack:  []model.Tile{owned("sink", model.PatternCircles, ns, ns, ns, st)},
		}},
		Status: model.GameStatusInProgress,
	}
	session, err := Restore("game-1", cfg, snapshot, s.deps(cfg))
	s.Require().NoError(err)
	s.record(session)

	result := s.play(session, 4, 1)
	s.Require().True(result.Success)
	s.Equal(1, result.Score.Base)
	s.Equal(10, result.Score.Bonus)
	s.Equal(15, result.Score.PathBonus)

	p := session.CurrentPlayer()
	s.Equal(26, p.Score)
	s.Equal(15, p.BonusScore)
	s.Equal(5, p.BestPathLength)
	s.Contains(s.eventTypes(), model.EventPathUpdate)
}

// Timer tests

func (s *SessionSuite) TestTimerForcesTurnChange() {
	cfg := twoPlayers(scoring.StandardName)
	cfg.EnableTimer = true
	cfg.TimeLimit = 2
	session := s.start(cfg)
	s.events = nil

	s.clock.Advance(2 * time.Second)

	s.Equal(model.PlayerID("player-2"), session.CurrentPlayer().ID)
	s.Equal([]model.EventType{model.EventTimerTick, model.EventTimerTick, model.EventTurnChange}, s.eventTypes())
	s.Equal(0, s.events[1].Payload.(model.TimerTickPayload).SecondsLeft)
	s.True(s.events[2].Payload.(model.TurnChangePayload).Forced)
	s.Equal(2, session.TimeLeft())
}

func (s *SessionSuite) TestTimerTickWaitsForSessionLock() {
	cfg := twoPlayers(scoring.StandardName)
	cfg.EnableTimer = true
	cfg.TimeLimit = 5
	session := s.start(cfg)
	s.events = nil

	session.mu.Lock()
	done := make(chan struct{})
	go func() {
		s.clock.Advance(time.Second)
		close(done)
	}()
	s.Never(func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, 5*time.Millisecond)
	session.mu.Unlock()

	<-done
	s.Equal([]model.EventType{model.EventTimerTick}, s.eventTypes())
	s.Equal(4, s.events[0].Payload.(model.TimerTickPayload).SecondsLeft)
}

func (s *SessionSuite) TestManualActionRestartsTimer() {
	cfg := twoPlayers(scoring.StandardName)
	cfg.EnableTimer = true
	cfg.TimeLimit = 2
	session := s.start(cfg)

	s.clock.Advance(time.Second)
	s.Require().True(s.play(session, 0, 0).Success)
	s.clock.Advance(time.Second)

	// Fresh countdown for Bob; Alice's expiry never fires
	s.Equal(model.PlayerID("player-2"), session.CurrentPlayer().ID)
	s.Equal(1, session.TimeLeft())
}

func (s *SessionSuite) TestGameEndStopsTimer() {
	cfg := model.GameConfig{
		BoardSize:      3,
		TileSet:        tileset.ShapesName,
		RulesetOptions: model.RulesetOptions{EnableBorderRule: true},
		EnableTimer:    true,
		TimeLimit:      5,
	}
	session := s.start(cfg)
	s.Require().True(s.play(session, 1, 1).GameOver)

	s.Equal(0, s.clock.PendingTimers())
	s.Equal(0, session.TimeLeft())
}

// Snapshot tests

func (s *SessionSuite) TestSnapshotRestoreRoundTrip() {
	cfg := twoPlayers(scoring.StandardName)
	session := s.start(cfg)
	s.play(session, 0, 0)
	s.play(session, 1, 0)
	s.play(session, 2, 0)

	snap := session.Snapshot()
	s.False(snap.FirstMove)
	s.Equal(1, snap.CurrentPlayerIndex)

	restored, err := Restore("game-1", cfg, snap, s.deps(cfg))
	s.Require().NoError(err)
	s.Equal(model.GameStatusInProgress, restored.Status())
	s.Equal(3, restored.Board().OccupiedCount())
	s.Equal(session.CurrentPlayer(), restored.CurrentPlayer())

	s.True(s.play(restored, 0, 1).Success)
	s.Equal(3, session.Board().OccupiedCount(), "restored session must not share the board")
}

func (s *SessionSuite) TestRestoreRejectsMismatchedBoard() {
	cfg := twoPlayers(scoring.StandardName)
	session := s.start(cfg)
	snap := session.Snapshot()

	other := cfg
	other.BoardSize = 4
	_, err := Restore("game-1", other, snap, s.deps(other))
	s.ErrorIs(err, model.ErrInvalidConfig)
}

func (s *SessionSuite) TestRestoreRejectsForeignTiles() {
	cfg := twoPlayers(scoring.StandardName)
	session := s.start(cfg)

	snap := session.Snapshot()
	snap.Board = model.NewBoard(3)
	snap.Board.Place(model.Position{X: 1, Y: 1}, model.Tile{ID: "lava", Sides: [4]model.Side{"lava", "lava", "", model.SidePurple}})
	_, err := Restore("game-1", cfg, snap, s.deps(cfg))
	s.ErrorIs(err, model.ErrInvalidTile)

	snap = session.Snapshot()
	snap.Players[1].Rack[0].Sides[2] = ""
	_, err = Restore("game-1", cfg, snap, s.deps(cfg))
	s.ErrorIs(err, model.ErrInvalidTile)
}
