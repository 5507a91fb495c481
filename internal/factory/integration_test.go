package factory

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/bot"
	redisstorage "github.com/mcoot/tilegame-go/internal/storage/redis"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

func smallGame() model.GameConfig {
	return model.GameConfig{
		BoardSize: 3,
		TileSet:   "streets",
		Players:   []model.PlayerSetup{{Name: "Alice"}, {Name: "Bob"}},
	}
}

// Test: Complete game flow from creation to final scores
func (s *IntegrationSuite) TestCompleteGameFlow() {
	session, err := s.app.GameController.CreateGame(s.ctx, smallGame())
	s.Require().NoError(err)
	id := session.ID()
	s.Equal(model.GameStatusInProgress, session.Status())

	// Row-major order keeps every placement next to the previous one
	for i, pos := range model.NewBoard(3).Positions() {
		current := session.CurrentPlayer()
		s.Equal(model.PlayerID([]string{"player-1", "player-2"}[i%2]), current.ID)

		result, err := s.app.GameController.Play(s.ctx, id, current.Rack[0].ID, 0, pos)
		s.Require().NoError(err)
		s.Require().True(result.Success, "placement %d at %v", i, pos)
	}

	s.Equal(model.GameStatusEnded, session.Status())
	scores := session.FinalScores()
	s.Require().Len(scores, 2)
	s.GreaterOrEqual(scores[0].Score.Total, scores[1].Score.Total)

	saved, err := s.app.Storage.GetGame(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.GameStatusEnded, saved.Snapshot.Status)
	s.True(saved.Snapshot.Board.IsFull())

	// A new game keeps the ID and config
	fresh, err := s.app.GameController.NewGame(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(id, fresh.ID())
	s.Equal(model.GameStatusInProgress, fresh.Status())
	s.Equal(0, fresh.Board().OccupiedCount())
}

// Test: A closed session is reloaded from storage on next access
func (s *IntegrationSuite) TestSessionReloadsFromStorage() {
	session, err := s.app.GameController.CreateGame(s.ctx, smallGame())
	s.Require().NoError(err)
	id := session.ID()

	_, err = s.app.GameController.Play(s.ctx, id, session.CurrentPlayer().Rack[0].ID, 0, model.Position{X: 1, Y: 1})
	s.Require().NoError(err)

	s.app.GameController.Close(id)

	reloaded, err := s.app.GameController.GetSession(s.ctx, id)
	s.Require().NoError(err)
	s.NotSame(session, reloaded)
	s.Equal(1, reloaded.Board().OccupiedCount())
	s.Equal(model.PlayerID("player-2"), reloaded.CurrentPlayer().ID)
}

// Test: The bot service drives a game to the end through the controller
func (s *IntegrationSuite) TestAutoplayFinishesGame() {
	session, err := s.app.GameController.CreateGame(s.ctx, smallGame())
	s.Require().NoError(err)

	actions, err := s.app.BotService.Autoplay(s.ctx, session.ID(), model.BotStrategyGreedy, 0)
	s.Require().NoError(err)
	s.Require().NotEmpty(actions)
	s.Equal(bot.ActionGameComplete, actions[len(actions)-1].Type)
	s.Equal(model.GameStatusEnded, session.Status())
}

func TestNewWithRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	app, err := New(Config{StorageType: StorageTypeRedis, RedisConfig: &redisCfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	session, err := app.GameController.CreateGame(ctx, smallGame())
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	id := session.ID()
	if err := app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A second app sharing the same Redis sees the game
	second, err := New(Config{StorageType: StorageTypeRedis, RedisConfig: &redisCfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer second.Close()

	restored, err := second.GameController.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if restored.Status() != model.GameStatusInProgress {
		t.Fatalf("status = %s, want in_progress", restored.Status())
	}
}

func TestNewRejectsBadStorage(t *testing.T) {
	if _, err := New(Config{StorageType: "postgres"}); err == nil {
		t.Fatal("expected error for unknown storage type")
	}
	if _, err := New(Config{StorageType: StorageTypeRedis}); err == nil {
		t.Fatal("expected error for missing redis config")
	}
}
