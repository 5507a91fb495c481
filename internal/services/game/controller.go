package game

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/tilegame-go/internal/dependencies/clock"
	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/registry"
	"github.com/mcoot/tilegame-go/internal/services/seeder"
	"github.com/mcoot/tilegame-go/internal/storage"
)

// Controller owns the live sessions and persists their snapshots
type Controller struct {
	storage  storage.Storage
	registry *registry.Registry
	limits   seeder.Limits
	clock    clock.Clock
	random   random.Random
	base     *slog.Logger
	logger   *slog.Logger

	mu        sync.RWMutex
	sessions  map[model.GameID]*Session
	listeners []func(model.Event)
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	reg *registry.Registry,
	limits seeder.Limits,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		registry: reg,
		limits:   limits,
		clock:    clock,
		random:   random,
		base:     logger,
		logger:   logger.With(slog.String("component", "game-controller")),
		sessions: make(map[model.GameID]*Session),
	}
}

// CreateGame starts a new session from cfg and persists it
func (c *Controller) CreateGame(ctx context.Context, cfg model.GameConfig) (*Session, error) {
	return c.startSession(ctx, model.GameID(uuid.NewString()), cfg)
}

func (c *Controller) startSession(ctx context.Context, id model.GameID, cfg model.GameConfig) (*Session, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	deps, err := c.deps(&cfg)
	if err != nil {
		return nil, err
	}
	session, err := NewSession(id, cfg, deps)
	if err != nil {
		return nil, err
	}
	// Listeners see the seeded tiles and the opening turn
	c.subscribe(session)
	session.Start()

	if err := c.persist(ctx, session); err != nil {
		session.Close()
		c.logger.Error("failed to save game",
			slog.String("game_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	c.register(session)

	c.logger.Info("game created",
		slog.String("game_id", string(id)),
		slog.String("tile_set", cfg.TileSet),
		slog.Int("player_count", len(cfg.Players)),
		slog.Int("board_size", cfg.BoardSize),
	)
	return session, nil
}

func (c *Controller) deps(cfg *model.GameConfig) (Deps, error) {
	components, err := c.registry.Build(cfg, c.random)
	if err != nil {
		return Deps{}, err
	}
	return Deps{
		Components: *components,
		Seeder:     seeder.New(c.random, c.limits, c.base),
		Clock:      c.clock,
		Logger:     c.base,
	}, nil
}

// subscribe forwards the session's events to the controller listeners.
// Forced turn changes are persisted as they happen.
func (c *Controller) subscribe(session *Session) {
	session.Subscribe(func(e model.Event) {
		c.mu.RLock()
		listeners := c.listeners
		c.mu.RUnlock()
		for _, fn := range listeners {
			fn(e)
		}

		if e.Type != model.EventTurnChange {
			return
		}
		if p, ok := e.Payload.(model.TurnChangePayload); ok && p.Forced {
			if err := c.persist(context.Background(), session); err != nil {
				c.logger.Warn("failed to save forced turn change",
					slog.String("game_id", string(session.ID())),
					slog.String("error", err.Error()),
				)
			}
		}
	})
}

// register makes session the live one for its ID, stopping any previous one
func (c *Controller) register(session *Session) {
	c.mu.Lock()
	previous := c.sessions[session.ID()]
	c.sessions[session.ID()] = session
	c.mu.Unlock()

	if previous != nil && previous != session {
		previous.Close()
	}
}

func (c *Controller) persist(ctx context.Context, session *Session) error {
	return c.storage.SaveGame(ctx, &model.SavedGame{
		ID:        session.ID(),
		Config:    session.Config(),
		Snapshot:  session.Snapshot(),
		UpdatedAt: c.clock.Now(),
	})
}

// GetSession returns the live session, loading it from storage if needed
func (c *Controller) GetSession(ctx context.Context, id model.GameID) (*Session, error) {
	c.mu.RLock()
	session, ok := c.sessions[id]
	c.mu.RUnlock()
	if ok {
		return session, nil
	}
	return c.Restore(ctx, id)
}

// SelectTile selects a rack tile for the current player
func (c *Controller) SelectTile(ctx context.Context, id model.GameID, tileID model.TileID) (model.Tile, error) {
	session, err := c.GetSession(ctx, id)
	if err != nil {
		return model.Tile{}, err
	}
	return session.SelectTile(tileID)
}

// RotateSelection turns the selected tile and returns its valid moves
func (c *Controller) RotateSelection(ctx context.Context, id model.GameID) (int, []model.Position, error) {
	session, err := c.GetSession(ctx, id)
	if err != nil {
		return 0, nil, err
	}
	return session.RotateSelection()
}

// ValidMoves lists legal positions for the current selection
func (c *Controller) ValidMoves(ctx context.Context, id model.GameID) ([]model.Position, error) {
	session, err := c.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := session.Selection(); !ok {
		return nil, model.ErrNoTileSelected
	}
	return session.ValidMoves(), nil
}

// PlaceTile places the selected tile and persists the outcome. A refused
// placement is reported in the result, not as an error.
func (c *Controller) PlaceTile(ctx context.Context, id model.GameID, pos model.Position) (model.PlaceResult, error) {
	session, err := c.GetSession(ctx, id)
	if err != nil {
		return model.PlaceResult{}, err
	}
	result := session.PlaceTile(pos)
	if !result.Success {
		return result, nil
	}
	return result, c.persist(ctx, session)
}

// Play selects, rotates and places a tile in one call
func (c *Controller) Play(ctx context.Context, id model.GameID, tileID model.TileID, rotation int, pos model.Position) (model.PlaceResult, error) {
	session, err := c.GetSession(ctx, id)
	if err != nil {
		return model.PlaceResult{}, err
	}
	result, err := session.Play(tileID, rotation, pos)
	if err != nil || !result.Success {
		return result, err
	}
	return result, c.persist(ctx, session)
}

// SkipTurn passes the turn and persists the outcome
func (c *Controller) SkipTurn(ctx context.Context, id model.GameID) error {
	session, err := c.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if err := session.SkipTurn(); err != nil {
		return err
	}
	return c.persist(ctx, session)
}

// Save persists the live session
func (c *Controller) Save(ctx context.Context, id model.GameID) error {
	c.mu.RLock()
	session, ok := c.sessions[id]
	c.mu.RUnlock()
	if !ok {
		return model.ErrGameNotFound
	}
	return c.persist(ctx, session)
}

// Restore rebuilds the session from its stored snapshot, replacing any live
// session with the same ID
func (c *Controller) Restore(ctx context.Context, id model.GameID) (*Session, error) {
	saved, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.RestoreSnapshot(ctx, id, saved.Config, saved.Snapshot)
}

// RestoreSnapshot replaces the session with one rebuilt from snapshot
func (c *Controller) RestoreSnapshot(ctx context.Context, id model.GameID, cfg model.GameConfig, snapshot model.Snapshot) (*Session, error) {
	cfg.Normalize()
	deps, err := c.deps(&cfg)
	if err != nil {
		return nil, err
	}
	session, err := Restore(id, cfg, snapshot, deps)
	if err != nil {
		return nil, err
	}
	if err := c.persist(ctx, session); err != nil {
		session.Close()
		return nil, err
	}
	c.subscribe(session)
	c.register(session)

	c.logger.Info("game restored",
		slog.String("game_id", string(id)),
		slog.String("status", string(session.Status())),
	)
	return session, nil
}

// NewGame replaces the session with a fresh game using the same config
func (c *Controller) NewGame(ctx context.Context, id model.GameID) (*Session, error) {
	session, err := c.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.startSession(ctx, id, session.Config())
}

// Close stops the live session and forgets it. The stored snapshot is kept.
func (c *Controller) Close(id model.GameID) {
	c.mu.Lock()
	session, ok := c.sessions[id]
	delete(c.sessions, id)
	c.mu.Unlock()

	if ok {
		session.Close()
	}
}

// DeleteGame closes the session and removes its snapshot
func (c *Controller) DeleteGame(ctx context.Context, id model.GameID) error {
	if _, err := c.storage.GetGame(ctx, id); err != nil {
		return err
	}
	c.Close(id)
	return c.storage.DeleteGame(ctx, id)
}

// ListGames returns the IDs of all stored games
func (c *Controller) ListGames(ctx context.Context) ([]model.GameID, error) {
	return c.storage.ListGames(ctx)
}

// OnEvent registers fn for every event raised by any session the
// controller tracks, including sessions started later
func (c *Controller) OnEvent(fn func(model.Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(slices.Clip(c.listeners), fn)
}

// Registry returns the variant registry sessions are built from
func (c *Controller) Registry() *registry.Registry {
	return c.registry
}

// Shutdown stops every live session
func (c *Controller) Shutdown() {
	c.mu.Lock()
	sessions := c.sessions
	c.sessions = make(map[model.GameID]*Session)
	c.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, cfg model.GameConfig) (*Session, error)
	GetSession(ctx context.Context, id model.GameID) (*Session, error)
	SelectTile(ctx context.Context, id model.GameID, tileID model.TileID) (model.Tile, error)
	RotateSelection(ctx context.Context, id model.GameID) (int, []model.Position, error)
	ValidMoves(ctx context.Context, id model.GameID) ([]model.Position, error)
	PlaceTile(ctx context.Context, id model.GameID, pos model.Position) (model.PlaceResult, error)
	Play(ctx context.Context, id model.GameID, tileID model.TileID, rotation int, pos model.Position) (model.PlaceResult, error)
	SkipTurn(ctx context.Context, id model.GameID) error
	Save(ctx context.Context, id model.GameID) error
	Restore(ctx context.Context, id model.GameID) (*Session, error)
	RestoreSnapshot(ctx context.Context, id model.GameID, cfg model.GameConfig, snapshot model.Snapshot) (*Session, error)
	NewGame(ctx context.Context, id model.GameID) (*Session, error)
	Close(id model.GameID)
	DeleteGame(ctx context.Context, id model.GameID) error
	ListGames(ctx context.Context) ([]model.GameID, error)
	OnEvent(fn func(model.Event))
}

var _ ControllerInterface = (*Controller)(nil)
