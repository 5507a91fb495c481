package game

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/mcoot/tilegame-go/internal/dependencies/clock"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/registry"
	"github.com/mcoot/tilegame-go/internal/services/player"
	"github.com/mcoot/tilegame-go/internal/services/rules"
	"github.com/mcoot/tilegame-go/internal/services/scoring"
	"github.com/mcoot/tilegame-go/internal/services/seeder"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// Deps are the collaborators a session plays with
type Deps struct {
	registry.Components
	Seeder *seeder.Seeder
	Clock  clock.Clock
	Logger *slog.Logger
}

func (d Deps) validate() error {
	if d.Catalog == nil || d.Ruleset == nil || d.Scoring == nil || d.Clock == nil || d.Logger == nil {
		return fmt.Errorf("%w: session dependencies incomplete", model.ErrInvalidConfig)
	}
	return nil
}

// Session is one game: a board, its players and the turn state machine.
// All mutating calls are serialized by the session mutex, including turn
// timer expiry. Events raised by a call are delivered in order once the
// mutex has been released.
type Session struct {
	id      model.GameID
	config  model.GameConfig
	catalog tileset.Catalog
	ruleset rules.Ruleset
	scoring scoring.Engine
	seeder  *seeder.Seeder
	clock   clock.Clock
	logger  *slog.Logger

	mu          sync.Mutex
	board       *model.Board
	players     *player.Manager
	timer       *player.TurnTimer
	status      model.GameStatus
	selected    *model.Tile
	rotation    int
	firstMove   bool
	finalScores []model.FinalScore

	subMu       sync.Mutex
	subscribers map[int]func(model.Event)
	nextSub     int
}

// NewSession creates a session in setup. Call Start to seed the board and
// begin play; subscribe first to observe the seeded tiles.
func NewSession(id model.GameID, cfg model.GameConfig, deps Deps) (*Session, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}

	s := newSession(id, cfg, deps)
	s.board = model.NewBoard(cfg.BoardSize)
	s.status = model.GameStatusSetup
	s.firstMove = true
	if err := s.players.Initialize(cfg.Players); err != nil {
		return nil, err
	}
	return s, nil
}

// Restore rebuilds a session from a snapshot. A game in progress resumes
// with a fresh turn countdown.
func Restore(id model.GameID, cfg model.GameConfig, snapshot model.Snapshot, deps Deps) (*Session, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if snapshot.Board == nil || snapshot.Board.Size != cfg.BoardSize || snapshot.BoardSize != cfg.BoardSize {
		return nil, fmt.Errorf("%w: snapshot board does not match config", model.ErrInvalidConfig)
	}
	if len(snapshot.Board.Cells) != snapshot.BoardSize {
		return nil, fmt.Errorf("%w: snapshot board has %d rows", model.ErrInvalidConfig, len(snapshot.Board.Cells))
	}
	for y, row := range snapshot.Board.Cells {
		if len(row) != snapshot.BoardSize {
			return nil, fmt.Errorf("%w: snapshot board row %d has %d cells", model.ErrInvalidConfig, y, len(row))
		}
		for x, tile := range row {
			if tile != nil && !deps.Catalog.ValidateTile(*tile) {
				return nil, fmt.Errorf("%w: board tile at (%d, %d)", model.ErrInvalidTile, x, y)
			}
		}
	}
	for _, p := range snapshot.Players {
		for _, tile := range p.Rack {
			if !deps.Catalog.ValidateTile(tile) {
				return nil, fmt.Errorf("%w: tile %s in the rack of %s", model.ErrInvalidTile, tile.ID, p.ID)
			}
		}
	}

	s := newSession(id, cfg, deps)
	s.board = snapshot.Board.Clone()
	s.firstMove = snapshot.FirstMove
	s.status = snapshot.Status
	if s.status == "" {
		s.status = model.GameStatusInProgress
	}
	s.finalScores = snapshot.FinalScores
	if err := s.players.Restore(snapshot.Players, snapshot.CurrentPlayerIndex); err != nil {
		return nil, err
	}

	if s.status == model.GameStatusInProgress && s.timer != nil {
		s.timer.Start()
	}
	s.logger.Info("session restored",
		slog.String("status", string(s.status)),
		slog.Int("players", s.players.Count()),
		slog.Int("occupied", s.board.OccupiedCount()),
	)
	return s, nil
}

func newSession(id model.GameID, cfg model.GameConfig, deps Deps) *Session {
	s := &Session{
		id:          id,
		config:      cfg,
		catalog:     deps.Catalog,
		ruleset:     deps.Ruleset,
		scoring:     deps.Scoring,
		seeder:      deps.Seeder,
		clock:       deps.Clock,
		logger:      deps.Logger.With(slog.String("component", "session"), slog.String("game_id", string(id))),
		players:     player.NewManager(deps.Catalog, cfg.RackSize),
		subscribers: make(map[int]func(model.Event)),
	}
	if cfg.EnableTimer {
		s.timer = player.NewTurnTimer(deps.Clock, cfg.TimeLimit, s.onTimerTick, s.onTimerExpire)
	}
	return s
}

// Subscribe registers fn for every event the session raises
func (s *Session) Subscribe(fn func(model.Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Session) publish(events []model.Event) {
	if len(events) == 0 {
		return
	}
	s.subMu.Lock()
	ids := lo.Keys(s.subscribers)
	sort.Ints(ids)
	handlers := lo.Map(ids, func(id int, _ int) func(model.Event) {
		return s.subscribers[id]
	})
	s.subMu.Unlock()

	for _, e := range events {
		for _, h := range handlers {
			h(e)
		}
	}
}

func (s *Session) event(t model.EventType, playerID model.PlayerID, payload any) model.Event {
	return model.Event{
		Type:      t,
		Timestamp: s.clock.Now(),
		GameID:    s.id,
		PlayerID:  playerID,
		Payload:   payload,
	}
}

// Start seeds initial tiles and moves the session into play. It does
// nothing once the session has left setup.
func (s *Session) Start() {
	s.mu.Lock()
	if s.status != model.GameStatusSetup {
		s.mu.Unlock()
		return
	}

	var events []model.Event
	if s.config.InitialTiles.Enabled() && s.seeder != nil {
		placements := s.seeder.PlaceInitialTiles(s.board, s.ruleset, s.catalog, s.config.InitialTiles)
		for _, p := range placements {
			if !s.board.Place(p.Position, p.Tile) {
				continue
			}
			events = append(events, s.event(model.EventTilePlaced, "", model.TilePlacedPayload{
				Position: p.Position,
				Tile:     p.Tile,
			}))
		}
	}

	s.status = model.GameStatusInProgress
	current := s.players.Current()
	events = append(events, s.event(model.EventTurnChange, current.ID, model.TurnChangePayload{
		PlayerIndex: s.players.CurrentIndex(),
		PlayerID:    current.ID,
	}))
	if s.timer != nil {
		s.timer.Start()
	}
	events = append(events, s.checkGameOver()...)

	s.logger.Info("game started",
		slog.Int("board_size", s.config.BoardSize),
		slog.Int("players", s.players.Count()),
		slog.Int("seeded", s.board.OccupiedCount()),
		slog.String("scoring", s.scoring.Name()),
	)
	s.mu.Unlock()

	s.publish(events)
}

func (s *Session) requirePlaying() error {
	switch s.status {
	case model.GameStatusEnded:
		return model.ErrGameEnded
	case model.GameStatusSetup:
		return model.ErrGameNotStarted
	}
	return nil
}

// SelectTile picks a tile from the current player's rack and resets the
// rotation
func (s *Session) SelectTile(tileID model.TileID) (model.Tile, error) {
	s.mu.Lock()
	if err := s.requirePlaying(); err != nil {
		s.mu.Unlock()
		return model.Tile{}, err
	}
	current := s.players.Current()
	tile, ok := current.FindTile(tileID)
	if !ok {
		s.mu.Unlock()
		return model.Tile{}, model.ErrTileNotInRack
	}
	s.selected = &tile
	s.rotation = 0
	e := s.event(model.EventTileSelected, current.ID, model.TileSelectedPayload{Tile: tile})
	s.mu.Unlock()

	s.publish([]model.Event{e})
	return tile, nil
}

// RotateSelection turns the selected tile a quarter clockwise and returns
// the new rotation with its valid moves
func (s *Session) RotateSelection() (int, []model.Position, error) {
	s.mu.Lock()
	if err := s.requirePlaying(); err != nil {
		s.mu.Unlock()
		return 0, nil, err
	}
	if s.selected == nil {
		s.mu.Unlock()
		return 0, nil, model.ErrNoTileSelected
	}
	s.rotation = (s.rotation + 1) % 4
	rotation := s.rotation
	moves := s.ruleset.ValidMoves(s.board, s.selected.WithRotation(rotation))
	e := s.event(model.EventTileRotated, s.players.Current().ID, model.TileRotatedPayload{
		Rotation:   rotation,
		ValidMoves: moves,
	})
	s.mu.Unlock()

	s.publish([]model.Event{e})
	return rotation, moves, nil
}

// Selection returns the selected tile at its current rotation
func (s *Session) Selection() (model.Tile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return model.Tile{}, false
	}
	return s.selected.WithRotation(s.rotation), true
}

// ValidMoves lists legal positions for the selected tile at its current
// rotation, nil when nothing is selected
func (s *Session) ValidMoves() []model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	return s.ruleset.ValidMoves(s.board, s.selected.WithRotation(s.rotation))
}

// ValidMovesFor lists legal positions for tile as given
func (s *Session) ValidMovesFor(tile model.Tile) []model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ruleset.ValidMoves(s.board, tile)
}

// PlaceTile commits the selected tile at pos for the current player.
// Refusals are reported in the result, never as an error.
func (s *Session) PlaceTile(pos model.Position) model.PlaceResult {
	s.mu.Lock()
	result, events := s.placeLocked(pos)
	s.mu.Unlock()

	s.publish(events)
	return result
}

func (s *Session) placeLocked(pos model.Position) (model.PlaceResult, []model.Event) {
	result := model.PlaceResult{Position: pos}
	if s.status != model.GameStatusInProgress {
		result.Failure = model.FailureGameOver
		result.GameOver = s.status == model.GameStatusEnded
		return result, nil
	}

	mover := s.players.Current()
	result.PlayerID = mover.ID

	refuse := func(reason model.PlacementFailure) (model.PlaceResult, []model.Event) {
		result.Failure = reason
		s.logger.Debug("placement refused",
			slog.String("player_id", string(mover.ID)),
			slog.Int("x", pos.X),
			slog.Int("y", pos.Y),
			slog.String("reason", string(reason)),
		)
		return result, []model.Event{s.event(model.EventInvalidPlacement, mover.ID, model.InvalidPlacementPayload{
			Position: pos,
			Reason:   reason,
		})}
	}

	if s.selected == nil {
		return refuse(model.FailureNoTileSelected)
	}
	if !s.board.IsValidPosition(pos) {
		return refuse(model.FailureInvalidPlacement)
	}
	if !s.board.IsEmpty(pos) {
		return refuse(model.FailurePositionOccupied)
	}
	tile := s.selected.WithRotation(s.rotation)
	if !s.ruleset.IsValidPlacement(s.board, pos, tile) {
		return refuse(model.FailureInvalidPlacement)
	}

	score := s.scoring.CalculateScore(s.board, pos, tile, mover)
	s.board.Place(pos, tile)
	s.ruleset.OnTilePlaced(s.board, pos, tile)

	if _, err := s.players.UpdateScore(mover.ID, score.Base+score.Bonus, false); err != nil {
		s.logger.Error("score update failed", slog.String("error", err.Error()))
	}
	if score.PathBonus > 0 {
		if _, err := s.players.UpdateScore(mover.ID, score.PathBonus, true); err != nil {
			s.logger.Error("score update failed", slog.String("error", err.Error()))
		}
	}
	if s.scoring.Mode() == scoring.PathModeIncremental && score.PathLength > mover.BestPathLength {
		mover.BestPathLength = score.PathLength
	}

	moverIndex := s.players.CurrentIndex()
	if err := s.players.ReplaceTile(mover.ID, s.selected.ID, s.players.DrawTile(moverIndex)); err != nil {
		// The selection always comes from the current rack
		s.logger.Error("rack refill failed", slog.String("error", err.Error()))
	}
	s.selected = nil
	s.rotation = 0
	s.firstMove = false

	result.Success = true
	result.Tile = &tile
	result.Score = score

	events := []model.Event{
		s.event(model.EventTilePlaced, mover.ID, model.TilePlacedPayload{Position: pos, Tile: tile, Score: score}),
		s.event(model.EventScoreUpdate, mover.ID, model.ScoreUpdatePayload{Player: *mover.Clone()}),
	}
	if score.Path != nil {
		events = append(events, s.event(model.EventPathUpdate, mover.ID, model.PathUpdatePayload{Path: score.Path}))
	}

	s.logger.Info("tile placed",
		slog.String("player_id", string(mover.ID)),
		slog.Int("x", pos.X),
		slog.Int("y", pos.Y),
		slog.Int("score", score.Total),
		slog.Int("path_length", score.PathLength),
	)

	events = append(events, s.advanceTurn(false)...)
	end := s.checkGameOver()
	events = append(events, end...)
	result.GameOver = s.status == model.GameStatusEnded
	return result, events
}

// SkipTurn passes the turn to the next player
func (s *Session) SkipTurn() error {
	s.mu.Lock()
	if err := s.requirePlaying(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.logger.Info("turn skipped", slog.String("player_id", string(s.players.Current().ID)))
	events := s.advanceTurn(false)
	s.mu.Unlock()

	s.publish(events)
	return nil
}

// advanceTurn moves to the next player and restarts the countdown
func (s *Session) advanceTurn(forced bool) []model.Event {
	s.selected = nil
	s.rotation = 0
	next := s.players.Next()
	if s.timer != nil {
		s.timer.Start()
	}
	return []model.Event{s.event(model.EventTurnChange, next.ID, model.TurnChangePayload{
		PlayerIndex: s.players.CurrentIndex(),
		PlayerID:    next.ID,
		Forced:      forced,
	})}
}

func (s *Session) onTimerTick(gen uint64, secondsLeft int) {
	s.mu.Lock()
	if s.status != model.GameStatusInProgress || !s.timer.Current(gen) {
		s.mu.Unlock()
		return
	}
	e := s.event(model.EventTimerTick, "", model.TimerTickPayload{SecondsLeft: secondsLeft})
	s.mu.Unlock()

	s.publish([]model.Event{e})
}

func (s *Session) onTimerExpire(gen uint64) {
	s.mu.Lock()
	if s.status != model.GameStatusInProgress || !s.timer.Current(gen) {
		s.mu.Unlock()
		return
	}
	s.logger.Info("turn timed out", slog.String("player_id", string(s.players.Current().ID)))
	events := s.advanceTurn(true)
	s.mu.Unlock()

	s.publish(events)
}

// checkGameOver ends the game when the board is full or no player holds a
// tile that fits anywhere in any rotation
func (s *Session) checkGameOver() []model.Event {
	if s.status != model.GameStatusInProgress {
		return nil
	}
	if !s.board.IsFull() && s.anyPlayableTile() {
		return nil
	}
	return s.endGame()
}

func (s *Session) anyPlayableTile() bool {
	for _, p := range s.players.Players() {
		for _, tile := range p.Rack {
			for r := 0; r < 4; r++ {
				if len(s.ruleset.ValidMoves(s.board, tile.WithRotation(r))) > 0 {
					return true
				}
			}
		}
	}
	return false
}

func (s *Session) endGame() []model.Event {
	scores := lo.Map(s.players.Players(), func(p *model.Player, _ int) model.FinalScore {
		return model.FinalScore{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    s.scoring.FinalScore(s.board, p),
		}
	})
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score.Total > scores[j].Score.Total
	})

	s.finalScores = scores
	s.status = model.GameStatusEnded
	s.selected = nil
	if s.timer != nil {
		s.timer.Stop()
	}

	s.logger.Info("game ended",
		slog.Bool("board_full", s.board.IsFull()),
		slog.String("winner", string(scores[0].PlayerID)),
		slog.Int("winning_score", scores[0].Score.Total),
	)
	return []model.Event{s.event(model.EventGameEnd, "", model.GameEndPayload{FinalScores: scores})}
}

// Close stops the turn timer
func (s *Session) Close() {
	if s.timer != nil {
		s.timer.Stop()
	}
}

// ID returns the game ID
func (s *Session) ID() model.GameID {
	return s.id
}

// Config returns the normalized config the session was built from
func (s *Session) Config() model.GameConfig {
	return s.config
}

// Catalog returns the session's tile set
func (s *Session) Catalog() tileset.Catalog {
	return s.catalog
}

// Ruleset returns the session's ruleset
func (s *Session) Ruleset() rules.Ruleset {
	return s.ruleset
}

// Scoring returns the session's scoring engine
func (s *Session) Scoring() scoring.Engine {
	return s.scoring
}

// Status returns the lifecycle phase
func (s *Session) Status() model.GameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentPlayer returns a copy of the player whose turn it is
func (s *Session) CurrentPlayer() model.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.players.Current().Clone()
}

// FinalScores returns the end-of-game table, nil while play continues
func (s *Session) FinalScores() []model.FinalScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalScores
}

// Board returns a copy of the board
func (s *Session) Board() *model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// TimeLeft returns the seconds left on the turn countdown, 0 without a timer
func (s *Session) TimeLeft() int {
	if s.timer == nil {
		return 0
	}
	return s.timer.SecondsLeft()
}

// Snapshot captures the session for persistence
func (s *Session) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Snapshot{
		BoardSize:          s.config.BoardSize,
		RackSize:           s.config.RackSize,
		Board:              s.board.Clone(),
		Players:            s.players.Snapshot(),
		CurrentPlayerIndex: s.players.CurrentIndex(),
		FirstMove:          s.firstMove,
		Status:             s.status,
		FinalScores:        s.finalScores,
	}
}

// Play selects tileID, turns it to rotation and places it at pos in one
// step
func (s *Session) Play(tileID model.TileID, rotation int, pos model.Position) (model.PlaceResult, error) {
	s.mu.Lock()
	if err := s.requirePlaying(); err != nil {
		s.mu.Unlock()
		return model.PlaceResult{Position: pos, Failure: model.FailureGameOver, GameOver: s.status == model.GameStatusEnded}, err
	}
	current := s.players.Current()
	tile, ok := current.FindTile(tileID)
	if !ok {
		s.mu.Unlock()
		return model.PlaceResult{}, model.ErrTileNotInRack
	}
	s.selected = &tile
	s.rotation = ((rotation % 4) + 4) % 4
	result, events := s.placeLocked(pos)
	s.mu.Unlock()

	s.publish(events)
	return result, nil
}
