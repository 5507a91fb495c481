package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/tilegame-go/internal/api/request"
	"github.com/mcoot/tilegame-go/internal/api/response"
	"github.com/mcoot/tilegame-go/internal/api/sse"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/board"
	"github.com/mcoot/tilegame-go/internal/services/bot"
	"github.com/mcoot/tilegame-go/internal/services/game"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// DefaultBotStrategy is used by autoplay when the request names none
const DefaultBotStrategy = model.BotStrategyGreedy

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
	boardService   *board.Service
	botService     *bot.Service
	broadcaster    *sse.Broadcaster
	defaultConfig  model.GameConfig
}

// NewGameHandler creates a new game handler. defaultConfig is used when a
// create request has no body.
func NewGameHandler(
	gameController *game.Controller,
	boardService *board.Service,
	botService *bot.Service,
	broadcaster *sse.Broadcaster,
	defaultConfig model.GameConfig,
) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		boardService:   boardService,
		botService:     botService,
		broadcaster:    broadcaster,
		defaultConfig:  defaultConfig,
	}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}

func (h *GameHandler) state(s *game.Session) response.GameState {
	return response.GameStateFromSession(s, h.boardService)
}

func (h *GameHandler) writeState(w http.ResponseWriter, r *http.Request, status int) {
	session, err := h.gameController.GetSession(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, h.state(session))
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := request.CreateGameRequest{GameConfig: h.defaultConfig}
	req.Players = append([]model.PlayerSetup(nil), h.defaultConfig.Players...)
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.gameController.CreateGame(r.Context(), req.GameConfig)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, h.state(session))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.gameController.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	games := make([]string, len(ids))
	for i, id := range ids {
		games[i] = string(id)
	}
	response.JSON(w, http.StatusOK, response.GameList{Games: games})
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, http.StatusOK)
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	if err := h.gameController.DeleteGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	h.broadcaster.RemoveGame(id)
	response.NoContent(w)
}

// NewGame handles POST /api/v1/games/{id}/new
func (h *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	session, err := h.gameController.NewGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, h.state(session))
}

// Select handles POST /api/v1/games/{id}/select
func (h *GameHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req request.SelectRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.TileID == "" {
		WriteError(w, NewInvalidRequestError("tile_id is required"))
		return
	}

	tile, err := h.gameController.SelectTile(r.Context(), gameID(r), model.TileID(req.TileID))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Selection{Tile: tile, Rotation: tile.Rotation})
}

// Rotate handles POST /api/v1/games/{id}/rotate
func (h *GameHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	rotation, moves, err := h.gameController.RotateSelection(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RotateResponse{
		Rotation:   rotation,
		ValidMoves: response.EmptyPositions(moves),
	})
}

// Moves handles GET /api/v1/games/{id}/moves
func (h *GameHandler) Moves(w http.ResponseWriter, r *http.Request) {
	moves, err := h.gameController.ValidMoves(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MovesResponse{ValidMoves: response.EmptyPositions(moves)})
}

// Place handles POST /api/v1/games/{id}/place. A refused placement is
// answered with 409 and the result naming the failure.
func (h *GameHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req request.PlaceRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	id := gameID(r)
	pos := model.Position{X: req.X, Y: req.Y}

	var (
		result model.PlaceResult
		err    error
	)
	if req.TileID != "" {
		result, err = h.gameController.Play(r.Context(), id, model.TileID(req.TileID), req.Rotation, pos)
	} else {
		result, err = h.gameController.PlaceTile(r.Context(), id, pos)
	}
	if err != nil && result.Failure == model.FailureNone {
		WriteError(w, err)
		return
	}

	session, err := h.gameController.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusConflict
	}
	response.JSON(w, status, response.PlaceResponse{Result: result, Game: h.state(session)})
}

// Skip handles POST /api/v1/games/{id}/skip
func (h *GameHandler) Skip(w http.ResponseWriter, r *http.Request) {
	if err := h.gameController.SkipTurn(r.Context(), gameID(r)); err != nil {
		WriteError(w, err)
		return
	}
	h.writeState(w, r, http.StatusOK)
}

// Autoplay handles POST /api/v1/games/{id}/autoplay
func (h *GameHandler) Autoplay(w http.ResponseWriter, r *http.Request) {
	var req request.AutoplayRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Strategy == "" {
		req.Strategy = DefaultBotStrategy
	}
	if req.Turns < 0 {
		WriteError(w, NewInvalidRequestError("turns must not be negative"))
		return
	}

	id := gameID(r)
	actions, err := h.botService.Autoplay(r.Context(), id, req.Strategy, req.Turns)
	if err != nil {
		WriteError(w, err)
		return
	}
	session, err := h.gameController.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if actions == nil {
		actions = []bot.Action{}
	}
	response.JSON(w, http.StatusOK, response.AutoplayResponse{
		Strategy: req.Strategy,
		Actions:  actions,
		Game:     h.state(session),
	})
}

// Snapshot handles GET /api/v1/games/{id}/snapshot
func (h *GameHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	session, err := h.gameController.GetSession(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, session.Snapshot())
}

// Restore handles POST /api/v1/games/{id}/restore
func (h *GameHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req request.RestoreRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Snapshot.Board == nil {
		WriteError(w, NewInvalidRequestError("snapshot.board is required"))
		return
	}

	id := gameID(r)
	var cfg model.GameConfig
	if req.Config != nil {
		cfg = *req.Config
	} else {
		current, err := h.gameController.GetSession(r.Context(), id)
		if err != nil {
			WriteError(w, err)
			return
		}
		cfg = current.Config()
	}

	session, err := h.gameController.RestoreSnapshot(r.Context(), id, cfg, req.Snapshot)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, h.state(session))
}

// RenderTile handles GET /api/v1/games/{id}/tiles/{tile_id}/render. The
// optional rotation query parameter overrides the tile's own rotation.
func (h *GameHandler) RenderTile(w http.ResponseWriter, r *http.Request) {
	session, err := h.gameController.GetSession(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	tile, ok := findTile(session.Snapshot(), model.TileID(mux.Vars(r)["tile_id"]))
	if !ok {
		WriteError(w, model.ErrTileNotFound)
		return
	}

	rotation := tile.Rotation
	if q := r.URL.Query().Get("rotation"); q != "" {
		rotation, err = strconv.Atoi(q)
		if err != nil {
			WriteError(w, NewInvalidRequestError("rotation must be an integer"))
			return
		}
		rotation = ((rotation % 4) + 4) % 4
	}

	response.JSON(w, http.StatusOK, response.RenderResponse{
		TileID:     string(tile.ID),
		Rotation:   rotation,
		ViewBox:    tileset.ViewBox,
		Primitives: session.Catalog().Render(tile, rotation),
	})
}

// findTile looks in the racks first, then on the board
func findTile(snapshot model.Snapshot, id model.TileID) (model.Tile, bool) {
	for _, p := range snapshot.Players {
		if tile, ok := p.FindTile(id); ok {
			return tile, true
		}
	}
	for _, pos := range snapshot.Board.Positions() {
		if tile := snapshot.Board.Get(pos); tile != nil && tile.ID == id {
			return *tile, true
		}
	}
	return model.Tile{}, false
}
