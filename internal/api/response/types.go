package response

import (
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/registry"
	"github.com/mcoot/tilegame-go/internal/services/board"
	"github.com/mcoot/tilegame-go/internal/services/bot"
	"github.com/mcoot/tilegame-go/internal/services/game"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// Player represents a seated player in API responses
type Player struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Color          string       `json:"color"`
	Score          int          `json:"score"`
	BonusScore     int          `json:"bonus_score"`
	BestPathLength int          `json:"best_path_length"`
	Rack           []model.Tile `json:"rack"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	rack := p.Rack
	if rack == nil {
		rack = []model.Tile{}
	}
	return Player{
		ID:             string(p.ID),
		Name:           p.Name,
		Color:          string(p.Color),
		Score:          p.Score,
		BonusScore:     p.BonusScore,
		BestPathLength: p.BestPathLength,
		Rack:           rack,
	}
}

// Selection is the current player's selected tile
type Selection struct {
	Tile     model.Tile `json:"tile"`
	Rotation int        `json:"rotation"`
}

// GameState represents the current game state
type GameState struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	Config        model.GameConfig   `json:"config"`
	Board         *model.Board       `json:"board"`
	Summary       board.Summary      `json:"summary"`
	Text          string             `json:"text"`
	Players       []Player           `json:"players"`
	CurrentPlayer string             `json:"current_player"`
	Selection     *Selection         `json:"selection,omitempty"`
	TimeLeft      int                `json:"time_left,omitempty"`
	FinalScores   []model.FinalScore `json:"final_scores,omitempty"`
}

// GameStateFromSession converts a live session to a response GameState
func GameStateFromSession(s *game.Session, boards board.ServiceInterface) GameState {
	snapshot := s.Snapshot()

	players := make([]Player, len(snapshot.Players))
	for i, p := range snapshot.Players {
		players[i] = PlayerFromModel(p)
	}

	var selection *Selection
	if tile, ok := s.Selection(); ok {
		selection = &Selection{Tile: tile, Rotation: tile.Rotation}
	}

	var current string
	if snapshot.Status == model.GameStatusInProgress {
		current = string(s.CurrentPlayer().ID)
	}

	return GameState{
		ID:            string(s.ID()),
		Status:        string(snapshot.Status),
		Config:        s.Config(),
		Board:         snapshot.Board,
		Summary:       boards.Summarize(snapshot.Board),
		Text:          boards.Text(snapshot.Board, s.Catalog()),
		Players:       players,
		CurrentPlayer: current,
		Selection:     selection,
		TimeLeft:      s.TimeLeft(),
		FinalScores:   snapshot.FinalScores,
	}
}

// GameList is the response for listing stored games
type GameList struct {
	Games []string `json:"games"`
}

// RotateResponse is the response after rotating the selection
type RotateResponse struct {
	Rotation   int              `json:"rotation"`
	ValidMoves []model.Position `json:"valid_moves"`
}

// MovesResponse lists the legal positions for the selection
type MovesResponse struct {
	ValidMoves []model.Position `json:"valid_moves"`
}

// PlaceResponse is the response after a placement attempt
type PlaceResponse struct {
	Result model.PlaceResult `json:"result"`
	Game   GameState         `json:"game"`
}

// AutoplayResponse lists what the bot did
type AutoplayResponse struct {
	Strategy string       `json:"strategy"`
	Actions  []bot.Action `json:"actions"`
	Game     GameState    `json:"game"`
}

// RenderResponse describes a tile as drawing primitives
type RenderResponse struct {
	TileID     string              `json:"tile_id"`
	Rotation   int                 `json:"rotation"`
	ViewBox    int                 `json:"view_box"`
	Primitives []tileset.Primitive `json:"primitives"`
}

// VariantsResponse lists the registered variants
type VariantsResponse struct {
	TileSets       []registry.Variant `json:"tile_sets"`
	Rulesets       []registry.Variant `json:"rulesets"`
	ScoringSystems []registry.Variant `json:"scoring_systems"`
	BotStrategies  []string           `json:"bot_strategies"`
}

// EmptyPositions normalizes a nil move list so it encodes as []
func EmptyPositions(moves []model.Position) []model.Position {
	if moves == nil {
		return []model.Position{}
	}
	return moves
}
