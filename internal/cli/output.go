package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return NewOutputTo(os.Stdout, format)
}

// NewOutputTo creates a new Output formatter writing to w
func NewOutputTo(w io.Writer, format string) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case GameState:
		o.printGameState(v)
	case GameList:
		o.printGameList(v)
	case Selection:
		fmt.Fprintf(o.w, "Selected: %s\n", describeTile(v.Tile))
	case RotateResult:
		fmt.Fprintf(o.w, "Rotation: %d\n", v.Rotation)
		o.printMoves(v.ValidMoves)
	case MovesResult:
		o.printMoves(v.ValidMoves)
	case PlaceResult:
		o.printPlaceResult(v)
	case AutoplayResult:
		o.printAutoplayResult(v)
	case RenderResult:
		o.printRenderResult(v)
	case Variants:
		o.printVariants(v)
	case SeedResult:
		o.printSeedResult(v)
	case SimulationReport:
		o.printSimulationReport(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case StreamEvent:
		fmt.Fprintf(o.w, "%s %s\n", v.Event, v.Data)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Tile response type (matches API)
type Tile struct {
	ID            string    `json:"id"`
	Sides         [4]string `json:"sides"`
	Rotation      int       `json:"rotation"`
	CenterPattern string    `json:"center_pattern,omitempty"`
	Color         string    `json:"color,omitempty"`
	IsStarter     bool      `json:"is_starter,omitempty"`
}

// Position response type
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Player response type
type Player struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	Score          int    `json:"score"`
	BonusScore     int    `json:"bonus_score"`
	BestPathLength int    `json:"best_path_length"`
	Rack           []Tile `json:"rack"`
}

// Summary response type
type Summary struct {
	Size     int  `json:"size"`
	Occupied int  `json:"occupied"`
	Empty    int  `json:"empty"`
	Starters int  `json:"starters"`
	Full     bool `json:"full"`
}

// Selection response type
type Selection struct {
	Tile     Tile `json:"tile"`
	Rotation int  `json:"rotation"`
}

// ScoreBreakdown response type
type ScoreBreakdown struct {
	Total      int `json:"total"`
	Base       int `json:"base"`
	Bonus      int `json:"bonus"`
	PathBonus  int `json:"path_bonus"`
	PathLength int `json:"path_length,omitempty"`
}

// FinalScore response type
type FinalScore struct {
	PlayerID string         `json:"player_id"`
	Name     string         `json:"name"`
	Score    ScoreBreakdown `json:"score"`
}

// GameState response type
type GameState struct {
	ID            string       `json:"id"`
	Status        string       `json:"status"`
	Summary       Summary      `json:"summary"`
	Text          string       `json:"text"`
	Players       []Player     `json:"players"`
	CurrentPlayer string       `json:"current_player"`
	Selection     *Selection   `json:"selection,omitempty"`
	TimeLeft      int          `json:"time_left,omitempty"`
	FinalScores   []FinalScore `json:"final_scores,omitempty"`
}

// GameList response type
type GameList struct {
	Games []string `json:"games"`
}

// RotateResult response type
type RotateResult struct {
	Rotation   int        `json:"rotation"`
	ValidMoves []Position `json:"valid_moves"`
}

// MovesResult response type
type MovesResult struct {
	ValidMoves []Position `json:"valid_moves"`
}

// PlaceOutcome is the engine's verdict on a placement
type PlaceOutcome struct {
	Success  bool           `json:"success"`
	Failure  string         `json:"failure,omitempty"`
	Position Position       `json:"position"`
	Score    ScoreBreakdown `json:"score"`
	PlayerID string         `json:"player_id,omitempty"`
	GameOver bool           `json:"game_over"`
}

// PlaceResult response type
type PlaceResult struct {
	Result PlaceOutcome `json:"result"`
	Game   GameState    `json:"game"`
}

// Action response type
type Action struct {
	Type     string   `json:"type"`
	PlayerID string   `json:"player_id,omitempty"`
	TileID   string   `json:"tile_id,omitempty"`
	Rotation int      `json:"rotation"`
	Position Position `json:"position"`
	Score    int      `json:"score"`
}

// AutoplayResult response type
type AutoplayResult struct {
	Strategy string    `json:"strategy"`
	Actions  []Action  `json:"actions"`
	Game     GameState `json:"game"`
}

// RenderResult response type
type RenderResult struct {
	TileID     string           `json:"tile_id"`
	Rotation   int              `json:"rotation"`
	ViewBox    int              `json:"view_box"`
	Primitives []map[string]any `json:"primitives"`
}

// Variant response type
type Variant struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Variants response type
type Variants struct {
	TileSets       []Variant `json:"tile_sets"`
	Rulesets       []Variant `json:"rulesets"`
	ScoringSystems []Variant `json:"scoring_systems"`
	BotStrategies  []string  `json:"bot_strategies"`
}

// StreamEvent is one event read from a game's event stream
type StreamEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func describeTile(t Tile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] r%d", t.ID, strings.Join(t.Sides[:], " "), t.Rotation)
	if t.CenterPattern != "" {
		fmt.Fprintf(&b, " %s", t.CenterPattern)
	}
	if t.IsStarter {
		b.WriteString(" starter")
	}
	return b.String()
}

func (o *Output) printGameState(g GameState) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	fmt.Fprintf(o.w, "Board: %dx%d, %d placed, %d empty\n", g.Summary.Size, g.Summary.Size, g.Summary.Occupied, g.Summary.Empty)
	if g.TimeLeft > 0 {
		fmt.Fprintf(o.w, "Time Left: %ds\n", g.TimeLeft)
	}

	fmt.Fprintln(o.w)
	fmt.Fprint(o.w, g.Text)

	fmt.Fprintln(o.w, "\nPlayers:")
	for _, p := range g.Players {
		marker := " "
		if p.ID == g.CurrentPlayer {
			marker = "*"
		}
		fmt.Fprintf(o.w, " %s %s (%s): %d points (%d bonus)\n", marker, p.Name, p.ID, p.Score, p.BonusScore)
		if p.ID == g.CurrentPlayer {
			for _, t := range p.Rack {
				fmt.Fprintf(o.w, "     - %s\n", describeTile(t))
			}
		}
	}

	if g.Selection != nil {
		fmt.Fprintf(o.w, "\nSelected: %s\n", describeTile(g.Selection.Tile))
	}

	if len(g.FinalScores) > 0 {
		fmt.Fprintln(o.w, "\nFinal Scores:")
		for i, s := range g.FinalScores {
			fmt.Fprintf(o.w, "  %d. %s: %d points\n", i+1, s.Name, s.Score.Total)
		}
	}
}

func (o *Output) printGameList(l GameList) {
	if len(l.Games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}
	for _, id := range l.Games {
		fmt.Fprintln(o.w, id)
	}
}

func (o *Output) printMoves(moves []Position) {
	if len(moves) == 0 {
		fmt.Fprintln(o.w, "No valid moves")
		return
	}
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = fmt.Sprintf("(%d,%d)", m.X, m.Y)
	}
	fmt.Fprintf(o.w, "Valid moves (%d): %s\n", len(moves), strings.Join(parts, " "))
}

func (o *Output) printPlaceResult(p PlaceResult) {
	if !p.Result.Success {
		fmt.Fprintf(o.w, "Placement refused: %s\n", p.Result.Failure)
		return
	}
	fmt.Fprintf(o.w, "Placed at (%d,%d) for %d points\n", p.Result.Position.X, p.Result.Position.Y, p.Result.Score.Total)
	if p.Result.GameOver {
		fmt.Fprintln(o.w, "Game complete!")
	}
	fmt.Fprintln(o.w)
	o.printGameState(p.Game)
}

func (o *Output) printAutoplayResult(a AutoplayResult) {
	fmt.Fprintf(o.w, "Strategy: %s\n", a.Strategy)
	for _, act := range a.Actions {
		switch act.Type {
		case "place":
			fmt.Fprintf(o.w, "  %s placed %s r%d at (%d,%d) for %d\n",
				act.PlayerID, act.TileID, act.Rotation, act.Position.X, act.Position.Y, act.Score)
		case "skip":
			fmt.Fprintf(o.w, "  %s skipped\n", act.PlayerID)
		default:
			fmt.Fprintln(o.w, "  game complete")
		}
	}
	fmt.Fprintln(o.w)
	o.printGameState(a.Game)
}

func (o *Output) printRenderResult(r RenderResult) {
	fmt.Fprintf(o.w, "Tile %s at rotation %d, %d primitives in a %d square\n", r.TileID, r.Rotation, len(r.Primitives), r.ViewBox)
	for _, p := range r.Primitives {
		fmt.Fprintf(o.w, "  - %v %v\n", p["kind"], p["fill"])
	}
}

func (o *Output) printVariants(v Variants) {
	section := func(title string, variants []Variant) {
		fmt.Fprintf(o.w, "%s:\n", title)
		for _, x := range variants {
			fmt.Fprintf(o.w, "  %-10s %s\n", x.Name, x.Description)
		}
	}
	section("Tile sets", v.TileSets)
	section("Rulesets", v.Rulesets)
	section("Scoring", v.ScoringSystems)
	fmt.Fprintf(o.w, "Bot strategies: %s\n", strings.Join(v.BotStrategies, ", "))
}

func (o *Output) printSeedResult(s SeedResult) {
	fmt.Fprintf(o.w, "Seeded %d starter tiles on a %dx%d %s board\n\n", s.Placed, s.BoardSize, s.BoardSize, s.TileSet)
	fmt.Fprint(o.w, s.Text)
}

func (o *Output) printSimulationReport(r SimulationReport) {
	fmt.Fprintf(o.w, "Simulated %d games with the %s strategy\n", len(r.Games), r.Strategy)
	for _, g := range r.Games {
		winner := "-"
		if len(g.FinalScores) > 0 {
			winner = fmt.Sprintf("%s (%d)", g.FinalScores[0].Name, g.FinalScores[0].Score.Total)
		}
		fmt.Fprintf(o.w, "  game %d: %d moves, %d skips, winner %s\n", g.Index+1, g.Moves, g.Skips, winner)
	}
	fmt.Fprintf(o.w, "Average winning score: %.1f\n", r.AverageWinningScore)
	fmt.Fprintf(o.w, "Average moves per game: %.1f\n", r.AverageMoves)
}
