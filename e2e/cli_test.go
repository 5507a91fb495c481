package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tilegame-go/internal/api"
	"github.com/mcoot/tilegame-go/internal/factory"
	"github.com/mcoot/tilegame-go/internal/model"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "tilegame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/tilegame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	// Local commands log to stderr, so only stdout is decoded
	var stderr strings.Builder
	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	require.NoError(t, err, "tilegame %s: %s", strings.Join(args, " "), stderr.String())
	require.NoError(t, json.Unmarshal(output, v), "output: %s", output)
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	defaultGame := model.GameConfig{BoardSize: 3}
	defaultGame.Normalize()

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		Registry:          app.Registry,
		GameController:    app.GameController,
		BoardService:      app.BoardService,
		BotService:        app.BotService,
		HubManager:        app.HubManager,
		Broadcaster:       app.Broadcaster,
		DefaultGameConfig: defaultGame,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type tileResponse struct {
	ID       string `json:"id"`
	Rotation int    `json:"rotation"`
}

type playerResponse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Score int            `json:"score"`
	Rack  []tileResponse `json:"rack"`
}

type gameStateResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	CurrentPlayer string `json:"current_player"`
	Summary       struct {
		Size     int `json:"size"`
		Occupied int `json:"occupied"`
	} `json:"summary"`
	Players     []playerResponse `json:"players"`
	FinalScores []struct {
		PlayerID string `json:"player_id"`
	} `json:"final_scores"`
}

type positionResponse struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type placeResponse struct {
	Result struct {
		Success bool   `json:"success"`
		Failure string `json:"failure"`
	} `json:"result"`
	Game gameStateResponse `json:"game"`
}

type autoplayResponse struct {
	Strategy string `json:"strategy"`
	Actions  []struct {
		Type string `json:"type"`
	} `json:"actions"`
	Game gameStateResponse `json:"game"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()

	cli := newCLIRunner(t, server.addr)

	var resp healthResponse
	cli.runJSON(t, &resp, "health")
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_Variants(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()

	cli := newCLIRunner(t, server.addr)

	var resp struct {
		TileSets      []struct{ Name string } `json:"tile_sets"`
		BotStrategies []string                `json:"bot_strategies"`
	}
	cli.runJSON(t, &resp, "variants")
	assert.Len(t, resp.TileSets, 2)
	assert.ElementsMatch(t, model.ValidBotStrategies(), resp.BotStrategies)
}

func TestCLI_FullGameFlow(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()

	cli := newCLIRunner(t, server.addr)

	// Create with explicit setup flags
	var game gameStateResponse
	cli.runJSON(t, &game, "game", "create", "--size", "4", "--players", "Alice,Bob", "--tile-set", "streets")
	require.NotEmpty(t, game.ID)
	assert.Equal(t, "in_progress", game.Status)
	assert.Equal(t, 4, game.Summary.Size)
	require.Len(t, game.Players, 2)
	assert.Equal(t, game.Players[0].ID, game.CurrentPlayer)
	require.NotEmpty(t, game.Players[0].Rack)

	// Select, rotate, list moves and place the first
	tileID := game.Players[0].Rack[0].ID
	_, err := cli.run("game", "select", game.ID, tileID)
	require.NoError(t, err)

	var rotated struct {
		Rotation int `json:"rotation"`
	}
	cli.runJSON(t, &rotated, "game", "rotate", game.ID)
	assert.Equal(t, 1, rotated.Rotation)

	var moves struct {
		ValidMoves []positionResponse `json:"valid_moves"`
	}
	cli.runJSON(t, &moves, "game", "moves", game.ID)
	require.Len(t, moves.ValidMoves, 16)

	var placed placeResponse
	move := moves.ValidMoves[0]
	cli.runJSON(t, &placed, "game", "place", game.ID, fmt.Sprint(move.X), fmt.Sprint(move.Y))
	assert.True(t, placed.Result.Success)
	assert.Equal(t, 1, placed.Game.Summary.Occupied)
	assert.Equal(t, game.Players[1].ID, placed.Game.CurrentPlayer)

	// Placing on the same cell is refused with a reason
	nextTile := placed.Game.Players[1].Rack[0].ID
	var refused placeResponse
	cli.runJSON(t, &refused, "game", "place", game.ID, fmt.Sprint(move.X), fmt.Sprint(move.Y), "--tile", nextTile)
	assert.False(t, refused.Result.Success)
	assert.Equal(t, "position_occupied", refused.Result.Failure)

	// Let the bot finish
	var auto autoplayResponse
	cli.runJSON(t, &auto, "game", "autoplay", game.ID, "--strategy", "random")
	require.NotEmpty(t, auto.Actions)
	assert.Equal(t, "game_complete", auto.Actions[len(auto.Actions)-1].Type)
	assert.Equal(t, "ended", auto.Game.Status)
	assert.Len(t, auto.Game.FinalScores, 2)

	// Skipping after the end fails
	output, err := cli.run("game", "skip", game.ID)
	assert.Error(t, err)
	assert.Contains(t, output, "GAME_ENDED")

	// Reset with the same config
	var fresh gameStateResponse
	cli.runJSON(t, &fresh, "game", "new", game.ID)
	assert.Equal(t, "in_progress", fresh.Status)
	assert.Equal(t, 0, fresh.Summary.Occupied)
}

func TestCLI_GameListAndDelete(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()

	cli := newCLIRunner(t, server.addr)

	var game gameStateResponse
	cli.runJSON(t, &game, "game", "create")
	assert.Equal(t, 3, game.Summary.Size)

	var list struct {
		Games []string `json:"games"`
	}
	cli.runJSON(t, &list, "game", "list")
	assert.Contains(t, list.Games, game.ID)

	_, err := cli.run("game", "delete", game.ID)
	require.NoError(t, err)

	output, err := cli.run("game", "get", game.ID)
	assert.Error(t, err)
	assert.Contains(t, output, "GAME_NOT_FOUND")
}

func TestCLI_SnapshotAndRender(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()

	cli := newCLIRunner(t, server.addr)

	var game gameStateResponse
	cli.runJSON(t, &game, "game", "create", "--tile-set", "shapes")
	tileID := game.Players[0].Rack[0].ID

	var snapshot struct {
		Board struct {
			Size int `json:"size"`
		} `json:"board"`
		Players []playerResponse `json:"players"`
	}
	cli.runJSON(t, &snapshot, "game", "snapshot", game.ID)
	assert.Equal(t, 3, snapshot.Board.Size)
	assert.Len(t, snapshot.Players, 1)

	var render struct {
		TileID     string            `json:"tile_id"`
		Rotation   int               `json:"rotation"`
		Primitives []json.RawMessage `json:"primitives"`
	}
	cli.runJSON(t, &render, "game", "render", game.ID, tileID, "--rotation", "2")
	assert.Equal(t, tileID, render.TileID)
	assert.Equal(t, 2, render.Rotation)
	assert.NotEmpty(t, render.Primitives)
}

func TestCLI_LocalCommands(t *testing.T) {
	cli := newCLIRunner(t, "http://127.0.0.1:1")

	var seeded struct {
		BoardSize int    `json:"board_size"`
		Placed    int    `json:"placed"`
		Text      string `json:"text"`
	}
	cli.runJSON(t, &seeded, "seed", "--size", "5", "--arrangement", "centre", "--seed", "3")
	assert.Equal(t, 5, seeded.BoardSize)
	assert.Equal(t, 1, seeded.Placed)
	assert.NotEmpty(t, seeded.Text)

	var report struct {
		Strategy string            `json:"strategy"`
		Games    []json.RawMessage `json:"games"`
	}
	cli.runJSON(t, &report, "simulate", "-n", "2", "--size", "3", "--players", "A,B", "--seed", "9")
	assert.Equal(t, "greedy", report.Strategy)
	assert.Len(t, report.Games, 2)
}

func TestCLI_ErrorHandling(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()

	cli := newCLIRunner(t, server.addr)

	output, err := cli.run("game", "get", "nonexistent")
	assert.Error(t, err)
	assert.Contains(t, output, "GAME_NOT_FOUND")

	output, err = cli.run("game", "create", "--size", "2")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_CONFIG")
}
