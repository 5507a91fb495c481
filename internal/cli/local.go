package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/tilegame-go/internal/dependencies/clock"
	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/registry"
	"github.com/mcoot/tilegame-go/internal/services/board"
	"github.com/mcoot/tilegame-go/internal/services/bot"
	"github.com/mcoot/tilegame-go/internal/services/game"
	"github.com/mcoot/tilegame-go/internal/services/seeder"
)

// SeedResult is a preview of a seeded board
type SeedResult struct {
	TileSet   string `json:"tile_set"`
	BoardSize int    `json:"board_size"`
	Placed    int    `json:"placed"`
	Text      string `json:"text"`
}

// GameResult is the outcome of one simulated game
type GameResult struct {
	Index       int          `json:"index"`
	Moves       int          `json:"moves"`
	Skips       int          `json:"skips"`
	FinalScores []FinalScore `json:"final_scores"`
}

// SimulationReport summarizes a batch of simulated games
type SimulationReport struct {
	Strategy            string       `json:"strategy"`
	Games               []GameResult `json:"games"`
	AverageWinningScore float64      `json:"average_winning_score"`
	AverageMoves        float64      `json:"average_moves"`
}

// SimulateOptions configures a simulation batch
type SimulateOptions struct {
	Config   model.GameConfig
	Games    int
	Strategy string
	Seed     uint64 // 0 draws from the global generator
	Parallel int
}

// newRandom returns a deterministic generator for non-zero seeds
func newRandom(seed uint64) random.Random {
	if seed == 0 {
		return random.New()
	}
	return random.NewSeeded(seed)
}

// SeedBoard seeds an empty board for cfg and draws it
func SeedBoard(reg *registry.Registry, cfg model.GameConfig, seed uint64, logger *slog.Logger) (SeedResult, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return SeedResult{}, err
	}

	rnd := newRandom(seed)
	components, err := reg.Build(&cfg, rnd)
	if err != nil {
		return SeedResult{}, err
	}

	b := model.NewBoard(cfg.BoardSize)
	placements := seeder.New(rnd, seeder.DefaultLimits(), logger).
		PlaceInitialTiles(b, components.Ruleset, components.Catalog, cfg.InitialTiles)
	for _, p := range placements {
		b.Place(p.Position, p.Tile)
	}

	return SeedResult{
		TileSet:   cfg.TileSet,
		BoardSize: cfg.BoardSize,
		Placed:    len(placements),
		Text:      board.New().Text(b, components.Catalog),
	}, nil
}

// Simulate plays opts.Games bot-only games concurrently. Each game has its
// own session and generator.
func Simulate(ctx context.Context, reg *registry.Registry, opts SimulateOptions, logger *slog.Logger) (SimulationReport, error) {
	if opts.Games < 1 {
		return SimulationReport{}, errors.New("games must be at least 1")
	}
	if !slices.Contains(model.ValidBotStrategies(), opts.Strategy) {
		return SimulationReport{}, fmt.Errorf("%w: %s", model.ErrUnknownBotStrategy, opts.Strategy)
	}

	cfg := opts.Config
	cfg.EnableTimer = false
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return SimulationReport{}, err
	}

	results := make([]GameResult, opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}

	for i := range opts.Games {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var seed uint64
			if opts.Seed != 0 {
				seed = opts.Seed + uint64(i)
			}
			result, err := simulateGame(reg, cfg, i, opts.Strategy, newRandom(seed), logger)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SimulationReport{}, err
	}

	report := SimulationReport{Strategy: opts.Strategy, Games: results}
	report.AverageMoves = lo.MeanBy(results, func(r GameResult) float64 { return float64(r.Moves) })
	report.AverageWinningScore = lo.MeanBy(results, func(r GameResult) float64 {
		if len(r.FinalScores) == 0 {
			return 0
		}
		return float64(r.FinalScores[0].Score.Total)
	})
	return report, nil
}

func simulateGame(reg *registry.Registry, cfg model.GameConfig, index int, strategyName string, rnd random.Random, logger *slog.Logger) (GameResult, error) {
	cfg.Players = slices.Clone(cfg.Players)

	components, err := reg.Build(&cfg, rnd)
	if err != nil {
		return GameResult{}, err
	}
	session, err := game.NewSession(model.GameID(fmt.Sprintf("sim-%d", index+1)), cfg, game.Deps{
		Components: *components,
		Seeder:     seeder.New(rnd, seeder.DefaultLimits(), logger),
		Clock:      clock.New(),
		Logger:     logger,
	})
	if err != nil {
		return GameResult{}, err
	}
	session.Start()
	defer session.Close()

	bots := bot.NewService(nil, bot.DefaultStrategies(rnd), logger)
	strategy, err := bots.Strategy(strategyName)
	if err != nil {
		return GameResult{}, err
	}
	actions, err := bots.PlayToEnd(session, strategy)
	if err != nil {
		return GameResult{}, err
	}

	result := GameResult{Index: index}
	for _, a := range actions {
		switch a.Type {
		case bot.ActionPlace:
			result.Moves++
		case bot.ActionSkip:
			result.Skips++
		}
	}
	for _, s := range session.FinalScores() {
		result.FinalScores = append(result.FinalScores, FinalScore{
			PlayerID: string(s.PlayerID),
			Name:     s.Name,
			Score: ScoreBreakdown{
				Total:      s.Score.Total,
				Base:       s.Score.Base,
				Bonus:      s.Score.Bonus,
				PathBonus:  s.Score.PathBonus,
				PathLength: s.Score.PathLength,
			},
		})
	}
	return result, nil
}

func newSeedCmd() *cobra.Command {
	var (
		flags gameFlags
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Preview starter tile seeding locally",
		Long: `Seeds an empty board the way a new game would and prints it.
Runs locally without a server. Defaults to a border arrangement.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gameCfg, err := flags.build(cmd)
			if err != nil {
				return err
			}
			if !gameCfg.InitialTiles.Enabled() {
				gameCfg.InitialTiles = model.InitialTiles{Type: model.InitialTilesArrangement, Style: model.ArrangementBorder}
			}

			result, err := SeedBoard(registry.Default(), gameCfg, seed, localLogger())
			if err != nil {
				return err
			}
			NewOutputTo(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed, 0 for a fresh one")
	return cmd
}

func newSimulateCmd() *cobra.Command {
	var (
		flags gameFlags
		opts  SimulateOptions
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play bot-only games locally",
		Long: `Plays complete games with a bot strategy for every seat and reports
the results. Games run concurrently without a server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gameCfg, err := flags.build(cmd)
			if err != nil {
				return err
			}
			opts.Config = gameCfg

			report, err := Simulate(cmd.Context(), registry.Default(), opts, localLogger())
			if err != nil {
				return err
			}
			NewOutputTo(cmd.OutOrStdout(), cfg.Output).Print(report)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&opts.Games, "games", "n", 10, "Number of games")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", model.BotStrategyGreedy, "Bot strategy: random, greedy")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Base random seed, 0 for fresh ones")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 4, "Games played at once, 0 for unlimited")
	return cmd
}

// localLogger logs to stderr for local commands, debug level when verbose
func localLogger() *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
