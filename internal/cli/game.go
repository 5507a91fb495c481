package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameDeleteCmd())
	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameSelectCmd())
	cmd.AddCommand(newGameRotateCmd())
	cmd.AddCommand(newGameMovesCmd())
	cmd.AddCommand(newGamePlaceCmd())
	cmd.AddCommand(newGameSkipCmd())
	cmd.AddCommand(newGameAutoplayCmd())
	cmd.AddCommand(newGameSnapshotCmd())
	cmd.AddCommand(newGameRenderCmd())
	cmd.AddCommand(newGameWatchCmd())

	return cmd
}

func gamePath(id string, suffix string) string {
	return fmt.Sprintf("/api/v1/games/%s%s", id, suffix)
}

func newGameCreateCmd() *cobra.Command {
	var flags gameFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		Long: `Create a new game. Without any setup flags the server's default
game config is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			if flags.any(cmd) {
				gameCfg, err := flags.build(cmd)
				if err != nil {
					return err
				}
				body = gameCfg
			}

			var result GameState
			if err := client.Post("/api/v1/games", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameList
			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState
			if err := client.Get(gamePath(args[0], ""), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(gamePath(args[0], "")); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game deleted")
			return nil
		},
	}
}

func newGameNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <id>",
		Short: "Start over with the same config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState
			if err := client.Post(gamePath(args[0], "/new"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <id> <tile-id>",
		Short: "Select a tile from the current player's rack",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"tile_id": args[1]}
			var result Selection
			if err := client.Post(gamePath(args[0], "/select"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameRotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate <id>",
		Short: "Rotate the selected tile a quarter turn clockwise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RotateResult
			if err := client.Post(gamePath(args[0], "/rotate"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameMovesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moves <id>",
		Short: "List where the selected tile fits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MovesResult
			if err := client.Get(gamePath(args[0], "/moves"), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamePlaceCmd() *cobra.Command {
	var (
		tileID   string
		rotation int
	)
	cmd := &cobra.Command{
		Use:   "place <id> <x> <y>",
		Short: "Place the selected tile",
		Long: `Place the selected tile at column x, row y. With --tile the tile is
selected and turned to --rotation first.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x: %w", err)
			}

			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y: %w", err)
			}

			req := map[string]any{"x": x, "y": y}
			if tileID != "" {
				req["tile_id"] = tileID
				req["rotation"] = rotation
			}

			var result PlaceResult
			if err := client.Post(gamePath(args[0], "/place"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&tileID, "tile", "", "Rack tile to play")
	cmd.Flags().IntVar(&rotation, "rotation", 0, "Quarter turns clockwise, used with --tile")
	return cmd
}

func newGameSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip <id>",
		Short: "Pass the turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState
			if err := client.Post(gamePath(args[0], "/skip"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameAutoplayCmd() *cobra.Command {
	var (
		strategy string
		turns    int
	)
	cmd := &cobra.Command{
		Use:   "autoplay <id>",
		Short: "Let a bot take turns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"strategy": strategy, "turns": turns}
			var result AutoplayResult
			if err := client.Post(gamePath(args[0], "/autoplay"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", "greedy", "Bot strategy: random, greedy")
	cmd.Flags().IntVar(&turns, "turns", 0, "Turns to play, 0 plays to the end")
	return cmd
}

func newGameSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <id>",
		Short: "Print the game's snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			if err := client.Get(gamePath(args[0], "/snapshot"), &result); err != nil {
				return err
			}

			out := NewOutput("json")
			out.Print(result)
			return nil
		},
	}
}

func newGameRenderCmd() *cobra.Command {
	var rotation int
	cmd := &cobra.Command{
		Use:   "render <id> <tile-id>",
		Short: "Describe a tile as drawing primitives",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := gamePath(args[0], "/tiles/"+args[1]+"/render")
			if cmd.Flags().Changed("rotation") {
				path += "?rotation=" + strconv.Itoa(rotation)
			}

			var result RenderResult
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
	cmd.Flags().IntVar(&rotation, "rotation", 0, "Override the tile's rotation")
	return cmd
}

func newGameWatchCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "watch <id>",
		Short: "Stream a game's events",
		Long: `Prints every event the game raises until interrupted, or until
--count events have been seen.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)
			seen := 0
			return client.Stream(cmd.Context(), gamePath(args[0], "/events"), func(event, data string) error {
				if event == "connected" {
					return nil
				}
				out.Print(StreamEvent{Event: event, Data: json.RawMessage(data)})
				seen++
				if count > 0 && seen >= count {
					return ErrStopStream
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many events, 0 to follow forever")
	return cmd
}
