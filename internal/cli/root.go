package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "tilegame",
		Short: "CLI tool for the tile game API",
		Long: `tilegame is a CLI tool for the tile placement game.

The game commands drive a hot-seat game on a tilegame server. The seed and
simulate commands run the engine locally.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: TILEGAME_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: TILEGAME_OUTPUT)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newVariantsCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

// Execute runs the root command. Interrupts cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
