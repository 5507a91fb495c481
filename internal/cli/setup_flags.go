package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/tilegame-go/internal/config"
	"github.com/mcoot/tilegame-go/internal/model"
)

// gameFlags are the game setup flags shared by create, seed and simulate
type gameFlags struct {
	configPath  string
	boardSize   int
	rackSize    int
	tileSet     string
	scoring     string
	players     []string
	timer       int
	arrangement string
	starters    int
}

func (f *gameFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Game setup file (YAML or JSON)")
	flags.IntVar(&f.boardSize, "size", 0, "Board size")
	flags.IntVar(&f.rackSize, "rack", 0, "Tiles per rack")
	flags.StringVar(&f.tileSet, "tile-set", "", "Tile set: streets, shapes")
	flags.StringVar(&f.scoring, "scoring", "", "Scoring system (default depends on tile set)")
	flags.StringSliceVar(&f.players, "players", nil, "Player names, comma separated")
	flags.IntVar(&f.timer, "timer", 0, "Turn time limit in seconds, 0 for no timer")
	flags.StringVar(&f.arrangement, "arrangement", "", "Starter arrangement: border, centre")
	flags.IntVar(&f.starters, "starters", 0, "Number of randomly placed starter tiles")
}

var gameFlagNames = []string{"config", "size", "rack", "tile-set", "scoring", "players", "timer", "arrangement", "starters"}

// any reports whether any setup flag was given on cmd
func (f *gameFlags) any(cmd *cobra.Command) bool {
	for _, name := range gameFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// build loads the setup file, if any, and applies flags set on cmd over it
func (f *gameFlags) build(cmd *cobra.Command) (model.GameConfig, error) {
	var cfg model.GameConfig
	if f.configPath != "" {
		loaded, err := config.LoadGameConfig(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	changed := cmd.Flags().Changed
	if changed("size") {
		cfg.BoardSize = f.boardSize
	}
	if changed("rack") {
		cfg.RackSize = f.rackSize
	}
	if changed("tile-set") {
		cfg.TileSet = f.tileSet
	}
	if changed("scoring") {
		cfg.Scoring = f.scoring
	}
	if changed("players") {
		cfg.Players = make([]model.PlayerSetup, 0, len(f.players))
		for _, name := range f.players {
			cfg.Players = append(cfg.Players, model.PlayerSetup{Name: strings.TrimSpace(name)})
		}
	}
	if changed("timer") {
		cfg.EnableTimer = f.timer > 0
		if f.timer > 0 {
			cfg.TimeLimit = f.timer
		}
	}
	if changed("arrangement") {
		cfg.InitialTiles = model.InitialTiles{
			Type:  model.InitialTilesArrangement,
			Style: model.ArrangementStyle(f.arrangement),
		}
	}
	if changed("starters") {
		cfg.InitialTiles = model.InitialTiles{Type: model.InitialTilesRandom, Count: f.starters}
	}
	return cfg, nil
}
