package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tilegame-go/internal/model"
)

type ConfigSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ConfigSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0600))
	return path
}

// Settings tests

func (s *ConfigSuite) TestSettingsDefaults() {
	settings, err := LoadSettings("")
	s.Require().NoError(err)

	s.Equal(8080, settings.Port)
	s.Equal(StorageTypeMemory, settings.StorageType)
	s.Equal(7*24*time.Hour, settings.RedisGameTTL)
	s.Equal(slog.LevelInfo, settings.SlogLevel())
	s.Equal(":8080", settings.Addr())
}

func (s *ConfigSuite) TestSettingsFromEnvironment() {
	s.T().Setenv("TILEGAME_PORT", "9090")
	s.T().Setenv("TILEGAME_STORAGE_TYPE", "REDIS")
	s.T().Setenv("TILEGAME_REDIS_URL", "redis://localhost:6379/0")
	s.T().Setenv("TILEGAME_LOG_LEVEL", "debug")

	settings, err := LoadSettings("")
	s.Require().NoError(err)
	s.Equal(9090, settings.Port)
	s.Equal(StorageTypeRedis, settings.StorageType)
	s.Equal("redis://localhost:6379/0", settings.RedisURL)
	s.Equal(slog.LevelDebug, settings.SlogLevel())
}

func (s *ConfigSuite) TestSettingsFileIsOverriddenByEnvironment() {
	path := s.write("settings.yaml", "port: 7000\nlog_format: text\nredis_game_ttl: 1h\n")
	s.T().Setenv("TILEGAME_PORT", "7001")

	settings, err := LoadSettings(path)
	s.Require().NoError(err)
	s.Equal(7001, settings.Port)
	s.Equal("text", settings.LogFormat)
	s.Equal(time.Hour, settings.RedisGameTTL)
}

func (s *ConfigSuite) TestSettingsValidation() {
	s.T().Setenv("TILEGAME_STORAGE_TYPE", "redis")
	_, err := LoadSettings("")
	s.ErrorContains(err, "redis_url")

	s.T().Setenv("TILEGAME_STORAGE_TYPE", "postgres")
	_, err = LoadSettings("")
	s.ErrorContains(err, "storage_type")

	s.T().Setenv("TILEGAME_STORAGE_TYPE", "memory")
	s.T().Setenv("TILEGAME_LOG_LEVEL", "loud")
	_, err = LoadSettings("")
	s.ErrorContains(err, "log_level")
}

func (s *ConfigSuite) TestSettingsMissingFile() {
	_, err := LoadSettings(filepath.Join(s.dir, "nope.yaml"))
	s.Error(err)
}

// Game config tests

func (s *ConfigSuite) TestLoadGameConfigYAML() {
	path := s.write("game.yaml", `
board_size: 7
tile_set: shapes
initial_tiles:
  type: arrangement
enable_timer: true
time_limit: 30
players:
  - name: Alice
  - name: Bob
    color: "#123456"
ruleset_options:
  enable_border_rule: true
tile_set_options:
  enable_blank_sides: true
`)

	cfg, err := LoadGameConfig(path)
	s.Require().NoError(err)
	s.Equal(7, cfg.BoardSize)
	s.Equal(model.DefaultRackSize, cfg.RackSize)
	s.Equal("shapes", cfg.TileSet)
	s.Equal(model.ArrangementBorder, cfg.InitialTiles.Style)
	s.True(cfg.EnableTimer)
	s.Equal(30, cfg.TimeLimit)
	s.Equal(model.Color("#123456"), cfg.Players[1].Color)
	s.True(cfg.RulesetOptions.EnableBorderRule)
	s.True(cfg.TileSetOptions.EnableBlankSides)
}

func (s *ConfigSuite) TestLoadGameConfigJSON() {
	path := s.write("game.json", `{"board_size": 5, "scoring": "enhanced", "scoring_options": {"center_bonus": 0}}`)

	cfg, err := LoadGameConfig(path)
	s.Require().NoError(err)
	s.Equal(5, cfg.BoardSize)
	s.Equal("enhanced", cfg.Scoring)
	s.Require().NotNil(cfg.ScoringOptions.CenterBonus)
	s.Equal(0, *cfg.ScoringOptions.CenterBonus)
	s.Len(cfg.Players, 1)
}

func (s *ConfigSuite) TestParseGameConfigEmptyUsesDefaults() {
	cfg, err := ParseGameConfig(nil)
	s.Require().NoError(err)
	s.Equal(model.DefaultBoardSize, cfg.BoardSize)
	s.Equal(model.DefaultTileSet, cfg.TileSet)
}

func (s *ConfigSuite) TestParseGameConfigRejectsBadInput() {
	_, err := ParseGameConfig([]byte("board_size: 5\nboard_colour: red\n"))
	s.ErrorIs(err, model.ErrInvalidConfig)

	_, err = ParseGameConfig([]byte("board_size: 2\n"))
	s.ErrorIs(err, model.ErrInvalidConfig)

	_, err = ParseGameConfig([]byte("scoring_options:\n  incremental_paths: true\n  end_game_paths: true\n"))
	s.ErrorIs(err, model.ErrConflictingPathModes)
}

func (s *ConfigSuite) TestLoadGameConfigMissingFile() {
	_, err := LoadGameConfig(filepath.Join(s.dir, "missing.yaml"))
	s.ErrorIs(err, os.ErrNotExist)
}
