package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// EnvPrefix prefixes every settings environment variable
const EnvPrefix = "TILEGAME"

// Settings holds process-level configuration for the server
type Settings struct {
	Port           int
	StorageType    string
	RedisURL       string
	RedisGameTTL   time.Duration
	GameConfigPath string // default game setup for POST /games without a body
	LogLevel       string
	LogFormat      string // "json" or "text"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("storage_type", StorageTypeMemory)
	v.SetDefault("redis_url", "")
	v.SetDefault("redis_game_ttl", 7*24*time.Hour)
	v.SetDefault("game_config_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// LoadSettings reads settings from defaults, an optional config file and
// TILEGAME_* environment variables, in increasing precedence
func LoadSettings(configFile string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings %s: %w", configFile, err)
		}
	}

	s := &Settings{
		Port:           v.GetInt("port"),
		StorageType:    strings.ToLower(v.GetString("storage_type")),
		RedisURL:       v.GetString("redis_url"),
		RedisGameTTL:   v.GetDuration("redis_game_ttl"),
		GameConfigPath: v.GetString("game_config_path"),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		LogFormat:      strings.ToLower(v.GetString("log_format")),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings are usable
func (s *Settings) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}
	switch s.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if s.RedisURL == "" {
			return errors.New("redis_url is required when storage_type is redis")
		}
	default:
		return fmt.Errorf("invalid storage_type %q: must be 'memory' or 'redis'", s.StorageType)
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		return err
	}
	if s.LogFormat != "json" && s.LogFormat != "text" {
		return fmt.Errorf("invalid log_format %q: must be 'json' or 'text'", s.LogFormat)
	}
	return nil
}

// Addr returns the listen address
func (s *Settings) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// SlogLevel returns the configured log level
func (s *Settings) SlogLevel() slog.Level {
	level, err := parseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", name)
	}
	return level, nil
}
