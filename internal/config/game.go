package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/tilegame-go/internal/model"
)

// LoadGameConfig reads a game setup file. JSON is accepted too, being a
// subset of YAML.
func LoadGameConfig(path string) (*model.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game config: %w", err)
	}
	cfg, err := ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseGameConfig decodes, normalizes and validates a game setup. Unknown
// keys are rejected.
func ParseGameConfig(data []byte) (*model.GameConfig, error) {
	var cfg model.GameConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
