// Package config loads the optional motion.yaml engine settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/motion/pkg/frame"
)

// Settings represents the optional motion.yaml configuration.
type Settings struct {
	Pools    PoolSettings    `yaml:"pools"`
	Defaults DefaultSettings `yaml:"defaults"`
	// Verbose enables stack traces in the error log sink.
	Verbose bool `yaml:"verbose,omitempty"`
}

// PoolSettings sizes the tween and group free lists. Zero disables the
// corresponding pool.
type PoolSettings struct {
	Tweens int `yaml:"tweens,omitempty"`
	Groups int `yaml:"groups,omitempty"`
}

// DefaultSettings contains per-tween defaults applied by the engine.
type DefaultSettings struct {
	// Phase names the default timing bucket: "update", "physics" or "late".
	Phase string `yaml:"phase,omitempty"`
	// Recyclable marks engine-created tweens for pool reuse.
	Recyclable bool `yaml:"recyclable,omitempty"`
}

// Default returns the settings used when no motion.yaml exists.
func Default() Settings {
	return Settings{
		Pools:    PoolSettings{Tweens: 64, Groups: 8},
		Defaults: DefaultSettings{Phase: "update", Recyclable: true},
	}
}

// LoadOptional reads motion.yaml from dir if present, otherwise returns
// the defaults.
func LoadOptional(dir string) (*Settings, error) {
	path := filepath.Join(dir, "motion.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s := Default()
			return &s, nil
		}
		return nil, fmt.Errorf("failed to read motion.yaml: %w", err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse motion.yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks field values that cannot be expressed by the schema.
func (s *Settings) Validate() error {
	if _, err := frame.ParsePhase(s.Defaults.Phase); err != nil {
		return fmt.Errorf("defaults.phase: %w", err)
	}
	if s.Pools.Tweens < 0 || s.Pools.Groups < 0 {
		return errors.New("pools: sizes cannot be negative")
	}
	return nil
}

// DefaultPhase returns the parsed default timing phase.
func (s *Settings) DefaultPhase() frame.Phase {
	p, err := frame.ParsePhase(s.Defaults.Phase)
	if err != nil {
		return frame.PhaseUpdate
	}
	return p
}
