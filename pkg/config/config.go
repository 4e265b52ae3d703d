// Package config loads generator settings from a YAML file. Every
// field is optional; defaults mirror the fixed pools the generator
// has always used.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chrisrosset/avro-playground/pkg/record"
)

var (
	// ErrInvalidCount is returned when count is not positive.
	ErrInvalidCount = errors.New("count must be positive")
	// ErrInvalidRepeatRange is returned when the repeat bounds are
	// not a valid inclusive range starting at 1 or above.
	ErrInvalidRepeatRange = errors.New("repeat range must satisfy 1 <= min <= max")
)

// Config holds generator settings.
type Config struct {
	// Count is the number of records written per generation.
	Count int `yaml:"count"`
	// Names overrides the fixed name pool when non-empty.
	Names []string `yaml:"names"`
	// Colors overrides the favorite color pool when non-empty.
	Colors []string `yaml:"colors"`
	// RepeatMin and RepeatMax bound the long-name repetitions.
	RepeatMin int `yaml:"repeat_min"`
	RepeatMax int `yaml:"repeat_max"`
	// Seed pins the RNG when set; otherwise each run gets a
	// time-derived seed.
	Seed *int64 `yaml:"seed"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Count:     record.DefaultCount,
		RepeatMin: 1,
		RepeatMax: 1000,
	}
}

// Load reads and validates the config file at path, layered over the
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for internal consistency.
func (c Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, c.Count)
	}
	if c.RepeatMin < 1 || c.RepeatMax < c.RepeatMin {
		return fmt.Errorf("%w: got [%d, %d]", ErrInvalidRepeatRange, c.RepeatMin, c.RepeatMax)
	}
	return nil
}

// Generator builds a record.Generator from the settings.
func (c Config) Generator() *record.Generator {
	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	opts := []record.Option{
		record.WithRepeatRange(c.RepeatMin, c.RepeatMax),
	}
	if len(c.Names) > 0 {
		opts = append(opts, record.WithNames(c.Names))
	}
	if len(c.Colors) > 0 {
		opts = append(opts, record.WithColors(c.Colors))
	}
	return record.NewGenerator(seed, opts...)
}
