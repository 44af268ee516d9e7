// Package config holds the settings shared by the command-line tools:
// logging, the candidate grid, the timing sweep, and result persistence.
// Settings resolve with precedence flags > environment > config file >
// defaults.
package config

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Lakeshed/applied-machine-learning/bench"
	"github.com/Lakeshed/applied-machine-learning/boost"
	"github.com/Lakeshed/applied-machine-learning/gridsearch"
)

// Config is the root configuration document.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Grid    GridConfig    `yaml:"grid"`
	Bench   BenchConfig   `yaml:"bench"`
	Store   StoreConfig   `yaml:"store"`
}

// LoggingConfig controls the zap logger the tools build.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// GridConfig holds the candidate orders and evaluation split for the
// forecast grid search.
type GridConfig struct {
	P             []int   `yaml:"p"`
	D             []int   `yaml:"d"`
	Q             []int   `yaml:"q"`
	TrainFraction float64 `yaml:"train_fraction"`
}

// BenchConfig holds the timing sweep settings together with the booster
// and synthetic dataset it times.
type BenchConfig struct {
	Workers      []int   `yaml:"workers"`
	Repeats      int     `yaml:"repeats"`
	Rounds       int     `yaml:"rounds"`
	MaxDepth     int     `yaml:"max_depth"`
	LearningRate float64 `yaml:"learning_rate"`
	Rows         int     `yaml:"rows"`
	Features     int     `yaml:"features"`
	Seed         int64   `yaml:"seed"`
}

// StoreConfig controls result persistence. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Grid: GridConfig{
			P:             []int{0, 1, 2, 4, 6, 8, 10},
			D:             []int{0, 1, 2},
			Q:             []int{0, 1, 2},
			TrainFraction: gridsearch.DefaultTrainFraction,
		},
		Bench: BenchConfig{
			Workers:      []int{1, 2, 3, 4},
			Repeats:      1,
			Rounds:       50,
			MaxDepth:     3,
			LearningRate: 0.1,
			Rows:         2000,
			Features:     10,
			Seed:         42,
		},
	}
}

// Validate reports the first problem with the configuration.
func Validate(cfg *Config) error {
	if _, err := zap.ParseAtomicLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("unknown log level %q", cfg.Logging.Level)
	}
	if cfg.Grid.TrainFraction <= 0 || cfg.Grid.TrainFraction >= 1 {
		return fmt.Errorf("train fraction must be in (0, 1), got %g", cfg.Grid.TrainFraction)
	}
	if err := cfg.Grid.Grid().Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if len(cfg.Bench.Workers) == 0 {
		return fmt.Errorf("bench needs at least one worker count")
	}
	for _, w := range cfg.Bench.Workers {
		if w < 1 {
			return fmt.Errorf("worker count must be at least 1, got %d", w)
		}
	}
	if cfg.Bench.Repeats < 1 {
		return fmt.Errorf("repeats must be at least 1, got %d", cfg.Bench.Repeats)
	}
	if cfg.Bench.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", cfg.Bench.Rounds)
	}
	if cfg.Bench.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1, got %d", cfg.Bench.MaxDepth)
	}
	if cfg.Bench.LearningRate <= 0 || cfg.Bench.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1], got %g", cfg.Bench.LearningRate)
	}
	if cfg.Bench.Rows < 2 {
		return fmt.Errorf("rows must be at least 2, got %d", cfg.Bench.Rows)
	}
	if cfg.Bench.Features < 1 {
		return fmt.Errorf("features must be at least 1, got %d", cfg.Bench.Features)
	}
	return nil
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(out), nil
}

// Build constructs the zap logger the settings describe.
func (l LoggingConfig) Build() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", l.Level, err)
	}
	var cfg zap.Config
	if l.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = level
	return cfg.Build()
}

// Grid returns the candidate grid the settings describe.
func (g GridConfig) Grid() gridsearch.Grid {
	return gridsearch.Grid{P: g.P, D: g.D, Q: g.Q}
}

// SearchConfig returns the grid-search configuration the settings
// describe.
func (g GridConfig) SearchConfig(logger *zap.Logger) *gridsearch.Config {
	return &gridsearch.Config{
		Grid:          g.Grid(),
		TrainFraction: g.TrainFraction,
		Logger:        logger,
	}
}

// SweepConfig returns the timing-sweep configuration the settings
// describe.
func (b BenchConfig) SweepConfig(logger *zap.Logger) *bench.Config {
	return &bench.Config{
		Counts:  b.Workers,
		Repeats: b.Repeats,
		Logger:  logger,
	}
}

// BoostConfig returns the booster settings the sweep times. The worker
// count is left zero; the sweep sets it per sample.
func (b BenchConfig) BoostConfig() *boost.Config {
	return &boost.Config{
		Rounds:       b.Rounds,
		MaxDepth:     b.MaxDepth,
		LearningRate: b.LearningRate,
	}
}
