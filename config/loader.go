package config

import (
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "AML"

// flagBindings maps viper keys to pflag names.
var flagBindings = map[string]string{
	"logging.level":       "log-level",
	"logging.development": "log-dev",
	"grid.p":              "grid-p",
	"grid.d":              "grid-d",
	"grid.q":              "grid-q",
	"grid.train_fraction": "train-fraction",
	"bench.workers":       "workers",
	"bench.repeats":       "repeats",
	"bench.rounds":        "rounds",
	"bench.max_depth":     "max-depth",
	"bench.learning_rate": "learning-rate",
	"bench.rows":          "rows",
	"bench.features":      "features",
	"bench.seed":          "seed",
	"store.path":          "db",
}

// RegisterFlags defines the configuration-backed flags on fs. The zero
// defaults here never win: an unset flag falls through to environment,
// file, and built-in defaults.
func RegisterFlags(fs *flag.FlagSet) {
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Bool("log-dev", false, "use the development console logger")
	fs.IntSlice("grid-p", nil, "AR orders to try")
	fs.IntSlice("grid-d", nil, "differencing orders to try")
	fs.IntSlice("grid-q", nil, "MA orders to try")
	fs.Float64("train-fraction", 0, "fraction of observations used for training")
	fs.IntSlice("workers", nil, "worker counts to time")
	fs.Int("repeats", 0, "timed runs per worker count")
	fs.Int("rounds", 0, "boosting rounds")
	fs.Int("max-depth", 0, "tree depth limit")
	fs.Float64("learning-rate", 0, "shrinkage per boosting round")
	fs.Int("rows", 0, "synthetic dataset rows")
	fs.Int("features", 0, "synthetic dataset features")
	fs.Int64("seed", 0, "synthetic dataset seed")
	fs.String("db", "", "SQLite file for persisting results")
}

// Load resolves the configuration with precedence flags > environment
// (AML_ prefix) > config file > defaults, then validates it. Path may be
// empty to skip the file layer; flagSet may be nil (e.g. in tests that
// set no flags).
func Load(path string, flagSet *flag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flagSet != nil {
		for viperKey, flagName := range flagBindings {
			if f := flagSet.Lookup(flagName); f != nil {
				_ = v.BindPFlag(viperKey, f)
			}
		}
	}

	cfg := &Config{
		Logging: LoggingConfig{
			Level:       v.GetString("logging.level"),
			Development: v.GetBool("logging.development"),
		},
		Grid: GridConfig{
			P:             v.GetIntSlice("grid.p"),
			D:             v.GetIntSlice("grid.d"),
			Q:             v.GetIntSlice("grid.q"),
			TrainFraction: v.GetFloat64("grid.train_fraction"),
		},
		Bench: BenchConfig{
			Workers:      v.GetIntSlice("bench.workers"),
			Repeats:      v.GetInt("bench.repeats"),
			Rounds:       v.GetInt("bench.rounds"),
			MaxDepth:     v.GetInt("bench.max_depth"),
			LearningRate: v.GetFloat64("bench.learning_rate"),
			Rows:         v.GetInt("bench.rows"),
			Features:     v.GetInt("bench.features"),
			Seed:         v.GetInt64("bench.seed"),
		},
		Store: StoreConfig{
			Path: v.GetString("store.path"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.development", def.Logging.Development)
	v.SetDefault("grid.p", def.Grid.P)
	v.SetDefault("grid.d", def.Grid.D)
	v.SetDefault("grid.q", def.Grid.Q)
	v.SetDefault("grid.train_fraction", def.Grid.TrainFraction)
	v.SetDefault("bench.workers", def.Bench.Workers)
	v.SetDefault("bench.repeats", def.Bench.Repeats)
	v.SetDefault("bench.rounds", def.Bench.Rounds)
	v.SetDefault("bench.max_depth", def.Bench.MaxDepth)
	v.SetDefault("bench.learning_rate", def.Bench.LearningRate)
	v.SetDefault("bench.rows", def.Bench.Rows)
	v.SetDefault("bench.features", def.Bench.Features)
	v.SetDefault("bench.seed", def.Bench.Seed)
	v.SetDefault("store.path", def.Store.Path)
}
