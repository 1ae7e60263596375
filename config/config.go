package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/play2048/play2048/evaluator"
	"github.com/play2048/play2048/game"
	"github.com/play2048/play2048/solver"
)

const (
	ConfigDebug                  = "debug"
	ConfigConfigFile             = "config-file"
	ConfigTile4Probability       = "tile4-probability"
	ConfigBaseDepth              = "base-depth"
	ConfigMaxDepth               = "max-depth"
	ConfigMinBranchProbability   = "min-branch-probability"
	ConfigDistinctTilesThreshold = "distinct-tiles-threshold"
	ConfigGameoverPenalty        = "gameover-penalty"
	ConfigTTMemoryFraction       = "tt-memory-fraction"
	ConfigReuseTable             = "reuse-table"
	ConfigMaxNodes               = "max-nodes"
	ConfigEvaluatorProfile       = "evaluator-profile"
	ConfigNumGames               = "num-games"
	ConfigThreads                = "threads"
	ConfigMaxMoves               = "max-moves"
	ConfigSeed                   = "seed"
	ConfigStartTiles             = "start-tiles"
	ConfigResultsDB              = "results-db"
	ConfigGameLog                = "game-log"
	ConfigBoard                  = "board"
	ConfigCPUProfile             = "cpu-profile"
)

// EnvPrefix is prepended to upper-cased keys (with - replaced by _) to read
// settings from the environment, e.g. PLAY2048_MAX_DEPTH.
const EnvPrefix = "PLAY2048"

// Config is the layered configuration: flags, then environment, then an
// optional config file, then built-in defaults.
type Config struct {
	*viper.Viper
}

func flagSet() *pflag.FlagSet {
	sd := solver.DefaultConfig()
	fs := pflag.NewFlagSet("play2048", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigConfigFile, "", "read settings from this file (yaml, toml or json)")

	fs.Float64(ConfigTile4Probability, sd.Tile4Probability, "probability that a spawned tile is a 4")
	fs.Int(ConfigBaseDepth, sd.BaseDepth, "search depth, in tile spawns, on easy boards")
	fs.Int(ConfigMaxDepth, sd.MaxDepth, "upper bound on the adapted search depth")
	fs.Float64(ConfigMinBranchProbability, sd.MinBranchProbability, "stop searching below chance nodes less likely than this")
	fs.Int(ConfigDistinctTilesThreshold, sd.DistinctTilesThreshold, "deepen the search by one per distinct tile above this")
	fs.Float64(ConfigGameoverPenalty, 0, "override the evaluator's game-over penalty")
	fs.Float64(ConfigTTMemoryFraction, sd.TableMemoryFraction, "fraction of system memory for the transposition table")
	fs.Bool(ConfigReuseTable, sd.ReuseTable, "keep the transposition table between moves")
	fs.Uint64(ConfigMaxNodes, sd.MaxNodes, "stop a search after this many nodes (0 means no limit)")
	fs.String(ConfigEvaluatorProfile, "", "yaml evaluator profile; empty uses the built-in one")

	fs.Int(ConfigNumGames, 1, "number of games to autoplay")
	fs.Int(ConfigThreads, 1, "number of games played in parallel")
	fs.Int(ConfigMaxMoves, 0, "stop every game after this many moves (0 plays to the end)")
	fs.Int64(ConfigSeed, 0, "seed for reproducible games (0 seeds from entropy)")
	fs.Int(ConfigStartTiles, game.DefaultStartTiles, "tiles on the initial board")
	fs.String(ConfigResultsDB, "", "sqlite database to store finished games in")
	fs.String(ConfigGameLog, "", "yaml file to write finished games to")
	fs.String(ConfigBoard, "", "solve this board (16 comma-separated values) instead of autoplaying")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	return fs
}

// DefaultConfig has every setting at its built-in default and reads
// nothing from the environment.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	if err := c.BindPFlags(flagSet()); err != nil {
		panic(err)
	}
	return c
}

// Load parses args and layers environment variables and the config file,
// if one is named, underneath them.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.SetEnvPrefix(EnvPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	if cf := c.GetString(ConfigConfigFile); cf != "" {
		c.SetConfigFile(cf)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cf, err)
		}
	}
	return nil
}

// SolverConfig builds the solver settings. The game-over penalty is only
// overridden when it was set explicitly somewhere.
func (c *Config) SolverConfig() solver.Config {
	cfg := solver.Config{
		Tile4Probability:       c.GetFloat64(ConfigTile4Probability),
		BaseDepth:              c.GetInt(ConfigBaseDepth),
		MaxDepth:               c.GetInt(ConfigMaxDepth),
		MinBranchProbability:   c.GetFloat64(ConfigMinBranchProbability),
		DistinctTilesThreshold: c.GetInt(ConfigDistinctTilesThreshold),
		TableMemoryFraction:    c.GetFloat64(ConfigTTMemoryFraction),
		ReuseTable:             c.GetBool(ConfigReuseTable),
		MaxNodes:               c.GetUint64(ConfigMaxNodes),
	}
	if c.IsSet(ConfigGameoverPenalty) {
		p := c.GetFloat64(ConfigGameoverPenalty)
		cfg.GameoverPenalty = &p
	}
	return cfg
}

func (c *Config) GameOptions() game.Options {
	return game.Options{
		Tile4Probability: c.GetFloat64(ConfigTile4Probability),
		StartTiles:       c.GetInt(ConfigStartTiles),
		Seed:             c.GetInt64(ConfigSeed),
	}
}

// EvaluatorProfile loads the configured profile, or the built-in one.
func (c *Config) EvaluatorProfile() (*evaluator.Profile, error) {
	path := c.GetString(ConfigEvaluatorProfile)
	if path == "" {
		return evaluator.DefaultProfile(), nil
	}
	return evaluator.LoadProfile(path)
}
