package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/play2048/play2048/evaluator"
	"github.com/play2048/play2048/game"
	"github.com/play2048/play2048/solver"
)

func TestDefaultConfig(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.SolverConfig(), solver.DefaultConfig())
	is.Equal(c.GameOptions(), game.Options{Tile4Probability: 0.1, StartTiles: 2})
	is.Equal(c.GetInt(ConfigThreads), 1)
	p, err := c.EvaluatorProfile()
	is.NoErr(err)
	is.Equal(p, evaluator.DefaultProfile())
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--base-depth", "4", "--gameover-penalty=-500", "--seed", "17", "--reuse-table"}))
	cfg := c.SolverConfig()
	is.Equal(cfg.BaseDepth, 4)
	is.True(cfg.GameoverPenalty != nil)
	is.Equal(*cfg.GameoverPenalty, -500.0)
	is.True(cfg.ReuseTable)
	is.Equal(c.GameOptions().Seed, int64(17))
}

func TestLoadUnknownFlag(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.True(c.Load([]string{"--no-such-flag"}) != nil)
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("PLAY2048_MAX_DEPTH", "6")
	t.Setenv("PLAY2048_MIN_BRANCH_PROBABILITY", "0.001")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.SolverConfig().MaxDepth, 6)
	is.Equal(c.SolverConfig().MinBranchProbability, 0.001)

	// flags win over the environment
	is.NoErr(c.Load([]string{"--max-depth", "5"}))
	is.Equal(c.SolverConfig().MaxDepth, 5)
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "play2048.yaml")
	is.NoErr(os.WriteFile(path, []byte("max-depth: 7\nthreads: 4\ngameover-penalty: -50\n"), 0o644))
	c := &Config{}
	is.NoErr(c.Load([]string{"--config-file", path, "--threads", "2"}))
	is.Equal(c.SolverConfig().MaxDepth, 7)
	is.Equal(*c.SolverConfig().GameoverPenalty, -50.0)
	is.Equal(c.GetInt(ConfigThreads), 2)
	// untouched keys keep their defaults
	is.Equal(c.SolverConfig().BaseDepth, 3)
}

func TestLoadMissingConfigFile(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"--config-file", filepath.Join(t.TempDir(), "nope.yaml")})
	is.True(err != nil)
}
