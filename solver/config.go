package solver

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid solver config")

// Config holds the search knobs. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// Tile4Probability is the chance that a spawned tile is a 4 rather
	// than a 2. Default 0.1.
	Tile4Probability float64
	// BaseDepth is the number of tile spawns searched on easy boards.
	// Default 3.
	BaseDepth int
	// MaxDepth caps the adapted depth. Default 8.
	MaxDepth int
	// MinBranchProbability stops the search below chance nodes less likely
	// than this. Default 0.0001.
	MinBranchProbability float64
	// DistinctTilesThreshold adapts the depth to
	// max(BaseDepth, distinct tiles - DistinctTilesThreshold). Default 5.
	DistinctTilesThreshold int
	// GameoverPenalty overrides the evaluator's penalty when set.
	GameoverPenalty *float64
	// TableMemoryFraction sizes the transposition table as a fraction of
	// system memory. Default 0.005.
	TableMemoryFraction float64
	// ReuseTable keeps the transposition table between calls. Depth and
	// probability tags keep reuse sound, but results can then depend on
	// earlier calls.
	ReuseTable bool
	// MaxNodes aborts a search after this many MAX nodes; 0 means no limit.
	MaxNodes uint64
}

func DefaultConfig() Config {
	return Config{
		Tile4Probability:       0.1,
		BaseDepth:              3,
		MaxDepth:               8,
		MinBranchProbability:   0.0001,
		DistinctTilesThreshold: 5,
		TableMemoryFraction:    0.005,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Tile4Probability < 0 || c.Tile4Probability > 1:
		return fmt.Errorf("%w: tile-4 probability %v not in [0, 1]", ErrInvalidConfig, c.Tile4Probability)
	case c.BaseDepth < 0:
		return fmt.Errorf("%w: base depth %d is negative", ErrInvalidConfig, c.BaseDepth)
	case c.MaxDepth < c.BaseDepth:
		return fmt.Errorf("%w: max depth %d below base depth %d", ErrInvalidConfig, c.MaxDepth, c.BaseDepth)
	case c.MaxDepth > 255:
		return fmt.Errorf("%w: max depth %d above 255", ErrInvalidConfig, c.MaxDepth)
	case c.MinBranchProbability < 0 || c.MinBranchProbability >= 1:
		return fmt.Errorf("%w: min branch probability %v not in [0, 1)", ErrInvalidConfig, c.MinBranchProbability)
	case c.DistinctTilesThreshold < 0:
		return fmt.Errorf("%w: distinct tiles threshold %d is negative", ErrInvalidConfig, c.DistinctTilesThreshold)
	case c.TableMemoryFraction < 0 || c.TableMemoryFraction > 0.5:
		return fmt.Errorf("%w: table memory fraction %v not in [0, 0.5]", ErrInvalidConfig, c.TableMemoryFraction)
	}
	return nil
}
