// Package game holds the state of a single 2048 game: the board, the score,
// and the random source that spawns new tiles. It doesn't care how it is
// played; the solver and the autoplayer live outside of this package.
package game

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/play2048/play2048/board"
)

const (
	DefaultTile4Probability = 0.1
	DefaultStartTiles       = 2

	// frand parameters for seeded games.
	rngBufSize = 1024
	rngRounds  = 12
)

var ErrInvalidOptions = errors.New("invalid game options")

// Options configure a new game. The zero value is a fresh game with the
// default spawn probability, two start tiles and an entropy-seeded RNG.
type Options struct {
	Board board.Board
	// Tile4Probability of 0 means DefaultTile4Probability.
	Tile4Probability float64
	StartTiles       int
	// Seed makes the tile sequence reproducible. 0 means seed from entropy.
	Seed int64
}

// Game is the mutable holder around an immutable board.
type Game struct {
	id        string
	board     board.Board
	tile4Prob float64
	score     int
	moves     int
	seed      int64
	rng       *frand.RNG
}

func newRNG(seed int64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:8], uint64(seed))
	return frand.NewCustom(s[:], rngBufSize, rngRounds)
}

// New creates a game. If opts.Board is empty, StartTiles random tiles are
// spawned onto it.
func New(opts Options) (*Game, error) {
	if opts.Tile4Probability < 0 || opts.Tile4Probability > 1 {
		return nil, fmt.Errorf("%w: tile-4 probability %v", ErrInvalidOptions, opts.Tile4Probability)
	}
	if opts.StartTiles < 0 || opts.StartTiles > board.NumTiles {
		return nil, fmt.Errorf("%w: start tiles %d", ErrInvalidOptions, opts.StartTiles)
	}
	if opts.StartTiles == 0 {
		opts.StartTiles = DefaultStartTiles
	}
	if opts.Tile4Probability == 0 {
		opts.Tile4Probability = DefaultTile4Probability
	}
	g := &Game{
		id:        uuid.NewString(),
		board:     opts.Board,
		tile4Prob: opts.Tile4Probability,
		seed:      opts.Seed,
		rng:       newRNG(opts.Seed),
	}
	if g.board == 0 {
		for i := 0; i < opts.StartTiles; i++ {
			g.SpawnTile()
		}
	}
	log.Debug().Str("id", g.id).Int64("seed", opts.Seed).Msg("new-game")
	return g, nil
}

func (g *Game) ID() string { return g.id }
func (g *Game) Board() board.Board { return g.board }
func (g *Game) Score() int { return g.score }
func (g *Game) Moves() int { return g.moves }
func (g *Game) Seed() int64 { return g.seed }
func (g *Game) Tile4Probability() float64 { return g.tile4Prob }

// IsOver returns true if no direction changes the board.
func (g *Game) IsOver() bool {
	return g.board.IsGameOver()
}

// Apply slides the board in direction d. An illegal move leaves the board,
// the score and the move count untouched and returns false.
func (g *Game) Apply(d board.Direction) (bool, int) {
	nb, gained := g.board.MoveScored(d)
	if nb == g.board {
		return false, 0
	}
	g.board = nb
	g.score += gained
	g.moves++
	return true, gained
}

// SpawnTile fills a uniformly chosen empty cell with a 4 (probability
// Tile4Probability) or a 2. It returns false on a full board.
func (g *Game) SpawnTile() bool {
	empty := g.board.EmptyTilesIndices()
	if len(empty) == 0 {
		return false
	}
	idx := empty[g.rng.Intn(len(empty))]
	exp := uint8(1)
	if g.randFloat() < g.tile4Prob {
		exp = 2
	}
	g.board = g.board.SetExponent(idx, exp)
	return true
}

// randFloat returns a float in [0, 1) with 53 bits of randomness.
func (g *Game) randFloat() float64 {
	return float64(g.rng.Uint64n(1<<53)) / (1 << 53)
}
