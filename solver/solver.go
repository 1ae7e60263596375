// Package solver picks 2048 moves with a depth-adaptive expectiminimax
// search: MAX nodes try every direction, CHANCE nodes average over every
// tile nature can spawn.
package solver

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/play2048/play2048/board"
	"github.com/play2048/play2048/evaluator"
)

var ErrNodeBudgetExhausted = errors.New("node budget exhausted")

// How often, in MAX nodes, the context is polled.
const ctxPollMask = 1<<10 - 1

type outcome struct {
	exp  uint8
	prob float64
}

// MoveValue is the expected value of playing Direction.
type MoveValue struct {
	Direction board.Direction
	Value     float64
}

// SearchStats describes the last search.
type SearchStats struct {
	Depth      int
	Nodes      uint64
	Lookups    uint64
	Hits       uint64
	Created    uint64
	Collisions uint64
	Aborted    bool
	Elapsed    time.Duration
}

// Solver is not safe for concurrent use; give every goroutine its own.
// Evaluators may be shared if they are read-only, as precomputed ones are.
type Solver struct {
	evaluator evaluator.Evaluator
	cfg       Config
	penalty   float64
	outcomes  [2]outcome

	ttable *TranspositionTable

	ctx     context.Context
	nodes   uint64
	aborted bool
	stats   SearchStats
}

func New(e evaluator.Evaluator, cfg Config) (*Solver, error) {
	if e == nil {
		return nil, errors.New("solver needs an evaluator")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		evaluator: e,
		cfg:       cfg,
		penalty:   e.GameoverPenalty(),
		outcomes: [2]outcome{
			{exp: 1, prob: 1 - cfg.Tile4Probability},
			{exp: 2, prob: cfg.Tile4Probability},
		},
		ttable: &TranspositionTable{},
	}
	if cfg.GameoverPenalty != nil {
		s.penalty = *cfg.GameoverPenalty
	}
	s.ttable.Reset(cfg.TableMemoryFraction)
	return s, nil
}

func (s *Solver) Config() Config {
	return s.cfg
}

// Stats returns the statistics of the last search.
func (s *Solver) Stats() SearchStats {
	return s.stats
}

// SearchDepth is the number of tile spawns searched from b. Boards with
// many distinct tiles have few empty cells, so they are searched deeper.
func (s *Solver) SearchDepth(b board.Board) int {
	d := max(s.cfg.BaseDepth, b.CountDistinctTiles()-s.cfg.DistinctTilesThreshold)
	return min(d, s.cfg.MaxDepth)
}

// NextBestMove returns the direction with the highest expected value, or
// false if no direction changes the board. Equal values resolve to the
// first direction in board.Directions.
func (s *Solver) NextBestMove(b board.Board) (board.Direction, bool) {
	return s.NextBestMoveContext(context.Background(), b)
}

// NextBestMoveContext is NextBestMove that stops early when ctx is done or
// the node budget runs out, returning the best direction evaluated so far.
func (s *Solver) NextBestMoveContext(ctx context.Context, b board.Board) (board.Direction, bool) {
	values, err := s.Analyze(ctx, b)
	if err != nil {
		log.Debug().Err(err).Int("evaluated", len(values)).Msg("search-stopped-early")
	}
	if len(values) == 0 {
		// Either the game is over or the search stopped before finishing
		// a single direction.
		legal := b.LegalMoves()
		if len(legal) == 0 {
			return 0, false
		}
		return legal[0], true
	}
	best, _ := BestMove(values)
	return best.Direction, true
}

// BestMove picks the highest value, the earliest one on ties. It returns
// false for no values.
func BestMove(values []MoveValue) (MoveValue, bool) {
	if len(values) == 0 {
		return MoveValue{}, false
	}
	best := values[0]
	for _, mv := range values[1:] {
		if mv.Value > best.Value {
			best = mv
		}
	}
	return best, true
}

// Analyze returns the expected value of every legal direction from b, in
// search order. If the search is stopped, the directions finished so far
// are returned along with the reason.
func (s *Solver) Analyze(ctx context.Context, b board.Board) ([]MoveValue, error) {
	st := time.Now()
	s.prepare(ctx)
	depth := s.SearchDepth(b)

	values := make([]MoveValue, 0, len(board.Directions))
	for _, d := range board.Directions {
		nb := b.Move(d)
		if nb == b {
			continue
		}
		v := s.evalChance(nb, depth, 1.0)
		if s.aborted {
			break
		}
		values = append(values, MoveValue{Direction: d, Value: v})
	}

	s.stats = SearchStats{
		Depth:      depth,
		Nodes:      s.nodes,
		Lookups:    s.ttable.lookups,
		Hits:       s.ttable.hits,
		Created:    s.ttable.created,
		Collisions: s.ttable.collisions,
		Aborted:    s.aborted,
		Elapsed:    time.Since(st),
	}
	log.Debug().
		Int("depth", depth).
		Uint64("nodes", s.stats.Nodes).
		Uint64("tt-lookups", s.stats.Lookups).
		Uint64("tt-hits", s.stats.Hits).
		Dur("elapsed", s.stats.Elapsed).
		Msg("search-done")

	s.ctx = nil
	if s.aborted {
		if err := ctx.Err(); err != nil {
			return values, err
		}
		return values, ErrNodeBudgetExhausted
	}
	return values, nil
}

func (s *Solver) prepare(ctx context.Context) {
	if !s.cfg.ReuseTable {
		s.ttable.Invalidate()
	}
	s.ttable.resetCounters()
	s.ctx = ctx
	s.nodes = 0
	s.aborted = false
}

func (s *Solver) shouldStop() bool {
	if s.cfg.MaxNodes > 0 && s.nodes >= s.cfg.MaxNodes {
		return true
	}
	if s.nodes&ctxPollMask == 0 && s.ctx.Err() != nil {
		return true
	}
	return false
}

// evalMax returns the best direction from b and its value, or false if no
// direction is legal.
func (s *Solver) evalMax(b board.Board, depth int, prob float64) (board.Direction, float64, bool) {
	s.nodes++
	if s.shouldStop() {
		s.aborted = true
		return 0, 0, false
	}
	var bestDir board.Direction
	bestVal := 0.0
	found := false
	for _, d := range board.Directions {
		nb := b.Move(d)
		if nb == b {
			continue
		}
		v := s.evalChance(nb, depth, prob)
		if s.aborted {
			return 0, 0, false
		}
		if !found || v > bestVal {
			bestDir, bestVal, found = d, v, true
		}
	}
	return bestDir, bestVal, found
}

// evalChance averages over every cell nature can fill and both tile values.
// depth counts the spawns left to search and prob is the likelihood of
// reaching b.
func (s *Solver) evalChance(b board.Board, depth int, prob float64) float64 {
	if depth == 0 || prob < s.cfg.MinBranchProbability {
		return s.evaluator.Evaluate(b)
	}
	if v, ok := s.ttable.lookup(b, depth, prob); ok {
		return v
	}
	empty := b.EmptyTilesIndices()
	if len(empty) == 0 {
		return s.evaluator.Evaluate(b)
	}
	n := float64(len(empty))
	sum := 0.0
	for _, idx := range empty {
		for _, o := range s.outcomes {
			if o.prob == 0 {
				continue
			}
			_, v, ok := s.evalMax(b.SetExponent(idx, o.exp), depth-1, prob*o.prob/n)
			if s.aborted {
				return 0
			}
			if !ok {
				v = s.penalty
			}
			sum += o.prob * v
		}
	}
	avg := sum / n
	s.ttable.store(b, depth, prob, avg)
	return avg
}
