package automatic

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/play2048/play2048/evaluator"
	"github.com/play2048/play2048/game"
	"github.com/play2048/play2048/solver"
)

var ErrInvalidThreads = errors.New("threads must be positive")

// Runner plays many games in parallel. Every worker owns its own solver;
// the evaluator is shared and must be safe for concurrent reads, which all
// evaluators in this module are.
type Runner struct {
	evaluator evaluator.Evaluator
	solverCfg solver.Config
	gameOpts  game.Options
	threads   int
	maxMoves  int
}

func NewRunner(e evaluator.Evaluator, cfg solver.Config, opts game.Options, threads int) (*Runner, error) {
	if threads < 1 {
		return nil, ErrInvalidThreads
	}
	return &Runner{evaluator: e, solverCfg: cfg, gameOpts: opts, threads: threads}, nil
}

// SetMaxMoves limits every game to n moves; 0 plays to the end.
func (r *Runner) SetMaxMoves(n int) {
	r.maxMoves = n
}

// PlayGames plays n games. With a nonzero seed in the game options, game i
// is seeded with seed+i so a whole run is reproducible regardless of
// scheduling. Records come back in game order; games that never finished
// because of an error or cancellation are left out.
func (r *Runner) PlayGames(ctx context.Context, n int) ([]*GameRecord, error) {
	workers := min(r.threads, max(n, 1))
	solvers := make(chan *solver.Solver, workers)
	for i := 0; i < workers; i++ {
		s, err := solver.New(r.evaluator, r.solverCfg)
		if err != nil {
			return nil, err
		}
		solvers <- s
	}
	log.Debug().Int("games", n).Int("threads", workers).Msg("starting-games")

	records := make([]*GameRecord, n)
	var finished atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			s := <-solvers
			defer func() { solvers <- s }()
			opts := r.gameOpts
			if opts.Seed != 0 {
				opts.Seed += int64(i)
			}
			rec, err := NewGameRunner(s, opts, r.maxMoves).PlayGame(gctx)
			if err != nil {
				return err
			}
			records[i] = rec
			if done := finished.Add(1); done%100 == 0 {
				log.Info().Int64("finished", done).Int("total", n).Msg("games-progress")
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return lo.Filter(records, func(rec *GameRecord, _ int) bool { return rec != nil }), err
}
