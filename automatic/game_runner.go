// Package automatic plays complete 2048 games with the solver choosing
// every move, and collects, stores and summarizes the results.
package automatic

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/play2048/play2048/game"
	"github.com/play2048/play2048/solver"
)

// GameRunner plays games one at a time with a single solver.
type GameRunner struct {
	solver  *solver.Solver
	options game.Options
	// maxMoves stops a game early; 0 plays to the end.
	maxMoves int
}

// NewGameRunner just instantiates a game runner. The solver is owned by
// the runner for as long as it plays.
func NewGameRunner(s *solver.Solver, opts game.Options, maxMoves int) *GameRunner {
	return &GameRunner{solver: s, options: opts, maxMoves: maxMoves}
}

// PlayGame plays a new game until no move is legal, the move limit is hit,
// or ctx is done. On cancellation the partial record is returned along
// with ctx's error.
func (r *GameRunner) PlayGame(ctx context.Context) (*GameRecord, error) {
	st := time.Now()
	g, err := game.New(r.options)
	if err != nil {
		return nil, err
	}
	var nodes uint64
	for {
		if err := ctx.Err(); err != nil {
			return newGameRecord(g, nodes, time.Since(st)), err
		}
		if r.maxMoves > 0 && g.Moves() >= r.maxMoves {
			break
		}
		d, ok := r.solver.NextBestMoveContext(ctx, g.Board())
		if !ok {
			break
		}
		nodes += r.solver.Stats().Nodes
		g.Apply(d)
		g.SpawnTile()
		if g.Moves()%500 == 0 {
			log.Debug().Str("game", g.ID()).Int("moves", g.Moves()).
				Int("score", g.Score()).Msg("game-progress")
		}
	}
	rec := newGameRecord(g, nodes, time.Since(st))
	log.Info().Str("game", rec.ID).Int("score", rec.Score).Int("moves", rec.Moves).
		Int("max-tile", rec.MaxTile).Msg("game-finished")
	return rec, nil
}
