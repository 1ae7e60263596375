package evaluator

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/play2048/play2048/board"
)

const numRows = 1 << 16

// PrecomputedEvaluator stores EvaluateRow of a row evaluator for every
// possible row, turning a board evaluation into eight table lookups. The
// table is read-only after construction and may be shared by concurrent
// searches.
type PrecomputedEvaluator struct {
	table   []float64
	penalty float64
}

func NewPrecomputedEvaluator(e RowEvaluator) *PrecomputedEvaluator {
	st := time.Now()
	p := &PrecomputedEvaluator{
		table:   make([]float64, numRows),
		penalty: e.GameoverPenalty(),
	}
	for r := range p.table {
		p.table[r] = e.EvaluateRow(uint16(r))
	}
	log.Debug().Dur("elapsed", time.Since(st)).Msg("precomputed-row-evaluations")
	return p
}

func (p *PrecomputedEvaluator) EvaluateRow(row uint16) float64 {
	return p.table[row]
}

func (p *PrecomputedEvaluator) Evaluate(b board.Board) float64 {
	t := b.Transpose()
	return p.table[b.Row(0)] + p.table[t.Row(0)] +
		p.table[b.Row(1)] + p.table[t.Row(1)] +
		p.table[b.Row(2)] + p.table[t.Row(2)] +
		p.table[b.Row(3)] + p.table[t.Row(3)]
}

func (p *PrecomputedEvaluator) GameoverPenalty() float64 {
	return p.penalty
}
