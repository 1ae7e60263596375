package evaluator

import (
	"math"

	"github.com/play2048/play2048/board"
)

// EmptyTileEvaluator rewards empty cells: each row scores
// (number of empty cells)^Power.
type EmptyTileEvaluator struct {
	Power   float64
	Penalty float64
}

func (e *EmptyTileEvaluator) EvaluateRow(row uint16) float64 {
	empty := 0
	for _, c := range board.RowExponents(row) {
		if c == 0 {
			empty++
		}
	}
	if empty == 0 {
		return 0
	}
	return math.Pow(float64(empty), e.Power)
}

func (e *EmptyTileEvaluator) Evaluate(b board.Board) float64 {
	return SumRowsAndColumns(e, b)
}

func (e *EmptyTileEvaluator) GameoverPenalty() float64 {
	return e.Penalty
}

// AlignmentEvaluator rewards equal tiles that would merge if the row were
// pushed: equal neighbours once empty cells are skipped. Each row scores
// (number of such pairs)^Power.
type AlignmentEvaluator struct {
	Power   float64
	Penalty float64
}

func (e *AlignmentEvaluator) EvaluateRow(row uint16) float64 {
	pairs := 0
	var prev uint8
	for _, c := range board.RowExponents(row) {
		if c == 0 {
			continue
		}
		if c == prev {
			pairs++
		}
		prev = c
	}
	if pairs == 0 {
		return 0
	}
	return math.Pow(float64(pairs), e.Power)
}

func (e *AlignmentEvaluator) Evaluate(b board.Board) float64 {
	return SumRowsAndColumns(e, b)
}

func (e *AlignmentEvaluator) GameoverPenalty() float64 {
	return e.Penalty
}

// MonotonicityEvaluator penalizes rows whose exponents are not ordered.
// Each adjacent pair out of order for a scan direction costs
// |left^Power - right^Power|; the row scores minus the cheaper of the two
// scan directions, so an ordered row scores 0.
type MonotonicityEvaluator struct {
	Power   float64
	Penalty float64
}

func (e *MonotonicityEvaluator) EvaluateRow(row uint16) float64 {
	cells := board.RowExponents(row)
	var increasing, decreasing float64
	for i := 0; i < board.Dim-1; i++ {
		l := math.Pow(float64(cells[i]), e.Power)
		r := math.Pow(float64(cells[i+1]), e.Power)
		if cells[i] > cells[i+1] {
			increasing += l - r
		} else if cells[i] < cells[i+1] {
			decreasing += r - l
		}
	}
	return -math.Min(increasing, decreasing)
}

func (e *MonotonicityEvaluator) Evaluate(b board.Board) float64 {
	return SumRowsAndColumns(e, b)
}

func (e *MonotonicityEvaluator) GameoverPenalty() float64 {
	return e.Penalty
}

// MaxTileEvaluator scores a board by its highest tile, scaled to [0, 1].
type MaxTileEvaluator struct {
	Penalty float64
}

func (e *MaxTileEvaluator) Evaluate(b board.Board) float64 {
	return float64(b.MaxValue()) / board.MaxTileValue
}

func (e *MaxTileEvaluator) GameoverPenalty() float64 {
	return e.Penalty
}

// ZeroCountEvaluator scores a board by the fraction of empty cells.
type ZeroCountEvaluator struct {
	Penalty float64
}

func (e *ZeroCountEvaluator) Evaluate(b board.Board) float64 {
	return float64(b.CountEmpty()) / board.NumTiles
}

func (e *ZeroCountEvaluator) GameoverPenalty() float64 {
	return e.Penalty
}
