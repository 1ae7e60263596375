// Package evaluator scores 2048 boards. Higher scores are better.
package evaluator

import (
	"github.com/play2048/play2048/board"
)

// Evaluator maps a board to a desirability score.
type Evaluator interface {
	Evaluate(b board.Board) float64
	// GameoverPenalty is the value the search assigns to a position with
	// no legal move.
	GameoverPenalty() float64
}

// RowEvaluator is an Evaluator whose board score is the sum of
// EvaluateRow over the four rows and the four columns. Only row evaluators
// can be precomputed.
type RowEvaluator interface {
	Evaluator
	EvaluateRow(row uint16) float64
}

// SumRowsAndColumns evaluates b by decomposing it into rows and columns.
func SumRowsAndColumns(e RowEvaluator, b board.Board) float64 {
	t := b.Transpose()
	score := 0.0
	for i := 0; i < board.Dim; i++ {
		score += e.EvaluateRow(b.Row(i))
		score += e.EvaluateRow(t.Row(i))
	}
	return score
}

// EvaluatorFunc adapts a plain function to the Evaluator interface. Its
// game-over penalty is zero.
type EvaluatorFunc func(b board.Board) float64

func (f EvaluatorFunc) Evaluate(b board.Board) float64 {
	return f(b)
}

func (f EvaluatorFunc) GameoverPenalty() float64 {
	return 0
}
