package evaluator

import (
	"github.com/samber/lo"

	"github.com/play2048/play2048/board"
)

// WeightedEvaluator is one term of a CombinedEvaluator.
type WeightedEvaluator struct {
	Evaluator RowEvaluator
	Weight    float64
}

// CombinedEvaluator is a weighted sum of row evaluators. It is itself a row
// evaluator, so the whole sum can be precomputed at once.
type CombinedEvaluator struct {
	terms []WeightedEvaluator
}

func NewCombinedEvaluator() *CombinedEvaluator {
	return &CombinedEvaluator{}
}

// Add appends a term and returns c for chaining.
func (c *CombinedEvaluator) Add(e RowEvaluator, weight float64) *CombinedEvaluator {
	c.terms = append(c.terms, WeightedEvaluator{Evaluator: e, Weight: weight})
	return c
}

func (c *CombinedEvaluator) Terms() []WeightedEvaluator {
	return c.terms
}

func (c *CombinedEvaluator) EvaluateRow(row uint16) float64 {
	return lo.SumBy(c.terms, func(t WeightedEvaluator) float64 {
		return t.Weight * t.Evaluator.EvaluateRow(row)
	})
}

func (c *CombinedEvaluator) Evaluate(b board.Board) float64 {
	return SumRowsAndColumns(c, b)
}

// GameoverPenalty is the weighted sum of the terms' penalties, the same
// weighting EvaluateRow applies.
func (c *CombinedEvaluator) GameoverPenalty() float64 {
	return lo.SumBy(c.terms, func(t WeightedEvaluator) float64 {
		return t.Weight * t.Evaluator.GameoverPenalty()
	})
}
