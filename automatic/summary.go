package automatic

import (
	"fmt"
	"io"
	"slices"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/play2048/play2048/stats"
)

const (
	confidencePct  = 95
	histogramBins  = 10
	histogramWidth = 50
)

// Summary aggregates a set of game records.
type Summary struct {
	Games       int
	MeanScore   float64
	StdevScore  float64
	ScoreCILow  float64
	ScoreCIHigh float64
	MedianScore float64
	BestScore   int
	MeanMoves   float64
	// MaxTiles counts games by the highest tile they reached.
	MaxTiles map[int]int

	scores []float64
}

func Summarize(records []*GameRecord) *Summary {
	s := &Summary{Games: len(records), MaxTiles: map[int]int{}}
	if len(records) == 0 {
		return s
	}
	score := &stats.RunningStat{}
	moves := &stats.RunningStat{}
	for _, rec := range records {
		score.Push(float64(rec.Score))
		moves.Push(float64(rec.Moves))
	}
	s.scores = lo.Map(records, func(rec *GameRecord, _ int) float64 { return float64(rec.Score) })
	s.MeanScore = score.Mean()
	s.StdevScore = score.Stdev()
	s.ScoreCILow, s.ScoreCIHigh = score.ConfidenceInterval(confidencePct)
	s.MedianScore = stats.Quantile(0.5, s.scores)
	s.BestScore = lo.MaxBy(records, func(a, b *GameRecord) bool { return a.Score > b.Score }).Score
	s.MeanMoves = moves.Mean()
	s.MaxTiles = lo.CountValuesBy(records, func(rec *GameRecord) int { return rec.MaxTile })
	return s
}

// ReachedRate returns the fraction of games whose highest tile was at
// least tile.
func (s *Summary) ReachedRate(tile int) float64 {
	if s.Games == 0 {
		return 0
	}
	n := 0
	for t, c := range s.MaxTiles {
		if t >= tile {
			n += c
		}
	}
	return float64(n) / float64(s.Games)
}

// Render writes a human-readable report.
func (s *Summary) Render(w io.Writer) error {
	p := message.NewPrinter(language.English)
	if s.Games == 0 {
		_, err := p.Fprintf(w, "No games played.\n")
		return err
	}
	p.Fprintf(w, "Games played: %d\n", s.Games)
	p.Fprintf(w, "Mean score: %.1f  Stdev: %.1f  (%d%% CI %.1f to %.1f)\n",
		s.MeanScore, s.StdevScore, confidencePct, s.ScoreCILow, s.ScoreCIHigh)
	p.Fprintf(w, "Median score: %.0f  Best score: %d\n", s.MedianScore, s.BestScore)
	p.Fprintf(w, "Mean moves: %.1f\n\n", s.MeanMoves)

	p.Fprintf(w, "%-10s%-10s%-12s\n", "Max tile", "Games", "Reached")
	tiles := lo.Keys(s.MaxTiles)
	slices.Sort(tiles)
	for i := len(tiles) - 1; i >= 0; i-- {
		t := tiles[i]
		p.Fprintf(w, "%-10d%-10d%-12s\n", t, s.MaxTiles[t],
			fmt.Sprintf("%.2f%%", 100*s.ReachedRate(t)))
	}

	p.Fprintf(w, "\nScore distribution:\n")
	hist := histogram.Hist(histogramBins, s.scores)
	return histogram.Fprint(w, hist, histogram.Linear(histogramWidth))
}
