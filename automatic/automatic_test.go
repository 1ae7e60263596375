package automatic

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/play2048/play2048/board"
	"github.com/play2048/play2048/evaluator"
	"github.com/play2048/play2048/game"
	"github.com/play2048/play2048/solver"
)

func fastSolverConfig() solver.Config {
	cfg := solver.DefaultConfig()
	cfg.BaseDepth = 1
	cfg.MaxDepth = 1
	cfg.TableMemoryFraction = 0
	return cfg
}

func defaultEvaluator(t *testing.T) evaluator.Evaluator {
	t.Helper()
	e, err := evaluator.Precomputed(evaluator.DefaultProfile())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestPlayGame(t *testing.T) {
	is := is.New(t)
	s, err := solver.New(defaultEvaluator(t), fastSolverConfig())
	is.NoErr(err)
	r := NewGameRunner(s, game.Options{Seed: 7}, 40)
	rec, err := r.PlayGame(context.Background())
	is.NoErr(err)
	is.True(rec.Moves > 0)
	is.True(rec.Moves <= 40)
	is.True(rec.Score > 0)
	is.Equal(rec.Seed, int64(7))
	is.True(rec.Nodes > 0)
	b, err := rec.Board()
	is.NoErr(err)
	is.Equal(b.MaxValue(), rec.MaxTile)

	// same seed, same solver settings, same game
	rec2, err := NewGameRunner(s, game.Options{Seed: 7}, 40).PlayGame(context.Background())
	is.NoErr(err)
	is.Equal(rec2.Score, rec.Score)
	is.Equal(rec2.FinalBoard, rec.FinalBoard)
	is.True(rec2.ID != rec.ID)
}

func TestPlayGameCancelled(t *testing.T) {
	is := is.New(t)
	s, err := solver.New(defaultEvaluator(t), fastSolverConfig())
	is.NoErr(err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec, err := NewGameRunner(s, game.Options{Seed: 3}, 0).PlayGame(ctx)
	is.Equal(err, context.Canceled)
	is.Equal(rec.Moves, 0)
}

func TestPlayGames(t *testing.T) {
	is := is.New(t)
	r, err := NewRunner(defaultEvaluator(t), fastSolverConfig(), game.Options{Seed: 100}, 2)
	is.NoErr(err)
	r.SetMaxMoves(25)
	records, err := r.PlayGames(context.Background(), 4)
	is.NoErr(err)
	is.Equal(len(records), 4)
	for i, rec := range records {
		is.Equal(rec.Seed, int64(100+i))
		is.True(rec.Moves <= 25)
	}
}

func TestPlayGamesCancelled(t *testing.T) {
	is := is.New(t)
	r, err := NewRunner(defaultEvaluator(t), fastSolverConfig(), game.Options{}, 2)
	is.NoErr(err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records, err := r.PlayGames(ctx, 4)
	is.Equal(err, context.Canceled)
	is.Equal(len(records), 0)
}

func TestNewRunnerRejectsNoThreads(t *testing.T) {
	is := is.New(t)
	_, err := NewRunner(defaultEvaluator(t), fastSolverConfig(), game.Options{}, 0)
	is.Equal(err, ErrInvalidThreads)
}

func sampleRecords() []*GameRecord {
	full := board.MustFromValues([]int{
		2, 4, 2, 4,
		4, 2, 4, 2,
		2, 4, 2, 4,
		4, 2, 4, 32,
	})
	return []*GameRecord{
		{ID: "a", Seed: 1, Score: 100, Moves: 10, MaxTile: 16, FinalBoard: make([]int, 16), Nodes: 12, Seconds: 0.5},
		{ID: "b", Seed: 2, Score: 300, Moves: 30, MaxTile: 32, FinalBoard: full.Values(), Nodes: 34, Seconds: 1.5},
		{ID: "c", Seed: 3, Score: 200, Moves: 20, MaxTile: 32, FinalBoard: full.Values(), Nodes: 56, Seconds: 1},
	}
}

func TestGameLogRoundTrip(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(WriteLog(&buf, sampleRecords()))
	is.True(bytes.Contains(buf.Bytes(), []byte("max_tile: 32")))
	records, err := ReadLog(&buf)
	is.NoErr(err)
	is.Equal(records, sampleRecords())
}

func TestResultStore(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store, err := OpenResultStore(filepath.Join(t.TempDir(), "results.db"))
	is.NoErr(err)
	defer store.Close()

	is.NoErr(store.Save(ctx, sampleRecords()))
	// saving again replaces rather than duplicates
	is.NoErr(store.Save(ctx, sampleRecords()[:1]))

	records, err := store.Records(ctx)
	is.NoErr(err)
	is.Equal(len(records), 3)
	byID := map[string]*GameRecord{}
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	for _, want := range sampleRecords() {
		is.Equal(byID[want.ID], want)
	}

	sum, err := store.Summary(ctx)
	is.NoErr(err)
	is.Equal(sum.Games, 3)
	is.Equal(sum.BestScore, 300)
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	sum := Summarize(sampleRecords())
	is.Equal(sum.Games, 3)
	assert.InDelta(t, 200.0, sum.MeanScore, 1e-9)
	assert.InDelta(t, 100.0, sum.StdevScore, 1e-9)
	assert.InDelta(t, 20.0, sum.MeanMoves, 1e-9)
	is.Equal(sum.MedianScore, 200.0)
	is.Equal(sum.BestScore, 300)
	is.Equal(sum.MaxTiles, map[int]int{16: 1, 32: 2})
	is.True(sum.ScoreCILow < 200 && sum.ScoreCIHigh > 200)
	assert.InDelta(t, 1.0, sum.ReachedRate(16), 1e-9)
	assert.InDelta(t, 2.0/3.0, sum.ReachedRate(32), 1e-9)
	is.Equal(sum.ReachedRate(64), 0.0)

	empty := Summarize(nil)
	is.Equal(empty.Games, 0)
	is.Equal(empty.ReachedRate(2), 0.0)
}

func TestRender(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(Summarize(sampleRecords()).Render(&buf))
	out := buf.String()
	is.True(bytes.Contains([]byte(out), []byte("Games played: 3")))
	is.True(bytes.Contains([]byte(out), []byte("Best score: 300")))
	is.True(bytes.Contains([]byte(out), []byte("66.67%")))

	buf.Reset()
	is.NoErr(Summarize(nil).Render(&buf))
	is.Equal(buf.String(), "No games played.\n")
}
