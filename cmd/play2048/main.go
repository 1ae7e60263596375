package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/play2048/play2048/automatic"
	"github.com/play2048/play2048/board"
	"github.com/play2048/play2048/config"
	"github.com/play2048/play2048/evaluator"
	"github.com/play2048/play2048/solver"
)

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Debug().Msg("debug logging is on")
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.GetBool(config.ConfigDebug))

	if path := cfg.GetString(config.ConfigCPUProfile); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("exiting")
		// os.Exit skips deferred calls
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	profile, err := cfg.EvaluatorProfile()
	if err != nil {
		return err
	}
	eval, err := evaluator.Precomputed(profile)
	if err != nil {
		return err
	}
	if s := cfg.GetString(config.ConfigBoard); s != "" {
		b, err := board.Parse(s)
		if err != nil {
			return err
		}
		return solveBoard(ctx, cfg, eval, b)
	}
	return autoplay(ctx, cfg, eval)
}

func solveBoard(ctx context.Context, cfg *config.Config, eval evaluator.Evaluator, b board.Board) error {
	s, err := solver.New(eval, cfg.SolverConfig())
	if err != nil {
		return err
	}
	fmt.Println(b.String())
	values, err := s.Analyze(ctx, b)
	if err != nil && !errors.Is(err, solver.ErrNodeBudgetExhausted) {
		return err
	}
	st := s.Stats()
	fmt.Printf("depth %d, %d nodes, %s\n", st.Depth, st.Nodes, st.Elapsed.Round(time.Millisecond))
	for _, mv := range values {
		fmt.Printf("  %-6s %.6f\n", mv.Direction, mv.Value)
	}
	best, ok := solver.BestMove(values)
	switch {
	case ok:
		fmt.Printf("best move: %s\n", best.Direction)
	case b.IsGameOver():
		fmt.Println("no legal move: game over")
	default:
		fmt.Printf("search stopped early, first legal move: %s\n", b.LegalMoves()[0])
	}
	return nil
}

func autoplay(ctx context.Context, cfg *config.Config, eval evaluator.Evaluator) error {
	r, err := automatic.NewRunner(eval, cfg.SolverConfig(), cfg.GameOptions(), cfg.GetInt(config.ConfigThreads))
	if err != nil {
		return err
	}
	r.SetMaxMoves(cfg.GetInt(config.ConfigMaxMoves))
	records, playErr := r.PlayGames(ctx, cfg.GetInt(config.ConfigNumGames))
	if playErr != nil {
		log.Warn().Err(playErr).Int("finished", len(records)).Msg("games-interrupted")
	}

	if path := cfg.GetString(config.ConfigGameLog); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := automatic.WriteLog(f, records); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote-game-log")
	}

	summary := automatic.Summarize(records)
	if path := cfg.GetString(config.ConfigResultsDB); path != "" {
		store, err := automatic.OpenResultStore(path)
		if err != nil {
			return err
		}
		defer store.Close()
		// saving must survive an interrupted run
		if err := store.Save(context.Background(), records); err != nil {
			return err
		}
		if summary, err = store.Summary(context.Background()); err != nil {
			return err
		}
		fmt.Println("All stored games:")
	}
	return summary.Render(os.Stdout)
}
