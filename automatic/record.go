package automatic

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/play2048/play2048/board"
	"github.com/play2048/play2048/game"
)

// GameRecord is the outcome of one finished game.
type GameRecord struct {
	ID         string  `yaml:"id"`
	Seed       int64   `yaml:"seed"`
	Score      int     `yaml:"score"`
	Moves      int     `yaml:"moves"`
	MaxTile    int     `yaml:"max_tile"`
	FinalBoard []int   `yaml:"final_board,flow"`
	Nodes      uint64  `yaml:"nodes"`
	Seconds    float64 `yaml:"seconds"`
}

func newGameRecord(g *game.Game, nodes uint64, elapsed time.Duration) *GameRecord {
	b := g.Board()
	return &GameRecord{
		ID:         g.ID(),
		Seed:       g.Seed(),
		Score:      g.Score(),
		Moves:      g.Moves(),
		MaxTile:    b.MaxValue(),
		FinalBoard: b.Values(),
		Nodes:      nodes,
		Seconds:    elapsed.Seconds(),
	}
}

// Board rebuilds the final board of the game.
func (r *GameRecord) Board() (board.Board, error) {
	return board.FromValues(r.FinalBoard)
}

// WriteLog writes one YAML document per record.
func WriteLog(w io.Writer, records []*GameRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("writing game %s: %w", rec.ID, err)
		}
	}
	return enc.Close()
}

// ReadLog reads back a log written by WriteLog.
func ReadLog(r io.Reader) ([]*GameRecord, error) {
	dec := yaml.NewDecoder(r)
	var records []*GameRecord
	for {
		rec := &GameRecord{}
		err := dec.Decode(rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading game %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
