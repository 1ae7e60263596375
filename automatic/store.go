package automatic

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id          TEXT PRIMARY KEY,
	seed        INTEGER NOT NULL,
	score       INTEGER NOT NULL,
	moves       INTEGER NOT NULL,
	max_tile    INTEGER NOT NULL,
	final_board TEXT NOT NULL,
	nodes       INTEGER NOT NULL,
	seconds     REAL NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS games_max_tile ON games (max_tile);
`

// ResultStore persists game records in a SQLite database so that results
// from several runs can be summarized together.
type ResultStore struct {
	db *sql.DB
}

func OpenResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening result store %s: %w", path, err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating result schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened-result-store")
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

// Save inserts the records in one transaction. Records already stored are
// replaced.
func (s *ResultStore) Save(ctx context.Context, records []*GameRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO games
		(id, seed, score, moves, max_tile, final_board, nodes, seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, rec := range records {
		_, err := stmt.ExecContext(ctx, rec.ID, rec.Seed, rec.Score, rec.Moves,
			rec.MaxTile, encodeBoard(rec.FinalBoard), int64(rec.Nodes), rec.Seconds)
		if err != nil {
			return fmt.Errorf("saving game %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// Records returns every stored game, oldest first.
func (s *ResultStore) Records(ctx context.Context) ([]*GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, seed, score, moves, max_tile,
		final_board, nodes, seconds FROM games ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []*GameRecord
	for rows.Next() {
		rec := &GameRecord{}
		var fb string
		var nodes int64
		if err := rows.Scan(&rec.ID, &rec.Seed, &rec.Score, &rec.Moves, &rec.MaxTile,
			&fb, &nodes, &rec.Seconds); err != nil {
			return nil, err
		}
		rec.Nodes = uint64(nodes)
		if rec.FinalBoard, err = decodeBoard(fb); err != nil {
			return nil, fmt.Errorf("game %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Summary summarizes every stored game.
func (s *ResultStore) Summary(ctx context.Context) (*Summary, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(records), nil
}

func encodeBoard(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func decodeBoard(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
