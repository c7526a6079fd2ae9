// Package scoreboard is the append-only log of finished games.
package scoreboard

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	lobby_id TEXT NOT NULL,
	winner TEXT NOT NULL,
	date INTEGER NOT NULL
);`

// Score is one finished game. Date is Unix milliseconds.
type Score struct {
	LobbyID string `json:"lobbyId"`
	Winner  string `json:"winner"`
	Date    int64  `json:"date"`
}

func (s Score) Time() time.Time { return time.UnixMilli(s.Date) }

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and creates) the database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("scoreboard dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open scoreboard: %w", err)
	}
	// one connection keeps ":memory:" a single database and serializes writers
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		for _, p := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
			if _, err := db.Exec(p); err != nil {
				db.Close()
				return nil, fmt.Errorf("scoreboard %q: %w", p, err)
			}
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("scoreboard schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Record appends a finished game stamped with the current time.
func (s *Store) Record(ctx context.Context, lobbyID, winner string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO scores (lobby_id, winner, date) VALUES (?, ?, ?)",
		lobbyID, winner, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// List returns every score, oldest first.
func (s *Store) List(ctx context.Context) ([]Score, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT lobby_id, winner, date FROM scores ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	out := []Score{}
	for rows.Next() {
		var sc Score
		if err := rows.Scan(&sc.LobbyID, &sc.Winner, &sc.Date); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) Close() error { return s.db.Close() }
