// Package storage keeps finished match results in SQLite, using the pure-Go
// modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hersh/duotris/internal/config"
	"github.com/hersh/duotris/internal/match"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

type Store struct {
	db *sql.DB
}

// ScoreEntry is one seat's final score in a recorded match.
type ScoreEntry struct {
	MatchID   string
	Seat      int
	Name      string
	Score     int
	Lines     int
	CreatedAt time.Time
}

// MatchRecord is a recorded match with its seats in seat order.
type MatchRecord struct {
	ID        int64
	MatchID   string
	Leader    string
	Seats     []ScoreEntry
	CreatedAt time.Time
}

// Open creates or opens the database at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	path, err := config.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			leader TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS match_results (
			match_id TEXT NOT NULL REFERENCES matches(match_id),
			seat INTEGER NOT NULL,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (match_id, seat)
		);
		CREATE INDEX IF NOT EXISTS idx_match_results_score ON match_results(score DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished match and every seat's score in one
// transaction.
func (s *Store) SaveMatch(result match.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := result.EndedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := tx.Exec(
		"INSERT INTO matches (match_id, leader, created_at) VALUES (?, ?, ?)",
		result.MatchID, result.Leader, createdAt.UTC().Format(sqliteTimeLayout),
	); err != nil {
		return fmt.Errorf("storage: cannot save match %s: %w", result.MatchID, err)
	}

	for _, seat := range result.Seats {
		if _, err := tx.Exec(
			"INSERT INTO match_results (match_id, seat, name, score, lines) VALUES (?, ?, ?, ?, ?)",
			result.MatchID, seat.Seat, seat.Name, seat.Score, seat.Lines,
		); err != nil {
			return fmt.Errorf("storage: cannot save seat %d of match %s: %w", seat.Seat, result.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit match %s: %w", result.MatchID, err)
	}
	return nil
}

// SaveMatchResult implements match.ResultSaver.
func (s *Store) SaveMatchResult(result match.Result) error {
	return s.SaveMatch(result)
}

var _ match.ResultSaver = (*Store)(nil)

// TopScores returns the best single-seat scores across all matches.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT r.match_id, r.seat, r.name, r.score, r.lines, m.created_at
		 FROM match_results r
		 JOIN matches m ON m.match_id = r.match_id
		 ORDER BY r.score DESC, m.created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.MatchID, &e.Seat, &e.Name, &e.Score, &e.Lines, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// RecentMatches returns the latest matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, leader, created_at
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}

	var records []MatchRecord
	for rows.Next() {
		var r MatchRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.MatchID, &r.Leader, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	for i := range records {
		seats, err := s.matchSeats(records[i].MatchID)
		if err != nil {
			return nil, err
		}
		for j := range seats {
			seats[j].CreatedAt = records[i].CreatedAt
		}
		records[i].Seats = seats
	}
	return records, nil
}

func (s *Store) matchSeats(matchID string) ([]ScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT match_id, seat, name, score, lines
		 FROM match_results
		 WHERE match_id = ?
		 ORDER BY seat`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query seats of %s: %w", matchID, err)
	}
	defer rows.Close()

	var seats []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.MatchID, &e.Seat, &e.Name, &e.Score, &e.Lines); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		seats = append(seats, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return seats, nil
}

// HighScore returns the best recorded score, or 0 when nothing is recorded.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM match_results").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// MatchByID returns one recorded match, or nil if it is unknown.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	var r MatchRecord
	var createdAt any
	err := s.db.QueryRow(
		"SELECT id, match_id, leader, created_at FROM matches WHERE match_id = ?",
		matchID,
	).Scan(&r.ID, &r.MatchID, &r.Leader, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match %s: %w", matchID, err)
	}
	r.CreatedAt = parseTime(createdAt)

	seats, err := s.matchSeats(matchID)
	if err != nil {
		return nil, err
	}
	for j := range seats {
		seats[j].CreatedAt = r.CreatedAt
	}
	r.Seats = seats
	return &r, nil
}

// parseTime accepts the driver's time.Time or the textual form SQLite
// stores for CURRENT_TIMESTAMP.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
