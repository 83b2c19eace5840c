// Package storage provides SQLite-based persistence for best times, game
// results and the leaderboard served by `mines serve`.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
)

// sqliteTime is the layout SQLite uses for CURRENT_TIMESTAMP.
const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// SQLite allows a single writer at a time.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS best_times (
			username TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			seconds INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (username, difficulty)
		);

		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			won INTEGER NOT NULL,
			seconds INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_user ON results(username, difficulty);

		CREATE TABLE IF NOT EXISTS leaderboard (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			seconds INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_leaderboard_top ON leaderboard(difficulty, seconds ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BestTime returns the recorded best time of username on d. ok is false
// when nothing has been recorded.
func (s *Store) BestTime(username string, d minesweeper.Difficulty) (seconds int, ok bool, err error) {
	err = s.db.QueryRow(
		"SELECT seconds FROM best_times WHERE username = ? AND difficulty = ?",
		username, string(d),
	).Scan(&seconds)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best time: %w", err)
	}
	return seconds, true, nil
}

// SaveBestTime records seconds as the best time of username on d,
// replacing any previous value. The caller decides whether it is better.
func (s *Store) SaveBestTime(username string, d minesweeper.Difficulty, seconds int) error {
	_, err := s.db.Exec(
		`INSERT INTO best_times (username, difficulty, seconds, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(username, difficulty) DO UPDATE SET
		     seconds = excluded.seconds,
		     updated_at = excluded.updated_at`,
		username, string(d), seconds,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save best time: %w", err)
	}
	return nil
}

// BestTimes returns every recorded best time of username keyed by
// difficulty.
func (s *Store) BestTimes(username string) (map[minesweeper.Difficulty]int, error) {
	rows, err := s.db.Query(
		"SELECT difficulty, seconds FROM best_times WHERE username = ?",
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best times: %w", err)
	}
	defer rows.Close()

	best := make(map[minesweeper.Difficulty]int)
	for rows.Next() {
		var d string
		var seconds int
		if err := rows.Scan(&d, &seconds); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		best[minesweeper.Difficulty(d)] = seconds
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return best, nil
}

// ResultEntry is a stored game result.
type ResultEntry struct {
	ID         int64
	SessionID  string
	Username   string
	Difficulty minesweeper.Difficulty
	Won        bool
	Seconds    int
	CreatedAt  time.Time
}

// SaveResult records the outcome of a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r minesweeper.Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results (session_id, username, difficulty, won, seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.SessionID.String(),
		r.Username,
		string(r.Difficulty),
		r.Won,
		r.Seconds,
		finishedAt(r.FinishedAt).Format(sqliteTime),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentResults retrieves the most recent results of username, newest
// first.
func (s *Store) RecentResults(username string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, username, difficulty, won, seconds, created_at
		 FROM results
		 WHERE username = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var entries []ResultEntry
	for rows.Next() {
		var e ResultEntry
		var d string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Username, &d, &e.Won, &e.Seconds, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Difficulty = minesweeper.Difficulty(d)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// Stats contains aggregated results of one player on one difficulty.
type Stats struct {
	Difficulty minesweeper.Difficulty
	Played     int
	Won        int
	// Fastest is the quickest win, 0 when there is none.
	Fastest    int
	LastPlayed time.Time
}

// WinRate returns the share of games won, 0 when nothing was played.
func (st Stats) WinRate() float64 {
	if st.Played == 0 {
		return 0
	}
	return float64(st.Won) / float64(st.Played)
}

// Stats retrieves aggregated results of username for every difficulty
// that has been played.
func (s *Store) Stats(username string) (map[minesweeper.Difficulty]*Stats, error) {
	rows, err := s.db.Query(
		`SELECT difficulty,
		        COUNT(*),
		        COALESCE(SUM(won), 0),
		        COALESCE(MIN(CASE WHEN won = 1 THEN seconds END), 0),
		        MAX(created_at)
		 FROM results
		 WHERE username = ?
		 GROUP BY difficulty`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[minesweeper.Difficulty]*Stats)
	for rows.Next() {
		var st Stats
		var d string
		var lastPlayed any
		if err := rows.Scan(&d, &st.Played, &st.Won, &st.Fastest, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.Difficulty = minesweeper.Difficulty(d)
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Difficulty] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearResults deletes the result history and best times of username.
func (s *Store) ClearResults(username string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM results WHERE username = ?", username); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM best_times WHERE username = ?", username); err != nil {
		return fmt.Errorf("storage: cannot clear best times: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string values returned by the
// driver for DATETIME columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func finishedAt(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC()
}
