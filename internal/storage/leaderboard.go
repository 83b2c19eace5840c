package storage

import (
	"fmt"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
)

// TimeEntry is one leaderboard row: a player and their best time on a
// difficulty.
type TimeEntry struct {
	Username string
	Seconds  int
}

// SubmitTime appends a winning time to the leaderboard of d.
func (s *Store) SubmitTime(username string, d minesweeper.Difficulty, seconds int) error {
	_, err := s.db.Exec(
		"INSERT INTO leaderboard (username, difficulty, seconds) VALUES (?, ?, ?)",
		username, string(d), seconds,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot submit time: %w", err)
	}
	return nil
}

// TopTimes retrieves the fastest players on d, one row per player holding
// their best time. Results are ordered by time ascending; on equal times
// the player who reached that time first ranks higher.
func (s *Store) TopTimes(d minesweeper.Difficulty, limit int) ([]TimeEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT l.username, l.seconds, MIN(l.id) AS reached
		 FROM leaderboard l
		 JOIN (
		     SELECT username, MIN(seconds) AS best
		     FROM leaderboard
		     WHERE difficulty = ?
		     GROUP BY username
		 ) b ON b.username = l.username AND b.best = l.seconds
		 WHERE l.difficulty = ?
		 GROUP BY l.username, l.seconds
		 ORDER BY l.seconds ASC, reached ASC
		 LIMIT ?`,
		string(d), string(d), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var e TimeEntry
		var reached int64
		if err := rows.Scan(&e.Username, &e.Seconds, &reached); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}
