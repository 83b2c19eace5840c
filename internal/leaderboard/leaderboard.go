// Package leaderboard is the HTTP leaderboard: a client that submits
// winning times and fetches the standings, and the server that stores
// them behind the same JSON contract.
package leaderboard

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
)

// Path is the single resource both client and server speak.
const Path = "/leaderboard"

// ErrUnexpectedStatus is wrapped by StatusError.
var ErrUnexpectedStatus = errors.New("leaderboard: unexpected status")

// StatusError reports a response whose status code was not the one the
// operation expects.
type StatusError struct {
	Op   string
	Code int
	Body string // first bytes of the response, trimmed
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("leaderboard: %s: unexpected status %d %s", e.Op, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Entry is one row of a difficulty's standings.
type Entry struct {
	Username string `json:"username"`
	Time     int    `json:"time"`
}

// String formats the entry as a fixed-width line.
func (e Entry) String() string {
	return fmt.Sprintf("%-16s : %4d seconds", e.Username, e.Time)
}

// Standings holds the entries of every difficulty, fastest first.
type Standings map[minesweeper.Difficulty][]Entry

// Sort orders every difficulty by time ascending, keeping the relative
// order of equal times.
func (s Standings) Sort() {
	for _, entries := range s {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Time < entries[j].Time
		})
	}
}

// submission is the body of POST /leaderboard.
type submission struct {
	Username string `json:"username"`
	Time     int    `json:"time"`
	Mode     string `json:"mode"`
}

// errorBody is what the server sends with 4xx and 5xx responses.
type errorBody struct {
	Error string `json:"error"`
}
