package minesweeper

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Presenter reflects engine state changes in whatever front end drives the
// session. Calls arrive synchronously on the goroutine that called into the
// session.
type Presenter interface {
	CellChanged(p Point, hint Hint)
	MineExploded(p Point)
	GameEnded(won bool)
	RemainingFlagsChanged(n int)
	ElapsedChanged(seconds int)
}

// Timer is the driver behind the one-second tick. Start is called at the
// first interaction and Stop when the session ends; each at most once.
type Timer interface {
	Start()
	Stop()
}

// Leaderboard receives winning times. Failures are logged by the session
// and never reach the player.
type Leaderboard interface {
	SubmitBestTime(ctx context.Context, username string, seconds int, d Difficulty) error
}

// BestTimeStore is the per-player best-time record. ok is false when no
// time has been recorded for d.
type BestTimeStore interface {
	LoadBestTime(d Difficulty) (seconds int, ok bool, err error)
	SaveBestTime(d Difficulty, seconds int) error
}

// Result is the outcome of a finished session.
type Result struct {
	SessionID  uuid.UUID
	Username   string
	Difficulty Difficulty
	Won        bool
	Seconds    int
	FinishedAt time.Time
}

// ResultRecorder keeps a history of finished sessions.
type ResultRecorder interface {
	RecordResult(r Result) error
}

// NopPresenter ignores every notification.
type NopPresenter struct{}

func (NopPresenter) CellChanged(Point, Hint)   {}
func (NopPresenter) MineExploded(Point)        {}
func (NopPresenter) GameEnded(bool)            {}
func (NopPresenter) RemainingFlagsChanged(int) {}
func (NopPresenter) ElapsedChanged(int)        {}

type nopTimer struct{}

func (nopTimer) Start() {}
func (nopTimer) Stop()  {}
