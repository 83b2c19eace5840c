package minesweeper

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultUsername is reported when no player name is configured.
const DefaultUsername = "Default_Username"

// DefaultSubmitTimeout bounds one leaderboard submission.
const DefaultSubmitTimeout = 10 * time.Second

// Status is the session lifecycle state.
type Status int

const (
	NotStarted Status = iota
	Playing
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Over reports whether s is terminal.
func (s Status) Over() bool {
	return s == Won || s == Lost
}

// Config wires a session to its difficulty and collaborators. Nil
// collaborators are replaced by no-ops.
type Config struct {
	Difficulty Difficulty
	Username   string

	// Rand drives mine placement. When nil, a source seeded from Seed is
	// used, and from the current time when Seed is 0.
	Rand *rand.Rand
	Seed int64

	Presenter   Presenter
	Timer       Timer
	Leaderboard Leaderboard
	BestTimes   BestTimeStore
	Results     ResultRecorder
	Logger      *log.Logger

	// SubmitTimeout bounds the leaderboard call. Zero means
	// DefaultSubmitTimeout.
	SubmitTimeout time.Duration
}

// Session is one play-through from difficulty selection to win, loss or
// restart. It is not safe for concurrent use: the driver must serialise
// interactions and ticks on a single goroutine.
type Session struct {
	id     uuid.UUID
	cfg    Config
	board  *Board
	logger *log.Logger

	status       Status
	elapsed      int
	timerRunning bool
	closed       bool

	submissions sync.WaitGroup
}

// NewSession validates cfg, places the mines and returns a session waiting
// for its first interaction.
func NewSession(cfg Config) (*Session, error) {
	tier, err := cfg.Difficulty.Tier()
	if err != nil {
		return nil, err
	}

	if cfg.Rand == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		cfg.Rand = rand.New(rand.NewSource(seed))
	}

	board, err := NewBoardForTier(tier, cfg.Rand)
	if err != nil {
		return nil, fmt.Errorf("cannot build %s board: %w", cfg.Difficulty, err)
	}
	return newSession(cfg, board), nil
}

// NewSessionWithBoard starts a session on a prepared board, for replays of
// a known layout. The board must not have been played on.
func NewSessionWithBoard(cfg Config, board *Board) (*Session, error) {
	if !cfg.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(cfg.Difficulty))
	}
	return newSession(cfg, board), nil
}

func newSession(cfg Config, board *Board) *Session {
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	if cfg.Presenter == nil {
		cfg.Presenter = NopPresenter{}
	}
	if cfg.Timer == nil {
		cfg.Timer = nopTimer{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = DefaultSubmitTimeout
	}

	s := &Session{
		id:    uuid.New(),
		cfg:   cfg,
		board: board,
	}
	s.logger = cfg.Logger.With("session", s.id.String(), "difficulty", cfg.Difficulty)

	cfg.Presenter.RemainingFlagsChanged(board.RemainingFlags())
	s.logger.Debug("session created",
		"rows", board.Rows(), "cols", board.Columns(), "mines", board.Mines())
	return s
}

// ID identifies the session in logs and stored results.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Difficulty returns the tier being played.
func (s *Session) Difficulty() Difficulty {
	return s.cfg.Difficulty
}

// Username returns the player the session reports results for.
func (s *Session) Username() string {
	return s.cfg.Username
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	return s.status
}

// Elapsed returns the seconds counted since the first interaction.
func (s *Session) Elapsed() int {
	return s.elapsed
}

// Rows returns the board height.
func (s *Session) Rows() int {
	return s.board.Rows()
}

// Columns returns the board width.
func (s *Session) Columns() int {
	return s.board.Columns()
}

// Cell returns a copy of the cell at (row, col).
func (s *Session) Cell(row, col int) (Cell, error) {
	return s.board.CellAt(row, col)
}

// RemainingFlags returns the signed remaining-flag counter.
func (s *Session) RemainingFlags() int {
	return s.board.RemainingFlags()
}

// String draws the board as the player sees it.
func (s *Session) String() string {
	return s.board.String()
}

// Tick advances the elapsed-time counter by one second while the session
// is being played. Ticks before the first interaction or after the end are
// ignored.
func (s *Session) Tick() {
	if s.status != Playing || s.closed {
		return
	}
	s.elapsed++
	s.cfg.Presenter.ElapsedChanged(s.elapsed)
}

// Reveal is the primary action on a cell.
func (s *Session) Reveal(row, col int) error {
	if err := s.interact(row, col); err != nil {
		return err
	}

	res, err := s.board.Reveal(row, col)
	if err != nil {
		return err
	}
	s.publish(res, false)

	if res.Mine {
		s.logger.Debug("mine hit", "row", row, "col", col)
		s.end(false)
		return nil
	}
	s.checkWin()
	return nil
}

// ToggleMark is the secondary action on a cell: it cycles
// Hidden -> Flagged -> Questioned -> Hidden. Revealed cells are ignored.
func (s *Session) ToggleMark(row, col int) error {
	if err := s.interact(row, col); err != nil {
		return err
	}

	state, changed, err := s.board.ToggleMark(row, col)
	if err != nil || !changed {
		return err
	}

	p := Point{Row: row, Col: col}
	s.cfg.Presenter.CellChanged(p, hintFor(Cell{Point: p, State: state}))
	s.cfg.Presenter.RemainingFlagsChanged(s.board.RemainingFlags())
	s.checkWin()
	return nil
}

// RevealAll opens every cell that is neither flagged nor revealed and then
// ends the session: lost if any mine ended up revealed, won otherwise. It
// is only available while the remaining-flag counter reads zero.
func (s *Session) RevealAll() error {
	if s.closed || s.status.Over() {
		return ErrSessionOver
	}
	if n := s.board.RemainingFlags(); n != 0 {
		return fmt.Errorf("%w: counter at %d", ErrFlagsRemaining, n)
	}
	if s.status == NotStarted {
		s.start()
	}

	s.logger.Debug("revealing all unflagged cells")
	for i := range s.board.cells {
		c := s.board.cells[i]
		if c.State == Flagged || c.State == Revealed {
			continue
		}
		res, err := s.board.Reveal(c.Row, c.Col)
		if err != nil {
			return err
		}
		s.publish(res, true)
	}

	s.end(!s.board.MineRevealed())
	return nil
}

// Restart discards this session and returns a fresh one with the same
// difficulty and collaborators.
func (s *Session) Restart() (*Session, error) {
	s.Close()
	return NewSession(s.cfg)
}

// Close abandons the session. The timer is stopped if it was running and
// later interactions fail with ErrSessionOver. Nothing is reported.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimer()
}

// Wait blocks until in-flight leaderboard submissions have finished.
func (s *Session) Wait() {
	s.submissions.Wait()
}

func (s *Session) interact(row, col int) error {
	if !s.board.InBounds(row, col) {
		return outOfBounds(row, col)
	}
	if s.closed || s.status.Over() {
		return ErrSessionOver
	}
	if s.status == NotStarted {
		s.start()
	}
	return nil
}

func (s *Session) start() {
	s.status = Playing
	s.timerRunning = true
	s.cfg.Timer.Start()
	s.logger.Debug("session started")
}

func (s *Session) stopTimer() {
	if !s.timerRunning {
		return
	}
	s.timerRunning = false
	s.cfg.Timer.Stop()
}

// publish forwards the cells opened by one reveal. When silent is false a
// revealed mine is reported as the one that exploded.
func (s *Session) publish(res RevealResult, silent bool) {
	for _, p := range res.Opened {
		c := *s.board.at(p)
		if c.Mine && !silent {
			s.cfg.Presenter.CellChanged(p, HintBombExploded)
			s.cfg.Presenter.MineExploded(p)
			continue
		}
		s.cfg.Presenter.CellChanged(p, hintFor(c))
	}
}

func (s *Session) checkWin() {
	if s.status == Playing && s.board.Solved() {
		s.end(true)
	}
}

func (s *Session) end(won bool) {
	if won {
		s.status = Won
	} else {
		s.status = Lost
	}
	s.stopTimer()

	if !won {
		for _, p := range s.board.revealUnflaggedMines() {
			s.cfg.Presenter.CellChanged(p, HintBomb)
		}
	}
	for _, p := range s.board.IncorrectFlags() {
		s.cfg.Presenter.CellChanged(p, HintWrongFlag)
	}

	s.logger.Info("session ended", "won", won, "elapsed", s.elapsed)
	s.record(won)
	if won {
		s.updateBestTime()
		s.submit()
	}
	s.cfg.Presenter.GameEnded(won)
}

func (s *Session) record(won bool) {
	if s.cfg.Results == nil {
		return
	}
	err := s.cfg.Results.RecordResult(Result{
		SessionID:  s.id,
		Username:   s.cfg.Username,
		Difficulty: s.cfg.Difficulty,
		Won:        won,
		Seconds:    s.elapsed,
		FinishedAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("could not record result", "err", err)
	}
}

// updateBestTime stores the elapsed time when it beats the recorded best.
// A failed load counts as no recorded time.
func (s *Session) updateBestTime() {
	store := s.cfg.BestTimes
	if store == nil {
		return
	}

	best, ok, err := store.LoadBestTime(s.cfg.Difficulty)
	if err != nil {
		s.logger.Warn("could not load best time", "err", err)
		ok = false
	}
	if ok && s.elapsed >= best {
		return
	}

	if err := store.SaveBestTime(s.cfg.Difficulty, s.elapsed); err != nil {
		s.logger.Warn("could not save best time", "err", err)
		return
	}
	s.logger.Info("new best time", "seconds", s.elapsed, "previous", best)
}

// submit sends the winning time without blocking the caller.
func (s *Session) submit() {
	lb := s.cfg.Leaderboard
	if lb == nil {
		return
	}

	username, seconds, difficulty := s.cfg.Username, s.elapsed, s.cfg.Difficulty
	timeout, logger := s.cfg.SubmitTimeout, s.logger

	s.submissions.Add(1)
	go func() {
		defer s.submissions.Done()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := lb.SubmitBestTime(ctx, username, seconds, difficulty); err != nil {
			logger.Warn("leaderboard submission failed", "err", err)
			return
		}
		logger.Debug("leaderboard submission accepted", "seconds", seconds)
	}()
}
