package minesweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingPresenter struct {
	cells    map[Point]Hint
	exploded []Point
	ended    []bool
	flags    []int
	elapsed  []int
}

func newRecordingPresenter() *recordingPresenter {
	return &recordingPresenter{cells: make(map[Point]Hint)}
}

func (p *recordingPresenter) CellChanged(pt Point, h Hint) { p.cells[pt] = h }
func (p *recordingPresenter) MineExploded(pt Point)        { p.exploded = append(p.exploded, pt) }
func (p *recordingPresenter) GameEnded(won bool)           { p.ended = append(p.ended, won) }
func (p *recordingPresenter) RemainingFlagsChanged(n int)  { p.flags = append(p.flags, n) }
func (p *recordingPresenter) ElapsedChanged(seconds int)   { p.elapsed = append(p.elapsed, seconds) }

type countingTimer struct {
	starts, stops int
}

func (t *countingTimer) Start() { t.starts++ }
func (t *countingTimer) Stop()  { t.stops++ }

type memBestTimes struct {
	best    map[Difficulty]int
	loadErr error
	saves   int
}

func (m *memBestTimes) LoadBestTime(d Difficulty) (int, bool, error) {
	if m.loadErr != nil {
		return 0, false, m.loadErr
	}
	s, ok := m.best[d]
	return s, ok, nil
}

func (m *memBestTimes) SaveBestTime(d Difficulty, seconds int) error {
	if m.best == nil {
		m.best = make(map[Difficulty]int)
	}
	m.best[d] = seconds
	m.saves++
	return nil
}

type submission struct {
	username string
	seconds  int
	d        Difficulty
}

type fakeLeaderboard struct {
	mu    sync.Mutex
	calls []submission
	err   error
}

func (f *fakeLeaderboard) SubmitBestTime(_ context.Context, username string, seconds int, d Difficulty) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, submission{username, seconds, d})
	return f.err
}

type memResults struct {
	results []Result
}

func (m *memResults) RecordResult(r Result) error {
	m.results = append(m.results, r)
	return nil
}

type testRig struct {
	presenter *recordingPresenter
	timer     *countingTimer
	best      *memBestTimes
	board     *fakeLeaderboard
	results   *memResults
}

func newRig() *testRig {
	return &testRig{
		presenter: newRecordingPresenter(),
		timer:     &countingTimer{},
		best:      &memBestTimes{},
		board:     &fakeLeaderboard{},
		results:   &memResults{},
	}
}

func (r *testRig) config() Config {
	return Config{
		Difficulty:  Beginner,
		Username:    "ada",
		Presenter:   r.presenter,
		Timer:       r.timer,
		Leaderboard: r.board,
		BestTimes:   r.best,
		Results:     r.results,
	}
}

func (r *testRig) session(t *testing.T, rows, cols int, mines []Point) *Session {
	t.Helper()
	s, err := NewSessionWithBoard(r.config(), mustBoard(t, rows, cols, mines))
	if err != nil {
		t.Fatalf("NewSessionWithBoard() failed: %v", err)
	}
	return s
}

// winSmall reveals every safe cell of a 2x2 board with a mine at (0,0),
// ticking between the first and last reveal.
func winSmall(t *testing.T, s *Session, ticks int) {
	t.Helper()
	if err := s.Reveal(1, 1); err != nil {
		t.Fatalf("Reveal() failed: %v", err)
	}
	for range ticks {
		s.Tick()
	}
	if err := s.Reveal(0, 1); err != nil {
		t.Fatalf("Reveal() failed: %v", err)
	}
	if err := s.Reveal(1, 0); err != nil {
		t.Fatalf("Reveal() failed: %v", err)
	}
}

func TestNewSessionUnknownDifficulty(t *testing.T) {
	if _, err := NewSession(Config{Difficulty: "expert"}); !errors.Is(err, ErrUnknownDifficulty) {
		t.Errorf("Expected ErrUnknownDifficulty, got %v", err)
	}
}

func TestNewSessionDefaults(t *testing.T) {
	rig := newRig()
	cfg := rig.config()
	cfg.Username = ""
	cfg.Seed = 5

	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}

	if s.Status() != NotStarted {
		t.Errorf("Expected not started, got %v", s.Status())
	}
	if s.Username() != DefaultUsername {
		t.Errorf("Expected %q, got %q", DefaultUsername, s.Username())
	}
	if s.Rows() != 8 || s.Columns() != 8 || s.RemainingFlags() != 10 {
		t.Errorf("Unexpected beginner board %dx%d with %d flags", s.Rows(), s.Columns(), s.RemainingFlags())
	}
	if len(rig.presenter.flags) != 1 || rig.presenter.flags[0] != 10 {
		t.Errorf("Expected initial counter of 10, got %v", rig.presenter.flags)
	}
}

func TestSessionFloodFillKeepsPlaying(t *testing.T) {
	rig := newRig()
	s := rig.session(t, 8, 8, wallMines)

	if err := s.Reveal(0, 0); err != nil {
		t.Fatalf("Reveal() failed: %v", err)
	}

	if s.Status() != Playing {
		t.Errorf("Expected playing, got %v", s.Status())
	}
	if rig.timer.starts != 1 {
		t.Errorf("Expected timer started once, got %d", rig.timer.starts)
	}
	if len(rig.presenter.cells) != 24 {
		t.Errorf("Expected 24 cell updates, got %d", len(rig.presenter.cells))
	}
	if h := rig.presenter.cells[Point{0, 0}]; h != HintBlank {
		t.Errorf("Expected blank hint at (0,0), got %v", h)
	}
	if h := rig.presenter.cells[Point{0, 2}]; h != Hint(2) {
		t.Errorf("Expected hint 2 at (0,2), got %v", h)
	}
}

func TestSessionRevealAllAfterFlaggingEveryMineWins(t *testing.T) {
	rig := newRig()
	s := rig.session(t, 8, 8, wallMines)

	for _, p := range wallMines {
		if err := s.ToggleMark(p.Row, p.Col); err != nil {
			t.Fatalf("ToggleMark() failed: %v", err)
		}
	}
	if s.RemainingFlags() != 0 {
		t.Fatalf("Expected counter at 0, got %d", s.RemainingFlags())
	}

	if err := s.RevealAll(); err != nil {
		t.Fatalf("RevealAll() failed: %v", err)
	}

	if s.Status() != Won {
		t.Fatalf("Expected won, got %v", s.Status())
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			cell, _ := s.Cell(r, c)
			if !cell.Mine && cell.State != Revealed {
				t.Errorf("Safe cell (%d,%d) left %v", r, c, cell.State)
			}
			if cell.Mine && cell.State != Flagged {
				t.Errorf("Mine (%d,%d) should keep its flag, got %v", r, c, cell.State)
			}
		}
	}
	if len(rig.presenter.ended) != 1 || !rig.presenter.ended[0] {
		t.Errorf("Expected GameEnded(true), got %v", rig.presenter.ended)
	}
	if rig.timer.stops != 1 {
		t.Errorf("Expected timer stopped once, got %d", rig.timer.stops)
	}
}

func TestSessionRevealAllRequiresZeroCounter(t *testing.T) {
	rig := newRig()
	s := rig.session(t, 8, 8, wallMines)

	if err := s.RevealAll(); !errors.Is(err, ErrFlagsRemaining) {
		t.Fatalf("Expected ErrFlagsRemaining, got %v", err)
	}
	if s.Status() != NotStarted {
		t.Errorf("Rejected reveal-all should not start the session, got %v", s.Status())
	}
}

func TestSessionRevealAllWithWrongFlagLoses(t *testing.T) {
	rig := newRig()
	s := rig.session(t, 2, 2, []Point{{0, 0}})

	if err := s.ToggleMark(1, 1); err != nil {
		t.Fatalf("ToggleMark() failed: %v", err)
	}
	if err := s.RevealAll(); err != nil {
		t.Fatalf("RevealAll() failed: %v", err)
	}

	if s.Status() != Lost {
		t.Fatalf("Expected lost, got %v", s.Status())
	}
	if h := rig.presenter.cells[Point{0, 0}]; h != HintBomb {
		t.Errorf("Expected bomb hint at (0,0), got %v", h)
	}
	if h := rig.presenter.cells[Point{1, 1}]; h != HintWrongFlag {
		t.Errorf("Expected wrong-flag hint at (1,1), got %v", h)
	}
	if len(rig.presenter.exploded) != 0 {
		t.Errorf("Reveal-all should not report an explosion, got %v", rig.presenter.exploded)
	}
}

func TestSessionFirstRevealOnMineLoses(t *testing.T) {
	rig := newRig()
	s := rig.session(t, 8, 8, wallMines)

	s.ToggleMark(0, 0) // wrong flag
	s.ToggleMark(1, 3) // correct flag
	if err := s.Reveal(0, 3); err != nil {
		t.Fatalf("Reveal() failed: %v", err)
	}

	if s.Status() != Lost {
		t.Fatalf("Expected lost, got %v", s.Status())
	}
	if len(rig.presenter.exploded) != 1 || rig.presenter.exploded[0] != (Point{0, 3}) {
		t.Errorf("Expected explosion at (0,3), got %v", rig.presenter.exploded)
	}
	if h := rig.presenter.cells[Point{0, 3}]; h != HintBombExploded {
		t.Errorf("Expected exploded hint at (0,3), got %v", h)
	}
	if h := rig.presenter.cells[Point{0, 0}]; h != HintWrongFlag {
		t.Errorf("Expected wrong-flag hint at (0,0), got %v", h)
	}
	for _, p := range wallMines {
		cell, _ := s.Cell(p.Row, p.Col)
		if p == (Point{1, 3}) {
			if cell.State != Flagged {
				t.Errorf("Flagged mine %v should keep its flag, got %v", p, cell.State)
			}
			continue
		}
		if cell.State != Revealed {
			t.Errorf("Mine %v should be revealed, got %v", p, cell.State)
		}
	}
	if rig.timer.starts != 1 || rig.timer.stops != 1 {
		t.Errorf("Expected timer start/stop once, got %d/%d", rig.timer.starts, rig.timer.stops)
	}
	if rig.best.saves != 0 {
		t.Error("A loss must not update the best time")
	}
	if len(rig.results.results) != 1 || rig.results.results[0].Won {
		t.Errorf("Expected one lost result, got %+v", rig.results.results)
	}
}

func TestSessionIgnoresInteractionsAfterEnd(t *testing.T) {
	rig := newRig()
	s := rig.session(t, 8, 8, wallMines)

	s.Reveal(0, 3)
	s.Tick()

	if err := s.Reveal(0, 0); !errors.Is(err, ErrSessionOver) {
		t.Errorf("Reveal() after end = %v, expected ErrSessionOver", err)
	}
	if err := s.ToggleMark(0, 0); !errors.Is(err, ErrSessionOver) {
		t.Errorf("ToggleMark() after end = %v, expected ErrSessionOver", err)
	}
	if err := s.Reveal(9, 9); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Out-of-bounds Reveal() = %v, expected ErrOutOfBounds", err)
	}
	if s.Elapsed() != 0 {
		t.Errorf("Ticks after end should be ignored, elapsed %d", s.Elapsed())
	}
	if len(rig.presenter.ended) != 1 {
		t.Errorf("GameEnded reported %d times", len(rig.presenter.ended))
	}
}

func TestSessionOverFlaggingCounter(t *testing.T) {
	rig := newRig()
	s := rig.session(t, 8, 8, wallMines)

	n := 0
	for r := 0; r < 6; r++ {
		for c := 0; c < 2; c++ {
			s.ToggleMark(r, c)
			n++
		}
	}

	if n != 12 {
		t.Fatalf("Expected 12 flags placed, got %d", n)
	}
	if got := FormatCounter(s.RemainingFlags()); got != "-02" {
		t.Errorf("Counter reads %q, expected %q", got, "-02")
	}
	last := rig.presenter.flags[len(rig.presenter.flags)-1]
	if last != -2 {
		t.Errorf("Presenter last saw %d, expected -2", last)
	}
}

func TestSessionMarkCycleNotifiesPresenter(t *testing.T) {
	rig := newRig()
	s := rig.session(t, 3, 3, []Point{{0, 0}})

	expected := []Hint{HintFlag, HintQuestion, HintHidden}
	for i, want := range expected {
		if err := s.ToggleMark(2, 2); err != nil {
			t.Fatalf("ToggleMark() failed: %v", err)
		}
		if got := rig.presenter.cells[Point{2, 2}]; got != want {
			t.Errorf("Step %d: hint %v, expected %v", i, got, want)
		}
	}
	if got := rig.presenter.flags; len(got) != 4 || got[1] != 0 || got[2] != 1 || got[3] != 1 {
		t.Errorf("Unexpected counter updates %v", got)
	}
}

func TestSessionTick(t *testing.T) {
	rig := newRig()
	s := rig.session(t, 8, 8, wallMines)

	s.Tick()
	if s.Elapsed() != 0 {
		t.Errorf("Ticks before the first interaction should be ignored, elapsed %d", s.Elapsed())
	}

	s.Reveal(0, 0)
	s.Tick()
	s.Tick()
	if s.Elapsed() != 2 {
		t.Errorf("Expected 2 seconds elapsed, got %d", s.Elapsed())
	}
	if len(rig.presenter.elapsed) != 2 || rig.presenter.elapsed[1] != 2 {
		t.Errorf("Unexpected elapsed updates %v", rig.presenter.elapsed)
	}
}

func TestSessionWinByRevealing(t *testing.T) {
	rig := newRig()
	s := rig.session(t, 2, 2, []Point{{0, 0}})

	winSmall(t, s, 3)
	s.Wait()

	if s.Status() != Won {
		t.Fatalf("Expected won, got %v", s.Status())
	}
	if s.Elapsed() != 3 {
		t.Errorf("Expected 3 seconds, got %d", s.Elapsed())
	}
	if got := rig.best.best[Beginner]; got != 3 {
		t.Errorf("Expected best time 3, got %d", got)
	}

	calls := rig.board.calls
	if len(calls) != 1 {
		t.Fatalf("Expected 1 leaderboard submission, got %d", len(calls))
	}
	if calls[0] != (submission{"ada", 3, Beginner}) {
		t.Errorf("Unexpected submission %+v", calls[0])
	}

	if len(rig.results.results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(rig.results.results))
	}
	r := rig.results.results[0]
	if !r.Won || r.Seconds != 3 || r.SessionID != s.ID() || r.Username != "ada" {
		t.Errorf("Unexpected result %+v", r)
	}
}

func TestSessionBestTimeUpdate(t *testing.T) {
	tests := []struct {
		name     string
		stored   map[Difficulty]int
		loadErr  error
		expected int
		saved    bool
	}{
		{"no record", nil, nil, 3, true},
		{"faster record kept", map[Difficulty]int{Beginner: 2}, nil, 2, false},
		{"equal record kept", map[Difficulty]int{Beginner: 3}, nil, 3, false},
		{"slower record replaced", map[Difficulty]int{Beginner: 5}, nil, 3, true},
		{"other tier ignored", map[Difficulty]int{Pro: 1}, nil, 3, true},
		{"load failure treated as unset", nil, errors.New("disk gone"), 3, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rig := newRig()
			rig.best.best = tc.stored
			rig.best.loadErr = tc.loadErr
			s := rig.session(t, 2, 2, []Point{{0, 0}})

			winSmall(t, s, 3)
			s.Wait()

			if (rig.best.saves == 1) != tc.saved {
				t.Errorf("saves = %d, expected saved=%v", rig.best.saves, tc.saved)
			}
			if got := rig.best.best[Beginner]; got != tc.expected {
				t.Errorf("Best time = %d, expected %d", got, tc.expected)
			}
		})
	}
}

func TestSessionLeaderboardFailureIsSwallowed(t *testing.T) {
	rig := newRig()
	rig.board.err = errors.New("connection refused")
	s := rig.session(t, 2, 2, []Point{{0, 0}})

	winSmall(t, s, 1)
	s.Wait()

	if s.Status() != Won {
		t.Errorf("Expected won, got %v", s.Status())
	}
	if len(rig.board.calls) != 1 {
		t.Errorf("Expected 1 submission attempt, got %d", len(rig.board.calls))
	}
	if len(rig.presenter.ended) != 1 || !rig.presenter.ended[0] {
		t.Errorf("Expected GameEnded(true), got %v", rig.presenter.ended)
	}
}

func TestSessionWithoutOptionalCollaborators(t *testing.T) {
	s, err := NewSessionWithBoard(Config{Difficulty: Beginner}, mustBoard(t, 2, 2, []Point{{0, 0}}))
	if err != nil {
		t.Fatalf("NewSessionWithBoard() failed: %v", err)
	}

	winSmall(t, s, 0)
	s.Wait()

	if s.Status() != Won {
		t.Errorf("Expected won, got %v", s.Status())
	}
}

func TestSessionRestart(t *testing.T) {
	rig := newRig()
	cfg := rig.config()
	cfg.Seed = 99

	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	s.ToggleMark(0, 0)

	next, err := s.Restart()
	if err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}

	if next.ID() == s.ID() {
		t.Error("Restart should produce a new session id")
	}
	if next.Status() != NotStarted || next.RemainingFlags() != 10 {
		t.Errorf("Restarted session not fresh: %v, %d flags", next.Status(), next.RemainingFlags())
	}
	if rig.timer.stops != 1 {
		t.Errorf("Restart should stop the running timer, stops=%d", rig.timer.stops)
	}
	if err := s.Reveal(1, 1); !errors.Is(err, ErrSessionOver) {
		t.Errorf("Old session Reveal() = %v, expected ErrSessionOver", err)
	}
	if len(rig.presenter.ended) != 0 {
		t.Error("Restart should not report a game end")
	}
}

func TestStatusOver(t *testing.T) {
	tests := []struct {
		s        Status
		expected bool
	}{
		{NotStarted, false},
		{Playing, false},
		{Won, true},
		{Lost, true},
	}

	for _, tc := range tests {
		if got := tc.s.Over(); got != tc.expected {
			t.Errorf("%v.Over() = %v, expected %v", tc.s, got, tc.expected)
		}
	}
}
