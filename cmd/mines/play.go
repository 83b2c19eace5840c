package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/minesweeper/internal/leaderboard"
	"github.com/vovakirdan/minesweeper/internal/storage"
)

var flagOffline bool

var playCmd = &cobra.Command{
	Use:   "play [difficulty]",
	Short: "Play a game",
	Long: `Start a game on the given difficulty (default: game.difficulty from config).

Commands (rows and columns start at 1):
  r ROW COL   - Reveal a cell
  m ROW COL   - Cycle a cell's mark: flag, question, none
  a           - Reveal all unflagged cells (needs the mine counter at 000)
  n [LEVEL]   - New game, optionally on another difficulty
  p           - Print the board
  h           - Help
  q           - Quit

The clock starts at your first move. Winning times beat your best time
only when strictly faster and are submitted to the leaderboard unless
--offline is set.

Examples:
  mines play
  mines play advanced
  mines play pro --seed 42 --offline`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagOffline, "offline", false, "Do not submit winning times to the leaderboard")
}

// command is one parsed input line.
type command struct {
	op       byte
	row, col int
	arg      string
}

// commandWords maps every accepted spelling to its command.
var commandWords = map[string]byte{
	"r": 'r', "reveal": 'r',
	"m": 'm', "mark": 'm', "flag": 'm',
	"a": 'a', "all": 'a',
	"n": 'n', "new": 'n',
	"p": 'p', "print": 'p',
	"h": 'h', "help": 'h', "?": 'h',
	"q": 'q', "quit": 'q', "exit": 'q',
}

// parseCommand reads a line like "r 3 5". Coordinates are converted to
// zero-based.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{op: 'p'}, nil
	}

	op, ok := commandWords[fields[0]]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q, h for help", fields[0])
	}

	cmd := command{op: op}
	switch op {
	case 'r', 'm':
		if len(fields) != 3 {
			return command{}, fmt.Errorf("usage: %s ROW COL", fields[0])
		}
		row, err := strconv.Atoi(fields[1])
		if err != nil {
			return command{}, fmt.Errorf("bad row %q", fields[1])
		}
		col, err := strconv.Atoi(fields[2])
		if err != nil {
			return command{}, fmt.Errorf("bad column %q", fields[2])
		}
		cmd.row, cmd.col = row-1, col-1
	case 'n':
		if len(fields) > 1 {
			cmd.arg = fields[1]
		}
	}
	return cmd, nil
}

// tickTimer drives Session.Tick from a one-second ticker. C is nil while
// stopped, so a select on it blocks.
type tickTimer struct {
	ticker *time.Ticker
}

func (t *tickTimer) Start() {
	if t.ticker == nil {
		t.ticker = time.NewTicker(time.Second)
	}
}

func (t *tickTimer) Stop() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

func (t *tickTimer) C() <-chan time.Time {
	if t.ticker == nil {
		return nil
	}
	return t.ticker.C
}

// readLines forwards lines from r until EOF or until ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func resolveDifficulty(args []string) (minesweeper.Difficulty, error) {
	if len(args) > 0 {
		return minesweeper.ParseDifficulty(args[0])
	}
	return appConfig.Difficulty()
}

func runPlay(cmd *cobra.Command, args []string) error {
	difficulty, err := resolveDifficulty(args)
	if err != nil {
		return err
	}

	store, err := storage.Open(appConfig.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	player := store.ForUser(appConfig.Username())

	var board minesweeper.Leaderboard
	if appConfig.Leaderboard.Enabled && !flagOffline {
		board = leaderboard.NewClient(appConfig.Leaderboard.URL,
			leaderboard.WithTimeout(appConfig.Leaderboard.Timeout),
			leaderboard.WithLogger(logger),
		)
	}

	seed := appConfig.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("starting", "difficulty", difficulty, "seed", seed)

	d, err := newDriver(cmd.OutOrStdout(), minesweeper.Config{
		Difficulty:    difficulty,
		Username:      player.Username(),
		Rand:          rand.New(rand.NewSource(seed)),
		Leaderboard:   board,
		BestTimes:     player,
		Results:       player,
		Logger:        logger,
		SubmitTimeout: appConfig.Leaderboard.Timeout,
	})
	if err != nil {
		return err
	}
	d.help = cmd.Long
	d.interactive = term.IsTerminal(int(os.Stdin.Fd()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return d.run(ctx, cmd.InOrStdin())
}

// driver runs the command loop of one play invocation. Input lines and
// timer ticks are handled on the goroutine that calls run, which owns the
// current session.
type driver struct {
	out         io.Writer
	help        string
	interactive bool

	cfg       minesweeper.Config
	presenter *textPresenter
	timer     *tickTimer
	best      minesweeper.BestTimeStore

	session *minesweeper.Session
	// retired tracks sessions replaced by "n" until their leaderboard
	// submissions are done.
	retired sync.WaitGroup
}

// newDriver wires its own presenter and timer into cfg.
func newDriver(out io.Writer, cfg minesweeper.Config) (*driver, error) {
	tier, err := cfg.Difficulty.Tier()
	if err != nil {
		return nil, err
	}
	d := &driver{
		out:       out,
		presenter: newTextPresenter(tier),
		timer:     &tickTimer{},
		best:      cfg.BestTimes,
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	cfg.Presenter = d.presenter
	cfg.Timer = d.timer
	d.cfg = cfg
	return d, nil
}

// run plays until "q", end of input or ctx is done. It returns once every
// session it started has finished submitting.
func (d *driver) run(ctx context.Context, in io.Reader) error {
	session, err := minesweeper.NewSession(d.cfg)
	if err != nil {
		return err
	}
	d.session = session
	defer d.finish()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, in)

	tier, _ := d.cfg.Difficulty.Tier()
	fmt.Fprintf(d.out, "%s: %dx%d, %d mines. Type h for help.\n\n", d.cfg.Difficulty, tier.Rows, tier.Columns, tier.Mines)
	fmt.Fprint(d.out, d.presenter.Render())

	prompt := true
	for {
		if d.interactive && prompt {
			fmt.Fprint(d.out, "> ")
			prompt = false
		}

		select {
		case <-ctx.Done():
			fmt.Fprintln(d.out)
			return nil

		case <-d.timer.C():
			d.session.Tick()

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			prompt = true
			quit, err := d.handle(line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

// handle applies one input line. Player mistakes are printed; only a
// failure to build a new session is returned.
func (d *driver) handle(line string) (quit bool, err error) {
	c, err := parseCommand(line)
	if err != nil {
		fmt.Fprintln(d.out, err)
		return false, nil
	}

	switch c.op {
	case 'q':
		return true, nil
	case 'h':
		fmt.Fprintln(d.out, d.help)
		return false, nil
	case 'n':
		next := d.cfg.Difficulty
		if c.arg != "" {
			if next, err = minesweeper.ParseDifficulty(c.arg); err != nil {
				fmt.Fprintln(d.out, err)
				return false, nil
			}
		}
		if err := d.restart(next); err != nil {
			return false, err
		}
	case 'r':
		err = d.session.Reveal(c.row, c.col)
	case 'm':
		err = d.session.ToggleMark(c.row, c.col)
	case 'a':
		err = d.session.RevealAll()
	}

	if err != nil {
		fmt.Fprintln(d.out, describe(err))
		return false, nil
	}
	fmt.Fprint(d.out, d.presenter.Render())
	if msg := d.presenter.Outcome(); msg != "" {
		fmt.Fprintln(d.out, msg)
		d.printBest()
		fmt.Fprintln(d.out, "n for a new game, q to quit.")
	}
	return false, nil
}

// restart replaces the current session with a fresh one on level, reusing
// its collaborators.
func (d *driver) restart(level minesweeper.Difficulty) error {
	tier, err := level.Tier()
	if err != nil {
		return err
	}
	d.presenter.reset(tier)

	old := d.session
	var fresh *minesweeper.Session
	if level == old.Difficulty() {
		fresh, err = old.Restart()
	} else {
		old.Close()
		d.cfg.Difficulty = level
		fresh, err = minesweeper.NewSession(d.cfg)
	}
	if err != nil {
		return err
	}

	d.retire(old)
	d.session = fresh
	fmt.Fprintf(d.out, "New %s game.\n", level)
	return nil
}

// retire waits for old's pending submissions in the background so the
// driver keeps no reference to it afterwards.
func (d *driver) retire(old *minesweeper.Session) {
	d.retired.Add(1)
	go func() {
		defer d.retired.Done()
		old.Wait()
	}()
}

func (d *driver) finish() {
	d.session.Close()
	d.session.Wait()
	d.retired.Wait()
}

func (d *driver) printBest() {
	if d.best == nil {
		return
	}
	best, ok, err := d.best.LoadBestTime(d.cfg.Difficulty)
	if err != nil {
		d.cfg.Logger.Warn("could not load best time", "err", err)
		return
	}
	if ok {
		fmt.Fprintf(d.out, "Best %s time: %d seconds\n", d.cfg.Difficulty, best)
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, minesweeper.ErrOutOfBounds):
		return "That cell is off the board."
	case errors.Is(err, minesweeper.ErrSessionOver):
		return "The game is over. n for a new game."
	case errors.Is(err, minesweeper.ErrFlagsRemaining):
		return "Reveal-all needs exactly as many flags as mines."
	default:
		return err.Error()
	}
}
