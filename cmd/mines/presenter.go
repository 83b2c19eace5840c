package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
)

var (
	hiddenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	flagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	blankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	bombStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	explodedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Bold(true)
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Strikethrough(true)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	indexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Classic digit colours.
var digitStyles = [9]lipgloss.Style{
	1: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	2: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	3: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	4: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	5: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	6: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	7: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	8: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// textPresenter mirrors the session into a grid of hints and draws it as
// text. It implements minesweeper.Presenter.
type textPresenter struct {
	hints    [][]minesweeper.Hint
	flags    int
	elapsed  int
	exploded *minesweeper.Point
	ended    bool
	won      bool
}

func newTextPresenter(t minesweeper.Tier) *textPresenter {
	p := &textPresenter{}
	p.reset(t)
	return p
}

// reset clears the grid for a new board of shape t.
func (p *textPresenter) reset(t minesweeper.Tier) {
	p.hints = make([][]minesweeper.Hint, t.Rows)
	for r := range p.hints {
		row := make([]minesweeper.Hint, t.Columns)
		for c := range row {
			row[c] = minesweeper.HintHidden
		}
		p.hints[r] = row
	}
	p.flags = t.Mines
	p.elapsed = 0
	p.exploded = nil
	p.ended = false
	p.won = false
}

func (p *textPresenter) CellChanged(pt minesweeper.Point, h minesweeper.Hint) {
	p.hints[pt.Row][pt.Col] = h
}

func (p *textPresenter) MineExploded(pt minesweeper.Point) {
	p.exploded = &pt
}

func (p *textPresenter) GameEnded(won bool) {
	p.ended = true
	p.won = won
}

func (p *textPresenter) RemainingFlagsChanged(n int) {
	p.flags = n
}

func (p *textPresenter) ElapsedChanged(seconds int) {
	p.elapsed = seconds
}

// Render draws the counters and the grid with 1-based row and column
// labels.
func (p *textPresenter) Render() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("Mines %s   Time %s",
		minesweeper.FormatCounter(p.flags), minesweeper.FormatTime(p.elapsed))))
	sb.WriteByte('\n')

	cols := 0
	if len(p.hints) > 0 {
		cols = len(p.hints[0])
	}

	sb.WriteString("    ")
	for c := 1; c <= cols; c++ {
		sb.WriteString(indexStyle.Render(fmt.Sprintf("%2d", c%100)))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')

	for r, row := range p.hints {
		sb.WriteString(indexStyle.Render(fmt.Sprintf("%3d ", r+1)))
		for _, h := range row {
			sb.WriteString(" ")
			sb.WriteString(renderHint(h))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Outcome returns the end-of-game line, or "" while the game runs.
func (p *textPresenter) Outcome() string {
	switch {
	case !p.ended:
		return ""
	case p.won:
		return fmt.Sprintf("You win! Cleared in %d seconds.", p.elapsed)
	case p.exploded != nil:
		return fmt.Sprintf("Boom! Mine at row %d, column %d.", p.exploded.Row+1, p.exploded.Col+1)
	default:
		return "A flag was wrong. Game over."
	}
}

func renderHint(h minesweeper.Hint) string {
	if n, ok := h.Digit(); ok {
		return digitStyles[n].Render(strconv.Itoa(n))
	}
	switch h {
	case minesweeper.HintHidden:
		return hiddenStyle.Render("#")
	case minesweeper.HintFlag:
		return flagStyle.Render("F")
	case minesweeper.HintQuestion:
		return questionStyle.Render("?")
	case minesweeper.HintBlank:
		return blankStyle.Render(".")
	case minesweeper.HintBomb:
		return bombStyle.Render("*")
	case minesweeper.HintBombExploded:
		return explodedStyle.Render("X")
	case minesweeper.HintWrongFlag:
		return wrongStyle.Render("F")
	default:
		return " "
	}
}

var _ minesweeper.Presenter = (*textPresenter)(nil)
