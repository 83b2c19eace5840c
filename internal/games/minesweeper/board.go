// Package minesweeper implements the board engine of the game: mine
// placement, adjacency counts, the flood-fill reveal, the flag/question
// cycle and the session state machine. It has no knowledge of rendering,
// timers or networking; those are reached through the collaborator
// interfaces in collaborators.go.
package minesweeper

import (
	"fmt"
	"strconv"
	"strings"
)

// Point addresses a cell by row and column.
type Point struct {
	Row, Col int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// CellState is the player-visible marker state of a cell.
type CellState int8

const (
	Hidden CellState = iota
	Flagged
	Questioned
	Revealed
)

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Flagged:
		return "flagged"
	case Questioned:
		return "questioned"
	case Revealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// Cell is a snapshot of one square. Adjacent is only meaningful when Mine
// is false.
type Cell struct {
	Point
	Mine     bool
	Adjacent int
	State    CellState
}

// Board is a rectangular grid of cells stored row-major. Cells are only
// handed out by value.
type Board struct {
	rows  int
	cols  int
	mines int
	cells []Cell
}

func newEmptyBoard(rows, cols, mines int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	if mines < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMineCount, mines)
	}
	if mines >= rows*cols {
		return nil, fmt.Errorf("%w: %d mines on %d cells", ErrTooManyMines, mines, rows*cols)
	}

	b := &Board{
		rows:  rows,
		cols:  cols,
		mines: mines,
		cells: make([]Cell, rows*cols),
	}
	for i := range b.cells {
		b.cells[i].Point = Point{Row: i / cols, Col: i % cols}
	}
	return b, nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int {
	return b.rows
}

// Columns returns the number of columns.
func (b *Board) Columns() int {
	return b.cols
}

// Mines returns the total number of mines on the board.
func (b *Board) Mines() int {
	return b.mines
}

// InBounds reports whether (row, col) lies on the grid.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// CellAt returns a copy of the cell at (row, col).
func (b *Board) CellAt(row, col int) (Cell, error) {
	if !b.InBounds(row, col) {
		return Cell{}, outOfBounds(row, col)
	}
	return *b.at(Point{Row: row, Col: col}), nil
}

// RemainingFlags returns the mine total minus the number of flagged cells.
// The result goes negative when the player places more flags than there
// are mines.
func (b *Board) RemainingFlags() int {
	return b.mines - b.count(func(c *Cell) bool { return c.State == Flagged })
}

// IncorrectFlags lists flagged cells that hold no mine, row-major.
func (b *Board) IncorrectFlags() []Point {
	return b.collect(func(c *Cell) bool { return c.State == Flagged && !c.Mine })
}

// Solved reports whether every non-mine cell has been revealed.
func (b *Board) Solved() bool {
	return b.count(func(c *Cell) bool { return !c.Mine && c.State != Revealed }) == 0
}

// MineRevealed reports whether any mine cell is in the Revealed state.
func (b *Board) MineRevealed() bool {
	return b.count(func(c *Cell) bool { return c.Mine && c.State == Revealed }) > 0
}

// revealUnflaggedMines opens every hidden or questioned mine and returns
// their positions. Flagged mines keep their flag.
func (b *Board) revealUnflaggedMines() []Point {
	opened := b.collect(func(c *Cell) bool {
		return c.Mine && (c.State == Hidden || c.State == Questioned)
	})
	for _, p := range opened {
		b.at(p).State = Revealed
	}
	return opened
}

// neighbors returns the in-bounds Moore neighbours of p in row-major order.
func (b *Board) neighbors(p Point) []Point {
	out := make([]Point, 0, 8)
	for r := p.Row - 1; r <= p.Row+1; r++ {
		for c := p.Col - 1; c <= p.Col+1; c++ {
			if (r == p.Row && c == p.Col) || !b.InBounds(r, c) {
				continue
			}
			out = append(out, Point{Row: r, Col: c})
		}
	}
	return out
}

func (b *Board) at(p Point) *Cell {
	return &b.cells[p.Row*b.cols+p.Col]
}

func (b *Board) count(match func(*Cell) bool) int {
	n := 0
	for i := range b.cells {
		if match(&b.cells[i]) {
			n++
		}
	}
	return n
}

func (b *Board) collect(match func(*Cell) bool) []Point {
	var out []Point
	for i := range b.cells {
		if match(&b.cells[i]) {
			out = append(out, b.cells[i].Point)
		}
	}
	return out
}

// String draws the board as the player sees it: '#' hidden, 'F' flag,
// '?' question, '*' revealed mine, '.' blank, digits for counts.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(b.rows * (b.cols*2 + 1))

	for r := 0; r < b.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(symbol(*b.at(Point{Row: r, Col: c})))
		}
	}
	return sb.String()
}

func symbol(c Cell) string {
	switch c.State {
	case Flagged:
		return "F"
	case Questioned:
		return "?"
	case Revealed:
		if c.Mine {
			return "*"
		}
		if c.Adjacent == 0 {
			return "."
		}
		return strconv.Itoa(c.Adjacent)
	default:
		return "#"
	}
}

func outOfBounds(row, col int) error {
	return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
}
