package minesweeper

import (
	"github.com/gammazero/deque"
)

// RevealResult describes what one reveal uncovered.
type RevealResult struct {
	// Opened lists the cells that became Revealed, in visit order. The
	// target comes first.
	Opened []Point

	// Mine is set when the target itself holds a mine.
	Mine bool
}

// Reveal opens the cell at (row, col). Revealed and flagged cells are left
// untouched and yield an empty result. A questioned cell loses its mark.
// A mine stops the reveal; a numbered cell opens alone; a blank cell opens
// its whole connected blank region plus the numbered border. Flagged cells
// are never opened by the cascade.
//
// Reveal does not decide win or loss; the session does that from the
// result.
func (b *Board) Reveal(row, col int) (RevealResult, error) {
	if !b.InBounds(row, col) {
		return RevealResult{}, outOfBounds(row, col)
	}

	var res RevealResult
	target := b.at(Point{Row: row, Col: col})
	if target.State == Revealed || target.State == Flagged {
		return res, nil
	}

	open := func(c *Cell) {
		c.State = Revealed
		res.Opened = append(res.Opened, c.Point)
	}

	open(target)
	if target.Mine {
		res.Mine = true
		return res, nil
	}
	if target.Adjacent > 0 {
		return res, nil
	}

	// Breadth-first with a FIFO queue keeps the row-major neighbour order
	// visible in Opened. Cells are marked Revealed when queued, so each is
	// visited once.
	var queue deque.Deque[Point]
	queue.PushBack(target.Point)
	for queue.Len() > 0 {
		cur := queue.PopFront()
		for _, p := range b.neighbors(cur) {
			c := b.at(p)
			if c.State == Revealed || c.State == Flagged {
				continue
			}
			open(c)
			if !c.Mine && c.Adjacent == 0 {
				queue.PushBack(p)
			}
		}
	}

	return res, nil
}
