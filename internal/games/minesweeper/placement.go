package minesweeper

import (
	"fmt"
	"math/rand"
)

// NewBoard builds a rows x cols board with mines chosen uniformly at random
// without replacement. Mines are placed before any click, so the first
// reveal may land on a mine.
func NewBoard(rows, cols, mines int, rng *rand.Rand) (*Board, error) {
	b, err := newEmptyBoard(rows, cols, mines)
	if err != nil {
		return nil, err
	}

	// Partial Fisher-Yates over the flat index list. Each draw removes the
	// chosen index from the first k candidates.
	candidates := make([]int, len(b.cells))
	for i := range candidates {
		candidates[i] = i
	}
	k := len(candidates)
	for range mines {
		i := rng.Intn(k)
		b.cells[candidates[i]].Mine = true
		k--
		candidates[i] = candidates[k]
	}

	b.computeAdjacency()
	return b, nil
}

// NewBoardForTier builds a random board with the shape of t.
func NewBoardForTier(t Tier, rng *rand.Rand) (*Board, error) {
	return NewBoard(t.Rows, t.Columns, t.Mines, rng)
}

// NewBoardWithMines builds a board with mines at exactly the given
// positions. It is used for replays and fixed layouts.
func NewBoardWithMines(rows, cols int, mines []Point) (*Board, error) {
	b, err := newEmptyBoard(rows, cols, len(mines))
	if err != nil {
		return nil, err
	}

	for _, p := range mines {
		if !b.InBounds(p.Row, p.Col) {
			return nil, outOfBounds(p.Row, p.Col)
		}
		c := b.at(p)
		if c.Mine {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateMine, p)
		}
		c.Mine = true
	}

	b.computeAdjacency()
	return b, nil
}

// computeAdjacency stores, for every non-mine cell, the number of mines
// among its clipped Moore neighbourhood.
func (b *Board) computeAdjacency() {
	for i := range b.cells {
		c := &b.cells[i]
		if c.Mine {
			c.Adjacent = 0
			continue
		}
		n := 0
		for _, p := range b.neighbors(c.Point) {
			if b.at(p).Mine {
				n++
			}
		}
		c.Adjacent = n
	}
}

// MinePositions lists every mine, row-major.
func (b *Board) MinePositions() []Point {
	return b.collect(func(c *Cell) bool { return c.Mine })
}
