package minesweeper

// ToggleMark advances the marker of the cell at (row, col) through
// Hidden -> Flagged -> Questioned -> Hidden. Revealed cells do not change;
// changed reports whether a transition happened.
func (b *Board) ToggleMark(row, col int) (state CellState, changed bool, err error) {
	if !b.InBounds(row, col) {
		return 0, false, outOfBounds(row, col)
	}

	c := b.at(Point{Row: row, Col: col})
	switch c.State {
	case Hidden:
		c.State = Flagged
	case Flagged:
		c.State = Questioned
	case Questioned:
		c.State = Hidden
	default:
		return c.State, false, nil
	}
	return c.State, true, nil
}
