package minesweeper

import "errors"

var (
	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("minesweeper: coordinates out of bounds")

	// ErrUnknownDifficulty is returned for a tier name that is not beginner,
	// advanced or pro.
	ErrUnknownDifficulty = errors.New("minesweeper: unknown difficulty")

	ErrInvalidDimensions = errors.New("minesweeper: board dimensions must be positive")
	ErrInvalidMineCount  = errors.New("minesweeper: mine count must not be negative")
	ErrTooManyMines      = errors.New("minesweeper: mine count must be less than cell count")
	ErrDuplicateMine     = errors.New("minesweeper: duplicate mine position")

	// ErrSessionOver is returned for interactions after a win, a loss or a
	// restart.
	ErrSessionOver = errors.New("minesweeper: session is over")

	// ErrFlagsRemaining is returned by RevealAll while the flag counter is
	// not zero.
	ErrFlagsRemaining = errors.New("minesweeper: reveal-all requires the flag counter at zero")
)
