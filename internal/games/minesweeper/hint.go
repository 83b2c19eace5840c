package minesweeper

import "strconv"

// Hint tells a presenter how to draw a cell. Values 0 to 8 are revealed
// non-mine cells with that many adjacent mines (0 is blank); the named
// constants cover every other look.
type Hint int8

const (
	HintQuestion     Hint = -3
	HintHidden       Hint = -2
	HintFlag         Hint = -1
	HintBlank        Hint = 0
	HintBomb         Hint = 64
	HintBombExploded Hint = 65
	HintWrongFlag    Hint = 66
)

// Digit returns the adjacency count carried by h, if any.
func (h Hint) Digit() (int, bool) {
	if h >= 1 && h <= 8 {
		return int(h), true
	}
	return 0, false
}

func (h Hint) String() string {
	switch {
	case h == HintQuestion:
		return "question"
	case h == HintHidden:
		return "hidden"
	case h == HintFlag:
		return "flag"
	case h == HintBlank:
		return "blank"
	case h >= 1 && h <= 8:
		return strconv.Itoa(int(h))
	case h == HintBomb:
		return "bomb"
	case h == HintBombExploded:
		return "bomb-exploded"
	case h == HintWrongFlag:
		return "wrong-flag"
	default:
		return "invalid"
	}
}

// hintFor derives the resting hint of a cell from its state.
func hintFor(c Cell) Hint {
	switch c.State {
	case Flagged:
		return HintFlag
	case Questioned:
		return HintQuestion
	case Revealed:
		if c.Mine {
			return HintBomb
		}
		return Hint(c.Adjacent)
	default:
		return HintHidden
	}
}
