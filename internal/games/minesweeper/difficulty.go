package minesweeper

import (
	"fmt"
	"strings"
)

// Difficulty names one of the fixed board tiers.
type Difficulty string

const (
	Beginner Difficulty = "beginner"
	Advanced Difficulty = "advanced"
	Pro      Difficulty = "pro"
)

// Tier holds the board dimensions and mine total of a difficulty.
type Tier struct {
	Rows    int
	Columns int
	Mines   int
}

// Cells returns the number of squares on a board of this tier.
func (t Tier) Cells() int {
	return t.Rows * t.Columns
}

// Difficulties returns every tier, easiest first.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Advanced, Pro}
}

// ParseDifficulty resolves a tier name. Matching ignores case and
// surrounding whitespace.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	_, err := d.Tier()
	return err == nil
}

// Tier returns the board shape for d.
func (d Difficulty) Tier() (Tier, error) {
	switch d {
	case Beginner:
		return Tier{Rows: 8, Columns: 8, Mines: 10}, nil
	case Advanced:
		return Tier{Rows: 16, Columns: 16, Mines: 40}, nil
	case Pro:
		return Tier{Rows: 16, Columns: 30, Mines: 99}, nil
	default:
		return Tier{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
	}
}

func (d Difficulty) String() string {
	return string(d)
}
