package minesweeper

import "fmt"

// FormatCounter renders the remaining-flag counter the way the game shows
// it: three digits, or a minus sign and two digits when negative.
func FormatCounter(n int) string {
	if n < 0 {
		return fmt.Sprintf("-%02d", -n)
	}
	return fmt.Sprintf("%03d", n)
}

// FormatTime renders elapsed seconds as four digits.
func FormatTime(seconds int) string {
	return fmt.Sprintf("%04d", seconds)
}
