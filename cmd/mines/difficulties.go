package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
)

var difficultiesCmd = &cobra.Command{
	Use:   "difficulties",
	Short: "List the board tiers",
	Long:  `Shows the board size and mine count of every difficulty.`,
	Run:   runDifficulties,
}

func runDifficulties(cmd *cobra.Command, args []string) {
	fmt.Println("Difficulties:")
	fmt.Println()

	fmt.Printf("  %-10s  %-7s  %s\n", "Name", "Board", "Mines")
	fmt.Printf("  %-10s  %-7s  %s\n", "----", "-----", "-----")

	for _, d := range minesweeper.Difficulties() {
		tier, err := d.Tier()
		if err != nil {
			continue
		}
		board := fmt.Sprintf("%dx%d", tier.Rows, tier.Columns)
		fmt.Printf("  %-10s  %-7s  %d\n", d, board, tier.Mines)
	}

	fmt.Println()
	fmt.Println("Run 'mines play <name>' to start a game.")
}
