package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/minesweeper/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show your best times and recent games",
	Long: `Display the best time per difficulty, win statistics and the most
recent games of the current player.

Examples:
  mines scores
  mines scores --user ada --limit 20
  mines scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of recent games to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the player's history and best times")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(appConfig.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	username := appConfig.Username()

	if flagScoresClear {
		if err := store.ClearResults(username); err != nil {
			return err
		}
		fmt.Printf("Cleared history of %s.\n", username)
		return nil
	}

	best, err := store.BestTimes(username)
	if err != nil {
		return err
	}
	stats, err := store.Stats(username)
	if err != nil {
		return err
	}

	fmt.Printf("Best Times - %s\n", username)
	fmt.Println()

	// Print header
	fmt.Printf("  %-10s  %-6s  %-6s  %-5s  %s\n", "Difficulty", "Best", "Played", "Won", "Win %")
	fmt.Printf("  %-10s  %-6s  %-6s  %-5s  %s\n", "----------", "----", "------", "---", "-----")

	for _, d := range minesweeper.Difficulties() {
		bestStr := "-"
		if seconds, ok := best[d]; ok {
			bestStr = minesweeper.FormatTime(seconds)
		}
		var played, won int
		var rate float64
		if st := stats[d]; st != nil {
			played, won, rate = st.Played, st.Won, st.WinRate()*100
		}
		fmt.Printf("  %-10s  %-6s  %-6d  %-5d  %.0f%%\n", d, bestStr, played, won, rate)
	}

	recent, err := store.RecentResults(username, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Println()
	if len(recent) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'mines play' to set the first best time!")
		return nil
	}

	fmt.Println("Recent games:")
	for _, r := range recent {
		outcome := "lost"
		if r.Won {
			outcome = "won"
		}
		fmt.Printf("  %s  %-10s  %-4s  %4d s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Difficulty, outcome, r.Seconds)
	}
	return nil
}
