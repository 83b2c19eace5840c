package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/minesweeper/internal/leaderboard"
)

var flagLeaderboardURL string

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [difficulty]",
	Short: "Show the online leaderboard",
	Long: `Fetch and display the fastest players of every difficulty, or of one.

Examples:
  mines leaderboard
  mines leaderboard pro
  mines leaderboard --url http://localhost:9000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().StringVar(&flagLeaderboardURL, "url", "", "Leaderboard server (overrides leaderboard.url)")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	difficulties := minesweeper.Difficulties()
	if len(args) == 1 {
		d, err := minesweeper.ParseDifficulty(args[0])
		if err != nil {
			return err
		}
		difficulties = []minesweeper.Difficulty{d}
	}

	url := appConfig.Leaderboard.URL
	if flagLeaderboardURL != "" {
		url = flagLeaderboardURL
	}

	client := leaderboard.NewClient(url,
		leaderboard.WithTimeout(appConfig.Leaderboard.Timeout),
		leaderboard.WithLogger(logger),
	)

	timeout := appConfig.Leaderboard.Timeout
	if timeout <= 0 {
		timeout = leaderboard.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	standings, err := client.FetchLeaderboard(ctx)
	if err != nil {
		return fmt.Errorf("fetching leaderboard from %s: %w", url, err)
	}

	for i, d := range difficulties {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("Leaderboard - %s\n", d)
		entries := standings[d]
		if len(entries) == 0 {
			fmt.Println("  No times yet.")
			continue
		}
		for rank, e := range entries {
			fmt.Printf("  %2d. %s\n", rank+1, e)
		}
	}
	return nil
}
