// mines is a terminal Minesweeper with local best times and an HTTP
// leaderboard.
//
// Usage:
//
//	mines play [difficulty]  - Play a game (beginner, advanced, pro)
//	mines difficulties       - List the board tiers
//	mines scores             - Show your best times and recent games
//	mines leaderboard        - Show the online leaderboard
//	mines serve              - Run a leaderboard server
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.mines/config.yaml, ./configs/minesweeper.yaml)
//	--seed <value>      - Set RNG seed for reproducible boards
//	--db <path>         - Set database path (default: ~/.mines/mines.db)
//	--user <name>       - Player name used for best times and submissions
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/minesweeper/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagUser     string
	flagLogLevel string
)

// Resolved by loadConfig before any subcommand runs.
var (
	appConfig config.Config
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mines",
	Short: "Minesweeper - clear the board without hitting a mine",
	Long: `Minesweeper for the terminal, with local best times and an
optional online leaderboard.

Available commands:
  play          - Play a game
  difficulties  - List the board tiers
  scores        - Show your best times and recent games
  leaderboard   - Show the online leaderboard
  serve         - Run a leaderboard server

Examples:
  mines play
  mines play pro --seed 42
  mines scores --user ada
  mines leaderboard
  mines serve --addr :9000`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (overrides storage.db_path)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Player name (overrides player.username)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides log.level)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(difficultiesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagSeed != 0 {
		cfg.Game.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagUser != "" {
		cfg.Player.Username = flagUser
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	appConfig = cfg
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mines",
		Level:           level,
	})
	logger.Debug("config loaded", "user", cfg.Username(), "db", cfg.Storage.DBPath)
	return nil
}
