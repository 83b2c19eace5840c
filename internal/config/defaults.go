package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
)

//go:embed defaults/minesweeper.yaml
var defaultYAML []byte

// DefaultConfig returns the hard-coded configuration used when no YAML
// source can be read.
func DefaultConfig() Config {
	return Config{
		Player: PlayerConfig{
			Username: minesweeper.DefaultUsername,
		},
		Game: GameConfig{
			Difficulty: "beginner",
		},
		Storage: StorageConfig{
			DBPath: "~/.mines/mines.db",
		},
		Leaderboard: LeaderboardConfig{
			Enabled: true,
			URL:     "http://api.timplatzer.com:9000",
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr:           ":9000",
			AllowedOrigins: []string{"*"},
			TopN:           10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
