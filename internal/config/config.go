// Package config provides YAML-based configuration loading for the
// minesweeper CLI and leaderboard server.
package config

import "time"

// Config is the full application configuration.
type Config struct {
	Player      PlayerConfig      `yaml:"player"`
	Game        GameConfig        `yaml:"game"`
	Storage     StorageConfig     `yaml:"storage"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
}

// PlayerConfig identifies the local player.
type PlayerConfig struct {
	Username string `yaml:"username"`
}

// GameConfig holds gameplay defaults.
type GameConfig struct {
	Difficulty string `yaml:"difficulty"` // beginner, advanced or pro
	Seed       int64  `yaml:"seed"`       // 0 = time-based
}

// StorageConfig locates the local SQLite database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LeaderboardConfig configures the remote leaderboard client.
type LeaderboardConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures `mines serve`.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	TopN           int      `yaml:"top_n"`
}

// LogConfig configures the charmbracelet logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
