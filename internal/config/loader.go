package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
)

// Load reads the configuration.
// Search order: customPath -> ~/.mines/config.yaml -> ./configs/minesweeper.yaml -> embedded default
//
// Every source is decoded over DefaultConfig, so a partial file only
// overrides the keys it names. A custom path that cannot be read or parsed
// is an error; the other sources are skipped silently.
func Load(customPath string) (Config, error) {
	cfg := DefaultConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if parsed, ok := decode(data); ok {
				return parsed, parsed.Validate()
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "minesweeper.yaml")); err == nil {
		if parsed, ok := decode(data); ok {
			return parsed, parsed.Validate()
		}
	}

	// Use embedded default YAML
	if parsed, ok := decode(defaultYAML); ok {
		return parsed, nil
	}
	return cfg, nil // Fallback to hardcoded if embed fails
}

func decode(data []byte) (Config, bool) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mines", filename)
}

// Validate checks the values that cannot be corrected silently.
func (c Config) Validate() error {
	if _, err := c.Difficulty(); err != nil {
		return fmt.Errorf("config: game.difficulty: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Leaderboard.Enabled && strings.TrimSpace(c.Leaderboard.URL) == "" {
		return fmt.Errorf("config: leaderboard.url is required when the leaderboard is enabled")
	}
	return nil
}

// Difficulty resolves game.difficulty. An empty value means beginner.
func (c Config) Difficulty() (minesweeper.Difficulty, error) {
	if strings.TrimSpace(c.Game.Difficulty) == "" {
		return minesweeper.Beginner, nil
	}
	return minesweeper.ParseDifficulty(c.Game.Difficulty)
}

// LogLevel resolves log.level. An empty value means info.
func (c Config) LogLevel() (log.Level, error) {
	if strings.TrimSpace(c.Log.Level) == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(strings.ToLower(c.Log.Level))
}

// Username returns player.username, or the default name when unset.
func (c Config) Username() string {
	if name := strings.TrimSpace(c.Player.Username); name != "" {
		return name
	}
	return minesweeper.DefaultUsername
}
