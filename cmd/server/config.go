package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/underkeep/underkeep/pkg/contentpkg"
)

// fileConfig is the on-disk server.yaml shape; cobra flags override
// whatever it sets.
type fileConfig struct {
	Address         string  `yaml:"address"`
	MaxPlayers      int     `yaml:"max_players"`
	MOTD            string  `yaml:"motd"`
	Seed            int64   `yaml:"seed"`
	DefaultGameMode string  `yaml:"default_gamemode"`
	ViewDistance    int32   `yaml:"view_distance"`
	ReplayDir       string  `yaml:"replay_dir"`
	FaviconPath     string  `yaml:"favicon_path"`
	LogLevel        string  `yaml:"log_level"`
	SpawnX          float64 `yaml:"spawn_x"`
	SpawnY          float64 `yaml:"spawn_y"`
	SpawnZ          float64 `yaml:"spawn_z"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Address:         ":25565",
		MaxPlayers:      20,
		MOTD:            "An underkeep server",
		DefaultGameMode: "survival",
		ViewDistance:    6,
		LogLevel:        "info",
	}
}

func loadFileConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func parseGameMode(s string) (byte, bool) {
	switch s {
	case "survival", "s", "0":
		return contentpkg.GameModeSurvival, true
	case "creative", "c", "1":
		return contentpkg.GameModeCreative, true
	case "adventure", "a", "2":
		return contentpkg.GameModeAdventure, true
	case "spectator", "sp", "3":
		return contentpkg.GameModeSpectator, true
	default:
		return 0, false
	}
}
