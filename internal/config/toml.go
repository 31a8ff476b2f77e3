// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timer   TimerConfig   `toml:"timer"`
	Display DisplayConfig `toml:"display"`
	Sound   SoundConfig   `toml:"sound"`
	Notify  NotifyConfig  `toml:"notify"`
	History HistoryConfig `toml:"history"`
}

// TimerConfig maps interval settings. Durations are in minutes.
type TimerConfig struct {
	Work      *int    `toml:"work"`
	Break     *int    `toml:"break"`
	Autostart *bool   `toml:"autostart"`
	Tick      *string `toml:"tick"`
}

// DisplayConfig maps rendering settings.
type DisplayConfig struct {
	HideImage *bool `toml:"hide-image"`
}

// SoundConfig maps the phase-switch sound cue.
type SoundConfig struct {
	File     *string `toml:"file"`
	Disabled *bool   `toml:"disabled"`
}

// NotifyConfig maps desktop notifications.
type NotifyConfig struct {
	Disabled *bool `toml:"disabled"`
}

// HistoryConfig maps the interval journal.
type HistoryConfig struct {
	Disabled *bool `toml:"disabled"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
