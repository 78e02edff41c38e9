package appconfig

import (
	"os"
	"path/filepath"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	Prompt        string        `mapstructure:"prompt" yaml:"prompt"`
	Editor        EditorConfig  `mapstructure:"editor" yaml:"editor"`
	Display       DisplayConfig `mapstructure:"display" yaml:"display"`
	SSH           SSHConfig     `mapstructure:"ssh" yaml:"ssh"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// EditorConfig controls line-editing behavior.
type EditorConfig struct {
	HistoryMax      int `mapstructure:"history_max" yaml:"history_max"`
	EscapeTimeoutMs int `mapstructure:"escape_timeout_ms" yaml:"escape_timeout_ms"`
}

// DisplayConfig overrides detected rendering behavior.
type DisplayConfig struct {
	// ForceColorDepth overrides detection: "", "none", "16", "256", "truecolor".
	ForceColorDepth string `mapstructure:"force_color_depth" yaml:"force_color_depth"`
	NoAttributes    bool   `mapstructure:"no_attributes" yaml:"no_attributes"`
}

// SSHConfig configures the demo SSH host.
type SSHConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath string `mapstructure:"host_key_path" yaml:"host_key_path"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Prompt:        "> ",
		Editor: EditorConfig{
			HistoryMax:      200,
			EscapeTimeoutMs: 50,
		},
		Display: DisplayConfig{
			ForceColorDepth: "",
			NoAttributes:    false,
		},
		SSH: SSHConfig{
			Addr:        ":27522",
			HostKeyPath: filepath.Join(home, ".termline", "ssh_host_key"),
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".termline", "config.yaml"), nil
}
