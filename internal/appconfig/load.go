package appconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("prompt", cfg.Prompt)
	v.SetDefault("editor.history_max", cfg.Editor.HistoryMax)
	v.SetDefault("editor.escape_timeout_ms", cfg.Editor.EscapeTimeoutMs)
	v.SetDefault("display.force_color_depth", cfg.Display.ForceColorDepth)
	v.SetDefault("display.no_attributes", cfg.Display.NoAttributes)
	v.SetDefault("ssh.addr", cfg.SSH.Addr)
	v.SetDefault("ssh.host_key_path", cfg.SSH.HostKeyPath)

	// A missing config file is fine; defaults apply.
	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if _, statErr := os.Stat(path); !notFound && !os.IsNotExist(statErr) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
		switch v.GetString("display.force_color_depth") {
		case "", "none", "16", "256", "truecolor":
		default:
			return Config{}, fmt.Errorf("unsupported display.force_color_depth %q", v.GetString("display.force_color_depth"))
		}
		if v.GetInt("editor.history_max") < 0 {
			return Config{}, fmt.Errorf("editor.history_max must not be negative")
		}
		if v.GetInt("editor.escape_timeout_ms") < 0 {
			return Config{}, fmt.Errorf("editor.escape_timeout_ms must not be negative")
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.SSH.HostKeyPath = expandEnv(cfg.SSH.HostKeyPath)
	return cfg, nil
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
