package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly, following the teacher's FileConfig precedent.
type FileConfig struct {
	ListenAddr      string `toml:"listen_addr"`
	StaticSize      uint   `toml:"static_size"`
	FileWorkers     int    `toml:"file_workers"`
	OutputDir       string `toml:"output_dir"`
	QueueCapacity   int    `toml:"queue_capacity"`
	LogLevel        string `toml:"log_level"`
	ReloadWatch     *bool  `toml:"reload_watch"`
	ConsoleEnabled  *bool  `toml:"console_enabled"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// LoadFileConfig reads and parses a TOML config file from the given
// path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.bulkstream/config.toml if the user home
// directory is accessible, matching the teacher's DefaultConfigPath
// precedent.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".bulkstream", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config
// struct, respecting flags that have already been explicitly set
// (the changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", fc.ListenAddr, &cfg.ListenAddr)
	s.setString("output-dir", fc.OutputDir, &cfg.OutputDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if fc.StaticSize > 0 && !changed["static-size"] {
		cfg.StaticSize = fc.StaticSize
	}
	s.setInt("file-workers", fc.FileWorkers, &cfg.FileWorkers)
	s.setInt("queue-capacity", fc.QueueCapacity, &cfg.QueueCapacity)

	s.setBool("reload-watch", fc.ReloadWatch, &cfg.ReloadWatch)
	s.setBool("console", fc.ConsoleEnabled, &cfg.ConsoleEnabled)

	if err := s.setDuration("shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
