package cliconfig

import (
	"fmt"
	"time"
)

// Config holds the layered (file → env → flag) configuration for the
// bulkserver demo CLI (cmd/bulkserver). The library core
// (internal/app, internal/domain) never depends on this package; it
// takes plain Go struct configuration (bulkstream.Option), exactly as
// SPEC_FULL's ambient-stack section describes.
type Config struct {
	// ListenAddr is the TCP address the demo front-end accepts
	// connections on, e.g. ":9090".
	ListenAddr string

	// StaticSize is the default per-connection static block size
	// passed to Connect for every accepted session.
	StaticSize uint

	// FileWorkers is the file-sink worker pool size.
	FileWorkers int

	// OutputDir is the directory file sinks write bulk*.log files into.
	OutputDir string

	// QueueCapacity sizes each Dispatcher worker's buffered queue.
	QueueCapacity int

	// LogLevel is the zerolog level name: debug, info, warn, error.
	LogLevel string

	// ReloadWatch enables plugins/reloadwatcher, hot-reloading
	// LogLevel and ConsoleEnabled from the config file without a restart.
	ReloadWatch bool

	// ConsoleEnabled toggles the console sink. Disabling it still
	// leaves file sinks running; it exists for reloadwatcher to flip
	// at runtime (spec's Non-goals forbid touching StaticSize or
	// FileWorkers at runtime — those are structural).
	ConsoleEnabled bool

	// ShutdownTimeout bounds how long graceful shutdown waits for
	// in-flight connections to drain before forcing exit.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with the reference defaults (static
// size 3 for every accepted connection, file-worker pool size 2, the
// 10ms quiesce poll baked into the Dispatcher rather than exposed here).
func DefaultConfig() Config {
	return Config{
		ListenAddr:      ":9090",
		StaticSize:      3,
		FileWorkers:     2,
		OutputDir:       ".",
		QueueCapacity:   256,
		LogLevel:        "info",
		ReloadWatch:     false,
		ConsoleEnabled:  true,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Validate checks the configuration for errors and sets derived
// defaults, mirroring the teacher's Config.Validate precedent of
// validating and filling in defaults in one pass.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.FileWorkers <= 0 {
		return fmt.Errorf("file workers must be positive")
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 256
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		c.LogLevel = "info"
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence: it only applies a value if the corresponding flag has
// not been explicitly set on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setUintFromString(flag, value string, dst *uint) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	var u uint
	if _, err := fmt.Sscanf(value, "%d", &u); err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = u
	return nil
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	var i int
	if _, err := fmt.Sscanf(value, "%d", &i); err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
