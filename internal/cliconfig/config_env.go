package cliconfig

import "os"

// envPrefix namespaces every environment variable this package reads.
const envPrefix = "BULKSTREAM_"

// ApplyEnvConfig applies BULKSTREAM_* environment variables to cfg,
// overriding file config but deferring to flags already set (the
// changed map), mirroring the teacher's layered file → env → flag
// precedence.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", os.Getenv(envPrefix+"LISTEN_ADDR"), &cfg.ListenAddr)
	s.setString("output-dir", os.Getenv(envPrefix+"OUTPUT_DIR"), &cfg.OutputDir)
	s.setString("log-level", os.Getenv(envPrefix+"LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setUintFromString("static-size", os.Getenv(envPrefix+"STATIC_SIZE"), &cfg.StaticSize); err != nil {
		return err
	}
	if err := s.setIntFromString("file-workers", os.Getenv(envPrefix+"FILE_WORKERS"), &cfg.FileWorkers); err != nil {
		return err
	}
	if err := s.setIntFromString("queue-capacity", os.Getenv(envPrefix+"QUEUE_CAPACITY"), &cfg.QueueCapacity); err != nil {
		return err
	}

	s.setBoolFromString("reload-watch", os.Getenv(envPrefix+"RELOAD_WATCH"), &cfg.ReloadWatch)
	s.setBoolFromString("console", os.Getenv(envPrefix+"CONSOLE_ENABLED"), &cfg.ConsoleEnabled)

	if err := s.setDuration("shutdown-timeout", os.Getenv(envPrefix+"SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}

	return nil
}
