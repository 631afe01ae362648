// Command bulkserver is a TCP front-end over the bulkstream library: it
// accepts one connection per producer, feeds each inbound chunk to
// Receive, and disconnects on EOF, exactly the connect/receive/
// disconnect session shape spec §6 assigns to an out-of-scope
// transport. The cobra command, layered config loading, and signal
// handling are adapted from the teacher's cmd/walship/main.go.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/corewave-labs/bulkstream"
	"github.com/corewave-labs/bulkstream/internal/cliconfig"
	"github.com/corewave-labs/bulkstream/pkg/log"
	"github.com/corewave-labs/bulkstream/plugins/reloadwatcher"
)

const helpBanner = `
 █████   ███   █████   █████████   █████        █████████  █████   █████ █████ ███████████
░░███   ░███  ░░███   ███░░░░░███ ░░███        ███░░░░░███░░███   ░░███ ░░███ ░░███░░░░░███
 ░███   ░███   ░███  ░███    ░███  ░███       ░███    ░░░  ░███    ░███  ░███  ░███    ░███
 ░███   ░███   ░███  ░███████████  ░███       ░░█████████  ░███████████  ░███  ░██████████
 ░░███  █████  ███   ░███░░░░░███  ░███        ░░░░░░░░███ ░███░░░░░███  ░███  ░███░░░░░░
  ░░░█████░█████░    ░███    ░███  ░███      █ ███    ░███ ░███    ░███  ░███  ░███
    ░░███ ░░███      █████   █████ ███████████░░█████████  █████   █████ █████ █████
     ░░░   ░░░      ░░░░░   ░░░░░ ░░░░░░░░░░░  ░░░░░░░░░  ░░░░░   ░░░░░ ░░░░░ ░░░░░
`

const helpDescription = `
Accept newline-delimited command streams over TCP and batch them into
bulks for a console sink and a pool of file sinks.

Highlights:
  - One static-size or dynamic-block batching policy per connection.
  - Configure via file, env, or flags, with file < env < flag precedence.
  - Optional hot-reload of log level and console output without a restart.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  bulkserver --listen :9090 --output-dir /var/log/bulks
  bulkserver --config $HOME/.bulkstream/config.toml --reload-watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// toggleWriter gates writes behind an atomic enabled flag, letting
// reloadwatcher flip the console sink on and off without tearing down
// the Dispatcher it belongs to.
type toggleWriter struct {
	out     *os.File
	enabled atomic.Bool
}

func newToggleWriter(out *os.File, enabled bool) *toggleWriter {
	w := &toggleWriter{out: out}
	w.enabled.Store(enabled)
	return w
}

func (w *toggleWriter) Write(p []byte) (int, error) {
	if !w.enabled.Load() {
		return len(p), nil
	}
	return w.out.Write(p)
}

// reloadHandler implements reloadwatcher.Handler, applying the two
// tunables spec's reload scope permits: log level and console on/off.
// It never sees static_size or file-worker count, so there is no path
// by which a config edit could touch those structural values.
type reloadHandler struct {
	console *toggleWriter
	logger  zerolog.Logger
}

func (h *reloadHandler) SetLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		h.logger.Warn().Str("level", level).Msg("reloadwatcher: unknown log level, ignoring")
		return
	}
	zerolog.SetGlobalLevel(lvl)
}

func (h *reloadHandler) SetConsoleEnabled(enabled bool) {
	h.console.enabled.Store(enabled)
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	root := &cobra.Command{
		Use:     "bulkserver",
		Short:   "Accept command streams over TCP and batch them into bulks",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			zlog.Info().Interface("config", cfg).Msg("configuration")

			lvl, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				lvl = zerolog.InfoLevel
			}
			zerolog.SetGlobalLevel(lvl)

			logger := log.NewZerologAdapterWithLogger(zlog)
			console := newToggleWriter(os.Stdout, cfg.ConsoleEnabled)

			bulkstream.Configure(
				bulkstream.WithLogger(logger),
				bulkstream.WithFileWorkers(cfg.FileWorkers),
				bulkstream.WithOutputDir(cfg.OutputDir),
				bulkstream.WithQueueCapacity(cfg.QueueCapacity),
				bulkstream.WithConsoleWriter(console),
			)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if cfg.ReloadWatch && cfgFile != "" {
				handler := &reloadHandler{console: console, logger: zlog}
				watcher := reloadwatcher.New(cfgFile, handler, reloadwatcher.DefaultConfig(), logger)
				if err := watcher.Start(ctx); err != nil {
					zlog.Warn().Err(err).Msg("reloadwatcher: failed to start, continuing without hot-reload")
				} else {
					defer watcher.Stop()
				}
			}

			listener, err := net.Listen("tcp", cfg.ListenAddr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			zlog.Info().Str("addr", cfg.ListenAddr).Msg("listening")

			var wg sync.WaitGroup
			go acceptLoop(ctx, listener, cfg.StaticSize, zlog, &wg)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			zlog.Info().Msg("received signal, stopping...")

			cancel()
			listener.Close()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(cfg.ShutdownTimeout):
				zlog.Warn().Dur("timeout", cfg.ShutdownTimeout).Msg("shutdown timeout, open connections not drained")
			}

			bulkstream.Shutdown()
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.bulkstream/config.toml)")
	root.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "TCP address to accept connections on")
	root.Flags().UintVar(&cfg.StaticSize, "static-size", cfg.StaticSize, "default static block size for accepted connections")
	root.Flags().IntVar(&cfg.FileWorkers, "file-workers", cfg.FileWorkers, "file sink worker pool size")
	root.Flags().StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory bulk log files are written into")
	root.Flags().IntVar(&cfg.QueueCapacity, "queue-capacity", cfg.QueueCapacity, "per-worker queue capacity")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.Flags().BoolVar(&cfg.ReloadWatch, "reload-watch", cfg.ReloadWatch, "hot-reload log level and console on/off from the config file")
	root.Flags().BoolVar(&cfg.ConsoleEnabled, "console", cfg.ConsoleEnabled, "enable the console sink")
	root.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")

	if err := root.Execute(); err != nil {
		zlog.Error().Err(err).Msg("bulkserver")
		os.Exit(1)
	}
}

// acceptLoop accepts connections until ctx is cancelled or the listener
// is closed, spawning one session goroutine per connection.
func acceptLoop(ctx context.Context, listener net.Listener, staticSize uint, zlog zerolog.Logger, wg *sync.WaitGroup) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				zlog.Warn().Err(err).Msg("accept failed")
				return
			}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			handleConn(conn, staticSize, zlog)
		}()
	}
}

// handleConn drives one producer's connect/receive/disconnect session:
// connect once, forward every line read until EOF or error, disconnect.
func handleConn(conn net.Conn, staticSize uint, zlog zerolog.Logger) {
	defer conn.Close()

	handle := bulkstream.Connect(staticSize)
	if handle == bulkstream.ZeroHandle {
		zlog.Error().Str("remote", conn.RemoteAddr().String()).Msg("connect failed")
		return
	}
	defer bulkstream.Disconnect(handle)

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			bulkstream.Receive(handle, line)
		}
		if err != nil {
			return
		}
	}
}
