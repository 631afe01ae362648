// Package reloadwatcher watches a bulkstream TOML config file for
// changes and pushes non-structural tunables — log level and whether
// the console sink is enabled — into a running process without a
// restart. It never touches static_size or file-worker cardinality:
// those are structural, fixed at connect time or process start (spec's
// Data Model), and this plugin only ever reads values explicitly
// marked reloadable.
//
// The watch loop, debounce timer, and fsnotify wiring are adapted from
// the teacher's plugins/configwatcher, whose job was posting config
// file contents to a remote service on change; here the same shape —
// watch, debounce, callback — pushes parsed local tunables into a
// Handler instead of an HTTP request.
package reloadwatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corewave-labs/bulkstream/internal/cliconfig"
	"github.com/corewave-labs/bulkstream/internal/ports"
	"github.com/corewave-labs/bulkstream/pkg/log"
)

// Handler receives a tunable's new value after reloadwatcher observes
// a change and successfully reparses the config file.
type Handler interface {
	// SetLogLevel is called on every successful reload (including the
	// initial one at Start) whose file sets log_level, changed or not.
	SetLogLevel(level string)
	// SetConsoleEnabled is called on every successful reload whose file
	// sets console_enabled, changed or not.
	SetConsoleEnabled(enabled bool)
}

// Config holds reloadwatcher's own tunables.
type Config struct {
	// DebounceDelay waits this long after the last observed write
	// before reparsing, coalescing editor save bursts into one reload.
	DebounceDelay time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: 100 * time.Millisecond}
}

// Watcher watches one config file path and invokes a Handler on
// observed, successfully-parsed changes.
type Watcher struct {
	path          string
	debounceDelay time.Duration
	handler       Handler
	logger        ports.Logger

	mu       sync.Mutex
	debounce *time.Timer
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a Watcher for the config file at path. logger may be nil.
func New(path string, handler Handler, cfg Config, logger ports.Logger) *Watcher {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		path:          path,
		debounceDelay: cfg.DebounceDelay,
		handler:       handler,
		logger:        logger,
	}
}

// Start begins watching in the background. Start is idempotent only in
// the sense that calling it twice starts two watch loops; callers
// should Start once and Stop before a second Start.
func (w *Watcher) Start(ctx context.Context) error {
	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		cancel()
		return err
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		cancel()
		return err
	}

	w.wg.Add(1)
	go w.loop(watchCtx, watcher)

	// Apply the on-disk config once at startup so the handler reflects
	// reality before any change event fires.
	w.reload()

	return nil
}

// Stop halts the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer w.wg.Done()
	defer watcher.Close()

	target := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("reloadwatcher: watch error", ports.Err(err))
		}
	}
}

func (w *Watcher) debounceReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	if !cliconfig.FileExists(w.path) {
		return
	}
	fc, err := cliconfig.LoadFileConfig(w.path)
	if err != nil {
		w.logger.Warn("reloadwatcher: failed to parse config", ports.Err(err))
		return
	}

	if fc.LogLevel != "" {
		w.handler.SetLogLevel(fc.LogLevel)
	}
	if fc.ConsoleEnabled != nil {
		w.handler.SetConsoleEnabled(*fc.ConsoleEnabled)
	}
	w.logger.Info("reloadwatcher: applied config reload", ports.String("path", w.path))
}
