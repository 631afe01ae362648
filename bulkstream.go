// Package bulkstream accepts streams of newline-delimited textual
// commands from many independent producers ("contexts"), groups them
// into bulks per a per-context batching policy mixing fixed-size and
// explicitly-delimited dynamic blocks, and dispatches each completed
// bulk asynchronously to a shared console sink and a pool of file
// sinks (spec §1–§2).
//
// # Basic usage
//
//	bulkstream.Configure(
//	    bulkstream.WithOutputDir("/var/log/bulks"),
//	    bulkstream.WithFileWorkers(2),
//	)
//
//	h := bulkstream.Connect(3) // static block size 3
//	bulkstream.Receive(h, []byte("cmd1\ncmd2\ncmd3\n"))
//	bulkstream.Disconnect(h)
//
//	// at process exit:
//	bulkstream.Shutdown()
//
// Connect/Receive/Disconnect form the public surface a TCP front-end
// (out of scope, spec §6) drives per accepted connection: connect once
// per session, receive on every inbound chunk, disconnect on EOF or
// error. No error crosses this boundary (spec §7): unknown handles,
// empty reads, and sink I/O failures are all silent from the caller's
// point of view and are instead reported through the configured
// Logger.
package bulkstream

import (
	"io"
	"os"
	"sync"

	"github.com/corewave-labs/bulkstream/internal/ports"
	"github.com/corewave-labs/bulkstream/pkg/dispatch"
	"github.com/corewave-labs/bulkstream/pkg/log"
	"github.com/corewave-labs/bulkstream/pkg/registry"
	"github.com/corewave-labs/bulkstream/pkg/sink"
)

// Handle is the opaque, process-scoped token returned by Connect.
type Handle = registry.Handle

// ZeroHandle is the sentinel null handle: the return value of a failed
// Connect (K1), and a silent no-op when passed to Receive or Disconnect
// (K4).
var ZeroHandle = registry.Zero

// DefaultFileWorkers is the reference file-worker pool size (spec §4.4).
const DefaultFileWorkers = 2

var (
	globalMu     sync.Mutex
	globalOpts   options
	globalReg    *registry.Registry
	didConfigure bool
)

// Configure sets the package-level options the Dispatcher and Registry
// singletons are built from. It has effect only the first time it
// runs — before the first Connect, Receive, or Disconnect call — since
// the singletons, once created, live for the process (spec §9). Later
// calls are no-ops until Shutdown resets the singletons. A
// pkg/registry.Registry built directly takes its own options, but the
// Dispatcher stays a process-wide singleton: a Registry's dispatcher
// configuration takes effect only when its Connect is the one that
// creates it.
func Configure(opts ...Option) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if didConfigure {
		return
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	globalOpts = o
	didConfigure = true
}

func instance() *registry.Registry {
	globalMu.Lock()
	defer globalMu.Unlock()

	if !didConfigure {
		globalOpts = defaultOptions()
		didConfigure = true
	}
	if globalReg == nil {
		globalReg = registry.New(globalOpts.logger, dispatchConfig(globalOpts))
	}
	return globalReg
}

func dispatchConfig(o options) dispatch.Config {
	logger := o.logger
	return dispatch.Config{
		Logger:      logger,
		ConsoleSink: sink.NewConsole(o.consoleOut, logger),
		FileWorkers: o.fileWorkers,
		NewFileSink: func(threadIndex int) ports.Sink {
			return sink.NewFile(o.outputDir, threadIndex, logger)
		},
		QueueCapacity: o.queueCapacity,
	}
}

// Connect allocates a Context with the given static block size (0
// disables size-based emission) and returns a handle for subsequent
// Receive/Disconnect calls. Matches spec §6's `connect(bulk) → handle`.
func Connect(staticSize uint) Handle {
	return instance().Connect(staticSize)
}

// Receive forwards data to the Context behind handle. An unknown
// handle, a zero handle, or empty data is a silent no-op (K4).
func Receive(handle Handle, data []byte) {
	instance().Receive(handle, data)
}

// Disconnect flushes and destroys the Context behind handle. Unknown
// handles are a silent no-op; Disconnect is idempotent.
func Disconnect(handle Handle) {
	instance().Disconnect(handle)
}

// Shutdown flushes and destroys every remaining Context and then
// quiesces and stops the Dispatcher, releasing the package-level
// singletons so a later Connect creates fresh ones. This is the
// library's answer to the reference implementation's static
// GlobalCleanup destructor (spec §9): Go has no such hook, so a
// collaborator (typically a signal handler in cmd/bulkserver) must
// call this explicitly at process exit.
func Shutdown() {
	globalMu.Lock()
	r := globalReg
	globalReg = nil
	didConfigure = false
	globalMu.Unlock()

	if r != nil {
		r.Shutdown()
	}
}

// options holds the package-level singleton configuration.
type options struct {
	logger        ports.Logger
	fileWorkers   int
	outputDir     string
	queueCapacity int
	consoleOut    io.Writer
}

func defaultOptions() options {
	return options{
		logger:        log.NewNoopLogger(),
		fileWorkers:   DefaultFileWorkers,
		outputDir:     ".",
		queueCapacity: dispatch.DefaultQueueCapacity,
		consoleOut:    os.Stdout,
	}
}

// Option configures the package-level Dispatcher/Registry singletons.
type Option func(*options)

// WithLogger sets the diagnostic logger every K1/K2/K5 error path
// reports to. The default is a no-op logger.
func WithLogger(logger ports.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithFileWorkers sets the file-worker pool size. The default is
// DefaultFileWorkers (2, the reference configuration).
func WithFileWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.fileWorkers = n
		}
	}
}

// WithOutputDir sets the directory file sinks create their uniquely
// named .log files in. The default is the current working directory.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.outputDir = dir
		}
	}
}

// WithQueueCapacity sets the buffered channel capacity backing every
// worker's FIFO queue.
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueCapacity = n
		}
	}
}

// WithConsoleWriter sets the shared output stream the console sink
// writes to. The default is os.Stdout.
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.consoleOut = w
		}
	}
}
