// Package dispatch exports the Dispatcher (C4): one console worker and
// a fixed pool of file workers, each with its own queue, fanning every
// completed Bulk out to every worker (spec §4.4). The implementation
// lives in internal/app; this package is the public door to it plus
// the process-wide singleton accessors the registry and a standalone
// embedder both use.
package dispatch

import (
	"github.com/corewave-labs/bulkstream/internal/app"
	"github.com/corewave-labs/bulkstream/internal/ports"
	"github.com/corewave-labs/bulkstream/pkg/bulk"
)

// Dispatcher is the process-wide fan-out engine described in spec §4.4.
type Dispatcher = app.Dispatcher

// Config describes how to build a Dispatcher: the console sink, a
// factory invoked once per file worker (1-based index, so each File
// sink can tag its own filenames), the file-worker pool size, and each
// worker's queue capacity.
type Config = app.DispatcherConfig

// QuiescePollInterval is how often Quiesce checks queue emptiness.
const QuiescePollInterval = app.QuiescePollInterval

// DefaultQueueCapacity sizes each worker's buffered channel when a
// Config leaves QueueCapacity unset.
const DefaultQueueCapacity = app.DefaultQueueCapacity

// New builds a Dispatcher around the given sinks without starting any
// worker goroutine; call Start to do that. Most callers should prefer
// AcquireGlobal, which also manages the singleton's reference count.
func New(logger ports.Logger, consoleSink ports.Sink, fileSinks []ports.Sink, queueCapacity int) *Dispatcher {
	return app.NewDispatcher(logger, consoleSink, fileSinks, queueCapacity)
}

// AcquireGlobal lazily creates and starts the process-wide Dispatcher
// singleton on first call, and increments its reference count. Every
// AcquireGlobal must be matched by a ReleaseGlobal.
func AcquireGlobal(cfg Config) (*Dispatcher, error) {
	return app.AcquireGlobalDispatcher(cfg)
}

// ReleaseGlobal decrements the singleton's reference count, shutting it
// down and clearing it once the count reaches zero.
func ReleaseGlobal() {
	app.ReleaseGlobalDispatcher()
}

// Submitter is the interface a Context submits completed Bulks through;
// *Dispatcher satisfies it.
type Submitter = bulk.Submitter
