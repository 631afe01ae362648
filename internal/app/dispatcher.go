package app

import (
	"sync"
	"time"

	"github.com/corewave-labs/bulkstream/internal/domain"
	"github.com/corewave-labs/bulkstream/internal/ports"
)

// QuiescePollInterval is how often Quiesce checks queue emptiness.
// Matches ThreadManager::waitForCompletion's 10ms poll in the reference
// implementation.
const QuiescePollInterval = 10 * time.Millisecond

// DefaultQueueCapacity sizes each worker's buffered channel, the
// idiomatic Go substitute for the reference implementation's
// mutex+condvar queue: a send blocks only when full, a receive blocks
// only when empty, which is the same wake-on-signal behavior without
// a separate condition variable.
const DefaultQueueCapacity = 256

// worker owns one Sink and the queue feeding it. Exactly one goroutine
// ever reads a given worker's queue.
type worker struct {
	name  string
	sink  ports.Sink
	queue chan domain.Bulk
}

func newWorker(name string, sink ports.Sink, capacity int) *worker {
	return &worker{name: name, sink: sink, queue: make(chan domain.Bulk, capacity)}
}

// Dispatcher is the process-wide fan-out engine (C4): one console
// worker and a fixed pool of file workers, each with its own queue.
// Submit enqueues a Bulk to every worker; each worker consumes its own
// queue independently, so ordering is preserved per-worker but not
// across workers (spec §4.4/§5).
type Dispatcher struct {
	lifecycle *Lifecycle
	logger    ports.Logger
	console   *worker
	files     []*worker
}

// NewDispatcher builds a Dispatcher around the given console and file
// sinks. It does not start any worker goroutine; call Start for that.
func NewDispatcher(logger ports.Logger, consoleSink ports.Sink, fileSinks []ports.Sink, queueCapacity int) *Dispatcher {
	if queueCapacity <= 0 {
		queueCapacity = DefaultQueueCapacity
	}
	files := make([]*worker, len(fileSinks))
	for i, s := range fileSinks {
		files[i] = newWorker("file", s, queueCapacity)
	}
	return &Dispatcher{
		lifecycle: NewLifecycle(logger),
		logger:    logger,
		console:   newWorker("console", consoleSink, queueCapacity),
		files:     files,
	}
}

// Start spins up one goroutine per worker. It is an error to Start a
// Dispatcher that is already running or that has been stopped.
func (d *Dispatcher) Start() error {
	if !d.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := d.lifecycle.TransitionTo(StateStarting, "dispatcher starting"); err != nil {
		return err
	}

	d.lifecycle.AddWorker()
	go d.runWorker(d.console)
	for _, fw := range d.files {
		d.lifecycle.AddWorker()
		go d.runWorker(fw)
	}

	return d.lifecycle.TransitionTo(StateRunning, "workers started")
}

func (d *Dispatcher) runWorker(w *worker) {
	defer d.lifecycle.WorkerDone()
	for b := range w.queue {
		w.sink.Emit(b)
	}
}

// Submit enqueues b on the console worker's queue, then on every file
// worker's queue (I5: a Bulk reaches all workers or none — Submit never
// enqueues partway and gives up). The enqueue order between workers is
// not observable and promises nothing about delivery order (spec §4.4).
// Submit satisfies domain.Submitter.
func (d *Dispatcher) Submit(b domain.Bulk) {
	if d.lifecycle.State() != StateRunning {
		d.logger.Warn("bulk submitted after dispatcher stopped",
			ports.String("context_id", b.ContextID),
			ports.Err(domain.ErrDispatcherStopped),
		)
		return
	}
	d.console.queue <- b
	for _, fw := range d.files {
		fw.queue <- b
	}
}

// Quiesce blocks until every worker queue is observed empty. It does
// not prevent further submissions; it only observes momentary
// emptiness, per spec §4.4.
func (d *Dispatcher) Quiesce() {
	for {
		if len(d.console.queue) == 0 && d.filesEmpty() {
			return
		}
		time.Sleep(QuiescePollInterval)
	}
}

func (d *Dispatcher) filesEmpty() bool {
	for _, fw := range d.files {
		if len(fw.queue) != 0 {
			return false
		}
	}
	return true
}

// Stop signals every worker to terminate once its queue drains, and
// waits up to ShutdownTimeout for them to do so. Submit after Stop logs
// and drops rather than panicking (spec: "safe implementations may drop
// or assert").
func (d *Dispatcher) Stop() error {
	if !d.lifecycle.CanStop() {
		return domain.ErrNotRunning
	}
	if err := d.lifecycle.TransitionTo(StateStopping, "dispatcher stopping"); err != nil {
		return err
	}

	close(d.console.queue)
	for _, fw := range d.files {
		close(fw.queue)
	}

	if err := d.lifecycle.WaitWithTimeout(ShutdownTimeout); err != nil {
		_ = d.lifecycle.TransitionTo(StateCrashed, "shutdown timeout")
		return err
	}
	return d.lifecycle.TransitionTo(StateStopped, "workers drained")
}

// Shutdown composes Quiesce then Stop, matching GlobalThreadManager's
// shutdown in the reference implementation.
func (d *Dispatcher) Shutdown() error {
	d.Quiesce()
	return d.Stop()
}

// DispatcherConfig describes how to build the singleton Dispatcher on first
// acquisition: the console sink, a factory for each file worker's sink
// (called once per index, 1-based, so a File sink can be constructed
// with its own thread index), and the worker count.
type DispatcherConfig struct {
	Logger        ports.Logger
	ConsoleSink   ports.Sink
	FileWorkers   int
	NewFileSink   func(threadIndex int) ports.Sink
	QueueCapacity int
}

var (
	globalMu   sync.Mutex
	global     *Dispatcher
	globalRefs int
)

// AcquireGlobalDispatcher lazily creates and starts the process-wide
// Dispatcher singleton on first call (mirroring
// GlobalThreadManager::instance().get()), and increments its reference
// count. Every Acquire must be matched by a ReleaseGlobalDispatcher.
func AcquireGlobalDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		fileSinks := make([]ports.Sink, cfg.FileWorkers)
		for i := range fileSinks {
			fileSinks[i] = cfg.NewFileSink(i + 1)
		}
		d := NewDispatcher(cfg.Logger, cfg.ConsoleSink, fileSinks, cfg.QueueCapacity)
		if err := d.Start(); err != nil {
			return nil, err
		}
		global = d
		globalRefs = 0
	}
	globalRefs++
	return global, nil
}

// ReleaseGlobalDispatcher decrements the singleton's reference count.
// When the count reaches zero, it shuts down and clears the singleton
// so a later Acquire creates a fresh Dispatcher (mirroring
// GlobalThreadManager::shutdown, generalized to the longest-holder
// lifetime spec §3 describes).
func ReleaseGlobalDispatcher() {
	globalMu.Lock()
	if global == nil {
		globalMu.Unlock()
		return
	}
	globalRefs--
	if globalRefs > 0 {
		globalMu.Unlock()
		return
	}
	d := global
	global = nil
	globalRefs = 0
	globalMu.Unlock()

	_ = d.Shutdown()
}
