package app

import (
	"sync"

	"github.com/corewave-labs/bulkstream/internal/domain"
	"github.com/corewave-labs/bulkstream/internal/ports"
)

// Handle is the opaque, process-scoped token returned by Registry.Connect.
// It is a pointer to the Context's own stable memory identity (spec §9:
// "the registry's key can still be the Context's stable memory identity
// internally"), wrapped so callers cannot reach into the Context itself.
type Handle struct {
	ctx *domain.Context
}

// Zero is the sentinel null handle returned on connect failure (K1) and
// accepted as a silent no-op by Receive/Disconnect (K4).
var Zero = Handle{}

func (h Handle) valid() bool { return h.ctx != nil }

// Registry is the process-wide map from Handle to Context (C6). It
// mediates the public connect/receive/disconnect surface and acquires
// one reference to the shared Dispatcher per Connect, released by the
// matching Disconnect (or by Shutdown).
//
// Lookups proceed concurrently; insertions and removals are exclusive
// (spec §4.6's readers-writer discipline, mirroring the reference
// ContextManager's std::shared_mutex).
type Registry struct {
	mu       sync.RWMutex
	contexts map[*domain.Context]struct{}

	logger     ports.Logger
	dispatcher DispatcherConfig
}

// NewRegistry creates a Registry that will acquire the shared Dispatcher
// described by cfg on first Connect.
func NewRegistry(logger ports.Logger, cfg DispatcherConfig) *Registry {
	return &Registry{
		contexts:   make(map[*domain.Context]struct{}),
		logger:     logger,
		dispatcher: cfg,
	}
}

// Connect allocates a Context with the given static block size,
// acquires a reference to the shared Dispatcher, and registers the
// Context under a freshly minted Handle. On failure it logs to the
// diagnostic stream and returns Zero (K1).
func (r *Registry) Connect(staticSize uint) Handle {
	d, err := AcquireGlobalDispatcher(r.dispatcher)
	if err != nil {
		r.logger.Error("connect: failed to acquire dispatcher", ports.Err(err))
		return Zero
	}

	ctx := domain.NewContext(staticSize, d)

	r.mu.Lock()
	r.contexts[ctx] = struct{}{}
	r.mu.Unlock()

	return Handle{ctx: ctx}
}

// Receive looks up the Context behind handle and forwards data to its
// Ingest method. An unknown or zero handle, or empty data, is a silent
// no-op (K4).
func (r *Registry) Receive(handle Handle, data []byte) {
	if !handle.valid() || len(data) == 0 {
		return
	}

	r.mu.RLock()
	_, ok := r.contexts[handle.ctx]
	r.mu.RUnlock()
	if !ok {
		return
	}

	handle.ctx.Ingest(data)
}

// Disconnect flushes and removes the Context behind handle, then
// releases the Dispatcher reference its Connect acquired. Unknown
// or zero handles are a silent no-op; Disconnect is idempotent.
func (r *Registry) Disconnect(handle Handle) {
	if !handle.valid() {
		return
	}

	r.mu.Lock()
	_, ok := r.contexts[handle.ctx]
	if ok {
		delete(r.contexts, handle.ctx)
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	handle.ctx.Flush()
	ReleaseGlobalDispatcher()
}

// Shutdown flushes and removes every remaining Context, then releases
// one Dispatcher reference per Context that was still connected. This
// mirrors the reference implementation's GlobalCleanup: ContextManager's
// clearAll followed by GlobalThreadManager's shutdown, surfaced here as
// an explicit call since Go has no static destructor hook.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	remaining := make([]*domain.Context, 0, len(r.contexts))
	for ctx := range r.contexts {
		remaining = append(remaining, ctx)
	}
	r.contexts = make(map[*domain.Context]struct{})
	r.mu.Unlock()

	for _, ctx := range remaining {
		ctx.Flush()
		ReleaseGlobalDispatcher()
	}
}
