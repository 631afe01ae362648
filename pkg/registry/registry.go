// Package registry exports the Context registry (C6): the process-wide
// map from opaque handle to Context mediating connect/receive/
// disconnect (spec §4.6). The implementation lives in internal/app;
// this package is the public door to it.
package registry

import (
	"github.com/corewave-labs/bulkstream/internal/app"
	"github.com/corewave-labs/bulkstream/internal/ports"
	"github.com/corewave-labs/bulkstream/pkg/dispatch"
)

// Handle is the opaque, process-scoped token returned by Connect.
type Handle = app.Handle

// Zero is the sentinel null handle returned on connect failure and
// accepted as a silent no-op by Receive/Disconnect.
var Zero = app.Zero

// Registry is the process-wide map from Handle to Context.
type Registry = app.Registry

// New creates a Registry that will acquire the shared Dispatcher
// described by cfg on first Connect.
func New(logger ports.Logger, cfg dispatch.Config) *Registry {
	return app.NewRegistry(logger, cfg)
}
