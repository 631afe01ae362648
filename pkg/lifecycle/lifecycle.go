// Package lifecycle exports the Dispatcher's start/stop state machine
// (adapted from the teacher's pkg/lifecycle, generalized here from an
// agent's running/stopped states to the Dispatcher's worker-pool
// states). Aliasing internal/app's types keeps exactly one
// implementation while letting embedders observe Dispatcher state
// without an internal import.
package lifecycle

import "github.com/corewave-labs/bulkstream/internal/app"

// State is the lifecycle state of the Dispatcher singleton.
type State = app.State

// Manager is the start/stop state machine shared by the Dispatcher.
type Manager = app.Lifecycle

const (
	Stopped  = app.StateStopped
	Starting = app.StateStarting
	Running  = app.StateRunning
	Stopping = app.StateStopping
	Crashed  = app.StateCrashed
)

// ShutdownTimeout is the maximum time Stop waits for every worker to
// drain its queue and exit before giving up. Quiesce is not bounded by it.
const ShutdownTimeout = app.ShutdownTimeout
