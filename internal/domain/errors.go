package domain

import "errors"

// Sentinel errors shared by the domain and app layers. None of these ever
// cross the public connect/receive/disconnect boundary (spec: no error is
// ever surfaced back through receive); they exist for internal control flow
// and for the diagnostic log.
var (
	// ErrAlreadyRunning is returned when Start is called on a running Dispatcher.
	ErrAlreadyRunning = errors.New("bulkstream: already running")

	// ErrNotRunning is returned when Stop is called on a stopped Dispatcher.
	ErrNotRunning = errors.New("bulkstream: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("bulkstream: shutdown timeout")

	// ErrDispatcherStopped is logged when a Bulk is submitted after stop().
	// The spec treats this as a programming error; safe implementations may
	// drop or assert. This implementation drops and logs.
	ErrDispatcherStopped = errors.New("bulkstream: dispatcher stopped")
)
