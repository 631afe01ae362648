package domain

import (
	"strings"
	"time"
)

// Bulk is an immutable, completed group of commands produced by one
// Context. It is shared by reference between the submitting Context and
// every consuming worker; nothing mutates it after construction.
type Bulk struct {
	// Commands is the ordered, non-empty sequence of non-empty strings
	// that make up this Bulk (I1).
	Commands []string

	// FirstTime is the wall-clock timestamp captured when the first
	// command of this Bulk was accepted by its Context.
	FirstTime time.Time

	// ContextID is the textual identifier of the originating Context.
	ContextID string

	// Sequence is the monotonically increasing, gap-free number this
	// Context assigned at completion (I3), starting at 0.
	Sequence uint64
}

// NewBulk constructs a Bulk, copying commands so the caller's pending
// slice can be reused without aliasing the emitted value.
func NewBulk(commands []string, firstTime time.Time, contextID string, sequence uint64) Bulk {
	cp := make([]string, len(commands))
	copy(cp, commands)
	return Bulk{
		Commands:  cp,
		FirstTime: firstTime,
		ContextID: contextID,
		Sequence:  sequence,
	}
}

// Line renders the shared textual form used by both sinks (spec §6):
// "bulk: c1, c2, …, cN", with no trailing newline.
func (b Bulk) Line() string {
	return "bulk: " + strings.Join(b.Commands, ", ")
}

// Submitter is the narrow port a Context uses to hand off a completed
// Bulk. The Dispatcher is the production implementation; tests can
// supply a trivial recorder without importing internal/app.
type Submitter interface {
	Submit(Bulk)
}
