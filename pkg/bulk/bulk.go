// Package bulk exports the Bulk value type assembled by a Context and
// consumed by the Dispatcher's sinks. It exists so embedders and
// external sink implementations can refer to the type without reaching
// into internal/domain directly.
package bulk

import (
	"time"

	"github.com/corewave-labs/bulkstream/internal/domain"
)

// Bulk is an immutable, completed group of commands produced by one
// Context (spec §3). See internal/domain.Bulk for field documentation;
// this is a type alias, not a copy, so values pass through the
// Dispatcher and sinks without conversion.
type Bulk = domain.Bulk

// Submitter is the narrow port a Context uses to hand off a completed
// Bulk to the Dispatcher.
type Submitter = domain.Submitter

// NewBulk constructs a Bulk. See internal/domain.NewBulk.
func NewBulk(commands []string, firstTime time.Time, contextID string, sequence uint64) Bulk {
	return domain.NewBulk(commands, firstTime, contextID, sequence)
}
