package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/corewave-labs/bulkstream/internal/ports"
	"github.com/corewave-labs/bulkstream/pkg/bulk"
	"github.com/corewave-labs/bulkstream/pkg/log"
)

// Console formats and writes a Bulk as a single line to a shared
// textual output (spec §4.2, C2). It is written only from the
// Dispatcher's single console worker goroutine, so the embedded mutex
// only matters when an embedder calls Emit on the same Console from
// other goroutines; it does not guard writes made to the io.Writer
// without going through Emit. The worker itself never calls Emit
// concurrently with itself.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	logger ports.Logger
}

// NewConsole creates a Console sink writing to out. A nil logger falls
// back to discarding diagnostics.
func NewConsole(out io.Writer, logger ports.Logger) *Console {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Console{out: out, logger: logger}
}

// Emit writes "bulk: c1, c2, …, cN\n" to the underlying writer. An
// empty commands list never occurs per I1; it is a defensive no-op
// rather than a panic. Write failures are logged (K5) and otherwise
// swallowed — the spec surfaces no error back through Emit.
func (c *Console) Emit(b bulk.Bulk) {
	if len(b.Commands) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintln(c.out, b.Line()); err != nil {
		c.logger.Error("console sink write failed",
			ports.String("context_id", b.ContextID),
			ports.Uint64("sequence", b.Sequence),
			ports.Err(err),
		)
	}
}
