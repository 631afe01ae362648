package sink

import (
	"fmt"
	"sync/atomic"

	"github.com/corewave-labs/bulkstream/internal/adapters/fs"
	"github.com/corewave-labs/bulkstream/internal/ports"
	"github.com/corewave-labs/bulkstream/pkg/bulk"
	"github.com/corewave-labs/bulkstream/pkg/log"
)

// File formats and writes a Bulk to a uniquely-named file in a
// directory (spec §4.3, C3). Each File is owned by exactly one
// Dispatcher file worker and carries that worker's 1-based thread
// index, which feeds the filename contract alongside a local counter
// this sink alone increments.
type File struct {
	dir         string
	threadIndex int
	counter     atomic.Uint64
	logger      ports.Logger
}

// NewFile creates a File sink that writes into dir, tagging every
// filename with threadIndex (the owning worker's 1-based position in
// the Dispatcher's file-worker pool).
func NewFile(dir string, threadIndex int, logger ports.Logger) *File {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &File{dir: dir, threadIndex: threadIndex, logger: logger}
}

// Emit constructs the spec §6 filename from b's first_time, context
// id, and sequence, this sink's thread index, and the post-increment
// local counter, then writes the single console-format line into a
// newly created file. A creation failure is logged (K2) and the Bulk
// is dropped for this sink only; other sinks are unaffected.
func (f *File) Emit(b bulk.Bulk) {
	if len(b.Commands) == 0 {
		return
	}

	counter := f.counter.Add(1)
	name := filename(b, f.threadIndex, counter)

	file, err := fs.CreateExclusive(f.dir, name)
	if err != nil {
		f.logger.Error("file sink create failed",
			ports.String("filename", name),
			ports.String("context_id", b.ContextID),
			ports.Uint64("sequence", b.Sequence),
			ports.Err(err),
		)
		return
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, b.Line()); err != nil {
		f.logger.Error("file sink write failed",
			ports.String("filename", name),
			ports.Err(err),
		)
	}
}

// filename renders "bulk<SEC>_<USEC6>_<CTXID>_<SEQ>_<WIDX>_<FILECTR6>.log"
// per spec §6, zero-padding microseconds and the local counter to 6
// digits each.
func filename(b bulk.Bulk, threadIndex int, counter uint64) string {
	sec := b.FirstTime.Unix()
	usec := b.FirstTime.Nanosecond() / 1000
	return fmt.Sprintf("bulk%d_%06d_%s_%d_%d_%06d.log",
		sec, usec, b.ContextID, b.Sequence, threadIndex, counter)
}
