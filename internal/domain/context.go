package domain

import (
	"bytes"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// timeNow is swapped out in tests that need to observe monotonic
// first_time values deterministically.
var timeNow = time.Now

// nextContextID backs the process-wide monotonically increasing counter
// Context ids are derived from, mirroring next_context_id in the
// reference AsyncBulkCommandManager.
var nextContextID atomic.Uint64

// Context is one producer's parsing and bulk-assembly state. It is
// created by connect, mutated only by its owning producer's calls to
// Ingest, and destroyed by disconnect or process exit. A Context is not
// internally synchronized across producers: concurrent Ingest calls on
// the same Context are the caller's responsibility (spec §4.6).
type Context struct {
	contextID        string
	staticSize       uint
	pending          []string
	pendingFirstTime time.Time
	depthStack       []uint
	byteBuffer       []byte
	sequenceCounter  uint64
	submitter        Submitter
}

// NewContext creates a Context with the given static block size (0
// disables size-based emission) and a Submitter to hand completed Bulks
// to. The context id is assigned from the process-wide counter.
func NewContext(staticSize uint, submitter Submitter) *Context {
	id := nextContextID.Add(1) - 1
	return &Context{
		contextID:  strconv.FormatUint(id, 10),
		staticSize: staticSize,
		submitter:  submitter,
	}
}

// ID returns this Context's stable textual identifier.
func (c *Context) ID() string {
	return c.contextID
}

// Ingest appends data to the byte buffer, splits off every
// newline-terminated prefix as a raw token, and feeds each to the state
// machine. Bytes following the last newline remain buffered for the
// next call, so Ingest is safe to call with input chunked at any byte
// boundary, including mid-command or mid-marker-line.
func (c *Context) Ingest(data []byte) {
	if len(data) == 0 {
		return
	}
	c.byteBuffer = append(c.byteBuffer, data...)

	for {
		idx := bytes.IndexByte(c.byteBuffer, '\n')
		if idx < 0 {
			break
		}
		token := string(c.byteBuffer[:idx])
		c.byteBuffer = c.byteBuffer[idx+1:]
		c.handleToken(token)
	}

	// Compact the remaining carry-over so repeated Ingest calls don't
	// keep growing the same backing array via re-slicing.
	if len(c.byteBuffer) == 0 {
		c.byteBuffer = nil
		return
	}
	rem := make([]byte, len(c.byteBuffer))
	copy(rem, c.byteBuffer)
	c.byteBuffer = rem
}

// Flush drains any unterminated carry-over as one last token, then, only
// if the Context is currently in S-Static, emits any remaining pending
// commands as a final Bulk. A Context flushed while still inside an
// open dynamic block discards pending commands and the open block: a
// dynamic block is only ever defined by its matching close.
func (c *Context) Flush() {
	if len(c.byteBuffer) > 0 {
		token := string(c.byteBuffer)
		c.byteBuffer = nil
		c.handleToken(token)
	}
	if !c.inDynamic() {
		c.emitPending()
	}
}

func (c *Context) handleToken(raw string) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return
	}
	switch token {
	case "{":
		c.openDynamic()
	case "}":
		c.closeDynamic()
	default:
		c.addCommand(token)
	}
}

func (c *Context) addCommand(cmd string) {
	if len(c.pending) == 0 {
		c.pendingFirstTime = timeNow()
	}
	c.pending = append(c.pending, cmd)

	if !c.inDynamic() && c.staticSize > 0 && uint(len(c.pending)) >= c.staticSize {
		c.emitPending()
	}
}

func (c *Context) openDynamic() {
	if !c.inDynamic() {
		c.emitPending()
	}
	c.depthStack = append(c.depthStack, c.staticSize)
	c.staticSize = 0
}

func (c *Context) closeDynamic() {
	if !c.inDynamic() {
		// Stray '}' with no matching open: ignored (K3).
		return
	}
	depth := len(c.depthStack)
	if depth == 1 {
		c.emitPending()
	}
	c.staticSize = c.depthStack[depth-1]
	c.depthStack = c.depthStack[:depth-1]
}

// inDynamic derives I6: dynamic-block depth equals len(depthStack), and
// in_dynamic is exactly depthStack not empty.
func (c *Context) inDynamic() bool {
	return len(c.depthStack) > 0
}

func (c *Context) emitPending() {
	if len(c.pending) == 0 {
		return
	}
	seq := c.sequenceCounter
	c.sequenceCounter++

	b := NewBulk(c.pending, c.pendingFirstTime, c.contextID, seq)
	c.pending = nil
	c.pendingFirstTime = time.Time{}

	if c.submitter != nil {
		c.submitter.Submit(b)
	}
}
