package sink

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/corewave-labs/bulkstream/pkg/bulk"
	"github.com/corewave-labs/bulkstream/pkg/log"
)

func TestConsole_EmitWritesCommaJoinedLine(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, log.NewNoopLogger())

	b := bulk.NewBulk([]string{"c1", "c2", "c3"}, time.Now(), "0", 0)
	c.Emit(b)

	got := strings.TrimRight(buf.String(), "\n")
	want := "bulk: c1, c2, c3"
	if got != want {
		t.Fatalf("Emit wrote %q, want %q", got, want)
	}
}

func TestConsole_EmitIgnoresEmptyCommands(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, log.NewNoopLogger())

	c.Emit(bulk.Bulk{})

	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty commands, got %q", buf.String())
	}
}

func TestConsole_NilLoggerFallsBackToNoop(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, nil)
	c.Emit(bulk.NewBulk([]string{"x"}, time.Now(), "0", 0))
	if buf.Len() == 0 {
		t.Fatal("expected output with nil logger")
	}
}
