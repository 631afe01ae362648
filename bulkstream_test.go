package bulkstream_test

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/corewave-labs/bulkstream"
)

func TestConnectReceiveDisconnect_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	bulkstream.Configure(
		bulkstream.WithOutputDir(dir),
		bulkstream.WithFileWorkers(2),
		bulkstream.WithConsoleWriter(&console),
	)

	h := bulkstream.Connect(3)
	if h == bulkstream.ZeroHandle {
		t.Fatal("Connect returned ZeroHandle")
	}

	bulkstream.Receive(h, []byte("1\n2\n3\n4\n"))
	bulkstream.Disconnect(h)

	deadline := time.Now().Add(2 * time.Second)
	for console.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if console.Len() == 0 {
		t.Fatal("expected console output after disconnect")
	}

	deadline = time.Now().Add(2 * time.Second)
	for {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir: %v", err)
		}
		if len(entries) >= 4 { // 2 bulks * 2 file workers
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 4 files, got %d", len(entries))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestReceive_UnknownHandleIsNoop(t *testing.T) {
	bulkstream.Receive(bulkstream.ZeroHandle, []byte("x\n"))
	bulkstream.Disconnect(bulkstream.ZeroHandle) // must not panic
}
