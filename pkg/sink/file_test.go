package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/corewave-labs/bulkstream/pkg/bulk"
	"github.com/corewave-labs/bulkstream/pkg/log"
)

func TestFile_EmitCreatesUniquelyNamedFileWithLineContents(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir, 1, log.NewNoopLogger())

	first := time.Unix(1700000000, 123456000)
	b := bulk.NewBulk([]string{"a", "b"}, first, "7", 3)
	f.Emit(b)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}

	name := entries[0].Name()
	want := "bulk1700000000_123456_7_3_1_000001.log"
	if name != want {
		t.Fatalf("filename = %q, want %q", name, want)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := strings.TrimRight(string(data), "\n")
	if got != "bulk: a, b" {
		t.Fatalf("contents = %q, want %q", got, "bulk: a, b")
	}
}

func TestFile_CounterIncreasesMonotonicallyPerEmit(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir, 2, log.NewNoopLogger())

	for i := 0; i < 3; i++ {
		f.Emit(bulk.NewBulk([]string{"x"}, time.Now(), "0", uint64(i)))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 files, got %d", len(entries))
	}

	suffixes := map[string]bool{"000001": false, "000002": false, "000003": false}
	for _, e := range entries {
		for suf := range suffixes {
			if strings.Contains(e.Name(), "_"+suf+".log") {
				suffixes[suf] = true
			}
		}
	}
	for suf, seen := range suffixes {
		if !seen {
			t.Fatalf("expected a file with counter %s among %v", suf, entries)
		}
	}
}

func TestFile_EmitIgnoresEmptyCommands(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir, 1, log.NewNoopLogger())
	f.Emit(bulk.Bulk{})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files for empty commands, got %v", entries)
	}
}

func TestFile_CreateFailureIsDroppedNotPanicked(t *testing.T) {
	// Pre-create the exact file the sink would write, forcing O_EXCL to fail.
	dir := t.TempDir()
	f := NewFile(dir, 1, log.NewNoopLogger())

	first := time.Unix(1700000000, 0)
	b := bulk.NewBulk([]string{"x"}, first, "0", 0)
	name := filename(b, 1, 1)
	if err := os.WriteFile(filepath.Join(dir, name), []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	f.Emit(b) // must not panic despite the collision
}
