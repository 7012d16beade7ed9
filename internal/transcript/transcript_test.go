package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.txt")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer w.Close()

	for _, line := range []string{"first", "second", "third"} {
		if err := w.Append(line); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	tail := w.Tail(2)
	if len(tail) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(tail))
	}
	// Oldest first, each entry timestamped.
	if !strings.HasSuffix(tail[0], "second") || !strings.HasSuffix(tail[1], "third") {
		t.Errorf("Wrong tail order: %v", tail)
	}
	if !strings.HasPrefix(tail[0], "[") {
		t.Errorf("Entry missing timestamp: %q", tail[0])
	}
}

func TestTailLargerThanHistory(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "client.txt"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer w.Close()

	w.Append("only")
	tail := w.Tail(50)
	if len(tail) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(tail))
	}
}

func TestAppendPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.txt")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	w.Append("hello world")
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close is idempotent.
	if err := w.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "hello world") {
		t.Errorf("Transcript missing entry: %q", string(data))
	}

	// Reopening appends rather than truncating.
	w, err = Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	w.Append("second session")
	w.Close()

	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "hello world") || !strings.Contains(string(data), "second session") {
		t.Errorf("Reopen truncated the transcript: %q", string(data))
	}
}

func TestTailBounded(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "client.txt"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer w.Close()

	for i := 0; i < maxEntries+10; i++ {
		w.Append("entry")
	}
	if got := len(w.Tail(0)); got != maxEntries {
		t.Errorf("Expected tail capped at %d, got %d", maxEntries, got)
	}
}
