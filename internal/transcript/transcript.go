// Package transcript appends session output to a log file and keeps a
// bounded in-memory tail for recall from the client.
package transcript

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

const maxEntries = 500

// Writer records session lines. Safe for concurrent use: the receive loop
// and the prompt loop both append.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	tail []string
}

// Open creates or appends to the transcript file at path.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	return &Writer{f: f}, nil
}

// Append records one line, timestamped, and retains it in the tail.
func (w *Writer) Append(line string) error {
	line = strings.TrimRight(line, "\r\n")
	stamp := time.Now().Format("2006-01-02 15:04:05")
	entry := fmt.Sprintf("[%s] %s", stamp, line)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.tail = append(w.tail, entry)
	if len(w.tail) > maxEntries {
		w.tail = w.tail[len(w.tail)-maxEntries:]
	}
	if w.f == nil {
		return nil
	}
	_, err := fmt.Fprintln(w.f, entry)
	return err
}

// Tail returns up to n of the most recent entries, oldest first.
func (w *Writer) Tail(n int) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n <= 0 || n > len(w.tail) {
		n = len(w.tail)
	}
	out := make([]string, n)
	copy(out, w.tail[len(w.tail)-n:])
	return out
}

// Close flushes and releases the file. Safe to call more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}
