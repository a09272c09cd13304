package logging

import (
	"strings"
	"sync"
)

// TailSize is how many lines GlobalLogCapture keeps.
const TailSize = 100

// LogTail is an io.Writer that keeps the most recent log lines in a ring.
type LogTail struct {
	mu    sync.RWMutex
	lines []string
	next  int
	full  bool
}

// NewLogTail creates a LogTail holding up to size lines.
func NewLogTail(size int) *LogTail {
	if size < 1 {
		size = 1
	}
	return &LogTail{lines: make([]string, size)}
}

// GlobalLogCapture receives INFO and above from the server logger.
var GlobalLogCapture = NewLogTail(TailSize)

// Write stores p as one line. slog handlers write one record per call.
func (t *LogTail) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines[t.next] = line
	t.next = (t.next + 1) % len(t.lines)
	if t.next == 0 {
		t.full = true
	}
	return len(p), nil
}

// Last returns the most recent line, or "" if nothing was written.
func (t *LogTail) Last() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.full && t.next == 0 {
		return ""
	}
	return t.lines[(t.next-1+len(t.lines))%len(t.lines)]
}

// Tail returns up to n lines, oldest first.
func (t *LogTail) Tail(n int) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := t.next
	if t.full {
		count = len(t.lines)
	}
	n = min(max(n, 0), count)

	out := make([]string, 0, n)
	for i := n; i > 0; i-- {
		out = append(out, t.lines[(t.next-i+len(t.lines))%len(t.lines)])
	}
	return out
}
