package geo

import "sync"

// TrackBuffer keeps a rolling window of fixes and derives course over ground
// from the oldest to the newest one.
type TrackBuffer struct {
	mu         sync.RWMutex
	fixes      []Point
	windowSize int
}

// NewTrackBuffer creates a buffer holding at most windowSize fixes (min 2).
func NewTrackBuffer(windowSize int) *TrackBuffer {
	return &TrackBuffer{
		windowSize: max(windowSize, 2),
	}
}

// Push records a fix and returns the course over the window. With fewer than
// two distinct fixes the course is unknown and ok is false.
func (b *TrackBuffer) Push(p Point) (course float64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.fixes = append(b.fixes, p)
	if len(b.fixes) > b.windowSize {
		b.fixes = b.fixes[1:]
	}

	first, last := b.fixes[0], b.fixes[len(b.fixes)-1]
	if len(b.fixes) < 2 || first == last {
		return 0, false
	}
	return Bearing(first, last), true
}

// Len returns the number of fixes held.
func (b *TrackBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.fixes)
}

// Reset clears the buffer history.
func (b *TrackBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fixes = nil
}
