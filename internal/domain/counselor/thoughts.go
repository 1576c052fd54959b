package counselor

import "sync"

// ThoughtLog is a bounded FIFO of reasoning notes. Once full, the oldest
// entry is dropped.
type ThoughtLog struct {
	mu       sync.Mutex
	entries  []string
	capacity int
}

const DefaultThoughtCapacity = 15

func NewThoughtLog(capacity int) *ThoughtLog {
	if capacity <= 0 {
		capacity = DefaultThoughtCapacity
	}
	return &ThoughtLog{capacity: capacity}
}

func (l *ThoughtLog) Add(thought string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, thought)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[1:]
	}
}

// Entries returns a copy of the log, oldest first.
func (l *ThoughtLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *ThoughtLog) Capacity() int { return l.capacity }
