package activity

import (
	"sync"
	"time"
)

// Kinds of activity, one per journal event.
const (
	KindTaskCreated   = "task_created"
	KindTaskCompleted = "task_completed"
	KindTaskCancelled = "task_cancelled"
	KindTaskReopened  = "task_reopened"
	KindTaskDeleted   = "task_deleted"
	KindEventRecorded = "event_recorded"
	KindNoteCreated   = "note_created"
)

// Entry is one line of the activity feed.
type Entry struct {
	Kind      string    `json:"kind"`
	SubjectID string    `json:"subject_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}

// Summary counts every entry ever recorded, including those the feed has
// since dropped.
type Summary struct {
	Total  int64            `json:"total"`
	ByKind map[string]int64 `json:"by_kind"`
}

// Feed is a bounded, thread-safe list of recent journal activity. Once full
// the oldest entries are dropped.
type Feed struct {
	mu      sync.RWMutex
	entries []Entry
	counts  map[string]int64
	total   int64
	limit   int
}

// NewFeed creates a feed that keeps at most limit entries.
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 1
	}
	return &Feed{
		entries: make([]Entry, 0, limit),
		counts:  make(map[string]int64),
		limit:   limit,
	}
}

// Record appends an entry.
func (f *Feed) Record(entry Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, entry)
	if len(f.entries) > f.limit {
		excess := len(f.entries) - f.limit
		f.entries = append(f.entries[:0:0], f.entries[excess:]...)
	}
	f.counts[entry.Kind]++
	f.total++
}

// Recent returns up to n entries, newest first.
func (f *Feed) Recent(n int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if n <= 0 || n > len(f.entries) {
		n = len(f.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(f.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, f.entries[i])
	}
	return out
}

// Summary returns the running counts.
func (f *Feed) Summary() Summary {
	f.mu.RLock()
	defer f.mu.RUnlock()

	byKind := make(map[string]int64, len(f.counts))
	for kind, n := range f.counts {
		byKind[kind] = n
	}
	return Summary{Total: f.total, ByKind: byKind}
}
