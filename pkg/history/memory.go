package history

import (
	"net/url"
	"sync"
)

// Memory is an in-process History backed by an entry stack. It gives tests
// and server-side rendering real push/replace/back semantics without a
// browser. The zero value is not usable; call NewMemory.
type Memory struct {
	mu      sync.RWMutex
	entries []url.Values
	index   int

	subMu sync.Mutex
	subs  map[uint64]func()
	next  uint64
}

// NewMemory creates a memory history with a single empty entry.
func NewMemory() *Memory {
	return &Memory{
		entries: []url.Values{{}},
		subs:    make(map[uint64]func()),
	}
}

// NewMemoryFromQuery creates a memory history whose initial entry holds the
// parameters parsed from rawQuery. Malformed input yields an empty entry.
func NewMemoryFromQuery(rawQuery string) *Memory {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	m := NewMemory()
	m.entries[0] = values
	return m
}

// Params returns a copy of the current entry's parameters.
func (m *Memory) Params() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return CloneValues(m.entries[m.index])
}

// Replace overwrites the current entry without creating a new one.
func (m *Memory) Replace(values url.Values) {
	m.mu.Lock()
	m.entries[m.index] = CloneValues(values)
	m.mu.Unlock()
}

// Push appends a new entry and makes it current, discarding any forward
// entries, like a browser would.
func (m *Memory) Push(values url.Values) {
	m.mu.Lock()
	m.entries = append(m.entries[:m.index+1], CloneValues(values))
	m.index = len(m.entries) - 1
	m.mu.Unlock()
}

// Back moves one entry backwards and notifies subscribers, mirroring a
// browser back-button press. It is a no-op at the oldest entry.
func (m *Memory) Back() {
	m.mu.Lock()
	if m.index == 0 {
		m.mu.Unlock()
		return
	}
	m.index--
	m.mu.Unlock()

	m.notify()
}

// Forward moves one entry forwards and notifies subscribers. It is a no-op
// at the newest entry.
func (m *Memory) Forward() {
	m.mu.Lock()
	if m.index >= len(m.entries)-1 {
		m.mu.Unlock()
		return
	}
	m.index++
	m.mu.Unlock()

	m.notify()
}

// Len returns the number of history entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Subscribe registers fn for external navigation notifications.
func (m *Memory) Subscribe(fn func()) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	m.next++
	id := m.next
	m.subs[id] = fn

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

// notify calls subscribers outside the entry lock.
func (m *Memory) notify() {
	m.subMu.Lock()
	fns := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
