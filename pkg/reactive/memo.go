package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached computation that automatically tracks its dependencies.
// When any dependency changes the memo is invalidated and recomputes on the
// next read. Memos are lazy: if several signals change before a read, the
// memo recomputes only once.
//
// Memos can themselves be subscribed to, so chains of derived values work.
type Memo[T any] struct {
	base signalBase

	// compute produces the memo's value.
	compute func() T

	// value is the cached computed value.
	value T

	// valueMu protects value access.
	valueMu sync.RWMutex

	// valid reports whether the cached value is current.
	valid atomic.Bool

	// gen counts invalidations, so a MarkDirty landing while recompute is
	// running is not lost when the stale result is stored.
	gen atomic.Uint64

	// sources are the signals/memos this memo depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// computing guards against recursion through circular dependencies.
	computing atomic.Bool
}

// NewMemo creates a memo with the given computation. The computation does
// not run immediately; it runs lazily on first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base:    signalBase{id: NextID()},
		compute: compute,
	}
}

// Get returns the memo's value, recomputing if invalid, and subscribes the
// current listener.
func (m *Memo[T]) Get() T {
	m.base.track()

	if !m.valid.Load() {
		m.recompute()
	}

	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// Peek returns the value without subscribing. Still recomputes if invalid.
func (m *Memo[T]) Peek() T {
	if !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// MarkDirty invalidates the memo and propagates to subscribers.
// Implements the Listener interface.
func (m *Memo[T]) MarkDirty() {
	m.gen.Add(1)
	// CAS keeps repeated invalidations idempotent.
	if m.valid.CompareAndSwap(true, false) {
		m.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this memo.
// Implements the Listener interface.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// Subscribe registers l directly, outside any tracked computation.
// The returned function removes the subscription.
func (m *Memo[T]) Subscribe(l Listener) func() {
	m.base.subscribe(l)
	return func() { m.base.unsubscribe(l) }
}

// addSource records a dependency so it can be unsubscribed on recompute.
// Implements the sourceTracker interface.
func (m *Memo[T]) addSource(source *signalBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()

	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

// recompute runs the computation under dependency tracking and refreshes
// the cached value.
func (m *Memo[T]) recompute() {
	if m.computing.Swap(true) {
		// Circular dependency; keep the stale value.
		return
	}
	defer m.computing.Store(false)

	// Unsubscribe from old sources before re-tracking.
	m.sourcesMu.Lock()
	for _, source := range m.sources {
		source.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	startGen := m.gen.Load()

	old := setCurrentListener(m)
	newValue := m.compute()
	setCurrentListener(old)

	m.valueMu.Lock()
	m.value = newValue
	m.valueMu.Unlock()

	// An invalidation during the compute means the result may already be
	// stale; leave the memo invalid so the next read recomputes.
	if m.gen.Load() == startGen {
		m.valid.Store(true)
	}
}
