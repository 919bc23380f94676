package reactive

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Listener is anything that can be notified when a reactive value changes.
// Memos implement Listener to invalidate themselves; consumers can implement
// it to schedule re-renders or pushes.
type Listener interface {
	// ID returns a stable unique identifier, used to deduplicate
	// subscriptions.
	ID() uint64

	// MarkDirty notifies the listener that a dependency changed.
	MarkDirty()
}

// idCounter generates unique IDs for signals, memos and listeners.
var idCounter atomic.Uint64

// NextID returns a process-unique identifier.
func NextID() uint64 {
	return idCounter.Add(1)
}

// trackingContexts stores the current listener per goroutine so concurrent
// computations don't observe each other's tracking state.
var trackingContexts sync.Map

// goroutineID extracts the current goroutine's ID from the runtime stack.
// Implementation detail; never exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack header is "goroutine <id> ...".
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// currentListener returns the listener being tracked on this goroutine,
// or nil when no tracking is active.
func currentListener() Listener {
	if l, ok := trackingContexts.Load(goroutineID()); ok {
		return l.(Listener)
	}
	return nil
}

// setCurrentListener installs l as the tracked listener for this goroutine
// and returns the previous one so it can be restored.
func setCurrentListener(l Listener) Listener {
	gid := goroutineID()
	var old Listener
	if prev, ok := trackingContexts.Load(gid); ok {
		old = prev.(Listener)
	}
	if l == nil {
		trackingContexts.Delete(gid)
	} else {
		trackingContexts.Store(gid, l)
	}
	return old
}

// WithListener runs fn with l installed as the tracked listener. Every
// signal or memo read during fn subscribes l. The previous listener is
// restored afterwards, including on panic.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// Untracked runs fn with tracking suspended, so reads inside fn do not
// create subscriptions.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// FuncListener adapts a plain function to the Listener interface.
type FuncListener struct {
	id uint64
	fn func()
}

// NewFuncListener wraps fn as a Listener.
func NewFuncListener(fn func()) *FuncListener {
	return &FuncListener{id: NextID(), fn: fn}
}

// ID implements Listener.
func (f *FuncListener) ID() uint64 { return f.id }

// MarkDirty implements Listener.
func (f *FuncListener) MarkDirty() {
	if f.fn != nil {
		f.fn()
	}
}
