package history

import (
	"net/url"
	"sync"

	"github.com/tablekit-dev/tablekit/pkg/protocol"
)

// Bridge is a History whose writes become wire patches for a connected
// client. The owning session passes in a closure that appends to its
// pending patch buffer; replace/push updates are delivered to the browser
// together with row patches in the same tick.
//
// The browser remains the source of truth for back/forward navigation: the
// session feeds popstate query strings back in through HandlePopstate,
// which updates the cached params and fires subscribers.
type Bridge struct {
	mu     sync.RWMutex
	params url.Values

	queuePatch func(protocol.Patch)

	subMu sync.Mutex
	subs  map[uint64]func()
	next  uint64
}

// NewBridge creates a bridge seeded with the client's initial query
// parameters (from the connection handshake). queuePatch may be nil, in
// which case URL writes are dropped.
func NewBridge(initial url.Values, queuePatch func(protocol.Patch)) *Bridge {
	if initial == nil {
		initial = url.Values{}
	}
	return &Bridge{
		params:     CloneValues(initial),
		queuePatch: queuePatch,
		subs:       make(map[uint64]func()),
	}
}

// Params returns a copy of the last known client parameters.
func (b *Bridge) Params() url.Values {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return CloneValues(b.params)
}

// Replace queues a replaceState patch and updates the cached params.
func (b *Bridge) Replace(values url.Values) {
	b.write(values, protocol.NewURLReplacePatch(CloneValues(values)))
}

// Push queues a pushState patch and updates the cached params.
func (b *Bridge) Push(values url.Values) {
	b.write(values, protocol.NewURLPushPatch(CloneValues(values)))
}

func (b *Bridge) write(values url.Values, patch protocol.Patch) {
	b.mu.Lock()
	b.params = CloneValues(values)
	b.mu.Unlock()

	if b.queuePatch != nil {
		b.queuePatch(patch)
	}
}

// HandlePopstate records parameters reported by the client after a
// back/forward navigation and notifies subscribers.
func (b *Bridge) HandlePopstate(values url.Values) {
	b.mu.Lock()
	b.params = CloneValues(values)
	b.mu.Unlock()

	b.notify()
}

// Subscribe registers fn for popstate notifications.
func (b *Bridge) Subscribe(fn func()) func() {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	b.next++
	id := b.next
	b.subs[id] = fn

	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Bridge) notify() {
	b.subMu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
