// Package history abstracts the browser URL/history object behind a small
// interface so table state can mirror itself into query parameters without
// depending on a browser. The Memory implementation backs tests and
// server-side rendering; the Bridge implementation forwards updates to a
// connected client as wire patches.
package history

import "net/url"

// Mode determines how a URL update is recorded.
type Mode int

const (
	// ModePush adds a new history entry, so back navigation steps
	// through updates.
	ModePush Mode = iota

	// ModeReplace replaces the current entry. Use for filters and search
	// to avoid history spam.
	ModeReplace
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModePush:
		return "Push"
	case ModeReplace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// History is the injected URL/history dependency for table state.
//
// Params returns the current query parameters. Replace and Push write a new
// parameter set, replacing or pushing a history entry respectively.
// Subscribe registers a callback fired when the current entry changes from
// the outside (the popstate analog: back/forward navigation, not this
// instance's own writes); it returns an unsubscribe function that is safe
// to call more than once.
type History interface {
	Params() url.Values
	Replace(values url.Values)
	Push(values url.Values)
	Subscribe(fn func()) (unsubscribe func())
}

// CloneValues returns a deep copy of values. Callers own the copy.
func CloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, vs := range values {
		cp := make([]string, len(vs))
		copy(cp, vs)
		out[k] = cp
	}
	return out
}
