// Package tablekit provides the public API for reactive table state.
//
// This is the recommended import for most applications:
//
//	import "github.com/tablekit-dev/tablekit"
//
// Usage:
//
//	table := tablekit.New(tablekit.Config[Product]{
//	    SearchKeys:  []string{"Name", "SKU"},
//	    CategoryKey: "Category",
//	    StatusKey:   "Status",
//	})
//	table.SetItems(products)
//	table.SetSearchTerm("widget")
//	page := table.PaginatedItems()
package tablekit

import (
	"github.com/tablekit-dev/tablekit/pkg/history"
	"github.com/tablekit-dev/tablekit/pkg/reactive"
	"github.com/tablekit-dev/tablekit/pkg/tablestate"
)

// =============================================================================
// Table state (re-export from pkg/tablestate)
// =============================================================================

// TableState holds filter and pagination state over a slice of items.
type TableState[T any] = tablestate.TableState[T]

// Config configures a TableState.
type Config[T any] = tablestate.Config[T]

// URLConfig enables mirroring table state into URL query parameters.
type URLConfig = tablestate.URLConfig

// CustomFilter declares an additional exact-match or predicate filter.
type CustomFilter[T any] = tablestate.CustomFilter[T]

// Accessor overrides field lookup for a single key.
type Accessor[T any] = tablestate.Accessor[T]

// PageItem is one entry of a windowed page number list.
type PageItem = tablestate.PageItem

// AllValue is the sentinel option meaning "no filtering" for category,
// status and custom filters.
const AllValue = tablestate.DefaultAllValue

// New creates a TableState from cfg.
//
// Example:
//
//	table := tablekit.New(tablekit.Config[Product]{
//	    SearchKeys: []string{"Name"},
//	})
func New[T any](cfg Config[T]) *TableState[T] {
	return tablestate.New(cfg)
}

// =============================================================================
// Reactive primitives (re-export from pkg/reactive)
// =============================================================================

// Signal is a reactive value. Reads inside a tracking context register
// a dependency; writes notify dependents.
type Signal[T any] = reactive.Signal[T]

// Memo is a lazily recomputed derived value.
type Memo[T any] = reactive.Memo[T]

// NewSignal creates a new reactive signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return reactive.NewSignal(initial)
}

// NewMemo creates a derived value recomputed when its sources change.
func NewMemo[T any](compute func() T) *Memo[T] {
	return reactive.NewMemo(compute)
}

// =============================================================================
// History (re-export from pkg/history)
// =============================================================================

// History abstracts the browser history for URL persistence.
type History = history.History

// Mode selects between replacing and pushing history entries.
type Mode = history.Mode

// Replace overwrites the current history entry; Push adds a new one.
const (
	Replace = history.ModeReplace
	Push    = history.ModePush
)

// NewMemoryHistory returns an in-process History, useful for tests and
// for server-side rendering without a connected client.
func NewMemoryHistory() *history.Memory {
	return history.NewMemory()
}
