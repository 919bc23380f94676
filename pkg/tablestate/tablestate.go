package tablestate

import (
	"github.com/tablekit-dev/tablekit/pkg/reactive"
)

// PageItem is one slot in the page-number strip: a concrete page number or
// an ellipsis gap.
type PageItem struct {
	Number   int
	Ellipsis bool
}

// Snapshot is a plain-value view of the current table output, convenient
// for pushing over a wire or rendering in one shot. Reading it inside a
// tracked computation subscribes the listener to every derivation.
type Snapshot[T any] struct {
	Items            []T
	TotalItems       int
	FilteredCount    int
	CurrentPage      int
	TotalPages       int
	ItemsPerPage     int
	PageNumbers      []PageItem
	HasActiveFilters bool
}

// TableState is the unified table engine: reactive filtering, pagination
// and an optional URL mirror over a caller-supplied item slice.
type TableState[T any] struct {
	cfg Config[T]

	// Owned state.
	items        *reactive.Signal[[]T]
	searchTerm   *reactive.Signal[string]
	selCategory  *reactive.Signal[string]
	selStatus    *reactive.Signal[string]
	customValues *reactive.Signal[map[string]string]
	currentPage  *reactive.Signal[int]
	itemsPerPage *reactive.Signal[int]

	// Derivations.
	filtered    *reactive.Memo[[]T]
	totalPages  *reactive.Memo[int]
	paginated   *reactive.Memo[[]T]
	pageNumbers *reactive.Memo[[]PageItem]
	categories  *reactive.Memo[[]string]
	statuses    *reactive.Memo[[]string]
	hasActive   *reactive.Memo[bool]

	unsubHistory func()
}

// New creates a TableState from cfg. Items start empty; supply them with
// SetItems. When the URL mirror is enabled, current query parameters are
// read once here and a history subscription keeps state in sync with
// back/forward navigation until Dispose.
func New[T any](cfg Config[T]) *TableState[T] {
	cfg = cfg.normalize()

	ts := &TableState[T]{
		cfg:          cfg,
		items:        reactive.NewSignal([]T(nil)),
		searchTerm:   reactive.NewSignal(""),
		selCategory:  reactive.NewSignal(cfg.AllValue),
		selStatus:    reactive.NewSignal(cfg.AllValue),
		customValues: reactive.NewSignal(map[string]string{}),
		currentPage:  reactive.NewSignal(1),
		itemsPerPage: reactive.NewSignal(cfg.InitialItemsPerPage),
	}

	ts.filtered = reactive.NewMemo(ts.computeFiltered)
	ts.totalPages = reactive.NewMemo(ts.computeTotalPages)
	ts.paginated = reactive.NewMemo(ts.computePaginated)
	ts.pageNumbers = reactive.NewMemo(ts.computePageNumbers)
	ts.categories = reactive.NewMemo(func() []string { return ts.distinctValues(ts.cfg.CategoryKey) })
	ts.statuses = reactive.NewMemo(func() []string { return ts.distinctValues(ts.cfg.StatusKey) })
	ts.hasActive = reactive.NewMemo(ts.computeHasActiveFilters)

	if ts.urlEnabled() {
		ts.readFromURL()
		ts.unsubHistory = ts.cfg.URL.History.Subscribe(ts.readFromURL)
	}

	return ts
}

// Dispose releases the history subscription. The TableState remains usable
// for local reads and writes afterwards, but stops following external
// navigation. Safe to call more than once.
func (ts *TableState[T]) Dispose() {
	if ts.unsubHistory != nil {
		ts.unsubHistory()
		ts.unsubHistory = nil
	}
}

// Config returns the normalized configuration.
func (ts *TableState[T]) Config() Config[T] {
	return ts.cfg
}

// SetItems replaces the item snapshot and re-derives all outputs. If the
// filtered set shrinks so that the current page no longer exists, the page
// resets to 1 (not to the last page) and the URL mirror follows.
func (ts *TableState[T]) SetItems(items []T) {
	ts.items.Set(items)

	if ts.currentPage.Peek() > ts.totalPages.Peek() {
		ts.currentPage.Set(1)
		ts.writeURL(writeReplace)
	}
}

// Items returns the current item snapshot.
func (ts *TableState[T]) Items() []T {
	return ts.items.Get()
}

// TotalItems returns the unfiltered item count.
func (ts *TableState[T]) TotalItems() int {
	return len(ts.items.Get())
}

// FilteredItems returns the items passing every active filter.
func (ts *TableState[T]) FilteredItems() []T {
	return ts.filtered.Get()
}

// FilteredCount returns len(FilteredItems()).
func (ts *TableState[T]) FilteredCount() int {
	return len(ts.filtered.Get())
}

// PaginatedItems returns the filtered items visible on the current page.
func (ts *TableState[T]) PaginatedItems() []T {
	return ts.paginated.Get()
}

// Snapshot captures every output in one tracked read.
func (ts *TableState[T]) Snapshot() Snapshot[T] {
	return Snapshot[T]{
		Items:            ts.PaginatedItems(),
		TotalItems:       ts.TotalItems(),
		FilteredCount:    ts.FilteredCount(),
		CurrentPage:      ts.CurrentPage(),
		TotalPages:       ts.TotalPages(),
		ItemsPerPage:     ts.ItemsPerPage(),
		PageNumbers:      ts.PageNumbers(),
		HasActiveFilters: ts.HasActiveFilters(),
	}
}

// computeFiltered applies the conjunctive filter chain. Each predicate
// defaults to true when its configuration or selection is inert, so
// misconfiguration degrades to a no-op filter rather than failing.
func (ts *TableState[T]) computeFiltered() []T {
	items := ts.items.Get()
	term := ts.searchTerm.Get()
	category := ts.selCategory.Get()
	status := ts.selStatus.Get()
	custom := ts.customValues.Get()

	out := make([]T, 0, len(items))
	for _, item := range items {
		if !ts.matchesSearch(item, term) {
			continue
		}
		if !ts.matchesField(item, ts.cfg.CategoryKey, category) {
			continue
		}
		if !ts.matchesField(item, ts.cfg.StatusKey, status) {
			continue
		}
		if !ts.matchesCustomFilters(item, custom) {
			continue
		}
		out = append(out, item)
	}
	return out
}
