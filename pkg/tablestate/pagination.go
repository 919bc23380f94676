package tablestate

// CurrentPage returns the current 1-based page number.
func (ts *TableState[T]) CurrentPage() int {
	return ts.currentPage.Get()
}

// TotalPages returns max(1, ceil(filteredCount/itemsPerPage)).
func (ts *TableState[T]) TotalPages() int {
	return ts.totalPages.Get()
}

// ItemsPerPage returns the current page size.
func (ts *TableState[T]) ItemsPerPage() int {
	return ts.itemsPerPage.Get()
}

// ItemsPerPageOptions returns the allowed page sizes.
func (ts *TableState[T]) ItemsPerPageOptions() []int {
	return append([]int(nil), ts.cfg.ItemsPerPageOptions...)
}

// PageNumbers returns the windowed page-number strip for UI display.
func (ts *TableState[T]) PageNumbers() []PageItem {
	return ts.pageNumbers.Get()
}

// SetCurrentPage navigates to page. Out-of-range requests (page < 1 or
// page > TotalPages) are silently ignored: no state change, no URL update.
// A successful navigation pushes a history entry so the back button steps
// through pages.
func (ts *TableState[T]) SetCurrentPage(page int) {
	if page < 1 || page > ts.totalPages.Peek() {
		return
	}
	ts.currentPage.Set(page)
	ts.writeURL(writePush)
}

// NextPage navigates forward one page, if possible.
func (ts *TableState[T]) NextPage() {
	ts.SetCurrentPage(ts.currentPage.Peek() + 1)
}

// PrevPage navigates back one page, if possible.
func (ts *TableState[T]) PrevPage() {
	ts.SetCurrentPage(ts.currentPage.Peek() - 1)
}

// SetItemsPerPage changes the page size and resets to the first page.
// Sizes outside the configured option set are silently ignored.
func (ts *TableState[T]) SetItemsPerPage(n int) {
	if !ts.cfg.allowsPageSize(n) {
		return
	}
	ts.itemsPerPage.Set(n)
	ts.currentPage.Set(1)
	ts.writeURL(writeReplace)
}

func (ts *TableState[T]) computeTotalPages() int {
	count := len(ts.filtered.Get())
	perPage := ts.itemsPerPage.Get()

	pages := (count + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

func (ts *TableState[T]) computePaginated() []T {
	filtered := ts.filtered.Get()
	page := ts.currentPage.Get()
	perPage := ts.itemsPerPage.Get()

	start := (page - 1) * perPage
	if start >= len(filtered) {
		return nil
	}
	end := start + perPage
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// computePageNumbers renders the page strip. Five or fewer pages list
// fully; beyond that a sliding window keeps the strip at six slots:
//
//	current <= 3:          1 2 3 4 ... N
//	current >= N-2:        1 ... N-3 N-2 N-1 N
//	otherwise:             1 ... c-1 c c+1 ... N
func (ts *TableState[T]) computePageNumbers() []PageItem {
	total := ts.totalPages.Get()
	current := ts.currentPage.Get()

	page := func(n int) PageItem { return PageItem{Number: n} }
	gap := PageItem{Ellipsis: true}

	if total <= 5 {
		items := make([]PageItem, 0, total)
		for n := 1; n <= total; n++ {
			items = append(items, page(n))
		}
		return items
	}

	switch {
	case current <= 3:
		return []PageItem{page(1), page(2), page(3), page(4), gap, page(total)}
	case current >= total-2:
		return []PageItem{page(1), gap, page(total - 3), page(total - 2), page(total - 1), page(total)}
	default:
		return []PageItem{page(1), gap, page(current - 1), page(current), page(current + 1), gap, page(total)}
	}
}
