package tablestate

import (
	"sort"
	"strings"
)

// matchesSearch reports whether the item passes the search predicate:
// true on an empty term or empty key set, otherwise true when ANY search
// key's stringified value contains the term case-insensitively.
func (ts *TableState[T]) matchesSearch(item T, term string) bool {
	if term == "" || len(ts.cfg.SearchKeys) == 0 {
		return true
	}
	needle := strings.ToLower(term)
	for _, key := range ts.cfg.SearchKeys {
		haystack := stringify(ts.cfg.valueOf(item, key))
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

// matchesField implements the category/status predicate: disabled key or
// sentinel/empty selection passes everything, otherwise exact string
// equality (not substring) on the field value.
func (ts *TableState[T]) matchesField(item T, key, selected string) bool {
	if key == "" || selected == "" || selected == ts.cfg.AllValue {
		return true
	}
	return stringify(ts.cfg.valueOf(item, key)) == selected
}

// matchesCustomFilters passes only when EVERY configured custom filter
// accepts the item at its current value. A filter at the sentinel value
// short-circuits to true.
func (ts *TableState[T]) matchesCustomFilters(item T, values map[string]string) bool {
	for _, f := range ts.cfg.CustomFilters {
		value, ok := values[f.Key]
		if !ok || value == "" || value == ts.cfg.AllValue {
			continue
		}
		if f.Predicate != nil {
			if !f.Predicate(item, value) {
				return false
			}
			continue
		}
		if stringify(ts.cfg.valueOf(item, f.field())) != value {
			return false
		}
	}
	return true
}

// SearchTerm returns the current search term.
func (ts *TableState[T]) SearchTerm() string {
	return ts.searchTerm.Get()
}

// SetSearchTerm updates the search term, resets to the first page and
// mirrors both into the URL without a new history entry.
func (ts *TableState[T]) SetSearchTerm(term string) {
	ts.searchTerm.Set(term)
	ts.currentPage.Set(1)
	ts.writeURL(writeReplace)
}

// SelectedCategory returns the current category selection.
func (ts *TableState[T]) SelectedCategory() string {
	return ts.selCategory.Get()
}

// SetSelectedCategory updates the category selection and resets the page.
func (ts *TableState[T]) SetSelectedCategory(category string) {
	if category == "" {
		category = ts.cfg.AllValue
	}
	ts.selCategory.Set(category)
	ts.currentPage.Set(1)
	ts.writeURL(writeReplace)
}

// SelectedStatus returns the current status selection.
func (ts *TableState[T]) SelectedStatus() string {
	return ts.selStatus.Get()
}

// SetSelectedStatus updates the status selection and resets the page.
func (ts *TableState[T]) SetSelectedStatus(status string) {
	if status == "" {
		status = ts.cfg.AllValue
	}
	ts.selStatus.Set(status)
	ts.currentPage.Set(1)
	ts.writeURL(writeReplace)
}

// CustomValue returns the current value for the named custom filter,
// defaulting to the sentinel.
func (ts *TableState[T]) CustomValue(key string) string {
	values := ts.customValues.Get()
	if v, ok := values[key]; ok {
		return v
	}
	return ts.cfg.AllValue
}

// SetCustomValue updates a custom filter value and resets the page.
// Unknown keys are ignored.
func (ts *TableState[T]) SetCustomValue(key, value string) {
	if !ts.hasCustomFilter(key) {
		return
	}
	if value == "" {
		value = ts.cfg.AllValue
	}
	ts.customValues.Update(func(values map[string]string) map[string]string {
		next := make(map[string]string, len(values)+1)
		for k, v := range values {
			next[k] = v
		}
		next[key] = value
		return next
	})
	ts.currentPage.Set(1)
	ts.writeURL(writeReplace)
}

func (ts *TableState[T]) hasCustomFilter(key string) bool {
	for _, f := range ts.cfg.CustomFilters {
		if f.Key == key {
			return true
		}
	}
	return false
}

// HasActiveFilters reports whether any filter deviates from its default.
func (ts *TableState[T]) HasActiveFilters() bool {
	return ts.hasActive.Get()
}

func (ts *TableState[T]) computeHasActiveFilters() bool {
	if ts.searchTerm.Get() != "" {
		return true
	}
	if ts.selCategory.Get() != ts.cfg.AllValue {
		return true
	}
	if ts.selStatus.Get() != ts.cfg.AllValue {
		return true
	}
	for _, v := range ts.customValues.Get() {
		if v != "" && v != ts.cfg.AllValue {
			return true
		}
	}
	return false
}

// Categories returns the sorted distinct non-empty category values present
// in the items. Empty when CategoryKey is unset.
func (ts *TableState[T]) Categories() []string {
	return ts.categories.Get()
}

// Statuses returns the sorted distinct non-empty status values.
func (ts *TableState[T]) Statuses() []string {
	return ts.statuses.Get()
}

// FilterOptions returns the sorted distinct non-empty values of the named
// custom filter's field. Predicate filters without a Field yield nil; their
// option set is not derivable from the items.
func (ts *TableState[T]) FilterOptions(key string) []string {
	for _, f := range ts.cfg.CustomFilters {
		if f.Key != key {
			continue
		}
		if f.Predicate != nil && f.Field == "" {
			return nil
		}
		return ts.distinctValues(f.field())
	}
	return nil
}

// distinctValues extracts the sorted set of distinct non-empty stringified
// values of a field across all items.
func (ts *TableState[T]) distinctValues(key string) []string {
	if key == "" {
		return nil
	}
	items := ts.items.Get()
	seen := make(map[string]struct{})
	for _, item := range items {
		v := stringify(ts.cfg.valueOf(item, key))
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ResetFilters restores every filter to its initial value and resets the
// page, mirroring into the URL.
func (ts *TableState[T]) ResetFilters() {
	ts.resetFilterState()
	ts.writeURL(writeReplace)
}

// ResetPagination restores the page and page size to their initial values.
func (ts *TableState[T]) ResetPagination() {
	ts.resetPaginationState()
	ts.writeURL(writeReplace)
}

// ResetAll composes ResetFilters and ResetPagination with a single URL
// write.
func (ts *TableState[T]) ResetAll() {
	ts.resetFilterState()
	ts.resetPaginationState()
	ts.writeURL(writeReplace)
}

func (ts *TableState[T]) resetFilterState() {
	ts.searchTerm.Set("")
	ts.selCategory.Set(ts.cfg.AllValue)
	ts.selStatus.Set(ts.cfg.AllValue)
	ts.customValues.Set(map[string]string{})
	ts.currentPage.Set(1)
}

func (ts *TableState[T]) resetPaginationState() {
	ts.currentPage.Set(1)
	ts.itemsPerPage.Set(ts.cfg.InitialItemsPerPage)
}
