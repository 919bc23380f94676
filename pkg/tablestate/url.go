package tablestate

import (
	"net/url"
	"strconv"

	"github.com/tablekit-dev/tablekit/pkg/history"
)

// URL parameter suffixes; the configured prefix namespaces them, so prefix
// "inv" yields invSearch, invCategory, invStatus, invPage, invItemsPerPage
// and inv<customKey> per custom filter.
const (
	paramSearch       = "Search"
	paramCategory     = "Category"
	paramStatus       = "Status"
	paramPage         = "Page"
	paramItemsPerPage = "ItemsPerPage"
)

// Local names for the two history write modes.
const (
	writeReplace = history.ModeReplace
	writePush    = history.ModePush
)

func (ts *TableState[T]) urlEnabled() bool {
	return ts.cfg.URL.Enabled && ts.cfg.URL.History != nil
}

func (ts *TableState[T]) paramName(suffix string) string {
	return ts.cfg.URL.Prefix + suffix
}

// writeURL mirrors the full state into query parameters. Default-valued
// parameters are deleted rather than written, keeping URLs clean; foreign
// parameters (other tables, the tab param) are preserved. Writes are
// suppressed when the owning tab is not the active one.
func (ts *TableState[T]) writeURL(mode history.Mode) {
	if !ts.urlEnabled() {
		return
	}

	h := ts.cfg.URL.History
	params := h.Params()

	if tab := ts.cfg.URL.TabParam; tab != "" && params.Get(tab) != ts.cfg.URL.TabValue {
		return
	}

	setOrDelete(params, ts.paramName(paramSearch), ts.searchTerm.Peek(), "")
	setOrDelete(params, ts.paramName(paramCategory), ts.selCategory.Peek(), ts.cfg.AllValue)
	setOrDelete(params, ts.paramName(paramStatus), ts.selStatus.Peek(), ts.cfg.AllValue)
	setOrDelete(params, ts.paramName(paramPage), strconv.Itoa(ts.currentPage.Peek()), "1")
	setOrDelete(params, ts.paramName(paramItemsPerPage),
		strconv.Itoa(ts.itemsPerPage.Peek()), strconv.Itoa(ts.cfg.InitialItemsPerPage))

	custom := ts.customValues.Peek()
	for _, f := range ts.cfg.CustomFilters {
		value, ok := custom[f.Key]
		if !ok {
			value = ts.cfg.AllValue
		}
		setOrDelete(params, ts.paramName(f.Key), value, ts.cfg.AllValue)
	}

	if mode == writePush {
		h.Push(params)
	} else {
		h.Replace(params)
	}
}

// readFromURL resets internal state from the current query parameters.
// Runs once on construction and again on every external navigation; it is
// the only path by which anything other than this instance's own setters
// mutates state. Absent or malformed parameters fall back to defaults.
func (ts *TableState[T]) readFromURL() {
	if !ts.urlEnabled() {
		return
	}

	params := ts.cfg.URL.History.Params()

	ts.searchTerm.Set(params.Get(ts.paramName(paramSearch)))

	category := params.Get(ts.paramName(paramCategory))
	if category == "" {
		category = ts.cfg.AllValue
	}
	ts.selCategory.Set(category)

	status := params.Get(ts.paramName(paramStatus))
	if status == "" {
		status = ts.cfg.AllValue
	}
	ts.selStatus.Set(status)

	custom := make(map[string]string, len(ts.cfg.CustomFilters))
	for _, f := range ts.cfg.CustomFilters {
		if v := params.Get(ts.paramName(f.Key)); v != "" {
			custom[f.Key] = v
		}
	}
	ts.customValues.Set(custom)

	page := 1
	if n, err := strconv.Atoi(params.Get(ts.paramName(paramPage))); err == nil && n >= 1 {
		page = n
	}
	ts.currentPage.Set(page)

	perPage := ts.cfg.InitialItemsPerPage
	if n, err := strconv.Atoi(params.Get(ts.paramName(paramItemsPerPage))); err == nil && ts.cfg.allowsPageSize(n) {
		perPage = n
	}
	ts.itemsPerPage.Set(perPage)
}

// URLValues serializes the current state the same way writeURL does,
// starting from an empty parameter set. Useful for building links.
func (ts *TableState[T]) URLValues() url.Values {
	params := url.Values{}
	if !ts.cfg.URL.Enabled {
		return params
	}

	setOrDelete(params, ts.paramName(paramSearch), ts.searchTerm.Peek(), "")
	setOrDelete(params, ts.paramName(paramCategory), ts.selCategory.Peek(), ts.cfg.AllValue)
	setOrDelete(params, ts.paramName(paramStatus), ts.selStatus.Peek(), ts.cfg.AllValue)
	setOrDelete(params, ts.paramName(paramPage), strconv.Itoa(ts.currentPage.Peek()), "1")
	setOrDelete(params, ts.paramName(paramItemsPerPage),
		strconv.Itoa(ts.itemsPerPage.Peek()), strconv.Itoa(ts.cfg.InitialItemsPerPage))

	custom := ts.customValues.Peek()
	for _, f := range ts.cfg.CustomFilters {
		value, ok := custom[f.Key]
		if !ok {
			value = ts.cfg.AllValue
		}
		setOrDelete(params, ts.paramName(f.Key), value, ts.cfg.AllValue)
	}
	return params
}

// setOrDelete writes a parameter, deleting it when at its default value.
func setOrDelete(params url.Values, name, value, defaultValue string) {
	if value == defaultValue {
		params.Del(name)
		return
	}
	params.Set(name, value)
}
