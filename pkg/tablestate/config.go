package tablestate

import "github.com/tablekit-dev/tablekit/pkg/history"

// Defaults applied by Config.normalize.
const (
	// DefaultAllValue is the sentinel filter value meaning "no constraint".
	DefaultAllValue = "All"

	// DefaultIDKey is the field used for row identity when none is set.
	DefaultIDKey = "id"

	// DefaultItemsPerPage is the initial page size when none is set.
	DefaultItemsPerPage = 10
)

// DefaultItemsPerPageOptions is the allowed page-size set when none is
// configured.
var DefaultItemsPerPageOptions = []int{5, 10, 20, 50}

// Accessor reads a display/filter value from an item, overriding direct
// field access for computed or nested values.
type Accessor[T any] func(item T) any

// CustomFilter is a caller-defined filter beyond search/category/status.
//
// It is a tagged variant: when Predicate is set the filter is an arbitrary
// predicate over (item, current value); otherwise it is a field-equality
// filter on Field (or Key when Field is empty). A filter whose current
// value is the "all" sentinel always passes.
type CustomFilter[T any] struct {
	// Key names the filter. It is the URL parameter suffix and the
	// handle for SetCustomValue/CustomValue.
	Key string

	// Field is the item field compared for equality filters, and the
	// field distinct options are derived from.
	Field string

	// Predicate, when set, replaces field equality.
	Predicate func(item T, value string) bool
}

// field returns the item field this filter reads.
func (f CustomFilter[T]) field() string {
	if f.Field != "" {
		return f.Field
	}
	return f.Key
}

// URLConfig enables mirroring filter/pagination state into query
// parameters through an injected History.
type URLConfig struct {
	// Enabled turns the URL mirror on.
	Enabled bool

	// Prefix namespaces this table's parameters, e.g. prefix "inv" yields
	// invSearch, invPage. Multiple tables on one page must use distinct
	// prefixes; there is no collision detection.
	Prefix string

	// TabParam/TabValue guard writes in multi-tab layouts: when TabParam
	// is set and the current URL's TabParam value differs from TabValue,
	// the owning tab is not active and writes are suppressed.
	TabParam string
	TabValue string

	// History is the injected history dependency. Nil disables the
	// mirror even when Enabled is true (the SSR-inert default).
	History history.History
}

// Config parameterizes a TableState. The zero value is usable: normalize
// fills defaults.
type Config[T any] struct {
	// SearchKeys are the fields matched against the search term
	// (case-insensitive substring). Empty means the search term never
	// constrains.
	SearchKeys []string

	// CategoryKey/StatusKey enable the built-in category/status filters
	// and drive Categories/Statuses option extraction. Empty disables.
	CategoryKey string
	StatusKey   string

	// IDKey is the unique-identity field, used by callers for row keys.
	// Not validated for uniqueness.
	IDKey string

	// AllValue is the sentinel meaning "no constraint".
	AllValue string

	// InitialItemsPerPage is the starting page size. It must be one of
	// ItemsPerPageOptions; if not, it is prepended.
	InitialItemsPerPage int

	// ItemsPerPageOptions is the allowed page-size set. SetItemsPerPage
	// ignores sizes outside it.
	ItemsPerPageOptions []int

	// GetValue maps field names to accessor overrides for computed or
	// nested values. Fields not present fall back to direct access.
	GetValue map[string]Accessor[T]

	// CustomFilters are additional filters ANDed with the built-ins.
	CustomFilters []CustomFilter[T]

	// URL configures the optional URL mirror.
	URL URLConfig
}

// normalize fills zero fields with defaults and returns the config.
func (c Config[T]) normalize() Config[T] {
	if c.IDKey == "" {
		c.IDKey = DefaultIDKey
	}
	if c.AllValue == "" {
		c.AllValue = DefaultAllValue
	}
	if c.InitialItemsPerPage <= 0 {
		c.InitialItemsPerPage = DefaultItemsPerPage
	}
	if len(c.ItemsPerPageOptions) == 0 {
		c.ItemsPerPageOptions = append([]int(nil), DefaultItemsPerPageOptions...)
	}
	if !containsInt(c.ItemsPerPageOptions, c.InitialItemsPerPage) {
		c.ItemsPerPageOptions = append([]int{c.InitialItemsPerPage}, c.ItemsPerPageOptions...)
	}
	return c
}

// allowsPageSize reports whether n is a configured page size.
func (c *Config[T]) allowsPageSize(n int) bool {
	return containsInt(c.ItemsPerPageOptions, n)
}

func containsInt(s []int, n int) bool {
	for _, v := range s {
		if v == n {
			return true
		}
	}
	return false
}
