// Package tablestate implements a generic, reactive filter/paginate/URL-sync
// engine for list views.
//
// A TableState derives a filtered, paginated view over a caller-supplied
// item slice. Filtering composes four independent predicates (search,
// category, status, custom filters) conjunctively. Pagination slices the
// filtered set and renders a windowed page-number strip. When URL
// persistence is enabled, every setter mirrors its value into query
// parameters through an injected history.History, and external navigation
// (the popstate analog) re-derives state from the URL.
//
// TableState never owns the items: it only reads them, and replacing them
// with SetItems triggers re-derivation. All derived values are lazy memos
// from package reactive, so reads inside a tracked computation subscribe
// the caller to changes.
package tablestate
