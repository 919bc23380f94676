// Package live drives TableState instances over WebSocket.
//
// Each connection gets a Session owning one table. Client events (search,
// filter, page navigation, popstate) are decoded, applied to the table, and
// answered with a patch batch: a fresh row snapshot plus any URL
// replace/push patches the table's history bridge queued in the same tick.
//
// Server mounts the upgrade endpoint, health and Prometheus metrics on a
// chi router and shuts down gracefully when its context is cancelled.
package live
