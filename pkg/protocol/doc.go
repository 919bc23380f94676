// Package protocol defines the wire messages exchanged between a live
// table session and its client.
//
// Messages travel as JSON text frames over WebSocket. Each frame carries an
// envelope with a type tag, an optional sequence number, and a payload:
//
//	{"type":"event","seq":7,"data":{"type":"setSearch","value":"widget"}}
//
// Client to server: Event (table interactions, popstate notifications).
// Server to client: Patch list (row snapshots, URL replace/push), errors.
package protocol
