package protocol

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// EventType identifies a table interaction from the client.
type EventType string

const (
	EventSetSearch       EventType = "setSearch"
	EventSetCategory     EventType = "setCategory"
	EventSetStatus       EventType = "setStatus"
	EventSetFilter       EventType = "setFilter" // custom filter, keyed
	EventSetPage         EventType = "setPage"
	EventSetPageSize     EventType = "setPageSize"
	EventResetFilters    EventType = "resetFilters"
	EventResetPagination EventType = "resetPagination"
	EventResetAll        EventType = "resetAll"
	EventPopstate        EventType = "popstate" // browser back/forward
)

// Event is a client-originated table interaction.
//
// Key is set only for EventSetFilter. Value carries search/category/status/
// filter text. Page and Size carry pagination numbers. Params carries the
// full query string for EventPopstate.
type Event struct {
	Type   EventType  `json:"type"`
	Key    string     `json:"key,omitempty"`
	Value  string     `json:"value,omitempty"`
	Page   int        `json:"page,omitempty"`
	Size   int        `json:"size,omitempty"`
	Params url.Values `json:"params,omitempty"`
}

// valid reports whether t is a known event type.
func (t EventType) valid() bool {
	switch t {
	case EventSetSearch, EventSetCategory, EventSetStatus, EventSetFilter,
		EventSetPage, EventSetPageSize,
		EventResetFilters, EventResetPagination, EventResetAll,
		EventPopstate:
		return true
	}
	return false
}

// EncodeEvent wraps an event into a MessageEvent envelope.
func EncodeEvent(ev Event, seq uint64) ([]byte, error) {
	if !ev.Type.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, ev.Type)
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode event: %w", err)
	}
	return EncodeMessage(Message{Type: MessageEvent, Seq: seq, Data: data})
}

// DecodeEvent parses the payload of a MessageEvent envelope.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("protocol: decode event: %w", err)
	}
	if !ev.Type.valid() {
		return ev, fmt.Errorf("%w: %q", ErrUnknownEventType, ev.Type)
	}
	return ev, nil
}
