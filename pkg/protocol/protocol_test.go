package protocol

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	data, err := EncodeEvent(Event{Type: EventSetSearch, Value: "widget"}, 7)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	msg, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != MessageEvent || msg.Seq != 7 {
		t.Errorf("envelope = %+v", msg)
	}

	ev, err := DecodeEvent(msg.Data)
	if err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != EventSetSearch || ev.Value != "widget" {
		t.Errorf("event = %+v", ev)
	}
}

func TestDecodeMessageRejectsUnknownType(t *testing.T) {
	_, err := DecodeMessage([]byte(`{"type":"bogus"}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestDecodeMessageRejectsEmpty(t *testing.T) {
	_, err := DecodeMessage(nil)
	if !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestDecodeMessageRejectsOversize(t *testing.T) {
	big := `{"type":"event","data":{"value":"` + strings.Repeat("x", MaxMessageSize) + `"}}`
	_, err := DecodeMessage([]byte(big))
	if !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("expected ErrMessageTooLarge, got %v", err)
	}
}

func TestDecodeMessageRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeMessage([]byte(`{"type":`))
	if err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestDecodeEventRejectsUnknownType(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"explode"}`))
	if !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("expected ErrUnknownEventType, got %v", err)
	}
}

func TestEventTypeValidity(t *testing.T) {
	valid := []EventType{
		EventSetSearch, EventSetCategory, EventSetStatus, EventSetFilter,
		EventSetPage, EventSetPageSize,
		EventResetFilters, EventResetPagination, EventResetAll,
		EventPopstate,
	}
	for _, et := range valid {
		if _, err := EncodeEvent(Event{Type: et}, 0); err != nil {
			t.Errorf("event type %q rejected: %v", et, err)
		}
	}
	if _, err := EncodeEvent(Event{Type: "nope"}, 0); err == nil {
		t.Error("unknown event type accepted")
	}
}

func TestPatchesRoundTrip(t *testing.T) {
	items, _ := json.Marshal([]map[string]any{{"id": 1, "name": "Desk"}})
	patches := []Patch{
		NewRowsPatch(RowsPatch{
			Items:         items,
			TotalItems:    23,
			FilteredCount: 23,
			CurrentPage:   1,
			TotalPages:    3,
			ItemsPerPage:  10,
			PageNumbers:   []PageItem{{Number: 1}, {Number: 2}, {Number: 3}},
		}),
		NewURLReplacePatch(url.Values{"invSearch": {"desk"}}),
		NewURLPushPatch(url.Values{"invPage": {"2"}}),
	}

	data, err := EncodePatches(patches, 3)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	msg, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	decoded, err := DecodePatches(msg.Data)
	if err != nil {
		t.Fatalf("decode patches: %v", err)
	}

	if len(decoded) != 3 {
		t.Fatalf("expected 3 patches, got %d", len(decoded))
	}
	if decoded[0].Type != PatchRows || decoded[0].Rows == nil {
		t.Errorf("rows patch = %+v", decoded[0])
	}
	if decoded[0].Rows.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", decoded[0].Rows.TotalPages)
	}
	if decoded[1].Type != PatchURLReplace || decoded[1].URL.Get("invSearch") != "desk" {
		t.Errorf("urlReplace patch = %+v", decoded[1])
	}
	if decoded[2].Type != PatchURLPush || decoded[2].URL.Get("invPage") != "2" {
		t.Errorf("urlPush patch = %+v", decoded[2])
	}
}

func TestErrorMessage(t *testing.T) {
	msg := NewErrorMessage("badEvent", "unknown event type")
	data, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var payload ErrorPayload
	if err := json.Unmarshal(decoded.Data, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Code != "badEvent" {
		t.Errorf("code = %q, want badEvent", payload.Code)
	}
}
