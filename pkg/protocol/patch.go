package protocol

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// PatchType identifies a server-to-client patch.
type PatchType string

const (
	// PatchRows replaces the rendered page with a new row snapshot.
	PatchRows PatchType = "rows"

	// PatchURLReplace rewrites the client's query string in place
	// (history.replaceState).
	PatchURLReplace PatchType = "urlReplace"

	// PatchURLPush rewrites the query string with a new history entry
	// (history.pushState).
	PatchURLPush PatchType = "urlPush"
)

// PageItem is one slot in the rendered page-number strip: either a concrete
// page number or an ellipsis gap.
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// RowsPatch is a full snapshot of the visible page and its surrounding
// counts, sent after every state change.
type RowsPatch struct {
	Items            json.RawMessage `json:"items"`
	TotalItems       int             `json:"totalItems"`
	FilteredCount    int             `json:"filteredCount"`
	CurrentPage      int             `json:"currentPage"`
	TotalPages       int             `json:"totalPages"`
	ItemsPerPage     int             `json:"itemsPerPage"`
	PageNumbers      []PageItem      `json:"pageNumbers"`
	HasActiveFilters bool            `json:"hasActiveFilters"`
}

// Patch is one server-to-client mutation. Exactly one of Rows/URL is set,
// according to Type.
type Patch struct {
	Type PatchType  `json:"type"`
	Rows *RowsPatch `json:"rows,omitempty"`
	URL  url.Values `json:"url,omitempty"`
}

// NewRowsPatch builds a row-snapshot patch.
func NewRowsPatch(rows RowsPatch) Patch {
	return Patch{Type: PatchRows, Rows: &rows}
}

// NewURLReplacePatch builds a replaceState patch.
func NewURLReplacePatch(values url.Values) Patch {
	return Patch{Type: PatchURLReplace, URL: values}
}

// NewURLPushPatch builds a pushState patch.
func NewURLPushPatch(values url.Values) Patch {
	return Patch{Type: PatchURLPush, URL: values}
}

// EncodePatches wraps a patch batch into a MessagePatches envelope.
func EncodePatches(patches []Patch, seq uint64) ([]byte, error) {
	data, err := json.Marshal(patches)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode patches: %w", err)
	}
	return EncodeMessage(Message{Type: MessagePatches, Seq: seq, Data: data})
}

// DecodePatches parses the payload of a MessagePatches envelope.
func DecodePatches(data []byte) ([]Patch, error) {
	var patches []Patch
	if err := json.Unmarshal(data, &patches); err != nil {
		return nil, fmt.Errorf("protocol: decode patches: %w", err)
	}
	return patches, nil
}
