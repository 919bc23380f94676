// Package source loads table datasets from pluggable backends: in-memory
// slices, JSON files on disk, and S3 objects. A Source feeds
// TableState.SetItems; reloading is the caller's concern.
package source

import (
	"context"
	"encoding/json"
	"fmt"
)

// Row is a schemaless record as loaded from a dataset. TableState handles
// string-keyed maps directly.
type Row = map[string]any

// Source loads a dataset.
type Source interface {
	// Load fetches all rows. Implementations honor ctx cancellation.
	Load(ctx context.Context) ([]Row, error)
}

// Static serves a fixed in-memory dataset.
type Static struct {
	rows []Row
}

// NewStatic wraps rows as a Source.
func NewStatic(rows []Row) *Static {
	return &Static{rows: rows}
}

// Load implements Source.
func (s *Static) Load(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.rows, nil
}

// decodeRows parses a JSON array of objects.
func decodeRows(data []byte) ([]Row, error) {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("source: decode dataset: %w", err)
	}
	return rows, nil
}
