package source

import (
	"context"
	"fmt"
	"os"
)

// File loads a dataset from a JSON file on disk. The file holds a JSON
// array of objects.
type File struct {
	path string
}

// NewFile creates a file source for path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load implements Source.
func (f *File) Load(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", f.path, err)
	}
	return decodeRows(data)
}
