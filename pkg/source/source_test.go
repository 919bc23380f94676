package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestStaticLoad(t *testing.T) {
	src := NewStatic([]Row{{"id": 1, "name": "Desk"}})

	rows, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "Desk" {
		t.Errorf("rows = %v", rows)
	}
}

func TestStaticHonorsCancellation(t *testing.T) {
	src := NewStatic(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFileLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	payload := `[{"id":1,"name":"Desk","category":"Furniture"},{"id":2,"name":"Cable"}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := NewFile(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["category"] != "Furniture" {
		t.Errorf("rows[0] = %v", rows[0])
	}
}

func TestFileLoadMissing(t *testing.T) {
	if _, err := NewFile(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFile(path).Load(context.Background()); err == nil {
		t.Error("expected error for non-array dataset")
	}
}

type fakeS3 struct {
	body string
	err  error
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Load(t *testing.T) {
	client := &fakeS3{body: `[{"id":1,"sku":"SKU-1"}]`}
	src := NewS3(client, "datasets", "inventory.json")

	rows, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 1 || rows[0]["sku"] != "SKU-1" {
		t.Errorf("rows = %v", rows)
	}
}

func TestS3LoadError(t *testing.T) {
	client := &fakeS3{err: errors.New("access denied")}
	src := NewS3(client, "datasets", "inventory.json")

	if _, err := src.Load(context.Background()); err == nil {
		t.Error("expected error from client")
	}
}
