package source

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client this source needs. *s3.Client
// satisfies it; tests satisfy it with a fake.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 loads a dataset from an S3 object holding a JSON array of objects.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	src := source.NewS3(s3.NewFromConfig(cfg), "datasets", "inventory.json")
type S3 struct {
	client S3API
	bucket string
	key    string
}

// NewS3 creates an S3 source reading s3://bucket/key.
func NewS3(client S3API, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

// Load implements Source.
func (s *S3) Load(ctx context.Context) ([]Row, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("source: get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("source: read s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return decodeRows(data)
}
