// Package artifacts writes pipeline outputs to a blob bucket: a local
// directory, memory, S3 or GCS.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // local directory driver
	_ "gocloud.dev/blob/gcsblob"  // GCS driver
	_ "gocloud.dev/blob/memblob"  // in-memory driver
	_ "gocloud.dev/blob/s3blob"   // S3 driver
	"gocloud.dev/gcerrors"
)

// ErrNotFound is returned when an artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Content types of the written artifacts.
const (
	ContentTypeCSV     = "text/csv; charset=utf-8"
	ContentTypeICS     = "text/calendar; charset=utf-8"
	ContentTypeTeX     = "application/x-tex; charset=utf-8"
	ContentTypeJSON    = "application/json"
	ContentTypeParquet = "application/vnd.apache.parquet"
)

// Sink stores named artifacts in one bucket.
type Sink struct {
	bucket *blob.Bucket
	// base is how artifact locations are displayed: a local directory or a URL.
	base  string
	local bool
}

// Open opens location as a sink. A location with a scheme is a bucket URL;
// anything else is a local directory, created if missing.
func Open(ctx context.Context, location string) (*Sink, error) {
	if strings.Contains(location, "://") {
		bucket, err := blob.OpenBucket(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("open bucket %s: %w", location, err)
		}
		base := strings.TrimSuffix(location, "/")
		if i := strings.Index(base, "?"); i >= 0 {
			base = base[:i]
		}
		return &Sink{bucket: bucket, base: base, local: strings.HasPrefix(location, "file://")}, nil
	}

	dir, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory %s: %w", location, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	bucket, err := blob.OpenBucket(ctx, "file://"+filepath.ToSlash(dir))
	if err != nil {
		return nil, fmt.Errorf("open output directory %s: %w", dir, err)
	}
	return &Sink{bucket: bucket, base: dir, local: true}, nil
}

// NewSink wraps an already opened bucket; base is used for display only.
func NewSink(bucket *blob.Bucket, base string) *Sink {
	return &Sink{bucket: bucket, base: base}
}

// Location returns a human-readable location for name.
func (s *Sink) Location(name string) string {
	if s.local && !strings.Contains(s.base, "://") {
		return filepath.Join(s.base, name)
	}
	return s.base + "/" + name
}

// Write stores data under name, replacing any previous version.
func (s *Sink) Write(ctx context.Context, name string, data []byte, contentType string) error {
	w, err := s.bucket.NewWriter(ctx, name, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("create writer for %s: %w", name, err)
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write data to %s: %w", name, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer for %s: %w", name, err)
	}
	return nil
}

// Read returns the contents of name, or ErrNotFound.
func (s *Sink) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, name)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Exists reports whether name is present.
func (s *Sink) Exists(ctx context.Context, name string) (bool, error) {
	return s.bucket.Exists(ctx, name)
}

// Close releases the bucket.
func (s *Sink) Close() error {
	if s.bucket != nil {
		return s.bucket.Close()
	}
	return nil
}
