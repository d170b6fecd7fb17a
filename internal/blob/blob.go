// Package blob reads input documents from and writes output documents to
// local paths or gs://bucket/object URIs.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

// IsGCS reports whether p is a gs:// URI.
func IsGCS(p string) bool {
	return strings.HasPrefix(p, gcsScheme)
}

// SplitGCS splits gs://bucket/object into bucket and object.
func SplitGCS(uri string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(uri, gcsScheme)
	bucket, object, ok := strings.Cut(rest, "/")
	if !IsGCS(uri) || !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("invalid GCS URI %q, expected gs://bucket/object", uri)
	}
	return bucket, object, nil
}

// Base returns the last element of a local path or object name.
func Base(p string) string {
	if IsGCS(p) {
		return path.Base(p)
	}
	return filepath.Base(p)
}

// Join places name next to dir, which may be a local directory or a
// gs://bucket/prefix.
func Join(dir, name string) string {
	if IsGCS(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}
	return filepath.Join(dir, name)
}

// Store opens a GCS client lazily, on the first gs:// access.
type Store struct {
	opts []option.ClientOption

	once   sync.Once
	client *storage.Client
	err    error
}

func New(opts ...option.ClientOption) *Store {
	return &Store{opts: opts}
}

func (s *Store) gcs(ctx context.Context) (*storage.Client, error) {
	s.once.Do(func() {
		s.client, s.err = storage.NewClient(ctx, s.opts...)
		if s.err != nil {
			s.err = fmt.Errorf("failed to create storage client: %w", s.err)
		}
	})
	return s.client, s.err
}

// Read returns the contents at p.
func (s *Store) Read(ctx context.Context, p string) ([]byte, error) {
	if !IsGCS(p) {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return data, nil
	}

	bucket, object, err := SplitGCS(p)
	if err != nil {
		return nil, err
	}
	client, err := s.gcs(ctx)
	if err != nil {
		return nil, err
	}
	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, nil
}

// Write stores data at p, replacing any existing content.
func (s *Store) Write(ctx context.Context, p string, data []byte, contentType string) error {
	if !IsGCS(p) {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	bucket, object, err := SplitGCS(p)
	if err != nil {
		return err
	}
	client, err := s.gcs(ctx)
	if err != nil {
		return err
	}
	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

// Close releases the GCS client if one was opened.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
