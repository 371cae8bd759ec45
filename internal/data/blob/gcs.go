package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

const gcsScheme = "gs://"

// GCSStore keeps queued documents in a bucket so workers on other hosts can
// read them.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs blob store needs a bucket name")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	object := "queued/" + name
	writer := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return gcsScheme + s.bucket + "/" + object, nil
}

func (s *GCSStore) Get(ctx context.Context, ref string) ([]byte, error) {
	bucket, object, err := parseGCSRef(ref)
	if err != nil {
		return nil, err
	}
	reader, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gcs read: %w", err)
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	bucket, object, err := parseGCSRef(ref)
	if err != nil {
		return err
	}
	err = s.client.Bucket(bucket).Object(object).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete: %w", err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func parseGCSRef(ref string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(ref, gcsScheme)
	if !ok {
		return "", "", fmt.Errorf("not a gcs reference: %q", ref)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("malformed gcs reference: %q", ref)
	}
	return bucket, object, nil
}
