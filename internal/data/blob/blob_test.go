package blob

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/propdocs/internal/config"
)

func TestLocalStore_Roundtrip(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	ref, err := s.Put(ctx, "job-1.pdf", []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ref != "local://job-1.pdf" {
		t.Errorf("ref got %s", ref)
	}

	data, err := s.Get(ctx, ref)
	if err != nil || string(data) != "%PDF-1.7" {
		t.Fatalf("Get: %q %v", data, err)
	}

	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, ref); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestLocalStore_NamesCannotEscapeDir(t *testing.T) {
	s, _ := NewLocalStore(t.TempDir())
	ref, err := s.Put(context.Background(), "../../etc/evil.txt", []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if ref != "local://evil.txt" {
		t.Errorf("got %s", ref)
	}
}

func TestParseGCSRef(t *testing.T) {
	bucket, object, err := parseGCSRef("gs://docs-bucket/queued/job-1.pdf")
	if err != nil || bucket != "docs-bucket" || object != "queued/job-1.pdf" {
		t.Errorf("got %s %s %v", bucket, object, err)
	}
	for _, bad := range []string{"local://x", "gs://bucket", "gs:///obj"} {
		if _, _, err := parseGCSRef(bad); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := New(context.Background(), config.BlobSettings{Backend: "s3"}); err == nil {
		t.Error("expected error")
	}
	if _, err := New(context.Background(), config.BlobSettings{Backend: config.BlobBackendGCS}); err == nil {
		t.Error("gcs without bucket should fail before dialing")
	}
}
