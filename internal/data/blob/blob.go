package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/propdocs/internal/config"
)

var ErrNotFound = errors.New("blob not found")

// Store keeps queued documents until the background worker picks them up.
// Put returns an opaque reference that Get and Delete accept.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

// New picks the backend named in settings.
func New(ctx context.Context, settings config.BlobSettings) (Store, error) {
	switch settings.Backend {
	case "", config.BlobBackendLocal:
		return NewLocalStore(settings.LocalDir)
	case config.BlobBackendGCS:
		return NewGCSStore(ctx, settings.Bucket)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", settings.Backend)
	}
}
