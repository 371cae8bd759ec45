package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/propdocs/internal/config"
)

const localScheme = "local://"

type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = config.LocalBlobDir
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o600); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return localScheme + name, nil
}

func (s *LocalStore) Get(ctx context.Context, ref string) ([]byte, error) {
	path, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) path(ref string) (string, error) {
	if !strings.HasPrefix(ref, localScheme) {
		return "", fmt.Errorf("not a local blob reference: %q", ref)
	}
	return filepath.Join(s.dir, filepath.Base(strings.TrimPrefix(ref, localScheme))), nil
}
