// Package storage abstracts the object store the upload routes forward
// to. Production deployments plug in a bucket-backed client; the default
// implementation keeps objects in a local directory.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStore is the interface the upload handlers consume.
type ObjectStore interface {
	// Put stores the object under key and returns the byte count.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	// Open returns a reader for the stored object.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing key is an error.
	Delete(ctx context.Context, key string) error
}

// DirStore is an ObjectStore backed by a flat local directory.
type DirStore struct {
	root string
}

// NewDirStore creates root if needed and returns a store over it.
func NewDirStore(root string) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DirStore{root: root}, nil
}

// validKey rejects anything that could escape the root directory. Keys
// are generated server-side (uuid + extension), so this only guards
// against programming mistakes and hand-crafted delete requests.
func validKey(key string) error {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}

func (d *DirStore) Put(_ context.Context, key string, r io.Reader) (int64, error) {
	if err := validKey(key); err != nil {
		return 0, err
	}
	f, err := os.Create(filepath.Join(d.root, key))
	if err != nil {
		return 0, fmt.Errorf("create object %s: %w", key, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write object %s: %w", key, err)
	}
	return n, nil
}

func (d *DirStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(d.root, key))
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	return f, nil
}

func (d *DirStore) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(d.root, key)); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
