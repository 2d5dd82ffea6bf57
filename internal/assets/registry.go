// Package assets implements the embedded asset service for the admin
// console: an immutable registry of bundled UI files, extension-based
// MIME resolution, and SPA-aware request resolution.
package assets

import (
	"fmt"
	"io/fs"
	"sort"
)

// Asset is a single bundled file. The byte slice is shared by every
// request that serves it and must never be mutated.
type Asset struct {
	Key  string
	Data []byte
	Size int64
}

// Registry is the immutable path -> asset table. It is populated exactly
// once, before the server accepts connections, and is read-only for the
// life of the process, so concurrent lookups need no locking.
type Registry struct {
	entries map[string]*Asset
	keys    []string
}

// NewRegistry reads every regular file in fsys and stores it under
// prefix + "/" + its slash-separated path. The bundle filesystem is
// never touched again after this returns.
func NewRegistry(fsys fs.FS, prefix string) (*Registry, error) {
	reg := &Registry{entries: make(map[string]*Asset)}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read bundle file %s: %w", p, err)
		}
		key := prefix + "/" + p
		reg.entries[key] = &Asset{Key: key, Data: data, Size: int64(len(data))}
		reg.keys = append(reg.keys, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load asset bundle: %w", err)
	}

	sort.Strings(reg.keys)
	return reg, nil
}

// Lookup returns the asset stored under key. A missing key is a normal
// empty result, not an error.
func (reg *Registry) Lookup(key string) (*Asset, bool) {
	a, ok := reg.entries[key]
	return a, ok
}

// Contains reports whether key is present in the registry.
func (reg *Registry) Contains(key string) bool {
	_, ok := reg.entries[key]
	return ok
}

// Keys returns all registry keys in sorted order. Debug/introspection
// only; resolution never iterates the registry.
func (reg *Registry) Keys() []string {
	out := make([]string, len(reg.keys))
	copy(out, reg.keys)
	return out
}

// Len returns the number of bundled assets.
func (reg *Registry) Len() int {
	return len(reg.entries)
}
