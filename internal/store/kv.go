package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// KV is the minimal persistence capability the Store needs: get, set,
// and remove of a single blob per key. Keeping it this small makes the
// Store testable without touching the filesystem.
type KV interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// DirKV keeps one file per key under a private directory.
type DirKV struct {
	dir string
}

func NewDirKV(dir string) *DirKV {
	return &DirKV{dir: dir}
}

func (d *DirKV) Get(key string) ([]byte, bool, error) {
	b, err := os.ReadFile(filepath.Join(d.dir, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return b, true, nil
}

func (d *DirKV) Set(key string, value []byte) error {
	// ensure the data dir exists with owner-only access
	if err := os.MkdirAll(d.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, key), value, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (d *DirKV) Delete(key string) error {
	if err := os.Remove(filepath.Join(d.dir, key)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// MemKV is a map-backed KV for tests.
type MemKV struct {
	m map[string][]byte
}

func NewMemKV() *MemKV {
	return &MemKV{m: make(map[string][]byte)}
}

func (m *MemKV) Get(key string) ([]byte, bool, error) {
	v, ok := m.m[key]
	if !ok {
		return nil, false, nil
	}
	// copy on the way out too, so callers can't corrupt stored state
	return append([]byte(nil), v...), true, nil
}

func (m *MemKV) Set(key string, value []byte) error {
	m.m[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemKV) Delete(key string) error {
	delete(m.m, key)
	return nil
}
