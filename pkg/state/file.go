package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores each key as a JSON file in a config directory.
// File names are hashes of the key, so any repository identity is safe.
type FileBackend struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileBackend creates a file-based backend.
// If baseDir is empty, defaults to ~/.config/archmind/state/
func NewFileBackend(baseDir string) (*FileBackend, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "archmind", "state")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileBackend{baseDir: baseDir}, nil
}

func (f *FileBackend) keyPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.baseDir, hex.EncodeToString(sum[:16])+".json")
}

func (f *FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return data, nil
}

func (f *FileBackend) Set(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.keyPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (f *FileBackend) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }

// Path returns the base directory for state files.
func (f *FileBackend) Path() string {
	return f.baseDir
}

// KeyPath returns the file that holds key.
func (f *FileBackend) KeyPath(key string) string {
	return f.keyPath(key)
}

var _ Backend = (*FileBackend)(nil)
