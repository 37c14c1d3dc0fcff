// Package state persists cluster expand/collapse state per repository.
//
// A [Store] wraps a byte-oriented [Backend]. Backends:
//   - memory: in-process map, for tests and single-process servers
//   - file: JSON files under ~/.config/archmind/state/, for the CLI
//   - badger: embedded key-value store for long-running local services
//   - redis: shared state for multi-instance servers
//   - mongo: document store for hosted deployments
//
// # Format
//
// Each repository's state is one flat JSON object of cluster id to
// boolean, stored under the key returned by [Key]:
//
//	{"cluster-src": false, "cluster-src/ui": true}
//
// # Corruption
//
// [Store.Load] never fails on bad data. An entry that does not parse is
// deleted and an empty (all-expanded) state is returned. Backend I/O errors
// are still reported.
//
// # Usage
//
//	backend, err := state.NewFileBackend("")
//	store := state.New(backend)
//	defer store.Close()
//
//	st, err := store.Load(ctx, "github.com/acme/app")
//	st.Toggle("cluster-src")
//	err = store.Save(ctx, "github.com/acme/app", st)
package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Arch-Mind/frontend-sub001/pkg/cluster"
)

// KeyPrefix namespaces state keys in shared backends.
const KeyPrefix = "archmind:clusters:"

// ErrEmptyRepo is returned when a repository identity is blank.
var ErrEmptyRepo = errors.New("repository identity is empty")

// Backend is a minimal byte store.
type Backend interface {
	// Get returns the stored bytes, or nil, nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Key returns the backend key for a repository identity. Trailing slashes
// and backslashes are normalized so "repo/" and "repo" share state.
func Key(repo string) (string, error) {
	repo = strings.TrimRight(strings.ReplaceAll(strings.TrimSpace(repo), `\`, "/"), "/")
	if repo == "" {
		return "", ErrEmptyRepo
	}
	return KeyPrefix + repo, nil
}

// Store loads and saves cluster state through a Backend.
//
// Writes to one repository (Save, Reset, Update) are serialized within a
// Store, so concurrent Updates never lose each other's changes. Separate
// processes sharing a backend are not coordinated; the last write wins.
type Store struct {
	backend Backend
	locks   sync.Map // key -> *sync.Mutex

	// Logger receives warnings about discarded state. Nil is silent.
	Logger *log.Logger
}

// New creates a Store over backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// Load returns the saved state for repo, or an empty state when nothing is
// stored or the stored value is corrupt. Corrupt values are deleted.
func (s *Store) Load(ctx context.Context, repo string) (*cluster.State, error) {
	key, err := Key(repo)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, repo, key)
}

func (s *Store) load(ctx context.Context, repo, key string) (*cluster.State, error) {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", repo, err)
	}
	if data == nil {
		return cluster.NewState(), nil
	}

	st, err := cluster.ParseState(data)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("discarding corrupt cluster state", "repo", repo, "error", err)
		}
		if derr := s.backend.Delete(ctx, key); derr != nil && s.Logger != nil {
			s.Logger.Warn("delete corrupt cluster state", "repo", repo, "error", derr)
		}
		return cluster.NewState(), nil
	}
	return st, nil
}

// Save replaces the stored state for repo.
func (s *Store) Save(ctx context.Context, repo string, st *cluster.State) error {
	key, err := Key(repo)
	if err != nil {
		return err
	}
	defer s.lock(key)()
	return s.save(ctx, repo, key, st)
}

func (s *Store) save(ctx context.Context, repo, key string, st *cluster.State) error {
	data, err := st.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save state %s: %w", repo, err)
	}
	return nil
}

// Reset removes the stored state for repo.
func (s *Store) Reset(ctx context.Context, repo string) error {
	key, err := Key(repo)
	if err != nil {
		return err
	}
	defer s.lock(key)()
	return s.backend.Delete(ctx, key)
}

// Update loads the state for repo, applies fn and saves the result while
// holding the repository's write lock.
func (s *Store) Update(ctx context.Context, repo string, fn func(*cluster.State)) (*cluster.State, error) {
	key, err := Key(repo)
	if err != nil {
		return nil, err
	}
	defer s.lock(key)()

	st, err := s.load(ctx, repo, key)
	if err != nil {
		return nil, err
	}
	fn(st)
	if err := s.save(ctx, repo, key, st); err != nil {
		return nil, err
	}
	return st, nil
}

// lock acquires the write lock for key and returns its release.
func (s *Store) lock(key string) func() {
	v, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
