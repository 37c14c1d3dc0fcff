package state

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arch-Mind/frontend-sub001/pkg/cluster"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	fb, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	bb, err := NewBadgerBackend(BadgerConfig{InMemory: true})
	require.NoError(t, err)

	out := map[string]Backend{
		"memory": NewMemoryBackend(),
		"file":   fb,
		"badger": bb,
	}
	if url := os.Getenv("ARCHMIND_TEST_REDIS_URL"); url != "" {
		rb, err := NewRedisBackend(context.Background(), RedisConfig{URL: url})
		require.NoError(t, err)
		out["redis"] = rb
	}
	if uri := os.Getenv("ARCHMIND_TEST_MONGO_URI"); uri != "" {
		mb, err := NewMongoBackend(context.Background(), MongoConfig{URI: uri, Collection: "cluster_state_test"})
		require.NoError(t, err)
		out["mongo"] = mb
	}
	return out
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := New(b)
			defer store.Close()
			repo := "github.com/acme/app-" + name

			st, err := store.Load(ctx, repo)
			require.NoError(t, err)
			assert.Equal(t, 0, st.Len(), "fresh repo should start empty")

			st.Set("cluster-src", false)
			st.Set("cluster-gone", true)
			require.NoError(t, store.Save(ctx, repo, st))

			back, err := store.Load(ctx, repo)
			require.NoError(t, err)
			assert.False(t, back.IsExpanded("cluster-src"))
			assert.Equal(t, []string{"cluster-gone", "cluster-src"}, back.IDs(), "stale entries are kept verbatim")

			require.NoError(t, store.Reset(ctx, repo))
			back, err = store.Load(ctx, repo)
			require.NoError(t, err)
			assert.Equal(t, 0, back.Len())
		})
	}
}

func TestStore_CorruptDiscarded(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := New(b)
			defer store.Close()
			repo := "corrupt-" + name
			key, err := Key(repo)
			require.NoError(t, err)

			require.NoError(t, b.Set(ctx, key, []byte("{not json")))

			st, err := store.Load(ctx, repo)
			require.NoError(t, err)
			assert.Equal(t, 0, st.Len())
			assert.True(t, st.IsExpanded("cluster-anything"))

			data, err := b.Get(ctx, key)
			require.NoError(t, err)
			assert.Nil(t, data, "corrupt entry should be deleted")
		})
	}
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	store := New(NewMemoryBackend())

	st, err := store.Update(ctx, "repo", func(s *cluster.State) { s.Toggle("cluster-src") })
	require.NoError(t, err)
	assert.False(t, st.IsExpanded("cluster-src"))

	st, err = store.Update(ctx, "repo/", func(s *cluster.State) { s.Toggle("cluster-src") })
	require.NoError(t, err)
	assert.True(t, st.IsExpanded("cluster-src"), "trailing slash should address the same repo")
}

// slowBackend widens the window between a read and the following write.
type slowBackend struct {
	*MemoryBackend
}

func (b slowBackend) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(time.Millisecond)
	return b.MemoryBackend.Get(ctx, key)
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := New(slowBackend{NewMemoryBackend()})

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "repo", func(s *cluster.State) {
				s.Collapse(fmt.Sprintf("cluster-%d", i))
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	st, err := store.Load(ctx, "repo")
	require.NoError(t, err)
	assert.Equal(t, n, st.Len(), "every concurrent update survives")
}

func TestStore_SeparatesRepos(t *testing.T) {
	ctx := context.Background()
	store := New(NewMemoryBackend())

	a := cluster.NewState()
	a.Set("cluster-x", false)
	require.NoError(t, store.Save(ctx, "repo-a", a))

	b, err := store.Load(ctx, "repo-b")
	require.NoError(t, err)
	assert.True(t, b.IsExpanded("cluster-x"))
}

func TestKey(t *testing.T) {
	k, err := Key(`C:\work\repo\`)
	require.NoError(t, err)
	assert.Equal(t, KeyPrefix+"C:/work/repo", k)

	_, err = Key("  ")
	assert.ErrorIs(t, err, ErrEmptyRepo)
}

func TestFileBackend_Path(t *testing.T) {
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, fb.Path())

	require.NoError(t, fb.Set(context.Background(), "k", []byte("{}")))
	_, err = os.Stat(fb.KeyPath("k"))
	assert.NoError(t, err)
	assert.NoError(t, fb.Delete(context.Background(), "missing"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, s.Backend())

	s, err = Open(ctx, Config{Backend: BackendFile, Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, s.Backend())

	s, err = Open(ctx, Config{Backend: BackendBadger, Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &BadgerBackend{}, s.Backend())
	require.NoError(t, s.Close())

	_, err = Open(ctx, Config{Backend: "etcd"}, nil)
	assert.Error(t, err)
}
