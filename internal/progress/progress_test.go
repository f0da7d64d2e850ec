package progress

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"
)

func setOf(items ...string) mapset.Set[string] {
	s := mapset.New[string]()
	for _, it := range items {
		s.Put(it)
	}
	return s
}

func members(s mapset.Set[string]) map[string]bool {
	out := map[string]bool{}
	s.Each(func(k string) { out[k] = true })
	return out
}

func openTemp(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "onebit.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

// backends runs fn against every KV implementation.
func backends(t *testing.T, fn func(t *testing.T, kv KV)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryKV()) })
	t.Run("sqlite", func(t *testing.T) {
		db, _ := openTemp(t)
		fn(t, db)
	})
}

func TestKV_GetSetDelete(t *testing.T) {
	backends(t, func(t *testing.T, kv KV) {
		ctx := context.Background()

		_, err := kv.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, kv.Set(ctx, "k", "one"))
		v, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "one", v)

		require.NoError(t, kv.Set(ctx, "k", "two"))
		v, err = kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", v)

		require.NoError(t, kv.Delete(ctx, "k"))
		_, err = kv.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)

		// absent key
		assert.NoError(t, kv.Delete(ctx, "missing"))
	})
}

func TestTracker_RoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		tr := NewTracker(kv)

		got, err := tr.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Size())

		require.NoError(t, tr.save(ctx, setOf("moon", "bread")))
		raw, err := kv.Get(ctx, StorageKey)
		require.NoError(t, err)
		assert.Equal(t, `["bread","moon"]`, raw)

		got, err = tr.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"moon": true, "bread": true}, members(got))

		require.NoError(t, tr.Clear(ctx))
		got, err = tr.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Size())
	})
}

func TestTracker_AddMergesWithStoredSet(t *testing.T) {
	backends(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		// two sessions of one player, each with its own tracker
		a, b := NewPlayerTracker(kv, "p"), NewPlayerTracker(kv, "p")

		_, err := a.Add(ctx, "light")
		require.NoError(t, err)
		got, err := b.Add(ctx, "ship")
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"light": true, "ship": true}, members(got))

		// a reset is not undone by a later solve in an open session
		require.NoError(t, b.Clear(ctx))
		got, err = a.Add(ctx, "bread")
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"bread": true}, members(got))
	})
}

func TestTracker_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	secrets := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, s := range secrets {
		wg.Add(1)
		go func(s string) {
			defer wg.Done()
			_, err := NewPlayerTracker(kv, "p").Add(ctx, s)
			assert.NoError(t, err)
		}(s)
	}
	wg.Wait()

	got, err := NewPlayerTracker(kv, "p").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(secrets), got.Size())
}

func TestTracker_UnreadableIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"not json", `{"a":1}`, "null", `[""]`} {
		kv := NewMemoryKV()
		require.NoError(t, kv.Set(ctx, StorageKey, raw))
		got, err := NewTracker(kv).Load(ctx)
		require.NoError(t, err, raw)
		assert.Equal(t, 0, got.Size(), raw)
	}
}

type brokenKV struct{}

var errDisk = errors.New("disk on fire")

func (brokenKV) Get(context.Context, string) (string, error) { return "", errDisk }
func (brokenKV) Set(context.Context, string, string) error   { return errDisk }
func (brokenKV) Delete(context.Context, string) error        { return errDisk }

func TestTracker_BackendErrors(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(brokenKV{})

	got, err := tr.Load(ctx)
	assert.ErrorIs(t, err, errDisk)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Size())

	assert.ErrorIs(t, tr.save(ctx, setOf("x")), errDisk)
	_, err = tr.Add(ctx, "x")
	assert.ErrorIs(t, err, errDisk)
	assert.ErrorIs(t, tr.Clear(ctx), errDisk)
}

func TestPlayerTracker_Namespaced(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	a := NewPlayerTracker(kv, "alice")
	b := NewPlayerTracker(kv, "bob")
	assert.Equal(t, "onebit-solved:alice", a.key)
	assert.Equal(t, StorageKey, NewPlayerTracker(kv, "").key)

	require.NoError(t, a.save(ctx, setOf("moon")))
	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Size())
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	db, path := openTemp(t)
	require.NoError(t, NewTracker(db).save(ctx, setOf("moon")))
	require.NoError(t, db.Close())

	// Reopening re-runs migrate, which must skip what is already applied.
	again, err := OpenSQLite(path)
	require.NoError(t, err)
	defer again.Close()

	got, err := NewTracker(again).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"moon": true}, members(got))

	var n int
	require.NoError(t, again.db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}
