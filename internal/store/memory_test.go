package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore[*int]()

	_, err := st.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	one, two := 1, 2
	require.NoError(t, st.Save(ctx, "a", &one))
	got, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, &one, got)

	require.NoError(t, st.Save(ctx, "a", &two))
	got, err = st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, *got)
	assert.Equal(t, 1, st.Len())

	require.NoError(t, st.Delete(ctx, "a"))
	require.NoError(t, st.Delete(ctx, "a"))
	assert.Equal(t, 0, st.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore[string]()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("g%d", i)
			_ = st.Save(ctx, id, id)
			v, err := st.Get(ctx, id)
			assert.NoError(t, err)
			assert.Equal(t, id, v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 32, st.Len())
}
