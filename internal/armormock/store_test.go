package armormock

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	sqliteStore, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "mock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestStoreCreateGetDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Create(ctx, "projects/p/locations/l/templates/a", []byte(`{"x":1}`)))

			data, err := store.Get(ctx, "projects/p/locations/l/templates/a")
			require.NoError(t, err)
			assert.Equal(t, `{"x":1}`, string(data))

			err = store.Create(ctx, "projects/p/locations/l/templates/a", []byte(`{"x":2}`))
			assert.ErrorIs(t, err, ErrExists)

			require.NoError(t, store.Delete(ctx, "projects/p/locations/l/templates/a"))

			_, err = store.Get(ctx, "projects/p/locations/l/templates/a")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, store.Delete(ctx, "projects/p/locations/l/templates/a"), ErrNotFound)
		})
	}
}

func TestStorePutOverwrites(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "projects/p/locations/global/floorSetting", []byte(`{"v":1}`)))
			require.NoError(t, store.Put(ctx, "projects/p/locations/global/floorSetting", []byte(`{"v":2}`)))

			data, err := store.Get(ctx, "projects/p/locations/global/floorSetting")
			require.NoError(t, err)
			assert.Equal(t, `{"v":2}`, string(data))
		})
	}
}

func TestStoreListPrefixOrderAndCursor(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			prefix := "projects/p/locations/l/templates/"
			for i := 0; i < 5; i++ {
				name := fmt.Sprintf("%stpl-%d", prefix, i)
				require.NoError(t, store.Create(ctx, name, []byte(`{}`)))
			}
			// Outside the prefix; must not be listed.
			require.NoError(t, store.Create(ctx, "projects/p/locations/other/templates/tpl-9", []byte(`{}`)))

			page, err := store.List(ctx, prefix, 2, "")
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, prefix+"tpl-0", page[0].Name)
			assert.Equal(t, prefix+"tpl-1", page[1].Name)

			page, err = store.List(ctx, prefix, 10, page[1].Name)
			require.NoError(t, err)
			require.Len(t, page, 3)
			assert.Equal(t, prefix+"tpl-2", page[0].Name)
			assert.Equal(t, prefix+"tpl-4", page[2].Name)
		})
	}
}

func TestStoreListEmptyPrefix(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			page, err := store.List(ctx, "projects/none/", 10, "")
			require.NoError(t, err)
			assert.Empty(t, page)
		})
	}
}
