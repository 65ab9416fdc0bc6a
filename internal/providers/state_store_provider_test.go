package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pad/internal/structures"
)

// passthrough compressor; the real codec has its own tests
type identityCompressor struct{}

func (c *identityCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (c *identityCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (c *identityCompressor) Close()                                {}

func newTestStateStore(t *testing.T) (StateStoreInterface, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pad.state")
	conf := &structures.Config{
		Persistence: structures.Persistence{
			StatePath:    path,
			SaveInterval: 30 * time.Second,
		},
	}
	return NewStateStoreProvider(conf, &identityCompressor{}, &cacheTestLogger{}), path
}

func TestStateStore_SetGetDelete(t *testing.T) {
	store, _ := newTestStateStore(t)

	_, ok := store.Get("marks")
	assert.False(t, ok)

	store.Set("marks", []byte(`{"vip":["a"]}`))
	val, ok := store.Get("marks")
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"vip":["a"]}`), val)

	store.Delete("marks")
	_, ok = store.Get("marks")
	assert.False(t, ok)
}

func TestStateStore_SaveAndLoadRoundTrip(t *testing.T) {
	store, path := newTestStateStore(t)
	store.Set("marks", []byte(`{"vip":["a"]}`))
	store.Set("vip_online", []byte(`["a","b"]`))
	require.NoError(t, store.Save())

	conf := &structures.Config{Persistence: structures.Persistence{StatePath: path}}
	reloaded := NewStateStoreProvider(conf, &identityCompressor{}, &cacheTestLogger{})
	require.NoError(t, reloaded.Load())

	val, ok := reloaded.Get("marks")
	assert.True(t, ok)
	assert.JSONEq(t, `{"vip":["a"]}`, string(val))

	val, ok = reloaded.Get("vip_online")
	assert.True(t, ok)
	assert.JSONEq(t, `["a","b"]`, string(val))
}

func TestStateStore_LoadMissingFileStartsEmpty(t *testing.T) {
	store, _ := newTestStateStore(t)
	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestStateStore_LoadCorruptFileStartsEmpty(t *testing.T) {
	store, path := newTestStateStore(t)
	require.NoError(t, os.WriteFile(path, []byte("definitely not json"), 0644))

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestStateStore_SaveLeavesNoTmpFile(t *testing.T) {
	store, path := newTestStateStore(t)
	store.Set("k", []byte(`"v"`))
	require.NoError(t, store.Save())

	_, err := os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
