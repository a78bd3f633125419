package replay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverlayReadsThroughToStoreThenShadowsWithDiff(t *testing.T) {
	store := newTestStore(t)
	key := []byte("storage/0x1/slot0")

	require.NoError(t, store.db.Put(EngineVersionedKey(key, 5, 0), []byte("durable"), nil))

	overlay := NewOverlay(store, 6, 0, nil)

	v, ok := overlay.ReadStorage(key)
	require.True(t, ok)
	require.Equal(t, []byte("durable"), v.Bytes())

	_, had := overlay.WriteStorage(key, []byte("in-flight"))
	require.True(t, had)

	v, ok = overlay.ReadStorage(key)
	require.True(t, ok)
	require.Equal(t, []byte("in-flight"), v.Bytes(), "diff shadows the durable value before Commit")

	// the durable store is untouched until Commit.
	durable, ok, err := store.SeekForPrevEngine(key, 6, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("durable"), durable)

	require.NoError(t, overlay.Commit())

	durable, ok, err = store.SeekForPrevEngine(key, 6, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("in-flight"), durable, "Commit flushes the diff as a new version")
}

func TestOverlayRemoveStorageTombstones(t *testing.T) {
	store := newTestStore(t)
	key := []byte("storage/0x1/slot1")
	require.NoError(t, store.db.Put(EngineVersionedKey(key, 1, 0), []byte("present"), nil))

	overlay := NewOverlay(store, 2, 0, nil)
	require.True(t, overlay.HasKey(key))

	_, had := overlay.RemoveStorage(key)
	require.True(t, had)
	require.False(t, overlay.HasKey(key), "a tombstoned key reads as absent even though the durable store still has it")

	require.NoError(t, overlay.Commit())
}

func TestOverlayInputOutputRoundTrip(t *testing.T) {
	store := newTestStore(t)
	overlay := NewOverlay(store, 1, 0, []byte("payload"))

	require.Equal(t, []byte("payload"), overlay.ReadInput().Bytes())

	overlay.ReturnOutput([]byte("result"))
	require.Equal(t, []byte("result"), overlay.Output())
}
