package replay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiffSetThenRemoveClearsWrite(t *testing.T) {
	d := NewDiff()
	d.Set([]byte("k"), []byte("v"))

	v, removed, found := d.Get([]byte("k"))
	require.True(t, found)
	require.False(t, removed)
	require.Equal(t, []byte("v"), v)

	d.Remove([]byte("k"))
	_, removed, found = d.Get([]byte("k"))
	require.True(t, found)
	require.True(t, removed)
}

func TestDiffRemoveThenSetClearsTombstone(t *testing.T) {
	d := NewDiff()
	d.Remove([]byte("k"))
	d.Set([]byte("k"), []byte("v2"))

	v, removed, found := d.Get([]byte("k"))
	require.True(t, found)
	require.False(t, removed)
	require.Equal(t, []byte("v2"), v)
}

func TestDiffGetUntouchedKeyNotFound(t *testing.T) {
	d := NewDiff()
	_, _, found := d.Get([]byte("missing"))
	require.False(t, found)
}

func TestDiffEntriesCoversWritesAndTombstones(t *testing.T) {
	d := NewDiff()
	d.Set([]byte("a"), []byte("1"))
	d.Remove([]byte("b"))

	entries := d.Entries()
	require.Len(t, entries, 2)
}
