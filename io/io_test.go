package io_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	aeio "github.com/aurora-is-near/aurora-engine/io"
)

func TestInMemoryIOStorageRoundTrip(t *testing.T) {
	m := aeio.NewInMemoryIO(nil)
	require.False(t, m.HasKey([]byte("k")))

	_, had := m.WriteStorage([]byte("k"), []byte("v1"))
	require.False(t, had)

	prev, had := m.WriteStorage([]byte("k"), []byte("v2"))
	require.True(t, had)
	require.Equal(t, []byte("v1"), prev.Bytes())

	v, ok := m.ReadStorage([]byte("k"))
	require.True(t, ok)
	require.Equal(t, []byte("v2"), v.Bytes())

	removed, had := m.RemoveStorage([]byte("k"))
	require.True(t, had)
	require.Equal(t, []byte("v2"), removed.Bytes())
	require.False(t, m.HasKey([]byte("k")))
}

func TestInMemoryIOInputOutput(t *testing.T) {
	m := aeio.NewInMemoryIO([]byte("input-bytes"))
	require.Equal(t, []byte("input-bytes"), m.ReadInput().Bytes())

	m.ReturnOutput([]byte("output-bytes"))
	require.Equal(t, []byte("output-bytes"), m.Output())
}

func TestInMemoryIOSnapshotIsADefensiveCopy(t *testing.T) {
	m := aeio.NewInMemoryIO(nil)
	m.WriteStorage([]byte("k"), []byte("v"))

	snap := m.Snapshot()
	m.WriteStorage([]byte("k"), []byte("changed"))

	require.Equal(t, []byte("v"), snap["k"], "mutating storage after Snapshot must not affect the returned map")
}
