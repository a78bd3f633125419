package borsh_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine/borsh"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := borsh.NewWriter()
	w.U8(7)
	w.Bool(true)
	w.U32(1234)
	w.U64(9876543210)
	w.Str("hello")
	w.WriteBytes([]byte{1, 2, 3})
	w.Fixed([]byte{0xaa, 0xbb})

	r := borsh.NewReader(w.Bytes())

	u8, err := r.U8()
	require.NoError(t, err)
	require.EqualValues(t, 7, u8)

	b, err := r.Bool()
	require.NoError(t, err)
	require.True(t, b)

	u32, err := r.U32()
	require.NoError(t, err)
	require.EqualValues(t, 1234, u32)

	u64, err := r.U64()
	require.NoError(t, err)
	require.EqualValues(t, 9876543210, u64)

	s, err := r.Str()
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	bs, err := r.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, bs)

	fixed, err := r.Fixed(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa, 0xbb}, fixed)

	require.Zero(t, r.Remaining())
}

func TestReaderShortBuffer(t *testing.T) {
	r := borsh.NewReader([]byte{0x01})
	_, err := r.U64()
	require.ErrorIs(t, err, borsh.ErrShortBuffer)
}

func TestU128RoundTripsBigEndianValue(t *testing.T) {
	// Big-endian input 0x00...0001 (value 1) should read back as the same
	// big-endian representation after a little-endian wire round trip.
	var be [16]byte
	be[15] = 1

	w := borsh.NewWriter()
	w.U128(be)

	r := borsh.NewReader(w.Bytes())
	got, err := r.U128()
	require.NoError(t, err)
	require.Equal(t, be, got)
}

func TestStrEmpty(t *testing.T) {
	w := borsh.NewWriter()
	w.Str("")
	r := borsh.NewReader(w.Bytes())
	s, err := r.Str()
	require.NoError(t, err)
	require.Empty(t, s)
}
