// Package borsh implements the small subset of the NEAR host's canonical
// struct serializer this engine needs: little-endian fixed-width integers
// and length-prefixed (u32 LE length) byte strings, exactly the format
// spec.md §6 mandates for cross-contract call encoding and that
// engine-sdk's IO::read_input_borsh/BorshSerialize rely on throughout
// original_source. There is no Go library for this wire format in the
// example corpus (every example repo here is an Ethereum client, not a
// NEAR one), so this is a small hand-written codec rather than an
// unjustified dependency — see DESIGN.md.
package borsh

import (
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is returned when decoding runs past the end of the input.
var ErrShortBuffer = errors.New("borsh: unexpected end of input")

// Writer accumulates a borsh-encoded byte string.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoded bytes.
func (w *Writer) Bytes() []byte { return w.buf }

// U8 appends a single byte.
func (w *Writer) U8(v uint8) *Writer { w.buf = append(w.buf, v); return w }

// Bool appends a single byte, 1 for true and 0 for false.
func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.U8(1)
	}
	return w.U8(0)
}

// U32 appends a little-endian uint32.
func (w *Writer) U32(v uint32) *Writer {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

// U64 appends a little-endian uint64.
func (w *Writer) U64(v uint64) *Writer {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

// U128 appends a little-endian 128-bit unsigned integer from a big-endian
// 16-byte value (the shape attached-NEAR balances arrive in from uint256).
func (w *Writer) U128(beValue [16]byte) *Writer {
	var le [16]byte
	for i := range beValue {
		le[i] = beValue[len(beValue)-1-i]
	}
	w.buf = append(w.buf, le[:]...)
	return w
}

// Fixed appends b's raw bytes, unprefixed (no length is written).
func (w *Writer) Fixed(b []byte) *Writer { w.buf = append(w.buf, b...); return w }

// WriteBytes appends a u32-length-prefixed byte string.
func (w *Writer) WriteBytes(b []byte) *Writer {
	w.U32(uint32(len(b))) //nolint:gosec // lengths here are bounded by gas, never near 2^32
	w.buf = append(w.buf, b...)
	return w
}

// Str appends a u32-length-prefixed utf8 string.
func (w *Writer) Str(s string) *Writer { return w.WriteBytes([]byte(s)) }

// Reader decodes a borsh-encoded byte string sequentially.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, ErrShortBuffer
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// U8 reads a single byte.
func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Bool reads a single byte as a bool (0/1; any nonzero value is true).
func (r *Reader) Bool() (bool, error) {
	b, err := r.U8()
	return b != 0, err
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// U128 reads a little-endian 128-bit value and returns it as big-endian
// bytes, the natural shape for feeding into uint256.Int.SetBytes.
func (r *Reader) U128() ([16]byte, error) {
	var out [16]byte
	b, err := r.take(16)
	if err != nil {
		return out, err
	}
	for i := range b {
		out[i] = b[len(b)-1-i]
	}
	return out, nil
}

// Fixed reads exactly n raw bytes.
func (r *Reader) Fixed(n int) ([]byte, error) { return r.take(n) }

// Bytes reads a u32-length-prefixed byte string.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	return r.take(int(n))
}

// Str reads a u32-length-prefixed utf8 string.
func (r *Reader) Str() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
