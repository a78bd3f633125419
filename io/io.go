// Package io defines the KV I/O abstraction the rest of the engine is built
// on (spec.md §2 item 1), grounded on aurora-engine's engine-sdk/src/io.rs
// IO trait: read/write/remove/has_key plus a deferred value handle that lets
// a caller query length without copying bytes, mirroring the NEAR host's
// register API.
package io

// Value is a reference to bytes obtained from storage or from input,
// without requiring the caller to copy them eagerly. A production host-ABI
// binding would make this a scratch-register handle; InMemoryIO below makes
// it a thin wrapper over a []byte since there is no such register here.
type Value interface {
	Len() int
	IsEmpty() bool
	CopyTo(buf []byte)
	Bytes() []byte
}

// IO is the storage/input/output trait every higher layer (state, precompiles,
// replay) is built against. A single production implementation talks to the
// host chain's register-based ABI; the standalone replay engine (spec.md
// §4.8) and all unit tests use InMemoryIO or replay.Store instead.
type IO interface {
	// ReadInput returns the raw bytes passed as input to the current
	// invocation (the generalized stdin/argv of spec.md §6's entrypoint ABI).
	ReadInput() Value

	// ReturnOutput writes the given bytes as the output of the current
	// invocation.
	ReturnOutput(value []byte)

	// ReadStorage returns the value at key, if any.
	ReadStorage(key []byte) (Value, bool)

	// HasKey reports whether a value exists at key, without reading it.
	HasKey(key []byte) bool

	// WriteStorage writes value under key, returning the previous value if
	// one existed.
	WriteStorage(key []byte, value []byte) (Value, bool)

	// RemoveStorage deletes the entry at key, returning its prior value if
	// one existed.
	RemoveStorage(key []byte) (Value, bool)
}

type bytesValue []byte

func (b bytesValue) Len() int          { return len(b) }
func (b bytesValue) IsEmpty() bool     { return len(b) == 0 }
func (b bytesValue) CopyTo(buf []byte) { copy(buf, b) }
func (b bytesValue) Bytes() []byte     { return append([]byte(nil), b...) }

// NewValue wraps raw bytes as a Value.
func NewValue(b []byte) Value { return bytesValue(b) }

// InMemoryIO is a map-backed IO implementation used by tests and by any
// in-process embedding of the engine that doesn't need real persistence.
type InMemoryIO struct {
	input   []byte
	output  []byte
	storage map[string][]byte
}

// NewInMemoryIO returns an InMemoryIO with the given input bytes preloaded.
func NewInMemoryIO(input []byte) *InMemoryIO {
	return &InMemoryIO{input: input, storage: make(map[string][]byte)}
}

func (m *InMemoryIO) ReadInput() Value { return bytesValue(m.input) }

func (m *InMemoryIO) ReturnOutput(value []byte) {
	m.output = append([]byte(nil), value...)
}

// Output returns the bytes passed to the most recent ReturnOutput call.
func (m *InMemoryIO) Output() []byte { return m.output }

func (m *InMemoryIO) ReadStorage(key []byte) (Value, bool) {
	v, ok := m.storage[string(key)]
	if !ok {
		return nil, false
	}
	return bytesValue(v), true
}

func (m *InMemoryIO) HasKey(key []byte) bool {
	_, ok := m.storage[string(key)]
	return ok
}

func (m *InMemoryIO) WriteStorage(key []byte, value []byte) (Value, bool) {
	prev, had := m.storage[string(key)]
	m.storage[string(key)] = append([]byte(nil), value...)
	if !had {
		return nil, false
	}
	return bytesValue(prev), true
}

func (m *InMemoryIO) RemoveStorage(key []byte) (Value, bool) {
	prev, had := m.storage[string(key)]
	delete(m.storage, string(key))
	if !had {
		return nil, false
	}
	return bytesValue(prev), true
}

// Snapshot returns a defensive copy of the full storage map, used by tests
// asserting on post-state and by the diff round-trip property (spec.md §8).
func (m *InMemoryIO) Snapshot() map[string][]byte {
	out := make(map[string][]byte, len(m.storage))
	for k, v := range m.storage {
		out[k] = append([]byte(nil), v...)
	}
	return out
}
