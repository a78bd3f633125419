// Package replay implements spec.md §4.8's standalone replay engine: a
// deterministic re-execution harness that consumes recorded transaction
// messages and reconstructs the same state diffs the contract would have
// produced, backed by its own goleveldb-keyed store instead of the host
// chain's register ABI.
//
// Grounded on the teacher's use of goleveldb-backed stores is absent (the
// teacher runs atop a Cosmos IAVL store), so this package is grounded
// instead on original_source/engine-standalone-storage (the Diff/
// TransactionIncluded/Engine-prefix versioned-KV design it implements in
// Rust over the same goleveldb crate family) and on the pack's use of
// github.com/syndtr/goleveldb/leveldb elsewhere in SPEC_FULL.md's domain
// stack.
package replay

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Prefix identifies one of the replay store's independent key spaces
// (spec.md §4.8).
type Prefix byte

const (
	PrefixBlockHash       Prefix = 0x00
	PrefixBlockHeight     Prefix = 0x01
	PrefixTransactionData Prefix = 0x02
	PrefixTransactionHash Prefix = 0x03
	PrefixDiff            Prefix = 0x04
	PrefixEngine          Prefix = 0x05
	PrefixBlockMetadata   Prefix = 0x06
	PrefixEngineAccountID Prefix = 0x07
	PrefixCustomData      Prefix = 0x08
)

func withPrefix(p Prefix, key []byte) []byte {
	out := make([]byte, 1+len(key))
	out[0] = byte(p)
	copy(out[1:], key)
	return out
}

// EngineKeySuffix builds the 10-byte (block_height_be8, tx_position_be2)
// suffix spec.md §4.8 specifies, making point-in-time queries a single
// reverse-range scan over the Engine prefix.
func EngineKeySuffix(blockHeight uint64, txPosition uint16) []byte {
	var buf [10]byte
	binary.BigEndian.PutUint64(buf[0:8], blockHeight)
	binary.BigEndian.PutUint16(buf[8:10], txPosition)
	return buf[:]
}

// EngineVersionedKey builds the full Engine-prefixed, version-suffixed key
// for logicalKey at (blockHeight, txPosition).
func EngineVersionedKey(logicalKey []byte, blockHeight uint64, txPosition uint16) []byte {
	full := make([]byte, 0, 1+len(logicalKey)+10)
	full = append(full, byte(PrefixEngine))
	full = append(full, logicalKey...)
	full = append(full, EngineKeySuffix(blockHeight, txPosition)...)
	return full
}

// Store wraps a goleveldb database with the prefix scheme above.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) a goleveldb database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Get reads a value out of one of the flat (non-versioned) prefixes.
func (s *Store) Get(p Prefix, key []byte) ([]byte, bool, error) {
	v, err := s.db.Get(withPrefix(p, key), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Put writes value under one of the flat prefixes.
func (s *Store) Put(p Prefix, key, value []byte) error {
	return s.db.Put(withPrefix(p, key), value, nil)
}

// Delete removes a key from one of the flat prefixes.
func (s *Store) Delete(p Prefix, key []byte) error {
	return s.db.Delete(withPrefix(p, key), nil)
}

// SeekForPrevEngine implements spec.md §4.8's bounded reverse-range query:
// the latest write to logicalKey at or before (blockHeight, txPosition).
// The second return is false if no such write exists.
func (s *Store) SeekForPrevEngine(logicalKey []byte, blockHeight uint64, txPosition uint16) ([]byte, bool, error) {
	upperBound := EngineVersionedKey(logicalKey, blockHeight, txPosition)
	// inclusive upper bound: append 0xff so an exact-version write at
	// (blockHeight, txPosition) is still included by the iterator's Seek.
	upperBoundInclusive := append(append([]byte{}, upperBound...), 0xff)

	lowerBound := make([]byte, 0, 1+len(logicalKey))
	lowerBound = append(lowerBound, byte(PrefixEngine))
	lowerBound = append(lowerBound, logicalKey...)

	it := s.db.NewIterator(&util.Range{Start: lowerBound, Limit: upperBoundInclusive}, nil)
	defer it.Release()

	var found []byte
	for it.Next() {
		found = append([]byte{}, it.Value()...)
	}
	if err := it.Error(); err != nil {
		return nil, false, err
	}
	if found == nil {
		return nil, false, nil
	}
	return found, true, nil
}

// EngineKeysWithPrefix returns every distinct logical key (the portion of
// an Engine-prefixed key before its 10-byte version suffix) present in the
// store, for Snapshot's full-store scan.
func (s *Store) EngineKeysWithPrefix() ([][]byte, error) {
	prefix := []byte{byte(PrefixEngine)}
	it := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	seen := make(map[string]bool)
	var keys [][]byte
	for it.Next() {
		full := it.Key()
		if len(full) < 1+10 {
			continue
		}
		logical := full[1 : len(full)-10]
		if seen[string(logical)] {
			continue
		}
		seen[string(logical)] = true
		keys = append(keys, append([]byte{}, logical...))
	}
	return keys, it.Error()
}
