// Package keys builds the flat byte keys the engine stores everything
// under (spec.md §3 Account table, §6 Persisted state layout), grounded on
// aurora-engine's engine-sdk key construction (prefix_byte ∥ entity_bytes)
// and mirrored in this corpus by the teacher's KeyPrefixTransient* constants
// in x/vm/keeper/keeper.go.
package keys

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// SchemaVersion is the first byte of every key and of the serialized
// EngineState value (spec.md §6); future migrations read the old layout
// under the old version byte and rewrite.
const SchemaVersion byte = 0x02

// Prefix identifies the entity class that follows it in a key.
type Prefix byte

const (
	PrefixConfig       Prefix = 0x00 // chain-wide configuration (engine state, pause bitmap)
	PrefixNonce        Prefix = 0x01
	PrefixBalance      Prefix = 0x02
	PrefixCode         Prefix = 0x03
	PrefixCodeMetadata Prefix = 0x04
	PrefixGeneration   Prefix = 0x05
	PrefixStorage      Prefix = 0x06
	PrefixWhitelist    Prefix = 0x07
	PrefixGasToken     Prefix = 0x08
	PrefixNep141ToErc20 Prefix = 0x09
	PrefixErc20ToNep141 Prefix = 0x0a
	PrefixBlockMetadata Prefix = 0x0b
	PrefixHashchain     Prefix = 0x0c
)

// Config key suffixes, single fixed keys under PrefixConfig.
const (
	ConfigEngineState     byte = 0x00
	ConfigPauseBitmap     byte = 0x01
	ConfigPauseFlags      byte = 0x02
	ConfigHashchainHead   byte = 0x03
	ConfigWhitelistEnabled byte = 0x04
	ConfigGasToken         byte = 0x05
)

func build(prefix Prefix, entity ...[]byte) []byte {
	size := 2
	for _, e := range entity {
		size += len(e)
	}
	out := make([]byte, 0, size)
	out = append(out, SchemaVersion, byte(prefix))
	for _, e := range entity {
		out = append(out, e...)
	}
	return out
}

// Address encodes a 20-byte account identifier in place (no additional
// encoding is applied: addresses compare equal-bytes per spec.md §3).
func Address(addr common.Address) []byte { return addr.Bytes() }

// U256BE encodes a 256-bit word big-endian, matching the wire format of
// Wei and Nonce fields (spec.md §3).
func U256BE(v [32]byte) []byte { return v[:] }

// Generation encodes a storage generation counter as 4-byte big-endian,
// per the Account table's "storage-generation" row.
func Generation(gen uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, gen)
	return buf
}

// Balance returns the key for an address's balance.
func Balance(addr common.Address) []byte { return build(PrefixBalance, Address(addr)) }

// Nonce returns the key for an address's nonce.
func Nonce(addr common.Address) []byte { return build(PrefixNonce, Address(addr)) }

// Code returns the key for an address's contract code.
func Code(addr common.Address) []byte { return build(PrefixCode, Address(addr)) }

// CodeMetadata returns the key for an address's code hash, stored
// separately from the code bytes so callers can check for code presence
// without reading the whole blob.
func CodeMetadata(addr common.Address) []byte { return build(PrefixCodeMetadata, Address(addr)) }

// GenerationKey returns the key holding an address's current storage
// generation counter (spec.md §3 Generation).
func GenerationKey(addr common.Address) []byte { return build(PrefixGeneration, Address(addr)) }

// Storage returns the key for a single contract storage slot at the given
// generation: prefix ∥ address ∥ generation ∥ 32-byte key, exactly the
// layout in spec.md §3's Account table.
func Storage(addr common.Address, gen uint32, slot common.Hash) []byte {
	return build(PrefixStorage, Address(addr), Generation(gen), slot.Bytes())
}

// StorageRangeStart and StorageRangeEnd bound a range scan over every slot
// of (addr, gen). No code in this module calls them.
func StorageRangeStart(addr common.Address, gen uint32) []byte {
	return build(PrefixStorage, Address(addr), Generation(gen))
}

func StorageRangeEnd(addr common.Address, gen uint32) []byte {
	return build(PrefixStorage, Address(addr), Generation(gen+1))
}

// Whitelist returns the key gating whether addr may submit or be called,
// for the silo whitelist feature (SPEC_FULL.md §5).
func Whitelist(addr common.Address) []byte { return build(PrefixWhitelist, Address(addr)) }

// Nep141ToErc20 and Erc20ToNep141 implement the bidirectional bijection of
// spec.md §3: each direction lives under its own prefix so registering a
// pair never collides with the reverse direction's keys.
func Nep141ToErc20(accountID string) []byte {
	return build(PrefixNep141ToErc20, []byte(accountID))
}

func Erc20ToNep141(addr common.Address) []byte {
	return build(PrefixErc20ToNep141, Address(addr))
}

// BlockMetadata returns the key for a block's (timestamp_ns, random_seed)
// record, keyed by block height big-endian per spec.md §3.
func BlockMetadata(height uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, height)
	return build(PrefixBlockMetadata, buf)
}

// Config returns a fixed configuration key (engine state, pause bitmap,
// pause flags, hashchain head).
func Config(suffix byte) []byte { return build(PrefixConfig, []byte{suffix}) }
