// Package hashchain implements spec.md §4.9: a running sha256 fold over
// every transaction's (method_name, input, output, bloom) tuple, sealed per
// block into a single block-hashchain value chained from the previous
// block's, chain id and contract id, grounded on
// original_source/engine/src/hashchain for the exact field order and fold
// structure and on the teacher's keeper hashing helpers for the
// hash-over-concatenated-borsh style this engine uses throughout.
package hashchain

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/aurora-is-near/aurora-engine/borsh"
)

// TxLogEntry is one transaction's contribution to a block's hashchain, in
// the exact field order original_source's hashchain module hashes.
type TxLogEntry struct {
	MethodName string
	Input      []byte
	Output     []byte
	Bloom      [256]byte
}

func (e TxLogEntry) encode() []byte {
	w := borsh.NewWriter()
	w.Str(e.MethodName)
	w.WriteBytes(e.Input)
	w.WriteBytes(e.Output)
	w.Fixed(e.Bloom[:])
	return w.Bytes()
}

// Hash256 is a 32-byte sha256 digest.
type Hash256 [32]byte

func sha256Of(parts ...[]byte) Hash256 {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out Hash256
	copy(out[:], h.Sum(nil))
	return out
}

// Chain accumulates one block's transaction-hashchain (spec.md §4.9: "the
// running sha256 fold of (method_name, input, output, bloom) over every
// transaction in that block") and, on Seal, folds it with the block height,
// chain id and contract id into a new block-hashchain head.
type Chain struct {
	chainID    [32]byte
	contractID string

	previousBlockHash Hash256
	txsHashchain      Hash256
}

// New starts a hashchain continuing from previousBlockHash (the value
// persisted in state.EngineState.HashchainHead), for the given chain id and
// contract id (spec.md §4.9's fold inputs, constant for the engine's
// lifetime).
func New(chainID [32]byte, contractID string, previousBlockHash Hash256) *Chain {
	return &Chain{chainID: chainID, contractID: contractID, previousBlockHash: previousBlockHash}
}

// AddTx folds one transaction's contribution into the current block's
// running tx-hashchain: txsHashchain ← sha256(txsHashchain ∥ encode(entry)).
func (c *Chain) AddTx(e TxLogEntry) {
	c.txsHashchain = sha256Of(c.txsHashchain[:], e.encode())
}

// Seal folds the block height, chain id, contract id and the accumulated
// tx-hashchain into a new block-hashchain head, then resets the tx-hashchain
// for the next block (spec.md §4.9/§8): block_hashchain ←
// sha256(prev ∥ chain_id ∥ contract_id ∥ block_height_be64 ∥ txs_hashchain).
// Moving height by Δ with no transactions in between (an empty block) is
// simply Δ calls to Seal with no intervening AddTx, each folding an empty
// tx-hashchain — matching the "chain of Δ links over an empty transaction
// set" invariant.
func (c *Chain) Seal(blockHeight uint64) Hash256 {
	var heightBE [8]byte
	binary.BigEndian.PutUint64(heightBE[:], blockHeight)

	next := sha256Of(c.previousBlockHash[:], c.chainID[:], []byte(c.contractID), heightBE[:], c.txsHashchain[:])

	c.previousBlockHash = next
	c.txsHashchain = Hash256{}
	return next
}

// Head returns the chain's current block-hashchain head without sealing a
// new block.
func (c *Chain) Head() Hash256 { return c.previousBlockHash }

// StartHashchain initializes a fresh chain with a caller-supplied genesis
// value (spec.md §4.9's start-hashchain semantics: an operator can re-anchor
// the chain, e.g. after a migration, to a value derived out-of-band). Per
// spec.md §4.9, the caller must only invoke this while the contract is
// paused and the caller is the key manager, and the supplied (block_height,
// seed) must lie in the past — those authorization checks belong to the
// entrypoint dispatcher (out of scope, spec.md §1), not to this package.
func StartHashchain(chainID [32]byte, contractID string, genesis Hash256) *Chain {
	return New(chainID, contractID, genesis)
}
