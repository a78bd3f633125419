package precompiles

import (
	"encoding/binary"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/aurora-is-near/aurora-engine/borsh"
)

// The three read-only derived precompiles (spec.md §4.6): they consume no
// input and, per the table's Gas column, cost nothing — they surface
// host-supplied values already threaded through Context by evmhost's call
// tracker rather than performing any computation.
const (
	GasRandomSeed    = 0
	GasPrepaidGas    = 0
	GasPromiseResult = 0
)

// RandomSeed implements the RANDOM_SEED derived precompile: returns the
// 32-byte block random seed the host supplied for this transaction.
type RandomSeed struct{}

func (RandomSeed) RequiredGas([]byte) uint64 { return GasRandomSeed }

func (p RandomSeed) Run(input []byte, gasLimit uint64, ctx Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	out := make([]byte, 32)
	copy(out, ctx.RandomSeed[:])
	return gas, out, nil, nil
}

// PrepaidGas implements the PREPAID_GAS derived precompile: returns the
// caller-supplied prepaid gas figure as a big-endian uint64, left-padded to
// 32 bytes.
type PrepaidGas struct{}

func (PrepaidGas) RequiredGas([]byte) uint64 { return GasPrepaidGas }

func (p PrepaidGas) Run(input []byte, gasLimit uint64, ctx Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	out := make([]byte, 32)
	binary.BigEndian.PutUint64(out[24:], ctx.PrepaidGas)
	return gas, out, nil, nil
}

// PromiseResult implements the PROMISE_RESULT derived precompile: it takes
// no input and returns the borsh-encoded list of every parent promise's
// result, matching original_source's promise_result.rs which ignores its
// input and serializes the full Vec<PromiseResult> rather than indexing a
// single entry.
type PromiseResult struct{}

func (PromiseResult) RequiredGas([]byte) uint64 { return GasPromiseResult }

func (p PromiseResult) Run(input []byte, gasLimit uint64, ctx Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	w := borsh.NewWriter()
	w.U32(uint32(len(ctx.PromiseResults))) //nolint:gosec // result counts are bounded by gas, never near 2^32
	for _, r := range ctx.PromiseResults {
		w.WriteBytes(r)
	}
	return gas, w.Bytes(), nil, nil
}
