package evmhost

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine/log"
	"github.com/aurora-is-near/aurora-engine/state"
)

// BlockHash implements spec.md §4.3/§6's block-hash derivation: a purely
// functional hash of the chain id, this engine's host account id, and the
// requested height, with no dependency on any stored block history (there
// is none to store — the host chain is the source of truth for blocks).
func BlockHash(chainID [32]byte, engineAccountID string, height uint64) common.Hash {
	var heightBE [8]byte
	binary.BigEndian.PutUint64(heightBE[:], height)

	h := sha256.New()
	h.Write([]byte{0x00})
	h.Write(chainID[:])
	h.Write([]byte(engineAccountID))
	h.Write(heightBE[:])
	return common.BytesToHash(h.Sum(nil))
}

// blockHashFunc builds the vm.BlockContext.GetHash closure of spec.md §4.3:
// only the most recent 256 heights before currentHeight resolve to a real
// hash, everything else (including the current and future heights) is the
// zero hash, matching the BLOCKHASH opcode's mainline windowing behavior.
func blockHashFunc(chainID [32]byte, engineAccountID string, currentHeight uint64) func(uint64) common.Hash {
	return func(n uint64) common.Hash {
		if n < currentHeight && currentHeight-n <= 256 {
			return BlockHash(chainID, engineAccountID, n)
		}
		return common.Hash{}
	}
}

// canTransfer/transfer are this engine's own copies of go-ethereum's
// package-core helpers of the same name (core/state_transition.go) — they
// live in package core, not vm, so a plain CALL/CREATE value-transfer in
// this engine's EVM needs its own copy wired through vm.BlockContext.
func canTransfer(db vm.StateDB, addr common.Address, amount *uint256.Int) bool {
	return db.GetBalance(addr).Cmp(amount) >= 0
}

func transfer(db vm.StateDB, sender, recipient common.Address, amount *uint256.Int) {
	db.SubBalance(sender, amount, tracing.BalanceChangeTransfer)
	db.AddBalance(recipient, amount, tracing.BalanceChangeTransfer)
}

// BlockContext is the subset of go-ethereum's vm.BlockContext this engine
// fills in itself (it has no real miner/difficulty/base-fee oracle — those
// values come from the NEAR block this transaction is embedded in, per
// spec.md §6's Host surface).
type BlockContext struct {
	BlockNumber *big.Int
	Time        uint64
	BaseFee     *big.Int
	Coinbase    common.Address
	Random      common.Hash
}

// NewEVM constructs a go-ethereum core/vm.EVM against stateDB, with this
// engine's precompile set installed via the real, exported
// EVM.SetPrecompiles (go-ethereum's legitimate extension point,
// _examples/other_examples/.../core-vm-evm.go.go confirms it is exported in
// vanilla go-ethereum), and a CallTracker attached as the EVM's tracer so
// the installed precompiles can recover per-call context that vanilla
// go-ethereum's PrecompiledContract.Run signature otherwise discards.
func NewEVM(backend *state.Backend, stateDB *state.StateDB, chainConfig *params.ChainConfig, blockCtx BlockContext, env *EnvInfo, origin common.Address, gasPrice *big.Int, logger log.Logger) *vm.EVM {
	if logger == nil {
		logger = log.Nop()
	}
	tracker := NewCallTracker()

	gethBlockCtx := vm.BlockContext{
		CanTransfer: canTransfer,
		Transfer:    transfer,
		GetHash:     blockHashFunc(env.ChainID, env.EngineAccountID, env.BlockHeight),
		Coinbase:    blockCtx.Coinbase,
		BlockNumber: blockCtx.BlockNumber,
		Time:        blockCtx.Time,
		Difficulty:  big.NewInt(0),
		BaseFee:     blockCtx.BaseFee,
		Random:      &blockCtx.Random,
		GasLimit:    0,
	}
	txCtx := vm.TxContext{
		Origin:   origin,
		GasPrice: gasPrice,
	}

	vmConfig := vm.Config{
		Tracer: tracker.Hooks(),
	}

	evm := vm.NewEVM(gethBlockCtx, stateDB, chainConfig, vmConfig)
	evm.SetTxContext(txCtx)
	evm.SetPrecompiles(buildVMPrecompiles(backend, tracker, env, stateDB, logger))
	return evm
}
