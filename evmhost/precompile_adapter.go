package evmhost

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine/herrors"
	"github.com/aurora-is-near/aurora-engine/log"
	"github.com/aurora-is-near/aurora-engine/precompiles"
	"github.com/aurora-is-near/aurora-engine/state"
)

// EnvInfo carries the per-block/per-transaction values Context needs that
// the call tracker cannot derive from the call stack alone (spec.md §6's
// Host surface: block height/timestamp, the VRF-derived random seed, chain
// id, this engine's own NEAR account id, prepaid gas and already-resolved
// promise results).
type EnvInfo struct {
	BlockHeight         uint64
	BlockTimestampNanos uint64
	RandomSeed          [32]byte
	ChainID             [32]byte
	EngineAccountID     string
	PrepaidGas          uint64
	PromiseResults      [][]byte
}

// precompileAdapter satisfies go-ethereum's vm.PrecompiledContract
// (RequiredGas(input []byte) uint64; Run(input []byte) ([]byte, error)) by
// wrapping one of this engine's own precompiles.Precompile
// implementations, reconstructing the Context it needs from a CallTracker
// and a per-execution EnvInfo, and forwarding any emitted logs directly
// into the active state.StateDB (since go-ethereum's PrecompiledContract
// interface has no return path for logs).
type precompileAdapter struct {
	addr    common.Address
	inner   precompiles.Precompile
	tracker *CallTracker
	env     *EnvInfo
	stateDB *state.StateDB
	backend *state.Backend
	logger  log.Logger
}

func (a *precompileAdapter) RequiredGas(input []byte) uint64 {
	return a.inner.RequiredGas(input)
}

// Run is called by go-ethereum's interpreter only after it has already
// confirmed the calling contract has at least RequiredGas(input) gas and
// deducted it from contract.Gas; there is no partial-gas short-circuit left
// for Run to perform, so it always passes RequiredGas(input) itself as the
// gasLimit argument to inner.Run.
//
// Before doing anything else it consults PauseFlags' PauseAllPrecompiles
// mask and the per-precompile pause bitmap (spec.md §3/§4.6: "bit i set ⇒
// precompile i rejects all invocations"), logging and rejecting with
// herrors.ErrPrecompilePaused for either.
func (a *precompileAdapter) Run(input []byte) ([]byte, error) {
	if a.backend.GetPauseFlags().Has(state.PauseAllPrecompiles) {
		a.logger.Error("precompile invocation rejected: all precompiles paused", "address", a.addr)
		return nil, herrors.ErrPrecompilePaused
	}
	if idx, ok := precompiles.PauseIndex(a.addr); ok && a.backend.GetPauseBitmap().IsPaused(idx) {
		a.logger.Error("precompile invocation rejected: paused", "address", a.addr, "index", idx)
		return nil, herrors.ErrPrecompilePaused
	}

	self, isStatic, kind := a.tracker.Current()
	ctx := precompiles.Context{
		Self:                self,
		PrecompileAddress:   a.addr,
		IsStatic:            isStatic,
		Kind:                kind,
		BlockHeight:         a.env.BlockHeight,
		BlockTimestampNanos: a.env.BlockTimestampNanos,
		RandomSeed:          a.env.RandomSeed,
		ChainID:             a.env.ChainID,
		EngineAccountID:     a.env.EngineAccountID,
		PrepaidGas:          a.env.PrepaidGas,
		PromiseResults:      a.env.PromiseResults,
	}
	gas := a.inner.RequiredGas(input)
	_, output, logs, err := a.inner.Run(input, gas, ctx)
	if err != nil {
		a.logger.Error("precompile execution failed", "address", a.addr, "error", err)
		return nil, err
	}
	for _, l := range logs {
		a.stateDB.AddLog(l)
	}
	return output, nil
}
