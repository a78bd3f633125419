// Package precompiles implements spec.md §4.6's precompile set: the pure
// `(input, gas_limit) → (gas_used, output)` contracts at addresses
// 0x01..0x13 and 0x100, plus the derived, effectful precompiles
// (RANDOM_SEED, PREPAID_GAS, PROMISE_RESULT, and the two exit precompiles)
// whose side effect is a structured log rather than a return value.
//
// Grounded on the teacher's precompiles/common package (vm.PrecompiledContract
// wiring, ABI-based method dispatch) generalized from Cosmos keeper state to
// the flat state.Backend, and on go-ethereum's own core/vm precompiled
// contract set (github.com/ethereum/go-ethereum/core/vm), which this package
// re-derives with the exact curve/hash libraries SPEC_FULL.md's domain stack
// assigns (gnark-crypto for BN254/BLS12-381, go-ethereum's crypto/blake2b
// for blake2b, golang.org/x/crypto for ripemd160) instead of reusing
// go-ethereum's built-ins verbatim.
package precompiles

import (
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// CallKind distinguishes the opcode used to reach a precompile, needed by
// the exit precompiles' static/delegatecall guards (spec.md §4.7).
type CallKind uint8

const (
	KindCall CallKind = iota
	KindStaticCall
	KindDelegateCall
	KindCallCode
)

// Context carries the per-invocation information a stock
// vm.PrecompiledContract never receives (go-ethereum's Run(input) signature
// is pure), assembled by evmhost from its call-frame tracer before
// dispatching to one of the stateful precompiles below (§4.7's
// ERR_INVALID_IN_STATIC / ERR_INVALID_IN_DELEGATE guards need exactly this).
type Context struct {
	// Self is "address(this)" as the executing code observes it: equal to
	// PrecompileAddress for CALL/STATICCALL, equal to the calling
	// contract's own address for DELEGATECALL/CALLCODE.
	Self common.Address
	// PrecompileAddress is the fixed address this precompile is installed
	// at, i.e. the literal opcode target.
	PrecompileAddress common.Address
	Caller            common.Address
	IsStatic          bool
	Kind              CallKind
	Value             [32]byte // big-endian wei value attached to the call

	BlockHeight     uint64
	BlockTimestampNanos uint64
	RandomSeed      [32]byte
	ChainID         [32]byte
	EngineAccountID string
	PrepaidGas      uint64

	// PromiseResults is the serialized list of results of parent promises
	// (spec.md §4.6 PROMISE_RESULT), supplied by the host / replay layer.
	PromiseResults [][]byte
}

// IsDelegated reports whether this invocation arrived via
// DELEGATECALL/CALLCODE, detected the same way spec.md §4.7 describes:
// context.address (Self) differs from the precompile's own address.
func (c Context) IsDelegated() bool { return c.Self != c.PrecompileAddress }

// Precompile is the engine-internal precompile contract: a pure gas
// estimator plus a Run that can additionally emit logs (used exclusively by
// the two exit precompiles and the cross-contract-call precompile to carry
// PromiseArgs out to the post-execution promise filter, spec.md §4.7).
type Precompile interface {
	// RequiredGas reports the gas required to run input, statelessly.
	RequiredGas(input []byte) uint64

	// Run executes the precompile. gasLimit is the gas actually supplied
	// by the caller (which may be less than RequiredGas, in which case Run
	// must not be called at all — evmhost enforces this before dispatch).
	// logs is non-nil only for the exit/cross-contract-call precompiles.
	Run(input []byte, gasLimit uint64, ctx Context) (gasUsed uint64, output []byte, logs []*ethtypes.Log, err error)
}

// DerivedAddress computes the stable address assigned to a derived
// precompile (spec.md §4.6: "keccak(name)[12..] for a well-known string
// label"). Kept here (not in evmhost) so both the registry and any caller
// needing to recognize one of these addresses share one derivation.
func DerivedAddress(label string) common.Address {
	return common.BytesToAddress(ethKeccak256(label))
}
