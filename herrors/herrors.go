// Package herrors defines the engine's error taxonomy (spec.md §7).
//
// Every sentinel here is a plain stdlib error, checked with errors.Is/As at
// call sites, the same shape the teacher uses for mempool/errors.go. Callers
// add context with cosmossdk.io/errors' Wrap/Wrapf, which preserves the
// sentinel for errors.Is while attaching a human-readable reason.
package herrors

import "errors"

// Pre-execution rejects (spec.md §7). None of these increment the sender's
// nonce; the transaction never reaches the EVM.
var (
	ErrIncorrectNonce          = errors.New("incorrect nonce")
	ErrInvalidChainID          = errors.New("invalid chain id")
	ErrInvalidSignature        = errors.New("invalid signature")
	ErrIntrinsicGasNotMet      = errors.New("intrinsic gas not met")
	ErrMaxPriorityFeeTooLarge  = errors.New("max priority fee per gas higher than max fee per gas")
	ErrGasOverflow             = errors.New("gas overflow")
	ErrFailedTransactionParse     = errors.New("failed to parse transaction")
	ErrInvalidTransaction         = ErrFailedTransactionParse
	ErrUnsupportedTransaction     = errors.New("unsupported transaction type")
	ErrUnsupportedTransaction4844 = errors.New("eip-4844 transactions are not supported")
	ErrReservedTransactionType    = errors.New("reserved transaction type sentinel")
	ErrUnknownTransactionType     = errors.New("unknown transaction type")
	ErrEmptyAuthorizationList  = errors.New("authorization list must not be empty")
	ErrSiloForbidden           = errors.New("address is not on the silo whitelist")
	ErrContractPaused          = errors.New("contract is paused")
	ErrPrecompilePaused        = errors.New("precompile is paused")
	ErrNep141AlreadyRegistered = errors.New("nep-141 account id already registered to an erc-20 address")
	ErrErc20AlreadyRegistered  = errors.New("erc-20 address already registered to a nep-141 account id")
)

// GasPayment sub-taxonomy (spec.md §7 GasPayment(...)).
var (
	ErrOutOfFund        = errors.New("out of fund")
	ErrEthAmountOverflow = errors.New("eth amount overflow")
	ErrBalanceOverflow   = errors.New("balance overflow")
)

// In-execution errors, surfaced in a well-formed receipt; the nonce is
// still incremented and the effective gas fee is still spent.
var (
	ErrOutOfGas             = errors.New("out of gas")
	ErrOutOfOffset          = errors.New("out of offset")
	ErrCallTooDeep          = errors.New("call too deep")
	ErrStackUnderflow       = errors.New("stack underflow")
	ErrStackOverflow        = errors.New("stack overflow")
	ErrInvalidJump          = errors.New("invalid jump")
	ErrCreateCollision      = errors.New("create collision")
	ErrCreateContractLimit  = errors.New("create contract size limit exceeded")
	ErrDesignatedInvalid    = errors.New("designated invalid instruction")
	ErrNetBalanceGain       = errors.New("apply produced a net balance gain: invariant violation")
	ErrGenerationNonIncreasing = errors.New("generation counter must not decrease")
)

// Revert carries the revert reason verbatim, as produced by executed code.
type Revert struct {
	Data []byte
}

func (r *Revert) Error() string { return "execution reverted" }

// Other wraps a free-form VM error message that doesn't fit a named
// sentinel above (mirrors spec.md's `Other(string)`).
type Other struct {
	Msg string
}

func (o *Other) Error() string { return o.Msg }
