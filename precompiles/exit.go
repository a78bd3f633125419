// The two exit precompiles and CROSS_CONTRACT_CALL (spec.md §4.7), grounded
// on original_source/engine-precompiles/src/native.rs (exit_to_near /
// exit_to_ethereum) and engine-precompiles/src/promise_result.rs /
// cross_contract_call.rs. Unlike the pure precompiles above, these are
// effectful: instead of returning a value, they emit a structured log
// (empty-topic for the two exits, one deposit topic for
// CROSS_CONTRACT_CALL) that promise.FilterPromisesFromLogs later turns into
// a scheduled cross-contract call, which is why Precompile.Run can return
// logs at all.
package precompiles

import (
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/aurora-is-near/aurora-engine/borsh"
	"github.com/aurora-is-near/aurora-engine/promise"
)

// Flat gas costs for the three log-emitting precompiles (spec.md §4.6 lists
// these alongside the pure ones; they are charged the same way, just
// followed by a log instead of a return value).
const (
	GasExitToNear        = 30_000
	GasExitToEthereum    = 30_000
	GasCrossContractCall = 30_000
	GasSetGasToken       = 5_000
)

// guardCallContext enforces spec.md §4.7's ERR_INVALID_IN_STATIC /
// ERR_INVALID_IN_DELEGATE rule shared by all four effectful precompiles:
// none of them may run inside a STATICCALL (they mutate promise state) or
// via DELEGATECALL/CALLCODE (their logic is keyed to msg.sender, which a
// delegated call would spoof).
func guardCallContext(ctx Context) error {
	if ctx.IsStatic {
		return &Revert{Msg: "ERR_INVALID_IN_STATIC"}
	}
	if ctx.IsDelegated() {
		return &Revert{Msg: "ERR_INVALID_IN_DELEGATE"}
	}
	return nil
}

// emptyTopicLog builds the empty-topic log promise.FilterPromisesFromLogs
// recognizes as a PromiseArgs payload rather than caller-visible data.
func emptyTopicLog(addr common.Address, data []byte) *ethtypes.Log {
	return &ethtypes.Log{Address: addr, Topics: nil, Data: data}
}

// ExitToNear implements the EXIT_TO_NEAR precompile: it schedules an
// ft_transfer on the target NEAR account named in its input, carrying the
// input's JSON transfer arguments. It always uses ft_transfer (there is no
// ft_transfer_call variant) and does not itself burn or move any EVM
// balance; its only effect is the emitted log.
type ExitToNear struct{}

func (ExitToNear) RequiredGas([]byte) uint64 { return GasExitToNear }

func (p ExitToNear) Run(input []byte, gasLimit uint64, ctx Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if err := guardCallContext(ctx); err != nil {
		return gas, nil, nil, err
	}
	args, err := parseExitArgs(input)
	if err != nil {
		return gas, nil, nil, err
	}
	payload := promise.EncodePromiseArgs(promise.PromiseArgs{
		Kind: promise.KindCreate,
		Create: promise.PromiseCreateArgs{
			TargetAccountID: args.TargetAccountID,
			Action: promise.PromiseAction{
				MethodName: "ft_transfer",
				Args:       args.TransferArgsJSON,
				GasNear:    args.AttachedGas,
			},
		},
	})
	return gas, nil, []*ethtypes.Log{emptyTopicLog(ctx.PrecompileAddress, payload)}, nil
}

// ExitToEthereum implements the EXIT_TO_ETHEREUM precompile: schedules
// withdrawal of the bridged ETH balance back to an L1 Ethereum recipient
// address, by way of the same NEAR-side connector ft_transfer mechanism
// (the connector's withdraw entrypoint on the NEAR side).
type ExitToEthereum struct{}

func (ExitToEthereum) RequiredGas([]byte) uint64 { return GasExitToEthereum }

func (p ExitToEthereum) Run(input []byte, gasLimit uint64, ctx Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if err := guardCallContext(ctx); err != nil {
		return gas, nil, nil, err
	}
	args, err := parseExitArgs(input)
	if err != nil {
		return gas, nil, nil, err
	}
	payload := promise.EncodePromiseArgs(promise.PromiseArgs{
		Kind: promise.KindCreate,
		Create: promise.PromiseCreateArgs{
			TargetAccountID: ctx.EngineAccountID,
			Action: promise.PromiseAction{
				MethodName: "withdraw",
				Args:       args.TransferArgsJSON,
				GasNear:    args.AttachedGas,
			},
		},
	})
	return gas, nil, []*ethtypes.Log{emptyTopicLog(ctx.PrecompileAddress, payload)}, nil
}

// CrossContractCall implements the CROSS_CONTRACT_CALL precompile: lets
// arbitrary EVM code schedule an outbound NEAR promise directly, the
// general-purpose counterpart to the two connector-specific exits above.
type CrossContractCall struct{}

func (CrossContractCall) RequiredGas([]byte) uint64 { return GasCrossContractCall }

func (p CrossContractCall) Run(input []byte, gasLimit uint64, ctx Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if err := guardCallContext(ctx); err != nil {
		return gas, nil, nil, err
	}
	if len(input) < 1 {
		return gas, nil, nil, &Revert{Msg: "ERR_INVALID_XCC_ARGS"}
	}
	create, err := decodeBorshPromiseCreateArgs(input)
	if err != nil {
		return gas, nil, nil, &Revert{Msg: "ERR_INVALID_XCC_ARGS"}
	}
	// spec.md §4.7: "the first topic is the required attached NEAR balance
	// encoded in the low-128 bits of a 256-bit topic (high 128 must be zero)".
	// DepositYocto is borsh's little-endian u128; the topic word is a
	// big-endian 256-bit number, so the low 16 bytes are the same value with
	// its byte order reversed.
	var topic common.Hash
	for i, b := range create.Action.DepositYocto {
		topic[31-i] = b
	}
	data := borsh.NewWriter()
	promise.EncodePromiseCreateArgs(data, create)
	return gas, nil, []*ethtypes.Log{{
		Address: ctx.PrecompileAddress,
		Topics:  []common.Hash{topic},
		Data:    data.Bytes(),
	}}, nil
}

// SetGasToken implements the SET_GAS_TOKEN derived precompile (SPEC_FULL.md
// §5 supplemented feature): designates an ERC-20 token as the one
// transaction fees are paid in, instead of the wrapped native token. Apart
// from the static/delegatecall guard it performs no check of who the caller
// is.
type SetGasToken struct {
	Backend interface {
		SetGasTokenAddress(addr [20]byte) error
	}
}

func (SetGasToken) RequiredGas([]byte) uint64 { return GasSetGasToken }

func (p SetGasToken) Run(input []byte, gasLimit uint64, ctx Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if err := guardCallContext(ctx); err != nil {
		return gas, nil, nil, err
	}
	if len(input) != 20 {
		return gas, nil, nil, &Revert{Msg: "ERR_INVALID_GAS_TOKEN_ADDRESS"}
	}
	var addr [20]byte
	copy(addr[:], input)
	if p.Backend != nil {
		if err := p.Backend.SetGasTokenAddress(addr); err != nil {
			return gas, nil, nil, err
		}
	}
	return gas, nil, nil, nil
}
