package txpipeline

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine/borsh"
	"github.com/aurora-is-near/aurora-engine/evmhost"
	"github.com/aurora-is-near/aurora-engine/hashchain"
	"github.com/aurora-is-near/aurora-engine/herrors"
	"github.com/aurora-is-near/aurora-engine/hostio"
	"github.com/aurora-is-near/aurora-engine/log"
	"github.com/aurora-is-near/aurora-engine/precompiles"
	"github.com/aurora-is-near/aurora-engine/precompiles/erc20template"
	"github.com/aurora-is-near/aurora-engine/promise"
	"github.com/aurora-is-near/aurora-engine/state"
)

// SubmitResult is the pipeline's terminal output (spec.md §4.5).
type SubmitResult struct {
	Status  bool
	GasUsed uint64
	Logs    []*ethtypes.Log
	Output  []byte
}

// Encode borsh-serializes result the same way a real submit/call entrypoint
// would return_output it to the host — this is the "output" half of
// hashchain.TxLogEntry's (method_name, input, output, bloom) tuple.
func (r *SubmitResult) Encode() []byte {
	w := borsh.NewWriter()
	w.Bool(r.Status)
	w.U64(r.GasUsed)
	w.WriteBytes(r.Output)
	return w.Bytes()
}

// Pipeline runs the end-to-end parse → validate → charge → execute → apply
// → refund sequence of spec.md §4.5, wired against one block's worth of
// shared state.
type Pipeline struct {
	Backend     *state.Backend
	ChainConfig *params.ChainConfig
	BlockCtx    evmhost.BlockContext
	EnvInfo     *evmhost.EnvInfo
	RelayerAddr common.Address

	LegacyZeroToCreatesBug bool
	IsPrague               bool
	InitCodeLimitActive    bool

	// Logger receives Error-level entries for invariant violations (a
	// malformed promise log, a filtering failure) before the typed error is
	// returned; nil is treated as log.Nop().
	Logger log.Logger
	// Hashchain, when non-nil, gets one AddTx per successfully completed
	// call to Run (spec.md §4.9): every state-mutating entrypoint appends
	// its (method_name, input, output, bloom) tuple to the current block's
	// running tx-hashchain. Left nil for read-only callers (e.g. view).
	Hashchain *hashchain.Chain
	// MethodName names the entrypoint Run is being driven from for the
	// hashchain's method_name field; defaults to hostio.EntrySubmit.
	MethodName string
}

func (p *Pipeline) logger() log.Logger {
	if p.Logger == nil {
		return log.Nop()
	}
	return p.Logger
}

// Run executes one raw transaction end to end, returning its receipt plus
// any logs that survived promise-filtering (spec.md §4.5/§4.7), scheduling
// promises found in the filtered-out logs against sched.
func (p *Pipeline) Run(raw []byte, sched promise.Scheduler) (*SubmitResult, error) {
	var chainID *big.Int
	if p.ChainConfig != nil {
		chainID = p.ChainConfig.ChainID
	}
	tx, err := Parse(raw, chainID, p.LegacyZeroToCreatesBug)
	if err != nil {
		return nil, err
	}

	if p.Backend.IsContractPaused() {
		return nil, herrors.ErrContractPaused
	}

	if tx.ChainID != nil && chainID != nil && tx.ChainID.Cmp(chainID) != 0 {
		return nil, herrors.ErrInvalidChainID
	}
	if tx.MaxPriorityFeePerGas.Cmp(tx.MaxFeePerGas) > 0 {
		return nil, herrors.ErrMaxPriorityFeeTooLarge
	}

	if p.Backend.WhitelistEnabled() && !p.Backend.IsWhitelisted(tx.From) {
		return nil, herrors.ErrSiloForbidden
	}

	storedNonce := p.Backend.GetNonce(tx.From)
	if storedNonce != tx.Nonce {
		return nil, herrors.ErrIncorrectNonce
	}

	intrinsic, err := IntrinsicGas(tx, p.IsPrague, p.InitCodeLimitActive)
	if err != nil {
		return nil, err
	}
	if tx.GasLimit < intrinsic {
		return nil, herrors.ErrIntrinsicGasNotMet
	}

	baseFee := big.NewInt(0)
	senderGetBalance, senderSetBalance := p.balanceFuncs(tx.From)
	payment, err := ChargeGas(tx, baseFee, senderGetBalance, senderSetBalance)
	if err != nil {
		// spec.md §4.5: nonce still increments and an OutOfFund receipt is
		// returned — the transaction is "accepted" but does no work.
		p.Backend.SetNonce(tx.From, tx.Nonce+1)
		return &SubmitResult{Status: false, GasUsed: 0}, nil
	}

	stateDB := state.New(p.Backend, state.NewTxConfig(common.Hash{}, tx.TxHash, 0, 0))
	// Every hard fork spec.md targets (London/Berlin/Cancun/Prague) postdates
	// Spurious Dragon, so EIP-161 empty-account deletion is always active.
	stateDB.SetDeleteEmptyObjects(true)

	gasUsed, status, output, execErr := p.execute(tx, stateDB, tx.GasLimit-intrinsic)

	// mainline semantics: unused storage-clearing refunds (SSTORE clearing a
	// slot, SELFDESTRUCT) are credited back capped at used/5 (EIP-3529),
	// applied against the consumed gas before the sender's refund is paid out.
	refund := stateDB.GetRefund()
	if max := (intrinsic + gasUsed) / 5; refund > max {
		refund = max
	}

	logs := stateDB.Logs()
	if err := stateDB.Commit(); err != nil {
		return nil, err
	}

	// spec.md §4.5: errors during execute still increment the sender's
	// nonce before returning. Set after Commit so that the sender's cached
	// account does not write its old nonce back over it.
	p.Backend.SetNonce(tx.From, tx.Nonce+1)

	filtered, ferr := promise.FilterPromisesFromLogs(logs,
		[]common.Address{precompiles.AddrExitToNear, precompiles.AddrExitToEthereum},
		precompiles.AddrCrossContractCall, sched, p.logger())
	if ferr != nil {
		return nil, ferr
	}

	totalGasUsed := intrinsic + gasUsed - refund
	refundAmount := new(big.Int).Sub(payment.Prepaid, new(big.Int).Mul(new(big.Int).SetUint64(totalGasUsed), payment.EffectivePrice))
	if refundAmount.Sign() > 0 {
		getBalance, setBalance := p.balanceFuncs(tx.From)
		setBalance(new(big.Int).Add(getBalance(), refundAmount))
	}
	reward := new(big.Int).Mul(new(big.Int).SetUint64(totalGasUsed), payment.PriorityFee)
	if reward.Sign() > 0 {
		getBalance, setBalance := p.balanceFuncs(p.RelayerAddr)
		setBalance(new(big.Int).Add(getBalance(), reward))
	}

	if execErr != nil {
		status = false
	}
	result := &SubmitResult{Status: status, GasUsed: totalGasUsed, Logs: filtered, Output: output}

	if p.Hashchain != nil {
		methodName := p.MethodName
		if methodName == "" {
			methodName = string(hostio.EntrySubmit)
		}
		bloom := ethtypes.CreateBloom(&ethtypes.Receipt{Logs: filtered})
		p.Hashchain.AddTx(hashchain.TxLogEntry{
			MethodName: methodName,
			Input:      raw,
			Output:     result.Encode(),
			Bloom:      [256]byte(bloom),
		})
	}

	return result, nil
}

// balanceFuncs returns the get/set balance closures gas accounting for addr
// should use: SPEC_FULL.md §5's gas_token feature, when configured via
// state.Backend.SetGasToken, redirects gas debits/credits to the configured
// ERC-20's Solidity-slot-compatible balance instead of the native wei
// balance prefix.
func (p *Pipeline) balanceFuncs(addr common.Address) (getBalance func() *big.Int, setBalance func(*big.Int)) {
	if tokenAddr, ok := p.Backend.GetGasToken(); ok {
		h := erc20template.NewHandle(p.Backend, tokenAddr)
		return func() *big.Int { return h.BalanceOf(addr).ToBig() },
			func(v *big.Int) {
				nv, _ := uint256.FromBig(v)
				h.SetBalance(addr, nv)
			}
	}
	return func() *big.Int { return p.Backend.GetBalance(addr).ToBig() },
		func(v *big.Int) {
			nv, _ := uint256.FromBig(v)
			p.Backend.SetBalance(addr, nv)
		}
}

func (p *Pipeline) execute(tx *NormalizedTransaction, stateDB *state.StateDB, gasLimit uint64) (gasUsed uint64, status bool, output []byte, err error) {
	evm := evmhost.NewEVM(p.Backend, stateDB, p.ChainConfig, p.BlockCtx, p.EnvInfo, tx.From, tx.MaxFeePerGas, p.logger())

	value, overflow := uint256.FromBig(tx.Value.ToBig())
	if overflow {
		return 0, false, nil, herrors.ErrGasOverflow
	}

	applyAuthorizations(stateDB, tx)

	var ret []byte
	var leftOverGas uint64
	var execErr error
	if tx.IsCreate() {
		var contractAddr common.Address
		ret, contractAddr, leftOverGas, execErr = evm.Create(newSenderRef(tx.From, stateDB), tx.Data, gasLimit, value)
		output = contractAddr[:]
	} else {
		ret, leftOverGas, execErr = evm.Call(newSenderRef(tx.From, stateDB), *tx.To, tx.Data, gasLimit, value)
		output = ret
	}

	used := gasLimit - leftOverGas
	return used, execErr == nil, output, execErr
}

// applyAuthorizations implements spec.md §4.1's EIP-7702 handling: each
// independently-validated authorization tuple that passes its own checks
// delegates tx.From-visible code at the authority address to the tuple's
// target, regardless of whether the overall transaction later reverts
// (mainline semantics: authorization application is not rolled back by a
// reverted call).
func applyAuthorizations(stateDB *state.StateDB, tx *NormalizedTransaction) {
	if len(tx.AuthList) == 0 {
		return
	}
	for _, auth := range tx.AuthList {
		authority, ok := auth.Authority()
		if ok != nil {
			continue
		}
		if auth.ChainID.Sign() != 0 && tx.ChainID != nil && auth.ChainID.ToBig().Cmp(tx.ChainID) != 0 {
			continue
		}
		nonce := stateDB.GetNonce(authority)
		if nonce != auth.Nonce {
			continue
		}
		delegation := ethtypes.AddressToDelegation(auth.Address)
		stateDB.SetCode(authority, delegation)
		stateDB.SetNonce(authority, nonce+1, tracing.NonceChangeAuthorization)
	}
}

// senderRef adapts a plain address into go-ethereum's vm.ContractRef,
// needed by EVM.Call/Create's caller parameter.
type senderRef struct {
	addr    common.Address
	stateDB *state.StateDB
}

func newSenderRef(addr common.Address, stateDB *state.StateDB) *senderRef {
	return &senderRef{addr: addr, stateDB: stateDB}
}

func (s *senderRef) Address() common.Address { return s.addr }
