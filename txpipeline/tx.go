// Package txpipeline implements spec.md §4.1/§4.2/§4.5's parse → validate →
// charge → execute → apply → refund pipeline, grounded on go-ethereum's
// core/types.Transaction (decode, Sender, AsMessage-equivalent field
// extraction) for parsing and on the teacher's ante/evm handler chain
// (zeta-chain-evm/ante/evm) for the charge/execute/refund staging, adapted
// from a Cosmos AnteHandler decorator chain onto a single linear Go
// pipeline since this engine has no separate ante/handler split.
package txpipeline

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine/herrors"
)

// NormalizedTransaction is spec.md §3's post-recovery shape: every envelope
// variant (legacy/2930/1559/7702) collapses into this one struct once the
// sender has been recovered and fee fields have been normalized.
type NormalizedTransaction struct {
	From                 common.Address
	ChainID              *big.Int // nil if the legacy tx carried no EIP-155 chain id
	Nonce                uint64
	GasLimit             uint64
	MaxPriorityFeePerGas *big.Int
	MaxFeePerGas         *big.Int
	To                   *common.Address // nil ⇒ contract creation
	Value                *uint256.Int
	Data                 []byte
	AccessList           ethtypes.AccessList
	AuthList             []ethtypes.SetCodeAuthorization

	TxHash common.Hash
	Type   byte
}

// IsCreate reports whether this transaction creates a new contract.
func (t *NormalizedTransaction) IsCreate() bool { return t.To == nil }

// ZeroAddressFixHeight is original_source's ZERO_ADDRESS_FIX_HEIGHT
// (engine/src/engine.rs): the NEAR block height at and above which the
// legacy parser's zero-`to`-means-create bug (spec.md §4.1's "backwards
// compatibility adapter") is fixed. Replay must reproduce the bug below
// this height and use the corrected parsing at and above it.
const ZeroAddressFixHeight uint64 = 61200152

// LegacyZeroToCreatesBugAt reports whether height predates the fix, i.e.
// whether Parse should be called with legacyZeroToCreatesBug=true for a
// transaction recorded at that height.
func LegacyZeroToCreatesBugAt(height uint64) bool { return height < ZeroAddressFixHeight }

// Parse implements spec.md §4.1: dispatch on the first byte of raw, decode
// with go-ethereum's core/types.Transaction, and recover the sender via its
// embedded signer. legacyZeroToCreatesBug, when true, reproduces the
// historical replay-mode bug where a legacy transaction with an explicit
// zero `to` address was (incorrectly) treated as a contract creation.
func Parse(raw []byte, chainID *big.Int, legacyZeroToCreatesBug bool) (*NormalizedTransaction, error) {
	if len(raw) == 0 {
		return nil, herrors.ErrInvalidTransaction
	}
	switch {
	case raw[0] == 0x03:
		return nil, herrors.ErrUnsupportedTransaction4844
	case raw[0] == 0xff:
		return nil, herrors.ErrReservedTransactionType
	case raw[0] == 0x01, raw[0] == 0x02, raw[0] == 0x04:
		return parseTyped(raw, chainID)
	case raw[0] >= 0xc0:
		return parseLegacy(raw, chainID, legacyZeroToCreatesBug)
	case raw[0] <= 0x7f:
		return nil, herrors.ErrUnknownTransactionType
	default:
		return nil, herrors.ErrInvalidTransaction
	}
}

func decodeAndRecover(raw []byte, chainID *big.Int) (*ethtypes.Transaction, common.Address, error) {
	tx := new(ethtypes.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, common.Address{}, herrors.ErrInvalidTransaction
	}
	if tx.ChainId().Sign() != 0 && chainID != nil && tx.ChainId().Cmp(chainID) != 0 {
		return nil, common.Address{}, herrors.ErrInvalidChainID
	}
	signer := ethtypes.LatestSignerForChainID(chainID)
	from, err := ethtypes.Sender(signer, tx)
	if err != nil {
		return nil, common.Address{}, herrors.ErrInvalidSignature
	}
	return tx, from, nil
}

func parseTyped(raw []byte, chainID *big.Int) (*NormalizedTransaction, error) {
	tx, from, err := decodeAndRecover(raw, chainID)
	if err != nil {
		return nil, err
	}
	return normalize(tx, from, raw[0])
}

func parseLegacy(raw []byte, chainID *big.Int, zeroToCreatesBug bool) (*NormalizedTransaction, error) {
	tx, from, err := decodeAndRecover(raw, chainID)
	if err != nil {
		return nil, err
	}
	n, err := normalize(tx, from, ethtypes.LegacyTxType)
	if err != nil {
		return nil, err
	}
	if zeroToCreatesBug && n.To != nil && *n.To == (common.Address{}) {
		n.To = nil
	}
	return n, nil
}

func normalize(tx *ethtypes.Transaction, from common.Address, typ byte) (*NormalizedTransaction, error) {
	value, overflow := uint256.FromBig(tx.Value())
	if overflow {
		return nil, herrors.ErrGasOverflow
	}
	maxPriority := tx.GasTipCap()
	maxFee := tx.GasFeeCap()
	if maxPriority.Cmp(maxFee) > 0 {
		return nil, herrors.ErrMaxPriorityFeeTooLarge
	}
	var authList []ethtypes.SetCodeAuthorization
	if typ == ethtypes.SetCodeTxType {
		authList = tx.SetCodeAuthorizations()
		if len(authList) == 0 {
			return nil, herrors.ErrEmptyAuthorizationList
		}
	}
	// A legacy tx's V byte alone, not its derived chain id, says whether
	// EIP-155 replay protection (and therefore a chain id) is present: V of
	// 27/28 carries none, matching NormalizedTransaction.ChainID's "nil if
	// the legacy tx carried no EIP-155 chain id" contract. Typed envelopes
	// always carry an explicit chain id field.
	chainID := tx.ChainId()
	if typ == ethtypes.LegacyTxType && !tx.Protected() {
		chainID = nil
	}
	return &NormalizedTransaction{
		From:                 from,
		ChainID:              chainID,
		Nonce:                tx.Nonce(),
		GasLimit:             tx.Gas(),
		MaxPriorityFeePerGas: maxPriority,
		MaxFeePerGas:         maxFee,
		To:                   tx.To(),
		Value:                value,
		Data:                 tx.Data(),
		AccessList:           tx.AccessList(),
		AuthList:             authList,
		TxHash:               tx.Hash(),
		Type:                 typ,
	}, nil
}
