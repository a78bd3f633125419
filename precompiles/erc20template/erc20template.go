// Package erc20template implements spec.md §4.6's ERC-20 template: a
// reusable, native implementation of the ERC-20 standard whose storage
// layout matches Solidity's conventional slot packing exactly — `balances`
// at slot 2, `allowances` at slot 3 — dispatched by 4-byte selector the same
// way go-ethereum's accounts/abi decodes any other contract call, grounded
// on the teacher's precompiles/common ABI-selector dispatch and on
// go-ethereum/accounts/abi for argument encoding (the one ABI library the
// whole example corpus converges on).
package erc20template

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine/state"
)

// Solidity slot indices this template's storage layout reproduces exactly,
// so that an ERC-20 deployed via this template hashes identically to the
// equivalent Solidity contract's storage trie.
const (
	slotName        = 0
	slotSymbol      = 1
	slotBalances    = 2
	slotAllowances  = 3
	slotTotalSupply = 4
	slotDecimals    = 5
)

var (
	// ErrUnknownSelector is returned when input's 4-byte selector doesn't
	// match any method this template implements.
	ErrUnknownSelector = errors.New("erc20template: unknown selector")
	// ErrInsufficientBalance mirrors Solidity's `ERC20: transfer amount
	// exceeds balance` revert.
	ErrInsufficientBalance = errors.New("erc20template: insufficient balance")
	// ErrInsufficientAllowance mirrors `ERC20: insufficient allowance`.
	ErrInsufficientAllowance = errors.New("erc20template: insufficient allowance")
)

const erc20ABIJSON = `[
{"type":"function","name":"transfer","inputs":[{"type":"address"},{"type":"uint256"}],"outputs":[{"type":"bool"}]},
{"type":"function","name":"transferFrom","inputs":[{"type":"address"},{"type":"address"},{"type":"uint256"}],"outputs":[{"type":"bool"}]},
{"type":"function","name":"approve","inputs":[{"type":"address"},{"type":"uint256"}],"outputs":[{"type":"bool"}]},
{"type":"function","name":"balanceOf","inputs":[{"type":"address"}],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"allowance","inputs":[{"type":"address"},{"type":"address"}],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"totalSupply","inputs":[],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"name","inputs":[],"outputs":[{"type":"string"}]},
{"type":"function","name":"symbol","inputs":[],"outputs":[{"type":"string"}]},
{"type":"function","name":"decimals","inputs":[],"outputs":[{"type":"uint8"}]}
]`

var erc20ABI abi.ABI

func init() {
	var err error
	erc20ABI, err = abi.JSON(bytes.NewReader([]byte(erc20ABIJSON)))
	if err != nil {
		panic(err)
	}
}

// Handle is a live ERC-20 template instance bound to a fixed code address
// and the Backend its slots live in. It is the "handle-based precompile
// interface" spec.md §4.6 calls for: one handle per deployed token.
type Handle struct {
	backend *state.Backend
	addr    common.Address
}

// NewHandle binds a template instance to addr's storage.
func NewHandle(backend *state.Backend, addr common.Address) *Handle {
	return &Handle{backend: backend, addr: addr}
}

func mappingSlot(baseSlot uint64, key common.Hash) common.Hash {
	var buf [64]byte
	copy(buf[0:32], key[:])
	new(big.Int).SetUint64(baseSlot).FillBytes(buf[32:64])
	return common.BytesToHash(crypto.Keccak256(buf[:]))
}

// allowanceSlot reproduces Solidity's nested-mapping layout:
// keccak(inner ++ keccak(outer ++ baseSlot)).
func allowanceSlot(owner, spender common.Address) common.Hash {
	outerHash := mappingSlot(slotAllowances, common.BytesToHash(owner.Bytes()))
	var buf [64]byte
	copy(buf[12:32], spender.Bytes())
	copy(buf[32:64], outerHash[:])
	return common.BytesToHash(crypto.Keccak256(buf[:]))
}

func (h *Handle) generation() uint32 { return h.backend.GetGeneration(h.addr) }

func (h *Handle) balanceOf(owner common.Address) *uint256.Int {
	slot := mappingSlot(slotBalances, common.BytesToHash(owner.Bytes()))
	v := h.backend.GetState(h.addr, h.generation(), slot)
	return new(uint256.Int).SetBytes(v[:])
}

func (h *Handle) setBalance(owner common.Address, amount *uint256.Int) {
	slot := mappingSlot(slotBalances, common.BytesToHash(owner.Bytes()))
	h.backend.SetState(h.addr, h.generation(), slot, common.Hash(amount.Bytes32()))
}

// BalanceOf exposes balanceOf's Solidity-slot-compatible balance read for
// callers outside this package (SPEC_FULL.md §5's gas_token feature reads
// and writes through here when the engine is configured to charge gas in
// an ERC-20 instead of the native wrapped asset).
func (h *Handle) BalanceOf(owner common.Address) *uint256.Int { return h.balanceOf(owner) }

// SetBalance exposes setBalance for the same gas_token use.
func (h *Handle) SetBalance(owner common.Address, amount *uint256.Int) { h.setBalance(owner, amount) }

func (h *Handle) allowance(owner, spender common.Address) *uint256.Int {
	v := h.backend.GetState(h.addr, h.generation(), allowanceSlot(owner, spender))
	return new(uint256.Int).SetBytes(v[:])
}

func (h *Handle) setAllowance(owner, spender common.Address, amount *uint256.Int) {
	h.backend.SetState(h.addr, h.generation(), allowanceSlot(owner, spender), common.Hash(amount.Bytes32()))
}

func (h *Handle) totalSupply() *uint256.Int {
	var key common.Hash
	key[31] = byte(slotTotalSupply)
	v := h.backend.GetState(h.addr, h.generation(), key)
	return new(uint256.Int).SetBytes(v[:])
}

func (h *Handle) transfer(from, to common.Address, amount *uint256.Int) error {
	fromBal := h.balanceOf(from)
	if fromBal.Lt(amount) {
		return ErrInsufficientBalance
	}
	h.setBalance(from, new(uint256.Int).Sub(fromBal, amount))
	h.setBalance(to, new(uint256.Int).Add(h.balanceOf(to), amount))
	return nil
}

// Dispatch decodes input's 4-byte selector and argument tuple, performs the
// corresponding ERC-20 operation against this handle's storage, and returns
// the ABI-encoded result. caller is the account the EVM reports as
// msg.sender for this call (transferFrom draws down caller's allowance,
// not the token's).
func (h *Handle) Dispatch(input []byte, caller common.Address) ([]byte, error) {
	if len(input) < 4 {
		return nil, ErrUnknownSelector
	}
	method, err := erc20ABI.MethodById(input[:4])
	if err != nil {
		return nil, ErrUnknownSelector
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "transfer":
		to := args[0].(common.Address)
		amount, _ := uint256.FromBig(args[1].(*big.Int))
		if err := h.transfer(caller, to, amount); err != nil {
			return nil, err
		}
		return method.Outputs.Pack(true)

	case "transferFrom":
		from := args[0].(common.Address)
		to := args[1].(common.Address)
		amount, _ := uint256.FromBig(args[2].(*big.Int))
		allowed := h.allowance(from, caller)
		if allowed.Lt(amount) {
			return nil, ErrInsufficientAllowance
		}
		if err := h.transfer(from, to, amount); err != nil {
			return nil, err
		}
		h.setAllowance(from, caller, new(uint256.Int).Sub(allowed, amount))
		return method.Outputs.Pack(true)

	case "approve":
		spender := args[0].(common.Address)
		amount, _ := uint256.FromBig(args[1].(*big.Int))
		h.setAllowance(caller, spender, amount)
		return method.Outputs.Pack(true)

	case "balanceOf":
		owner := args[0].(common.Address)
		return method.Outputs.Pack(h.balanceOf(owner).ToBig())

	case "allowance":
		owner := args[0].(common.Address)
		spender := args[1].(common.Address)
		return method.Outputs.Pack(h.allowance(owner, spender).ToBig())

	case "totalSupply":
		return method.Outputs.Pack(h.totalSupply().ToBig())

	case "name":
		return method.Outputs.Pack(h.readString(slotName))

	case "symbol":
		return method.Outputs.Pack(h.readString(slotSymbol))

	case "decimals":
		var key common.Hash
		key[31] = byte(slotDecimals)
		v := h.backend.GetState(h.addr, h.generation(), key)
		return method.Outputs.Pack(v[31])

	default:
		return nil, ErrUnknownSelector
	}
}

// readString decodes a short-string-packed Solidity string (length fits in
// the last byte, value left-aligned) out of slot baseSlot, the layout
// Solidity uses for strings under 32 bytes.
func (h *Handle) readString(baseSlot uint64) string {
	var key common.Hash
	key[31] = byte(baseSlot)
	v := h.backend.GetState(h.addr, h.generation(), key)
	length := int(v[31]) / 2
	if length > 31 {
		length = 0
	}
	return string(v[:length])
}

// writeString packs a short string (<31 bytes) into slot baseSlot using
// Solidity's short-string layout.
func (h *Handle) writeString(baseSlot uint64, s string) {
	var v common.Hash
	copy(v[:], s)
	v[31] = byte(len(s) * 2)
	var key common.Hash
	key[31] = byte(baseSlot)
	h.backend.SetState(h.addr, h.generation(), key, v)
}

// Deploy initializes a fresh token's metadata and mints the initial supply
// to owner, the native equivalent of the Solidity constructor this
// template's storage layout is designed to match.
func Deploy(backend *state.Backend, addr common.Address, name, symbol string, decimals uint8, initialSupply *uint256.Int, owner common.Address) *Handle {
	h := NewHandle(backend, addr)
	h.writeString(slotName, name)
	h.writeString(slotSymbol, symbol)

	var decimalsKey common.Hash
	decimalsKey[31] = byte(slotDecimals)
	var decimalsVal common.Hash
	decimalsVal[31] = decimals
	backend.SetState(addr, h.generation(), decimalsKey, decimalsVal)

	var supplyKey common.Hash
	supplyKey[31] = byte(slotTotalSupply)
	backend.SetState(addr, h.generation(), supplyKey, common.Hash(initialSupply.Bytes32()))

	h.setBalance(owner, initialSupply)
	return h
}
