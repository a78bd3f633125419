package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// EmptyCodeHash is the keccak256 of the empty byte string, the CodeHash an
// account has before any code is installed.
var EmptyCodeHash = common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")

// Account is the logical account record of spec.md §3: balance, nonce, code
// hash live under distinct key prefixes rather than one record, but this
// struct is the in-memory view every layer above state.Backend works with,
// mirroring the teacher's statedb.Account (x/vm/statedb/state_object.go).
type Account struct {
	Nonce    uint64
	Balance  *uint256.Int
	CodeHash common.Hash
}

// NewEmptyAccount returns the zero-value account: balance 0, nonce 0, empty
// code hash.
func NewEmptyAccount() Account {
	return Account{Balance: new(uint256.Int), CodeHash: EmptyCodeHash}
}

// IsEmpty reports whether the account is empty per spec.md §3's Invariant:
// balance = 0, nonce = 0, code length = 0.
func (a Account) IsEmpty() bool {
	return a.Nonce == 0 && a.Balance.Sign() == 0 && a.CodeHash == EmptyCodeHash
}

// HasCode reports whether the account has contract code installed.
func (a Account) HasCode() bool { return a.CodeHash != EmptyCodeHash }
