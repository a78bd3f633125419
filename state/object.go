package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Storage is an in-memory cache of contract storage slots, keyed the way
// go-ethereum's core/state does, grounded on the teacher's
// x/vm/statedb/state_object.go Storage type.
type Storage map[common.Hash]common.Hash

// Copy returns a defensive copy of s.
func (s Storage) Copy() Storage {
	cpy := make(Storage, len(s))
	for k, v := range s {
		cpy[k] = v
	}
	return cpy
}

// SortedKeys returns s's keys in ascending byte order, for deterministic
// iteration (ForEachStorage, diff production).
func (s Storage) SortedKeys() []common.Hash {
	keys := make([]common.Hash, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) < 0
	})
	return keys
}

// stateObject is the per-transaction working copy of one account: balance,
// nonce and code live in account, storage slots are cached lazily from the
// backing Backend and only written back on Commit. Grounded on the
// teacher's state_object.go, adapted from its Cosmos keeper to state.Backend
// and from its []byte CodeHash to common.Hash plus an explicit generation
// counter (spec.md §3 Generation / §4.4 Storage deletion).
type stateObject struct {
	db      *StateDB
	address common.Address

	account    Account
	generation uint32
	code       []byte
	codeLoaded bool

	originStorage Storage
	dirtyStorage  Storage

	dirtyCode      bool
	selfDestructed bool
	newContract    bool
}

func newObject(db *StateDB, address common.Address, account Account, generation uint32) *stateObject {
	if account.Balance == nil {
		account.Balance = new(uint256.Int)
	}
	if account.CodeHash == (common.Hash{}) {
		account.CodeHash = EmptyCodeHash
	}
	return &stateObject{
		db:            db,
		address:       address,
		account:       account,
		generation:    generation,
		originStorage: make(Storage),
		dirtyStorage:  make(Storage),
	}
}

func (s *stateObject) empty() bool {
	return s.account.Nonce == 0 && s.account.Balance.Sign() == 0 && s.account.CodeHash == EmptyCodeHash
}

func (s *stateObject) markSelfDestructed() { s.selfDestructed = true }

func (s *stateObject) Address() common.Address { return s.address }

func (s *stateObject) Balance() *uint256.Int { return s.account.Balance }

func (s *stateObject) Nonce() uint64 { return s.account.Nonce }

func (s *stateObject) CodeHash() common.Hash { return s.account.CodeHash }

// Code returns the contract code, lazily loaded from the backend and
// cached for the rest of the transaction.
func (s *stateObject) Code() []byte {
	if s.codeLoaded {
		return s.code
	}
	if s.account.CodeHash == EmptyCodeHash {
		s.codeLoaded = true
		return nil
	}
	s.code = s.db.backend.GetCode(s.address)
	s.codeLoaded = true
	return s.code
}

func (s *stateObject) CodeSize() int { return len(s.Code()) }

func (s *stateObject) SetBalance(amount *uint256.Int) uint256.Int {
	prev := *s.account.Balance
	s.db.journal.append(balanceChange{account: &s.address, prev: new(uint256.Int).Set(s.account.Balance)})
	s.setBalance(amount)
	return prev
}

func (s *stateObject) setBalance(amount *uint256.Int) { s.account.Balance = amount }

func (s *stateObject) AddBalance(amount *uint256.Int) uint256.Int {
	if amount.IsZero() {
		return *s.Balance()
	}
	return s.SetBalance(new(uint256.Int).Add(s.Balance(), amount))
}

func (s *stateObject) SubBalance(amount *uint256.Int) uint256.Int {
	if amount.IsZero() {
		return *s.Balance()
	}
	return s.SetBalance(new(uint256.Int).Sub(s.Balance(), amount))
}

func (s *stateObject) SetNonce(nonce uint64) {
	s.db.journal.append(nonceChange{account: &s.address, prev: s.account.Nonce})
	s.setNonce(nonce)
}

func (s *stateObject) setNonce(nonce uint64) { s.account.Nonce = nonce }

func (s *stateObject) SetCode(codeHash common.Hash, code []byte) {
	prevCode := s.Code()
	s.db.journal.append(codeChange{account: &s.address, prevHash: s.account.CodeHash, prevCode: prevCode})
	s.setCode(codeHash, code)
}

func (s *stateObject) setCode(codeHash common.Hash, code []byte) {
	s.code = code
	s.codeLoaded = true
	s.account.CodeHash = codeHash
	s.dirtyCode = true
}

// GetCommittedState queries storage as last committed, bypassing
// in-transaction dirty writes, consulting the backend (at the object's
// generation) on a cache miss.
func (s *stateObject) GetCommittedState(key common.Hash) common.Hash {
	if value, cached := s.originStorage[key]; cached {
		return value
	}
	value := s.db.backend.GetState(s.address, s.generation, key)
	s.originStorage[key] = value
	return value
}

// GetState queries current (including dirty, uncommitted) storage.
func (s *stateObject) GetState(key common.Hash) common.Hash {
	if value, dirty := s.dirtyStorage[key]; dirty {
		return value
	}
	return s.GetCommittedState(key)
}

// SetState sets a storage slot, returning its previous value.
func (s *stateObject) SetState(key, value common.Hash) common.Hash {
	prev := s.GetState(key)
	if prev == value {
		return prev
	}
	s.db.journal.append(storageChange{account: &s.address, key: key, prevalue: prev})
	s.setState(key, value)
	return prev
}

func (s *stateObject) setState(key, value common.Hash) { s.dirtyStorage[key] = value }

// commit flushes this object's account fields and dirty storage to the
// backend, bumping the storage generation first if the object was
// self-destructed (spec.md §4.4: deletion is a generation bump, not a scan).
// When deleteEmptyObjects is set and the object ends the transaction empty
// (balance=0, nonce=0, no code) without having been self-destructed, the
// account is removed entirely with no generation change, matching spec.md
// §3's Account Invariant and §4.4's "no generation change occurred" clause.
func (s *stateObject) commit(deleteEmptyObjects bool) {
	if s.selfDestructed {
		s.db.backend.DeleteAccount(s.address)
		s.db.backend.IncrementGeneration(s.address)
		return
	}
	if deleteEmptyObjects && s.empty() {
		s.db.backend.DeleteAccount(s.address)
		return
	}
	s.db.backend.SetNonce(s.address, s.account.Nonce)
	s.db.backend.SetBalance(s.address, s.account.Balance)
	if s.dirtyCode {
		s.db.backend.SetCode(s.address, s.code, s.account.CodeHash)
	}
	for _, key := range s.dirtyStorage.SortedKeys() {
		s.db.backend.SetState(s.address, s.generation, key, s.dirtyStorage[key])
		s.originStorage[key] = s.dirtyStorage[key]
	}
	s.dirtyStorage = make(Storage)
}
