package state

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	gethstate "github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/stateless"
	"github.com/ethereum/go-ethereum/core/tracing"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/trie/utils"
	"github.com/holiman/uint256"
)

// TxConfig carries the per-transaction identifiers StateDB stamps onto logs,
// grounded on the teacher's x/vm/statedb/config.go TxConfig.
type TxConfig struct {
	BlockHash common.Hash
	TxHash    common.Hash
	TxIndex   uint
	LogIndex  uint
}

// NewTxConfig builds a TxConfig for an executing transaction.
func NewTxConfig(blockHash, txHash common.Hash, txIndex, logIndex uint) TxConfig {
	return TxConfig{BlockHash: blockHash, TxHash: txHash, TxIndex: txIndex, LogIndex: logIndex}
}

// NewEmptyTxConfig builds a TxConfig for contexts with no real transaction
// (eth_call-equivalent view invocations).
func NewEmptyTxConfig(blockHash common.Hash) TxConfig {
	return TxConfig{BlockHash: blockHash}
}

// StateDB is the per-transaction cache, journal and snapshot layer wired
// into go-ethereum's core/vm.EVM as its vm.StateDB. It generalizes the
// teacher's x/vm/statedb package (there named StateDB too) from a Cosmos
// keeper onto state.Backend, and replaces its Cosmos event-based log
// collection with plain ethtypes.Log accumulation since this host has no
// SDK event manager.
type StateDB struct {
	backend *Backend

	stateObjects map[common.Address]*stateObject

	journal *journal
	refund  uint64

	thash   common.Hash
	txIndex uint
	logSize uint

	logs      map[common.Hash][]*ethtypes.Log
	preimages map[common.Hash][]byte

	accessList *accessList

	transientStorage map[common.Address]Storage

	blockHash common.Hash

	// deleteEmptyObjects mirrors go-ethereum's EIP-161 flag (active from
	// Spurious Dragon onward, i.e. for every hard fork spec.md §1 targets):
	// an account left with nonce=0, balance=0 and empty code after Commit is
	// removed outright rather than persisted as a zero-valued record
	// (spec.md §3 Account Invariant / §4.4 apply semantics).
	deleteEmptyObjects bool
}

// New constructs a StateDB over backend for one transaction's execution.
func New(backend *Backend, cfg TxConfig) *StateDB {
	return &StateDB{
		backend:          backend,
		stateObjects:     make(map[common.Address]*stateObject),
		journal:          newJournal(),
		thash:            cfg.TxHash,
		txIndex:          cfg.TxIndex,
		logSize:          cfg.LogIndex,
		logs:             make(map[common.Hash][]*ethtypes.Log),
		preimages:        make(map[common.Hash][]byte),
		accessList:       newAccessList(),
		transientStorage: make(map[common.Address]Storage),
		blockHash:        cfg.BlockHash,
	}
}

// Backend exposes the underlying durable store, e.g. for Commit callers
// that need to read back committed state.
func (s *StateDB) Backend() *Backend { return s.backend }

// SetDeleteEmptyObjects toggles EIP-161 empty-account removal for the rest
// of this transaction's Commit, per the active hard-fork config (spec.md §3
// Account Invariant: "delete_empty is set by the active hard-fork config").
func (s *StateDB) SetDeleteEmptyObjects(v bool) { s.deleteEmptyObjects = v }

// Finalise satisfies vm.StateDB; this engine commits state itself via
// Commit rather than relying on core/vm's end-of-transaction hook.
func (s *StateDB) Finalise(deleteEmptyObjects bool) { s.SetDeleteEmptyObjects(deleteEmptyObjects) }

// PointCache satisfies vm.StateDB. It is only dereferenced by core/vm when
// the verkle-tree fork (EIP-4762) is active, which this engine never
// enables, so returning nil is safe.
func (s *StateDB) PointCache() *utils.PointCache { return nil }

// Witness satisfies vm.StateDB; callers nil-check it before use and this
// engine does not collect verkle witnesses.
func (s *StateDB) Witness() *stateless.Witness { return nil }

// AccessEvents satisfies vm.StateDB; callers nil-check it before use and
// this engine does not track verkle access events.
func (s *StateDB) AccessEvents() *gethstate.AccessEvents { return nil }

func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	if obj, ok := s.stateObjects[addr]; ok {
		return obj
	}
	account := s.backend.GetAccount(addr)
	gen := s.backend.GetGeneration(addr)
	obj := newObject(s, addr, account, gen)
	s.stateObjects[addr] = obj
	return obj
}

// CreateAccount ensures addr has a (possibly empty) tracked object, so a
// subsequent Commit writes it even if every field stays zero.
func (s *StateDB) CreateAccount(addr common.Address) {
	s.getStateObject(addr)
	s.journal.append(createObjectChange{account: &addr})
}

// CreateContract marks addr as a newly deployed contract, for callers that
// need to distinguish "account exists" from "account just got code" (EIP-161
// / EIP-6780 self-destruct-in-creation-tx semantics).
func (s *StateDB) CreateContract(addr common.Address) {
	obj := s.getStateObject(addr)
	obj.newContract = true
}

func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	return s.getStateObject(addr).SubBalance(amount)
}

func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	return s.getStateObject(addr).AddBalance(amount)
}

func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	return s.getStateObject(addr).Balance()
}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	return s.getStateObject(addr).Nonce()
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64, _ tracing.NonceChangeReason) {
	s.getStateObject(addr).SetNonce(nonce)
}

func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	return s.getStateObject(addr).CodeHash()
}

func (s *StateDB) GetCode(addr common.Address) []byte {
	return s.getStateObject(addr).Code()
}

func (s *StateDB) SetCode(addr common.Address, code []byte) {
	s.getStateObject(addr).SetCode(crypto.Keccak256Hash(code), code)
}

func (s *StateDB) GetCodeSize(addr common.Address) int {
	return s.getStateObject(addr).CodeSize()
}

func (s *StateDB) AddRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	s.refund += gas
}

func (s *StateDB) SubRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	if gas > s.refund {
		panic("state: refund counter below zero")
	}
	s.refund -= gas
}

func (s *StateDB) GetRefund() uint64 { return s.refund }

func (s *StateDB) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	return s.getStateObject(addr).GetCommittedState(key)
}

func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	return s.getStateObject(addr).GetState(key)
}

func (s *StateDB) SetState(addr common.Address, key, value common.Hash) common.Hash {
	return s.getStateObject(addr).SetState(key, value)
}

// GetStorageRoot has no analog in the flat KV layout (spec.md §3): there is
// no Merkle storage trie to root, so every account reports the empty root.
func (s *StateDB) GetStorageRoot(addr common.Address) common.Hash {
	return ethtypes.EmptyRootHash
}

func (s *StateDB) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	return s.transientStorage[addr][key]
}

func (s *StateDB) SetTransientState(addr common.Address, key, value common.Hash) {
	prev := s.GetTransientState(addr, key)
	if prev == value {
		return
	}
	s.journal.append(transientStorageChange{account: addr, key: key, prevalue: prev})
	s.setTransientState(addr, key, value)
}

func (s *StateDB) setTransientState(addr common.Address, key, value common.Hash) {
	storage, ok := s.transientStorage[addr]
	if !ok {
		storage = make(Storage)
		s.transientStorage[addr] = storage
	}
	storage[key] = value
}

// SelfDestruct marks addr for destruction at the end of the transaction
// (pre-Cancun semantics: storage is orphaned via a generation bump at
// Commit time, balance is cleared immediately so the running execution
// already observes it gone).
func (s *StateDB) SelfDestruct(addr common.Address) uint256.Int {
	obj := s.getStateObject(addr)
	prevBalance := *obj.Balance()
	if obj.selfDestructed {
		return uint256.Int{}
	}
	s.journal.append(selfDestructChange{account: &addr, prev: obj.selfDestructed, prevBalance: prevBalance})
	obj.markSelfDestructed()
	obj.setBalance(new(uint256.Int))
	return prevBalance
}

func (s *StateDB) HasSelfDestructed(addr common.Address) bool {
	obj, ok := s.stateObjects[addr]
	return ok && obj.selfDestructed
}

// SelfDestruct6780 implements EIP-6780: self-destruct only takes effect if
// the contract was created earlier in this same transaction; otherwise it
// changes nothing and returns the current balance with false.
func (s *StateDB) SelfDestruct6780(addr common.Address) (uint256.Int, bool) {
	obj := s.getStateObject(addr)
	if !obj.newContract {
		return *obj.Balance(), false
	}
	return s.SelfDestruct(addr), true
}

func (s *StateDB) Exist(addr common.Address) bool {
	if obj, ok := s.stateObjects[addr]; ok {
		return !obj.selfDestructed || obj.newContract
	}
	return s.backend.AccountExists(addr)
}

func (s *StateDB) Empty(addr common.Address) bool {
	return s.getStateObject(addr).empty()
}

func (s *StateDB) AddressInAccessList(addr common.Address) bool {
	return s.accessList.ContainsAddress(addr)
}

func (s *StateDB) SlotInAccessList(addr common.Address, slot common.Hash) (addressPresent, slotPresent bool) {
	return s.accessList.Contains(addr, slot)
}

func (s *StateDB) AddAddressToAccessList(addr common.Address) {
	if s.accessList.AddAddress(addr) {
		s.journal.append(accessListAddAccountChange{address: &addr})
	}
}

func (s *StateDB) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	addrMod, slotMod := s.accessList.AddSlot(addr, slot)
	if addrMod {
		s.journal.append(accessListAddAccountChange{address: &addr})
	}
	if slotMod {
		s.journal.append(accessListAddSlotChange{address: &addr, slot: &slot})
	}
}

// Prepare primes the access list for a transaction per EIP-2929/2930/3651:
// sender, destination, precompiles and the tx's own access list entries
// start warm, and (post-Shanghai) so does the coinbase.
func (s *StateDB) Prepare(rules params.Rules, sender, coinbase common.Address, dest *common.Address, precompiles []common.Address, txAccesses ethtypes.AccessList) {
	s.accessList = newAccessList()
	s.AddAddressToAccessList(sender)
	if dest != nil {
		s.AddAddressToAccessList(*dest)
	}
	for _, addr := range precompiles {
		s.AddAddressToAccessList(addr)
	}
	for _, el := range txAccesses {
		s.AddAddressToAccessList(el.Address)
		for _, key := range el.StorageKeys {
			s.AddSlotToAccessList(el.Address, key)
		}
	}
	if rules.IsShanghai {
		s.AddAddressToAccessList(coinbase)
	}
}

func (s *StateDB) RevertToSnapshot(id int) {
	s.journal.revertTo(s, id)
}

func (s *StateDB) Snapshot() int {
	return s.journal.snapshot()
}

func (s *StateDB) AddLog(log *ethtypes.Log) {
	s.journal.append(addLogChange{})
	log.TxHash = s.thash
	log.TxIndex = uint(s.txIndex)
	log.Index = s.logSize
	s.logs[s.thash] = append(s.logs[s.thash], log)
	s.logSize++
}

// Logs returns every log recorded by the current transaction, in emission
// order.
func (s *StateDB) Logs() []*ethtypes.Log {
	return s.logs[s.thash]
}

func (s *StateDB) AddPreimage(hash common.Hash, preimage []byte) {
	if _, ok := s.preimages[hash]; ok {
		return
	}
	s.journal.append(addPreimageChange{hash: hash})
	cpy := make([]byte, len(preimage))
	copy(cpy, preimage)
	s.preimages[hash] = cpy
}

// ForEachStorage iterates every cached storage slot of addr in sorted key
// order, mainly for tests; a production caller that needs every slot ever
// written (not just those touched this transaction) should range-scan the
// backend with keys.StorageRangeStart/End instead.
func (s *StateDB) ForEachStorage(addr common.Address, cb func(key, value common.Hash) bool) {
	obj, ok := s.stateObjects[addr]
	if !ok {
		return
	}
	merged := obj.originStorage.Copy()
	for k, v := range obj.dirtyStorage {
		merged[k] = v
	}
	for _, key := range merged.SortedKeys() {
		if !cb(key, merged[key]) {
			return
		}
	}
}

// Commit flushes every touched object to the backend in deterministic
// address order, matching the teacher's statedb.Commit but writing through
// Backend instead of a Cosmos multistore.
func (s *StateDB) Commit() error {
	addrs := make([]common.Address, 0, len(s.stateObjects))
	for addr := range s.stateObjects {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return string(addrs[i].Bytes()) < string(addrs[j].Bytes())
	})
	for _, addr := range addrs {
		s.stateObjects[addr].commit(s.deleteEmptyObjects)
	}
	return nil
}
