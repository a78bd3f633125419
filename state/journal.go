package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// journalEntry is one undoable mutation applied to a StateDB during a
// transaction's execution, grounded on the teacher's x/vm/statedb package
// (which journals the same way but has no journal.go in this retrieval;
// the entry set below mirrors go-ethereum's core/state/journal.go, the
// library the teacher itself wraps).
type journalEntry interface {
	revert(db *StateDB)
	dirtied() *common.Address
}

type journal struct {
	entries []journalEntry
	dirties map[common.Address]int
}

func newJournal() *journal {
	return &journal{dirties: make(map[common.Address]int)}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
	if addr := entry.dirtied(); addr != nil {
		j.dirties[*addr]++
	}
}

// snapshot returns the length of the entry log, a revert target for
// RevertToSnapshot.
func (j *journal) snapshot() int { return len(j.entries) }

func (j *journal) revertTo(db *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(db)
		if addr := j.entries[i].dirtied(); addr != nil {
			if j.dirties[*addr]--; j.dirties[*addr] == 0 {
				delete(j.dirties, *addr)
			}
		}
	}
	j.entries = j.entries[:snapshot]
}

type (
	createObjectChange struct {
		account *common.Address
	}
	selfDestructChange struct {
		account     *common.Address
		prev        bool
		prevBalance uint256.Int
	}
	balanceChange struct {
		account *common.Address
		prev    *uint256.Int
	}
	nonceChange struct {
		account *common.Address
		prev    uint64
	}
	codeChange struct {
		account  *common.Address
		prevHash common.Hash
		prevCode []byte
	}
	storageChange struct {
		account  *common.Address
		key      common.Hash
		prevalue common.Hash
	}
	transientStorageChange struct {
		account  common.Address
		key      common.Hash
		prevalue common.Hash
	}
	refundChange struct {
		prev uint64
	}
	addLogChange struct{}
	addPreimageChange struct {
		hash common.Hash
	}
	accessListAddAccountChange struct {
		address *common.Address
	}
	accessListAddSlotChange struct {
		address *common.Address
		slot    *common.Hash
	}
)

func (ch createObjectChange) dirtied() *common.Address { return ch.account }
func (ch createObjectChange) revert(db *StateDB) {
	delete(db.stateObjects, *ch.account)
}

func (ch selfDestructChange) dirtied() *common.Address { return ch.account }
func (ch selfDestructChange) revert(db *StateDB) {
	obj := db.getStateObject(*ch.account)
	if obj != nil {
		obj.selfDestructed = ch.prev
		obj.setBalance(&ch.prevBalance)
	}
}

func (ch balanceChange) dirtied() *common.Address { return ch.account }
func (ch balanceChange) revert(db *StateDB) {
	db.getStateObject(*ch.account).setBalance(ch.prev)
}

func (ch nonceChange) dirtied() *common.Address { return ch.account }
func (ch nonceChange) revert(db *StateDB) {
	db.getStateObject(*ch.account).setNonce(ch.prev)
}

func (ch codeChange) dirtied() *common.Address { return ch.account }
func (ch codeChange) revert(db *StateDB) {
	db.getStateObject(*ch.account).setCode(ch.prevHash, ch.prevCode)
}

func (ch storageChange) dirtied() *common.Address { return ch.account }
func (ch storageChange) revert(db *StateDB) {
	db.getStateObject(*ch.account).setState(ch.key, ch.prevalue)
}

func (ch transientStorageChange) dirtied() *common.Address { return nil }
func (ch transientStorageChange) revert(db *StateDB) {
	db.setTransientState(ch.account, ch.key, ch.prevalue)
}

func (ch refundChange) dirtied() *common.Address { return nil }
func (ch refundChange) revert(db *StateDB) {
	db.refund = ch.prev
}

func (ch addLogChange) dirtied() *common.Address { return nil }
func (ch addLogChange) revert(db *StateDB) {
	logs := db.logs[db.thash]
	db.logs[db.thash] = logs[:len(logs)-1]
}

func (ch addPreimageChange) dirtied() *common.Address { return nil }
func (ch addPreimageChange) revert(db *StateDB) {
	delete(db.preimages, ch.hash)
}

func (ch accessListAddAccountChange) dirtied() *common.Address { return nil }
func (ch accessListAddAccountChange) revert(db *StateDB) {
	db.accessList.DeleteAddress(*ch.address)
}

func (ch accessListAddSlotChange) dirtied() *common.Address { return nil }
func (ch accessListAddSlotChange) revert(db *StateDB) {
	db.accessList.DeleteSlot(*ch.address, *ch.slot)
}
