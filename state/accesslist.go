package state

import "github.com/ethereum/go-ethereum/common"

// accessList mirrors go-ethereum's core/state accessList (EIP-2929/2930):
// an append-only set of warmed addresses and per-address warmed slots. Only
// additions are tracked; the journal entries above undo them on revert.
type accessList struct {
	addresses map[common.Address]int
	slots     []map[common.Hash]struct{}
}

func newAccessList() *accessList {
	return &accessList{addresses: make(map[common.Address]int)}
}

func (al *accessList) ContainsAddress(addr common.Address) bool {
	_, ok := al.addresses[addr]
	return ok
}

func (al *accessList) Contains(addr common.Address, slot common.Hash) (addressPresent, slotPresent bool) {
	idx, ok := al.addresses[addr]
	if !ok {
		return false, false
	}
	if idx == -1 {
		return true, false
	}
	_, slotPresent = al.slots[idx][slot]
	return true, slotPresent
}

// AddAddress adds addr to the access list. Returns true if it was not
// already present.
func (al *accessList) AddAddress(addr common.Address) bool {
	if _, ok := al.addresses[addr]; ok {
		return false
	}
	al.addresses[addr] = -1
	return true
}

// AddSlot adds (addr, slot) to the access list. Returns whether the
// address and the slot were newly added, respectively.
func (al *accessList) AddSlot(addr common.Address, slot common.Hash) (addrAdded, slotAdded bool) {
	idx, addrPresent := al.addresses[addr]
	if !addrPresent || idx == -1 {
		al.slots = append(al.slots, map[common.Hash]struct{}{slot: {}})
		al.addresses[addr] = len(al.slots) - 1
		return !addrPresent, true
	}
	if _, slotPresent := al.slots[idx][slot]; slotPresent {
		return false, false
	}
	al.slots[idx][slot] = struct{}{}
	return false, true
}

// DeleteSlot removes (addr, slot). Only ever called to unwind a journal
// entry appended by the most recent AddSlot call. It deletes the slot from
// addr's set; a set left empty stays allocated, which Contains reads the
// same as no slots.
func (al *accessList) DeleteSlot(addr common.Address, slot common.Hash) {
	idx, ok := al.addresses[addr]
	if !ok {
		return
	}
	delete(al.slots[idx], slot)
}

// DeleteAddress removes addr. Only ever called to unwind a journal entry
// appended by the most recent AddAddress call.
func (al *accessList) DeleteAddress(addr common.Address) {
	delete(al.addresses, addr)
}
