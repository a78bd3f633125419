// NEP-141 to ERC-20 bijection (spec.md §3 Account table / Non-goals),
// grounded on aurora-engine's engine/src/connector/mod.rs registration
// logic: each NEAR fungible-token account id maps to exactly one deployed
// ERC-20 address and vice versa, recorded under both prefixes so either
// direction can be looked up without a reverse scan.
package state

import (
	"github.com/ethereum/go-ethereum/common"

	errorsmod "cosmossdk.io/errors"

	"github.com/aurora-is-near/aurora-engine/herrors"
	"github.com/aurora-is-near/aurora-engine/keys"
)

// GetErc20ForNep141 returns the ERC-20 address registered for a NEP-141
// account id, if any.
func (b *Backend) GetErc20ForNep141(accountID string) (common.Address, bool) {
	v, ok := b.io.ReadStorage(keys.Nep141ToErc20(accountID))
	if !ok || v.Len() != common.AddressLength {
		return common.Address{}, false
	}
	return common.BytesToAddress(v.Bytes()), true
}

// GetNep141ForErc20 returns the NEP-141 account id registered for an ERC-20
// address, if any.
func (b *Backend) GetNep141ForErc20(addr common.Address) (string, bool) {
	v, ok := b.io.ReadStorage(keys.Erc20ToNep141(addr))
	if !ok {
		return "", false
	}
	return string(v.Bytes()), true
}

// RegisterBridge records a new NEP-141↔ERC-20 pair. It fails if either side
// is already registered to something else, preserving the bijection: no
// NEP-141 account id ever maps to two ERC-20 addresses or vice versa.
func (b *Backend) RegisterBridge(accountID string, addr common.Address) error {
	if _, ok := b.GetErc20ForNep141(accountID); ok {
		return errorsmod.Wrapf(herrors.ErrNep141AlreadyRegistered, "account id %q", accountID)
	}
	if _, ok := b.GetNep141ForErc20(addr); ok {
		return errorsmod.Wrapf(herrors.ErrErc20AlreadyRegistered, "address %s", addr)
	}
	b.io.WriteStorage(keys.Nep141ToErc20(accountID), addr.Bytes())
	b.io.WriteStorage(keys.Erc20ToNep141(addr), []byte(accountID))
	return nil
}
