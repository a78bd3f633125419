// Gas token (SPEC_FULL.md §5, grounded on original_source's
// engine/src/gas_token.rs): lets the engine charge gas in a configured
// ERC-20 instead of the native wrapped asset.
package state

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine/keys"
)

// GetGasToken returns the configured gas token address and whether one is
// set. When unset, gas is charged against the native balance prefix as
// usual.
func (b *Backend) GetGasToken() (common.Address, bool) {
	v, ok := b.io.ReadStorage(keys.Config(keys.ConfigGasToken))
	if !ok || v.Len() != common.AddressLength {
		return common.Address{}, false
	}
	return common.BytesToAddress(v.Bytes()), true
}

// SetGasToken configures addr as the gas token. Passing the zero address
// clears the configuration, reverting to native-balance gas accounting.
func (b *Backend) SetGasToken(addr common.Address) {
	if addr == (common.Address{}) {
		b.io.RemoveStorage(keys.Config(keys.ConfigGasToken))
		return
	}
	b.io.WriteStorage(keys.Config(keys.ConfigGasToken), addr.Bytes())
}

// SetGasTokenAddress satisfies the narrower interface the SET_GAS_TOKEN
// precompile calls through (its input is the raw 20 address bytes, and a
// failing configuration change needs an error return to revert on).
func (b *Backend) SetGasTokenAddress(addr [20]byte) error {
	b.SetGasToken(common.Address(addr))
	return nil
}
