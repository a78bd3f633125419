// Silo whitelist (SPEC_FULL.md §5, grounded on original_source's
// engine/src/silo/whitelist.rs): an optional address allow-list used by
// permissioned Aurora Silo deployments. It is enforced only while
// WhitelistEnabled is set; once enabled, only listed addresses pass, so an
// empty whitelist admits no one.
package state

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine/keys"
)

// IsWhitelisted reports whether addr is on the whitelist. It does not look
// at WhitelistEnabled; callers check that first to decide whether to
// enforce the list at all.
func (b *Backend) IsWhitelisted(addr common.Address) bool {
	return b.io.HasKey(keys.Whitelist(addr))
}

// SetWhitelisted adds or removes addr from the whitelist.
func (b *Backend) SetWhitelisted(addr common.Address, allowed bool) {
	if allowed {
		b.io.WriteStorage(keys.Whitelist(addr), []byte{1})
		return
	}
	b.io.RemoveStorage(keys.Whitelist(addr))
}

// WhitelistEnabled reports whether the silo whitelist feature is active at
// all. It must be explicitly enabled; adding addresses to an unenabled
// whitelist has no enforcement effect, so operators can stage entries
// before flipping deployments into restricted mode.
func (b *Backend) WhitelistEnabled() bool {
	return b.io.HasKey(keys.Config(keys.ConfigWhitelistEnabled))
}

// SetWhitelistEnabled toggles enforcement of the silo whitelist.
func (b *Backend) SetWhitelistEnabled(enabled bool) {
	if enabled {
		b.io.WriteStorage(keys.Config(keys.ConfigWhitelistEnabled), []byte{1})
		return
	}
	b.io.RemoveStorage(keys.Config(keys.ConfigWhitelistEnabled))
}
