package hostio

// EntryPoint names the externally-callable methods spec.md §1 lists as
// out-of-scope dispatcher shims; the core exposes one Go function per name
// here so a thin host-side dispatcher (not part of this module) can route
// into it without duplicating argument parsing.
type EntryPoint string

const (
	EntrySubmit         EntryPoint = "submit"
	EntrySubmitWithArgs EntryPoint = "submit_with_args"
	EntryCall           EntryPoint = "call"
	EntryView           EntryPoint = "view"
	EntryGetBlockHash   EntryPoint = "get_block_hash"
	EntryGetBalance     EntryPoint = "get_balance"
	EntryGetNonce       EntryPoint = "get_nonce"
	EntryGetCode        EntryPoint = "get_code"
	EntryGetStorageAt   EntryPoint = "get_storage_at"
)

// Catalog lists every entry point this engine core exposes.
var Catalog = []EntryPoint{
	EntrySubmit,
	EntrySubmitWithArgs,
	EntryCall,
	EntryView,
	EntryGetBlockHash,
	EntryGetBalance,
	EntryGetNonce,
	EntryGetCode,
	EntryGetStorageAt,
}
