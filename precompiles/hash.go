package precompiles

import "github.com/ethereum/go-ethereum/crypto"

// ethKeccak256 returns the low 20 bytes of keccak256(label), the derivation
// spec.md §4.6 specifies for the derived precompiles' stable addresses.
func ethKeccak256(label string) []byte {
	return crypto.Keccak256([]byte(label))[12:]
}
