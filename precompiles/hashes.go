package precompiles

import (
	"crypto/sha256"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // spec.md §4.6 requires mainline RIPEMD160 semantics
)

// perWordGas rounds up len to 32-byte words, used by SHA256/RIPEMD160's
// "base+per-word" gas schedule (spec.md §4.6), the same ceil-division
// go-ethereum's core/vm/contracts.go uses for these two precompiles.
func perWordGas(length int) uint64 {
	return uint64((length + 31) / 32)
}

// GasSHA256Base and GasSHA256PerWord are go-ethereum's Sha256BaseGas/
// Sha256PerWordGas, the mainline-identical schedule for address 0x02.
const (
	GasSHA256Base    = 60
	GasSHA256PerWord = 12
)

// SHA256 implements address 0x02.
type SHA256 struct{}

func (SHA256) RequiredGas(input []byte) uint64 {
	return GasSHA256Base + GasSHA256PerWord*perWordGas(len(input))
}

func (s SHA256) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := s.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	h := sha256.Sum256(input)
	return gas, h[:], nil, nil
}

// GasRipemd160Base and GasRipemd160PerWord mirror go-ethereum's
// RipemdBaseGas/RipemdPerWordGas for address 0x03.
const (
	GasRipemd160Base    = 600
	GasRipemd160PerWord = 120
)

// Ripemd160 implements address 0x03, using golang.org/x/crypto/ripemd160
// (SPEC_FULL.md §4 domain stack) rather than a hand-rolled implementation.
type Ripemd160 struct{}

func (Ripemd160) RequiredGas(input []byte) uint64 {
	return GasRipemd160Base + GasRipemd160PerWord*perWordGas(len(input))
}

func (r Ripemd160) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := r.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	h := ripemd160.New()
	h.Write(input) //nolint:errcheck // hash.Hash.Write never errors
	sum := h.Sum(nil)
	out := make([]byte, 32)
	copy(out[32-len(sum):], sum)
	return gas, out, nil, nil
}

// GasIdentityBase and GasIdentityPerWord mirror go-ethereum's
// IdentityBaseGas/IdentityPerWordGas for address 0x04.
const (
	GasIdentityBase    = 15
	GasIdentityPerWord = 3
)

// Identity implements address 0x04: returns its input verbatim.
type Identity struct{}

func (Identity) RequiredGas(input []byte) uint64 {
	return GasIdentityBase + GasIdentityPerWord*perWordGas(len(input))
}

func (id Identity) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := id.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	out := make([]byte, len(input))
	copy(out, input)
	return gas, out, nil, nil
}
