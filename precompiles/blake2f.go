package precompiles

import (
	"encoding/binary"
	"errors"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/blake2b"
)

// blake2FInputLength is EIP-152's strict 213-byte input: 4 (rounds) + 64 (h)
// + 128 (m) + 16 (t) + 1 (final flag).
const blake2FInputLength = 213

// GasBlake2FPerRound is the per-round cost (spec.md §4.6: "rounds×gwei" is
// the spec's shorthand for EIP-152's 1-gas-per-round schedule).
const GasBlake2FPerRound = 1

var errBlake2FInvalidInputLength = errors.New("precompiles: invalid blake2f input length")
var errBlake2FInvalidFinalFlag = errors.New("precompiles: invalid blake2f final block indicator")

// Blake2F implements address 0x09 (EIP-152), using go-ethereum's
// crypto/blake2b package, which exports the F compression function this
// precompile needs.
type Blake2F struct{}

func (Blake2F) RequiredGas(input []byte) uint64 {
	if len(input) != blake2FInputLength {
		return 0
	}
	return uint64(binary.BigEndian.Uint32(input[0:4])) * GasBlake2FPerRound
}

func (b Blake2F) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	if len(input) != blake2FInputLength {
		return 0, nil, nil, errBlake2FInvalidInputLength
	}
	rounds := binary.BigEndian.Uint32(input[0:4])
	gas := uint64(rounds) * GasBlake2FPerRound
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}

	final := input[212]
	if final != 0 && final != 1 {
		return 0, nil, nil, errBlake2FInvalidFinalFlag
	}

	var h [8]uint64
	for i := 0; i < 8; i++ {
		h[i] = binary.LittleEndian.Uint64(input[4+i*8:])
	}
	var m [16]uint64
	for i := 0; i < 16; i++ {
		m[i] = binary.LittleEndian.Uint64(input[68+i*8:])
	}
	var t [2]uint64
	t[0] = binary.LittleEndian.Uint64(input[196:])
	t[1] = binary.LittleEndian.Uint64(input[204:])

	blake2b.F(&h, m, t, final == 1, rounds)

	out := make([]byte, 64)
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], h[i])
	}
	return gas, out, nil, nil
}
