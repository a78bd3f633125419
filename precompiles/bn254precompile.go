package precompiles

import (
	"math/big"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/aurora-is-near/aurora-engine/precompiles/bn254"
)

// Gas schedules for addresses 0x06-0x08 (spec.md §4.6): Byzantium's original
// costs are no longer reachable (Istanbul is always active on this engine,
// spec.md fork list starts at Berlin), so only the cheaper Istanbul figures
// are wired; the Byzantium constants are kept for documentation parity with
// the spec's table.
const (
	GasBN254AddIstanbul     = 150
	GasBN254AddByzantium    = 500
	GasBN254MulIstanbul     = 6000
	GasBN254MulByzantium    = 40000
	GasBN254PairingBase     = 45000
	GasBN254PairingPerPoint = 34000
)

func bn254Revert(msg string) error { return &Revert{Msg: msg} }

// Revert is a generic "this precompile explicitly reverted" error, used by
// the precompiles in this file whose spec.md row says "Invalid point ⇒
// revert" rather than "empty output, full gas" (contrast ECRECOVER and
// SECP256R1_VERIFY, which never revert). The BLS12-381 precompiles and the
// effectful precompiles in exit.go return it too for malformed input.
type Revert struct{ Msg string }

func (r *Revert) Error() string { return r.Msg }

// BN254Add implements address 0x06.
type BN254Add struct{}

func (BN254Add) RequiredGas([]byte) uint64 { return GasBN254AddIstanbul }

func (p BN254Add) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	buf := make([]byte, 128)
	copy(buf, input)
	a, err := bn254.DecodeG1(buf[:64])
	if err != nil {
		return gas, nil, nil, bn254Revert("ERR_BN128_INVALID_A")
	}
	b, err := bn254.DecodeG1(buf[64:128])
	if err != nil {
		return gas, nil, nil, bn254Revert("ERR_BN128_INVALID_B")
	}
	return gas, bn254.EncodeG1(bn254.Add(a, b)), nil, nil
}

// BN254Mul implements address 0x07.
type BN254Mul struct{}

func (BN254Mul) RequiredGas([]byte) uint64 { return GasBN254MulIstanbul }

func (p BN254Mul) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	buf := make([]byte, 96)
	copy(buf, input)
	a, err := bn254.DecodeG1(buf[:64])
	if err != nil {
		return gas, nil, nil, bn254Revert("ERR_BN128_INVALID_A")
	}
	scalar := new(big.Int).SetBytes(buf[64:96])
	return gas, bn254.EncodeG1(bn254.ScalarMul(a, scalar)), nil, nil
}

// BN254Pairing implements address 0x08.
type BN254Pairing struct{}

func (BN254Pairing) RequiredGas(input []byte) uint64 {
	k := uint64(len(input) / 192)
	return GasBN254PairingBase + GasBN254PairingPerPoint*k
}

func (p BN254Pairing) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if len(input)%192 != 0 {
		return gas, nil, nil, bn254Revert("ERR_BN128_INVALID_LEN")
	}
	if len(input) == 0 {
		return gas, leftPad32(big.NewInt(1)), nil, nil
	}
	k := len(input) / 192
	g1s := make([]bn254.G1Affine, 0, k)
	g2s := make([]bn254.G2Affine, 0, k)
	for i := 0; i < k; i++ {
		chunk := input[i*192 : (i+1)*192]
		a, err := bn254.DecodeG1(chunk[:64])
		if err != nil {
			return gas, nil, nil, bn254Revert("ERR_BN128_INVALID_A")
		}
		b, err := bn254.DecodeG2(chunk[64:192])
		if err != nil {
			return gas, nil, nil, bn254Revert("ERR_BN128_INVALID_B")
		}
		g1s = append(g1s, a)
		g2s = append(g2s, b)
	}
	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil {
		return gas, nil, nil, bn254Revert("ERR_BN128_PAIRING")
	}
	if ok {
		return gas, leftPad32(big.NewInt(1)), nil, nil
	}
	return gas, leftPad32(big.NewInt(0)), nil, nil
}
