package precompiles

import (
	"math/big"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/aurora-is-near/aurora-engine/precompiles/bls12381"
)

// Gas schedule for addresses 0x0b-0x11 (spec.md §4.6, EIP-2537). The MSM
// precompiles apply a flat per-pair multiplier; EIP-2537's piecewise
// discount table for larger batches is not applied.
const (
	GasBLSG1Add          = 375
	GasBLSG1MulPerPair   = 12000
	GasBLSG2Add          = 600
	GasBLSG2MulPerPair   = 22500
	GasBLSPairingBase    = 37700
	GasBLSPairingPerPair = 32600
	GasBLSMapFpToG1      = 5500
	GasBLSMapFp2ToG2     = 23800
)

func blsRevert(msg string) error { return &Revert{Msg: msg} }

// BLSG1Add implements address 0x0b.
type BLSG1Add struct{}

func (BLSG1Add) RequiredGas([]byte) uint64 { return GasBLSG1Add }

func (p BLSG1Add) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if len(input) != 256 {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_LEN")
	}
	a, err := bls12381.DecodeG1(input[:128])
	if err != nil {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_A")
	}
	b, err := bls12381.DecodeG1(input[128:256])
	if err != nil {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_B")
	}
	return gas, bls12381.EncodeG1(bls12381.AddG1(a, b)), nil, nil
}

// BLSG1MultiExp implements address 0x0c.
type BLSG1MultiExp struct{}

const blsG1MSMPairLen = 160 // 128-byte point + 32-byte scalar

func (BLSG1MultiExp) RequiredGas(input []byte) uint64 {
	k := uint64(len(input) / blsG1MSMPairLen)
	return GasBLSG1MulPerPair * k
}

func (p BLSG1MultiExp) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if len(input) == 0 || len(input)%blsG1MSMPairLen != 0 {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_LEN")
	}
	k := len(input) / blsG1MSMPairLen
	points := make([]bls12381.G1Affine, k)
	scalars := make([]*big.Int, k)
	for i := 0; i < k; i++ {
		chunk := input[i*blsG1MSMPairLen : (i+1)*blsG1MSMPairLen]
		pt, err := bls12381.DecodeG1(chunk[:128])
		if err != nil {
			return gas, nil, nil, blsRevert("ERR_BLS_INVALID_POINT")
		}
		points[i] = pt
		scalars[i] = new(big.Int).SetBytes(chunk[128:160])
	}
	res, err := bls12381.MSMG1(points, scalars)
	if err != nil {
		return gas, nil, nil, blsRevert("ERR_BLS_SUBGROUP")
	}
	return gas, bls12381.EncodeG1(res), nil, nil
}

// BLSG2Add implements address 0x0d.
type BLSG2Add struct{}

func (BLSG2Add) RequiredGas([]byte) uint64 { return GasBLSG2Add }

func (p BLSG2Add) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if len(input) != 512 {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_LEN")
	}
	a, err := bls12381.DecodeG2(input[:256])
	if err != nil {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_A")
	}
	b, err := bls12381.DecodeG2(input[256:512])
	if err != nil {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_B")
	}
	return gas, bls12381.EncodeG2(bls12381.AddG2(a, b)), nil, nil
}

// BLSG2MultiExp implements address 0x0e.
type BLSG2MultiExp struct{}

const blsG2MSMPairLen = 288 // 256-byte point + 32-byte scalar

func (BLSG2MultiExp) RequiredGas(input []byte) uint64 {
	k := uint64(len(input) / blsG2MSMPairLen)
	return GasBLSG2MulPerPair * k
}

func (p BLSG2MultiExp) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if len(input) == 0 || len(input)%blsG2MSMPairLen != 0 {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_LEN")
	}
	k := len(input) / blsG2MSMPairLen
	points := make([]bls12381.G2Affine, k)
	scalars := make([]*big.Int, k)
	for i := 0; i < k; i++ {
		chunk := input[i*blsG2MSMPairLen : (i+1)*blsG2MSMPairLen]
		pt, err := bls12381.DecodeG2(chunk[:256])
		if err != nil {
			return gas, nil, nil, blsRevert("ERR_BLS_INVALID_POINT")
		}
		points[i] = pt
		scalars[i] = new(big.Int).SetBytes(chunk[256:288])
	}
	res, err := bls12381.MSMG2(points, scalars)
	if err != nil {
		return gas, nil, nil, blsRevert("ERR_BLS_SUBGROUP")
	}
	return gas, bls12381.EncodeG2(res), nil, nil
}

// BLSPairing implements address 0x0f.
type BLSPairing struct{}

const blsPairingPairLen = 384 // 128-byte G1 point + 256-byte G2 point

func (BLSPairing) RequiredGas(input []byte) uint64 {
	k := uint64(len(input) / blsPairingPairLen)
	return GasBLSPairingBase + GasBLSPairingPerPair*k
}

func (p BLSPairing) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if len(input) == 0 || len(input)%blsPairingPairLen != 0 {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_LEN")
	}
	k := len(input) / blsPairingPairLen
	g1s := make([]bls12381.G1Affine, k)
	g2s := make([]bls12381.G2Affine, k)
	for i := 0; i < k; i++ {
		chunk := input[i*blsPairingPairLen : (i+1)*blsPairingPairLen]
		a, err := bls12381.DecodeG1(chunk[:128])
		if err != nil {
			return gas, nil, nil, blsRevert("ERR_BLS_INVALID_A")
		}
		b, err := bls12381.DecodeG2(chunk[128:384])
		if err != nil {
			return gas, nil, nil, blsRevert("ERR_BLS_INVALID_B")
		}
		g1s[i] = a
		g2s[i] = b
	}
	ok, err := bls12381.PairingCheck(g1s, g2s)
	if err != nil {
		return gas, nil, nil, blsRevert("ERR_BLS_SUBGROUP")
	}
	if ok {
		return gas, leftPad32(big.NewInt(1)), nil, nil
	}
	return gas, leftPad32(big.NewInt(0)), nil, nil
}

// BLSMapFpToG1 implements address 0x10.
type BLSMapFpToG1 struct{}

func (BLSMapFpToG1) RequiredGas([]byte) uint64 { return GasBLSMapFpToG1 }

func (p BLSMapFpToG1) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if len(input) != 64 {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_LEN")
	}
	u := new(big.Int).SetBytes(input[16:64])
	if len(input[:16]) > 0 {
		for _, b := range input[:16] {
			if b != 0 {
				return gas, nil, nil, blsRevert("ERR_BLS_INVALID_FP")
			}
		}
	}
	return gas, bls12381.EncodeG1(bls12381.MapFpToG1(u)), nil, nil
}

// BLSMapFp2ToG2 implements address 0x11.
type BLSMapFp2ToG2 struct{}

func (BLSMapFp2ToG2) RequiredGas([]byte) uint64 { return GasBLSMapFp2ToG2 }

func (p BLSMapFp2ToG2) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := p.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if len(input) != 128 {
		return gas, nil, nil, blsRevert("ERR_BLS_INVALID_LEN")
	}
	u0 := new(big.Int).SetBytes(input[16:64])
	u1 := new(big.Int).SetBytes(input[80:128])
	return gas, bls12381.EncodeG2(bls12381.MapFp2ToG2(u0, u1)), nil, nil
}
