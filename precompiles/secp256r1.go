// SECP256R1_VERIFY (spec.md §4.6, EIP-7951 / RIP-7212), grounded on
// aurora-engine's engine-precompiles/src/secp256r1.rs. No library in the
// example corpus implements P-256 ECDSA verification with the exact
// reduce-computed-r-mod-n fix the spec calls out, so this precompile is
// built on the standard library's crypto/elliptic P256 curve arithmetic
// (DESIGN.md: standard-library justification — the RIP-7212 fix is bespoke
// verification logic, not something a curve or signature library exposes
// directly; go-ethereum itself implements its P256VERIFY precompile the
// same way, against crypto/ecdsa's nistec-backed P256).
package precompiles

import (
	"crypto/elliptic"
	"math/big"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// GasSecp256r1Verify is the fixed gas cost of address 0x100 (spec.md §4.6).
const GasSecp256r1Verify = 6900

const secp256r1VerifyInputLength = 160

// Secp256r1Verify implements address 0x100.
type Secp256r1Verify struct{}

func (Secp256r1Verify) RequiredGas([]byte) uint64 { return GasSecp256r1Verify }

// Run never reverts on invalid input (spec.md §7): on any failure it returns
// empty output while still consuming the full declared gas.
func (s Secp256r1Verify) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := s.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	if len(input) != secp256r1VerifyInputLength {
		return gas, nil, nil, nil
	}

	hash := input[0:32]
	r := new(big.Int).SetBytes(input[32:64])
	sVal := new(big.Int).SetBytes(input[64:96])
	qx := new(big.Int).SetBytes(input[96:128])
	qy := new(big.Int).SetBytes(input[128:160])

	curve := elliptic.P256()
	params := curve.Params()

	if r.Sign() <= 0 || r.Cmp(params.N) >= 0 {
		return gas, nil, nil, nil
	}
	if sVal.Sign() <= 0 || sVal.Cmp(params.N) >= 0 {
		return gas, nil, nil, nil
	}
	if qx.Sign() < 0 || qx.Cmp(params.P) >= 0 || qy.Sign() < 0 || qy.Cmp(params.P) >= 0 {
		return gas, nil, nil, nil
	}
	if qx.Sign() == 0 && qy.Sign() == 0 {
		return gas, nil, nil, nil
	}
	if !curve.IsOnCurve(qx, qy) {
		return gas, nil, nil, nil
	}

	if !verifyP256(curve, hash, r, sVal, qx, qy) {
		return gas, nil, nil, nil
	}
	return gas, leftPad32(big.NewInt(1)), nil, nil
}

// verifyP256 implements textbook ECDSA verification, reducing the computed
// elliptic-curve-point x coordinate mod n before comparing against r — the
// RIP-7212 fix spec.md calls out explicitly, since naively comparing the raw
// field-element x coordinate against r (without the final mod-n reduction)
// rejects valid signatures in the rare case x >= n.
func verifyP256(curve elliptic.Curve, hash []byte, r, s, qx, qy *big.Int) bool {
	params := curve.Params()
	n := params.N

	w := new(big.Int).ModInverse(s, n)
	if w == nil {
		return false
	}
	e := new(big.Int).SetBytes(hash)
	e.Mod(e, n)

	u1 := new(big.Int).Mul(e, w)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, n)

	x1, y1 := curve.ScalarBaseMult(u1.Bytes())
	x2, y2 := curve.ScalarMult(qx, qy, u2.Bytes())
	x, y := curve.Add(x1, y1, x2, y2)
	if x.Sign() == 0 && y.Sign() == 0 {
		return false
	}

	computed := new(big.Int).Mod(x, n)
	return computed.Cmp(r) == 0
}

func leftPad32(v *big.Int) []byte {
	out := make([]byte, 32)
	v.FillBytes(out)
	return out
}
