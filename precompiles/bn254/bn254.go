// Package bn254 wraps github.com/consensys/gnark-crypto/ecc/bn254 with the
// wire encoding Ethereum's ALT_BN128 precompiles (addresses 0x06-0x08) use:
// raw 32-byte big-endian field elements with no compression flag bits, the
// point at infinity represented as all-zero coordinates, grounded on
// go-ethereum's core/vm/contracts.go bn256* helpers and SPEC_FULL.md §4's
// domain-stack assignment of gnark-crypto to this concern.
package bn254

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// ErrInvalidPoint is returned when an encoded point is malformed: a
// coordinate at or above the field modulus, or a non-zero pair not on the
// curve/subgroup.
var ErrInvalidPoint = errors.New("bn254: invalid point encoding")

// G1Affine and G2Affine alias gnark-crypto's curve point types so callers
// outside this package can name them without importing gnark-crypto
// directly.
type G1Affine = bn254.G1Affine
type G2Affine = bn254.G2Affine

func fieldElement(b []byte) (*big.Int, error) {
	v := new(big.Int).SetBytes(b)
	if v.Cmp(fp.Modulus()) >= 0 {
		return nil, ErrInvalidPoint
	}
	return v, nil
}

// DecodeG1 parses a 64-byte uncompressed G1 point.
func DecodeG1(buf []byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	if len(buf) != 64 {
		return p, ErrInvalidPoint
	}
	x, err := fieldElement(buf[:32])
	if err != nil {
		return p, err
	}
	y, err := fieldElement(buf[32:64])
	if err != nil {
		return p, err
	}
	if x.Sign() == 0 && y.Sign() == 0 {
		return p, nil // point at infinity
	}
	p.X.SetBigInt(x)
	p.Y.SetBigInt(y)
	if !p.IsOnCurve() {
		return bn254.G1Affine{}, ErrInvalidPoint
	}
	return p, nil
}

// EncodeG1 serializes p as 64 bytes, all-zero for the point at infinity.
func EncodeG1(p bn254.G1Affine) []byte {
	out := make([]byte, 64)
	xBig, yBig := new(big.Int), new(big.Int)
	p.X.BigInt(xBig)
	p.Y.BigInt(yBig)
	xBig.FillBytes(out[:32])
	yBig.FillBytes(out[32:64])
	return out
}

// DecodeG2 parses a 128-byte uncompressed G2 point, Ethereum's
// (x_c1, x_c0, y_c1, y_c0) component order.
func DecodeG2(buf []byte) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	if len(buf) != 128 {
		return p, ErrInvalidPoint
	}
	xc1, err := fieldElement(buf[0:32])
	if err != nil {
		return p, err
	}
	xc0, err := fieldElement(buf[32:64])
	if err != nil {
		return p, err
	}
	yc1, err := fieldElement(buf[64:96])
	if err != nil {
		return p, err
	}
	yc0, err := fieldElement(buf[96:128])
	if err != nil {
		return p, err
	}
	if xc0.Sign() == 0 && xc1.Sign() == 0 && yc0.Sign() == 0 && yc1.Sign() == 0 {
		return p, nil
	}
	p.X.A0.SetBigInt(xc0)
	p.X.A1.SetBigInt(xc1)
	p.Y.A0.SetBigInt(yc0)
	p.Y.A1.SetBigInt(yc1)
	if !p.IsOnCurve() || !p.IsInSubGroup() {
		return bn254.G2Affine{}, ErrInvalidPoint
	}
	return p, nil
}

func isZeroG1(p bn254.G1Affine) bool { return p.X.IsZero() && p.Y.IsZero() }
func isZeroG2(p bn254.G2Affine) bool { return p.X.IsZero() && p.Y.IsZero() }

// Add computes a+b on G1, handling the point-at-infinity sentinel.
func Add(a, b bn254.G1Affine) bn254.G1Affine {
	if isZeroG1(a) {
		return b
	}
	if isZeroG1(b) {
		return a
	}
	var res bn254.G1Affine
	res.Add(&a, &b)
	return res
}

// ScalarMul computes scalar*p on G1.
func ScalarMul(p bn254.G1Affine, scalar *big.Int) bn254.G1Affine {
	if isZeroG1(p) || scalar.Sign() == 0 {
		return bn254.G1Affine{}
	}
	var res bn254.G1Affine
	res.ScalarMultiplication(&p, scalar)
	return res
}

// PairingCheck reports whether the product of e(g1[i], g2[i]) over all pairs
// equals 1, skipping pairs where either point is the identity (their
// contribution to the product is always 1).
func PairingCheck(g1 []bn254.G1Affine, g2 []bn254.G2Affine) (bool, error) {
	var filteredG1 []bn254.G1Affine
	var filteredG2 []bn254.G2Affine
	for i := range g1 {
		if isZeroG1(g1[i]) || isZeroG2(g2[i]) {
			continue
		}
		filteredG1 = append(filteredG1, g1[i])
		filteredG2 = append(filteredG2, g2[i])
	}
	if len(filteredG1) == 0 {
		return true, nil
	}
	res, err := bn254.Pair(filteredG1, filteredG2)
	if err != nil {
		return false, err
	}
	return res.IsOne(), nil
}
