package precompiles

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// GasECRecover is the fixed gas cost of the ECRECOVER precompile (spec.md
// §4.6), grounded on go-ethereum's core/vm/contracts.go params.EcrecoverGas.
const GasECRecover = 3000

// ErrOutOfGas is returned by Run when the caller supplied less gas than
// RequiredGas; evmhost converts it to the interpreter's ErrOutOfGas status.
var ErrOutOfGas = errors.New("precompiles: out of gas")

// secp256k1N is the order of the secp256k1 curve, used to bound-check r/s.
var secp256k1N, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)

// ECRecover implements address 0x01. Grounded on go-ethereum's ecrecover
// precompile and aurora-engine's engine-precompiles/src/secp256k1.rs, using
// the go-ethereum crypto package (already the teacher's signer dependency)
// rather than re-deriving secp256k1 recovery by hand.
type ECRecover struct{}

func (ECRecover) RequiredGas([]byte) uint64 { return GasECRecover }

// Run never reverts: malformed input or a bad recovery id yields empty
// output with the full declared gas consumed (spec.md §7 Precompile
// failures; ECRECOVER is explicitly one of the precompiles that "never
// revert on invalid input").
func (e ECRecover) Run(input []byte, gasLimit uint64, _ Context) (uint64, []byte, []*ethtypes.Log, error) {
	gas := e.RequiredGas(input)
	if gasLimit < gas {
		return 0, nil, nil, ErrOutOfGas
	}
	const inputLen = 128
	in := make([]byte, inputLen)
	copy(in, input)

	hash := in[:32]
	v := in[32:64]
	r := in[64:96]
	s := in[96:128]

	for _, b := range v[:31] {
		if b != 0 {
			return gas, nil, nil, nil
		}
	}
	recid := v[31]
	if recid != 27 && recid != 28 {
		return gas, nil, nil, nil
	}
	if !validRS(r, s) {
		return gas, nil, nil, nil
	}

	sig := make([]byte, 65)
	copy(sig[:32], r)
	copy(sig[32:64], s)
	sig[64] = recid - 27

	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return gas, nil, nil, nil
	}
	addr := crypto.PubkeyToAddress(*pub)
	out := make([]byte, 32)
	copy(out[12:], addr.Bytes())
	return gas, out, nil, nil
}

// validRS rejects r == 0, s == 0, r >= secp256k1n and s >= secp256k1n, the
// same bounds go-ethereum's ecrecover precompile enforces. (ECRECOVER itself
// is not held to the EIP-2 malleability bound; that restriction applies to
// transaction signatures and EIP-7702 authorizations, not this precompile.)
func validRS(r, s []byte) bool {
	rInt := new(big.Int).SetBytes(r)
	sInt := new(big.Int).SetBytes(s)
	if rInt.Sign() == 0 || sInt.Sign() == 0 {
		return false
	}
	if rInt.Cmp(secp256k1N) >= 0 || sInt.Cmp(secp256k1N) >= 0 {
		return false
	}
	return true
}
