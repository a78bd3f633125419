package precompiles_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine/precompiles"
)

func TestECRecoverRecoversKnownSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	hash := crypto.Keccak256([]byte("hello world"))
	sig, err := crypto.Sign(hash, key)
	require.NoError(t, err)

	input := make([]byte, 128)
	copy(input[0:32], hash)
	input[63] = sig[64] + 27 // v, right-aligned in the second 32-byte word
	copy(input[64:96], sig[0:32])
	copy(input[96:128], sig[32:64])

	p := precompiles.ECRecover{}
	gas, out, logs, err := p.Run(input, precompiles.GasECRecover, precompiles.Context{})
	require.NoError(t, err)
	require.Nil(t, logs)
	require.Equal(t, uint64(precompiles.GasECRecover), gas)
	require.Equal(t, addr, common.BytesToAddress(out))
}

func TestECRecoverNeverRevertsOnInvalidRecoveryID(t *testing.T) {
	input := make([]byte, 128)
	input[63] = 5 // invalid recovery id
	p := precompiles.ECRecover{}
	gas, out, _, err := p.Run(input, precompiles.GasECRecover, precompiles.Context{})
	require.NoError(t, err, "ECRECOVER must never revert on invalid input")
	require.Equal(t, uint64(precompiles.GasECRecover), gas, "full gas is consumed even on failure")
	require.Empty(t, out)
}

func TestECRecoverRejectsInsufficientGas(t *testing.T) {
	p := precompiles.ECRecover{}
	_, _, _, err := p.Run(make([]byte, 128), precompiles.GasECRecover-1, precompiles.Context{})
	require.ErrorIs(t, err, precompiles.ErrOutOfGas)
}

func bn254GeneratorG1() []byte {
	buf := make([]byte, 64)
	big.NewInt(1).FillBytes(buf[:32])
	big.NewInt(2).FillBytes(buf[32:64])
	return buf
}

func TestBN254AddWithIdentityReturnsOperand(t *testing.T) {
	gen := bn254GeneratorG1()
	input := append(append([]byte{}, gen...), make([]byte, 64)...) // gen + point-at-infinity

	p := precompiles.BN254Add{}
	gas, out, _, err := p.Run(input, precompiles.GasBN254AddIstanbul, precompiles.Context{})
	require.NoError(t, err)
	require.Equal(t, uint64(precompiles.GasBN254AddIstanbul), gas)
	require.True(t, bytes.Equal(gen, out), "adding the point at infinity must return the operand unchanged")
}

func TestBN254AddRejectsPointNotOnCurve(t *testing.T) {
	bogus := make([]byte, 128)
	bogus[31] = 1 // x=1, y=0: not on the curve
	p := precompiles.BN254Add{}
	_, _, _, err := p.Run(bogus, precompiles.GasBN254AddIstanbul, precompiles.Context{})
	require.Error(t, err, "an invalid curve point must revert rather than silently succeed")
}

func TestBN254MulByZeroReturnsIdentity(t *testing.T) {
	gen := bn254GeneratorG1()
	input := append(append([]byte{}, gen...), make([]byte, 32)...) // scalar 0

	p := precompiles.BN254Mul{}
	gas, out, _, err := p.Run(input, precompiles.GasBN254MulIstanbul, precompiles.Context{})
	require.NoError(t, err)
	require.Equal(t, uint64(precompiles.GasBN254MulIstanbul), gas)
	require.True(t, bytes.Equal(make([]byte, 64), out), "multiplying by zero must yield the point at infinity")
}

func TestBN254PairingEmptyInputIsTriviallyTrue(t *testing.T) {
	p := precompiles.BN254Pairing{}
	gas, out, _, err := p.Run(nil, p.RequiredGas(nil), precompiles.Context{})
	require.NoError(t, err)
	require.Equal(t, uint64(precompiles.GasBN254PairingBase), gas)
	expected := make([]byte, 32)
	expected[31] = 1
	require.Equal(t, expected, out)
}

func TestBN254PairingRejectsMisalignedInput(t *testing.T) {
	p := precompiles.BN254Pairing{}
	input := make([]byte, 100)
	_, _, _, err := p.Run(input, p.RequiredGas(input), precompiles.Context{})
	require.Error(t, err)
}

func TestSecp256r1VerifyRejectsMalformedInput(t *testing.T) {
	p := precompiles.Secp256r1Verify{}
	gas, out, _, err := p.Run(make([]byte, 10), precompiles.GasSecp256r1Verify, precompiles.Context{})
	require.NoError(t, err, "SECP256R1_VERIFY must never revert")
	require.Equal(t, uint64(precompiles.GasSecp256r1Verify), gas)
	require.Empty(t, out)
}

func TestSecp256r1VerifyRejectsZeroPublicKey(t *testing.T) {
	input := make([]byte, 160)
	input[63] = 1 // r=1
	input[95] = 1 // s=1
	p := precompiles.Secp256r1Verify{}
	_, out, _, err := p.Run(input, precompiles.GasSecp256r1Verify, precompiles.Context{})
	require.NoError(t, err)
	require.Empty(t, out, "the point-at-infinity public key must never verify")
}

func TestExitToNearGuardsAgainstStaticCall(t *testing.T) {
	p := precompiles.ExitToNear{}
	ctx := precompiles.Context{IsStatic: true, PrecompileAddress: precompiles.AddrExitToNear}
	_, _, _, err := p.Run([]byte{}, precompiles.GasExitToNear, ctx)
	require.Error(t, err)
}

func TestExitToEthereumGuardsAgainstDelegateCall(t *testing.T) {
	p := precompiles.ExitToEthereum{}
	ctx := precompiles.Context{
		PrecompileAddress: precompiles.AddrExitToEthereum,
		Self:              common.HexToAddress("0xaa"), // differs from PrecompileAddress: delegated
	}
	_, _, _, err := p.Run([]byte{}, precompiles.GasExitToEthereum, ctx)
	require.Error(t, err)
}

func TestCrossContractCallGuardsAgainstStaticCall(t *testing.T) {
	p := precompiles.CrossContractCall{}
	ctx := precompiles.Context{IsStatic: true, PrecompileAddress: precompiles.AddrCrossContractCall}
	_, _, _, err := p.Run([]byte{0x01}, precompiles.GasCrossContractCall, ctx)
	require.Error(t, err)
}

func TestSetGasTokenRejectsWrongLengthAddress(t *testing.T) {
	p := precompiles.SetGasToken{}
	ctx := precompiles.Context{PrecompileAddress: precompiles.AddrSetGasToken}
	_, _, _, err := p.Run([]byte{0x01, 0x02}, precompiles.GasSetGasToken, ctx)
	require.Error(t, err)
}

func TestDerivedAddressesAreStableAndDistinct(t *testing.T) {
	require.NotEqual(t, precompiles.AddrExitToNear, precompiles.AddrExitToEthereum)
	require.Equal(t, precompiles.AddrExitToNear, precompiles.DerivedAddress("exitToNear"))
}
