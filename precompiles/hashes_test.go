package precompiles_test

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck

	"github.com/aurora-is-near/aurora-engine/borsh"
	"github.com/aurora-is-near/aurora-engine/precompiles"
)

func TestSHA256MatchesStandardLibrary(t *testing.T) {
	p := precompiles.SHA256{}
	input := []byte("the quick brown fox")
	gas, out, logs, err := p.Run(input, p.RequiredGas(input), precompiles.Context{})
	require.NoError(t, err)
	require.Nil(t, logs)
	require.Equal(t, p.RequiredGas(input), gas)
	want := sha256.Sum256(input)
	require.Equal(t, want[:], out)
}

func TestSHA256OutOfGas(t *testing.T) {
	p := precompiles.SHA256{}
	_, _, _, err := p.Run([]byte("x"), precompiles.GasSHA256Base-1, precompiles.Context{})
	require.ErrorIs(t, err, precompiles.ErrOutOfGas)
}

func TestRipemd160LeftPadsTo32Bytes(t *testing.T) {
	p := precompiles.Ripemd160{}
	input := []byte("hello")
	gas, out, _, err := p.Run(input, p.RequiredGas(input), precompiles.Context{})
	require.NoError(t, err)
	require.Equal(t, p.RequiredGas(input), gas)
	require.Len(t, out, 32)

	h := ripemd160.New()
	h.Write(input) //nolint:errcheck
	want := h.Sum(nil)
	require.Equal(t, want, out[32-len(want):])
	require.Equal(t, make([]byte, 32-len(want)), out[:32-len(want)])
}

func TestIdentityReturnsInputVerbatim(t *testing.T) {
	p := precompiles.Identity{}
	input := []byte("passthrough")
	gas, out, _, err := p.Run(input, p.RequiredGas(input), precompiles.Context{})
	require.NoError(t, err)
	require.Equal(t, p.RequiredGas(input), gas)
	require.Equal(t, input, out)
}

func TestRandomSeedReturnsHostSuppliedSeed(t *testing.T) {
	p := precompiles.RandomSeed{}
	ctx := precompiles.Context{RandomSeed: [32]byte{1, 2, 3}}
	gas, out, _, err := p.Run(nil, precompiles.GasRandomSeed, ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(precompiles.GasRandomSeed), gas)
	require.Equal(t, ctx.RandomSeed[:], out)
}

func TestPrepaidGasEncodesAsBigEndianUint64(t *testing.T) {
	p := precompiles.PrepaidGas{}
	ctx := precompiles.Context{PrepaidGas: 42}
	_, out, _, err := p.Run(nil, precompiles.GasPrepaidGas, ctx)
	require.NoError(t, err)
	require.Len(t, out, 32)
	require.Equal(t, byte(42), out[31])
}

func TestPromiseResultReturnsBorshEncodedListOfAllResults(t *testing.T) {
	p := precompiles.PromiseResult{}
	ctx := precompiles.Context{PromiseResults: [][]byte{[]byte("first"), []byte("second")}}
	gas, out, _, err := p.Run(nil, precompiles.GasPromiseResult, ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(precompiles.GasPromiseResult), gas)

	r := borsh.NewReader(out)
	n, err := r.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(2), n)
	first, err := r.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte("first"), first)
	second, err := r.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte("second"), second)
	require.Zero(t, r.Remaining())
}

func TestPromiseResultIgnoresInputAndEmptyListEncodesZeroLength(t *testing.T) {
	p := precompiles.PromiseResult{}
	gas, out, _, err := p.Run([]byte{0xff, 0xff}, precompiles.GasPromiseResult, precompiles.Context{})
	require.NoError(t, err)
	require.Equal(t, uint64(precompiles.GasPromiseResult), gas)
	require.Equal(t, []byte{0, 0, 0, 0}, out)
}
