package precompiles_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine/precompiles"
)

func TestBLSG1AddRejectsWrongLength(t *testing.T) {
	p := precompiles.BLSG1Add{}
	_, _, _, err := p.Run(make([]byte, 255), precompiles.GasBLSG1Add, precompiles.Context{})
	require.Error(t, err)
}

func TestBLSG1AddIdentityIsOtherOperand(t *testing.T) {
	p := precompiles.BLSG1Add{}
	input := make([]byte, 256) // both operands are the point-at-infinity encoding (all zero)
	gas, out, logs, err := p.Run(input, precompiles.GasBLSG1Add, precompiles.Context{})
	require.NoError(t, err)
	require.Nil(t, logs)
	require.Equal(t, uint64(precompiles.GasBLSG1Add), gas)
	require.Equal(t, make([]byte, 128), out)
}

func TestBLSG1AddOutOfGas(t *testing.T) {
	p := precompiles.BLSG1Add{}
	_, _, _, err := p.Run(make([]byte, 256), precompiles.GasBLSG1Add-1, precompiles.Context{})
	require.ErrorIs(t, err, precompiles.ErrOutOfGas)
}

func TestBLSG1MultiExpRejectsMisalignedInput(t *testing.T) {
	p := precompiles.BLSG1MultiExp{}
	input := make([]byte, 161) // not a multiple of the 160-byte pair length
	gasLimit := p.RequiredGas(input) + 1
	_, _, _, err := p.Run(input, gasLimit, precompiles.Context{})
	require.Error(t, err)
}

func TestBLSG1MultiExpEmptyInputIsRejected(t *testing.T) {
	p := precompiles.BLSG1MultiExp{}
	_, _, _, err := p.Run(nil, 0, precompiles.Context{})
	require.Error(t, err)
}

func TestBLSPairingEmptyInputIsTriviallyTrue(t *testing.T) {
	p := precompiles.BLSPairing{}
	gasLimit := p.RequiredGas(nil)
	gas, out, _, err := p.Run(nil, gasLimit, precompiles.Context{})
	require.NoError(t, err)
	require.Equal(t, gasLimit, gas)
	expect := make([]byte, 32)
	expect[31] = 1
	require.Equal(t, expect, out)
}

func TestBLSMapFpToG1RejectsWrongLength(t *testing.T) {
	p := precompiles.BLSMapFpToG1{}
	_, _, _, err := p.Run(make([]byte, 63), precompiles.GasBLSMapFpToG1, precompiles.Context{})
	require.Error(t, err)
}

func TestBLSMapFpToG1RejectsNonZeroTopPadding(t *testing.T) {
	p := precompiles.BLSMapFpToG1{}
	input := make([]byte, 64)
	input[0] = 1 // the top 16 bytes of a 64-byte field element must be zero
	_, _, _, err := p.Run(input, precompiles.GasBLSMapFpToG1, precompiles.Context{})
	require.Error(t, err)
}

func TestBLSMapFp2ToG2RejectsWrongLength(t *testing.T) {
	p := precompiles.BLSMapFp2ToG2{}
	_, _, _, err := p.Run(make([]byte, 127), precompiles.GasBLSMapFp2ToG2, precompiles.Context{})
	require.Error(t, err)
}
