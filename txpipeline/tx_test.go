package txpipeline_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine/herrors"
	"github.com/aurora-is-near/aurora-engine/txpipeline"
)

func signLegacy(t *testing.T, chainID *big.Int, to *common.Address, nonce uint64) []byte {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       to,
		Value:    big.NewInt(1000),
		Gas:      21_000,
		GasPrice: big.NewInt(1),
	})
	signer := types.NewEIP155Signer(chainID)
	signedTx, err := types.SignTx(tx, signer, key)
	require.NoError(t, err)
	raw, err := signedTx.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func signDynamicFee(t *testing.T, chainID *big.Int, to *common.Address, tip, feeCap int64) []byte {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     0,
		To:        to,
		Value:     big.NewInt(0),
		Gas:       21_000,
		GasTipCap: big.NewInt(tip),
		GasFeeCap: big.NewInt(feeCap),
	})
	signer := types.NewLondonSigner(chainID)
	signedTx, err := types.SignTx(tx, signer, key)
	require.NoError(t, err)
	raw, err := signedTx.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func TestParseLegacyTransactionRecoversSender(t *testing.T) {
	chainID := big.NewInt(1313161554)
	to := common.HexToAddress("0x00000000000000000000000000000000000001")
	raw := signLegacy(t, chainID, &to, 0)

	n, err := txpipeline.Parse(raw, chainID, false)
	require.NoError(t, err)
	require.Equal(t, to, *n.To)
	require.False(t, n.IsCreate())
	require.Equal(t, types.LegacyTxType, n.Type)
}

func TestParseLegacyZeroToCreatesBugFlag(t *testing.T) {
	chainID := big.NewInt(1313161554)
	zero := common.Address{}
	raw := signLegacy(t, chainID, &zero, 0)

	withoutBug, err := txpipeline.Parse(raw, chainID, false)
	require.NoError(t, err)
	require.False(t, withoutBug.IsCreate(), "without the legacy flag, an explicit zero address is a call, not a create")

	withBug, err := txpipeline.Parse(raw, chainID, true)
	require.NoError(t, err)
	require.True(t, withBug.IsCreate(), "legacyZeroToCreatesBug must reproduce the historical replay-mode behavior")
}

func TestLegacyZeroToCreatesBugAtIsGatedOnFixHeight(t *testing.T) {
	require.True(t, txpipeline.LegacyZeroToCreatesBugAt(txpipeline.ZeroAddressFixHeight-1), "one block before the fix height must still reproduce the bug")
	require.False(t, txpipeline.LegacyZeroToCreatesBugAt(txpipeline.ZeroAddressFixHeight), "the fix height itself must use the corrected parse")
	require.False(t, txpipeline.LegacyZeroToCreatesBugAt(txpipeline.ZeroAddressFixHeight+1), "every height after the fix must use the corrected parse")
}

func TestParseDynamicFeeTransaction(t *testing.T) {
	chainID := big.NewInt(1313161554)
	to := common.HexToAddress("0x00000000000000000000000000000000000002")
	raw := signDynamicFee(t, chainID, &to, 10, 100)

	n, err := txpipeline.Parse(raw, chainID, false)
	require.NoError(t, err)
	require.Equal(t, types.DynamicFeeTxType, n.Type)
	require.Equal(t, int64(10), n.MaxPriorityFeePerGas.Int64())
	require.Equal(t, int64(100), n.MaxFeePerGas.Int64())
}

func TestParseRejectsTipGreaterThanFeeCap(t *testing.T) {
	chainID := big.NewInt(1313161554)
	to := common.HexToAddress("0x00000000000000000000000000000000000003")
	raw := signDynamicFee(t, chainID, &to, 100, 10)

	_, err := txpipeline.Parse(raw, chainID, false)
	require.ErrorIs(t, err, herrors.ErrMaxPriorityFeeTooLarge)
}

func TestParseRejectsBlobTransactionType(t *testing.T) {
	_, err := txpipeline.Parse([]byte{0x03, 0x00}, big.NewInt(1), false)
	require.ErrorIs(t, err, herrors.ErrUnsupportedTransaction4844)
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := txpipeline.Parse(nil, big.NewInt(1), false)
	require.ErrorIs(t, err, herrors.ErrInvalidTransaction)
}

func TestParseRejectsWrongChainID(t *testing.T) {
	chainID := big.NewInt(1313161554)
	to := common.HexToAddress("0x00000000000000000000000000000000000004")
	raw := signLegacy(t, chainID, &to, 0)

	_, err := txpipeline.Parse(raw, big.NewInt(999), false)
	require.ErrorIs(t, err, herrors.ErrInvalidChainID)
}

func TestIntrinsicGasSimpleCall(t *testing.T) {
	n := &txpipeline.NormalizedTransaction{To: &common.Address{}}
	gas, err := txpipeline.IntrinsicGas(n, false, false)
	require.NoError(t, err)
	require.Equal(t, uint64(21_000), gas)
}

func TestIntrinsicGasCreateCostsMore(t *testing.T) {
	n := &txpipeline.NormalizedTransaction{}
	gas, err := txpipeline.IntrinsicGas(n, false, false)
	require.NoError(t, err)
	require.Equal(t, uint64(53_000), gas)
}

func TestIntrinsicGasChargesForCalldata(t *testing.T) {
	to := common.Address{}
	n := &txpipeline.NormalizedTransaction{To: &to, Data: []byte{0x00, 0x01, 0x02}}
	gas, err := txpipeline.IntrinsicGas(n, false, false)
	require.NoError(t, err)
	require.Equal(t, uint64(21_000+4+16+16), gas)
}

func TestIntrinsicGasPragueFloorDominatesForSparseCalldata(t *testing.T) {
	to := common.Address{}
	data := make([]byte, 100) // all zero bytes: cheap under the normal formula
	n := &txpipeline.NormalizedTransaction{To: &to, Data: data}

	withoutPrague, err := txpipeline.IntrinsicGas(n, false, false)
	require.NoError(t, err)

	withPrague, err := txpipeline.IntrinsicGas(n, true, false)
	require.NoError(t, err)

	require.Equal(t, uint64(21_000+100*4), withoutPrague)
	require.GreaterOrEqual(t, withPrague, withoutPrague, "the Prague floor must never charge less than the base formula")
}

func TestChargeGasDeductsPrepaidFromBalance(t *testing.T) {
	n := &txpipeline.NormalizedTransaction{
		GasLimit:             100,
		MaxPriorityFeePerGas: big.NewInt(5),
		MaxFeePerGas:         big.NewInt(10),
	}
	balance := big.NewInt(10_000)
	result, err := txpipeline.ChargeGas(n, big.NewInt(0), func() *big.Int { return balance }, func(b *big.Int) { balance = b })
	require.NoError(t, err)
	require.Equal(t, int64(5), result.EffectivePrice.Int64())
	require.Equal(t, int64(500), result.Prepaid.Int64())
	require.Equal(t, int64(9500), balance.Int64())
}

func TestChargeGasRejectsInsufficientBalance(t *testing.T) {
	n := &txpipeline.NormalizedTransaction{
		GasLimit:             1_000_000,
		MaxPriorityFeePerGas: big.NewInt(5),
		MaxFeePerGas:         big.NewInt(10),
	}
	balance := big.NewInt(1)
	_, err := txpipeline.ChargeGas(n, big.NewInt(0), func() *big.Int { return balance }, func(b *big.Int) { balance = b })
	require.ErrorIs(t, err, herrors.ErrOutOfFund)
}

func TestChargeGasCapsEffectivePriceAtMaxFee(t *testing.T) {
	n := &txpipeline.NormalizedTransaction{
		GasLimit:             10,
		MaxPriorityFeePerGas: big.NewInt(1000),
		MaxFeePerGas:         big.NewInt(50),
	}
	balance := big.NewInt(10_000)
	result, err := txpipeline.ChargeGas(n, big.NewInt(0), func() *big.Int { return balance }, func(b *big.Int) { balance = b })
	require.NoError(t, err)
	require.Equal(t, int64(50), result.EffectivePrice.Int64())
}
