package replay

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine/evmhost"
	"github.com/aurora-is-near/aurora-engine/state"
)

func testChainConfig() *params.ChainConfig {
	return &params.ChainConfig{
		ChainID:     big.NewInt(1313161554),
		BerlinBlock: big.NewInt(0),
		LondonBlock: big.NewInt(0),
	}
}

func TestCursorRejectsOperationsOutOfPhase(t *testing.T) {
	store := newTestStore(t)
	cursor := NewCursor(store, testChainConfig(), common.HexToAddress("0xfee"), nil)

	// ReplayTx before BeginBlock is out of phase.
	_, err := cursor.ReplayTx(nil, nil, nil)
	require.ErrorIs(t, err, ErrOutOfPhase)

	// AdvanceBlockHeight before BeginBlock is out of phase.
	err = cursor.AdvanceBlockHeight()
	require.ErrorIs(t, err, ErrOutOfPhase)
}

func TestCursorBeginBlockPersistsMetadataAndAdvancesPhase(t *testing.T) {
	store := newTestStore(t)
	cursor := NewCursor(store, testChainConfig(), common.HexToAddress("0xfee"), nil)

	meta := BlockMetadata{
		Height:    10,
		Timestamp: 1234,
		BlockCtx:  evmhost.BlockContext{BlockNumber: big.NewInt(10), BaseFee: big.NewInt(0)},
	}
	blockHash := common.HexToHash("0xabc")

	require.NoError(t, cursor.BeginBlock(meta, blockHash))
	require.Equal(t, PhaseExecutingTx, cursor.phase)

	loaded, ok, err := LoadBlockMetadata(store, 10)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(10), loaded.Height)
	require.Equal(t, uint64(1234), loaded.Timestamp)

	// a second BeginBlock before advancing is out of phase.
	err = cursor.BeginBlock(meta, blockHash)
	require.ErrorIs(t, err, ErrOutOfPhase)
}

func TestCursorAdvanceBlockHeightReturnsToAwaitingMetadata(t *testing.T) {
	store := newTestStore(t)
	cursor := NewCursor(store, testChainConfig(), common.HexToAddress("0xfee"), nil)

	meta := BlockMetadata{Height: 1}
	require.NoError(t, cursor.BeginBlock(meta, common.HexToHash("0x01")))
	require.NoError(t, cursor.AdvanceBlockHeight())
	require.Equal(t, PhaseAwaitingMetadata, cursor.phase)
	require.Nil(t, cursor.meta)

	// the next block's metadata can now be recorded.
	require.NoError(t, cursor.BeginBlock(BlockMetadata{Height: 2}, common.HexToHash("0x02")))
}

func TestAdvanceBlockHeightSealsAndPersistsHashchainHead(t *testing.T) {
	store := newTestStore(t)
	cursor := NewCursor(store, testChainConfig(), common.HexToAddress("0xfee"), nil)

	require.NoError(t, cursor.BeginBlock(BlockMetadata{Height: 1}, common.HexToHash("0x01")))
	require.NoError(t, cursor.AdvanceBlockHeight())

	overlay := NewOverlay(store, 1, 0xFFFF, nil)
	backend := state.NewBackend(overlay)
	es, ok := backend.GetEngineState()
	require.True(t, ok, "AdvanceBlockHeight must persist EngineState even for an empty block")
	require.NotEqual(t, [32]byte{}, es.HashchainHead, "sealing must move the head away from its zero genesis value")

	require.NoError(t, cursor.BeginBlock(BlockMetadata{Height: 2}, common.HexToHash("0x02")))
	require.NoError(t, cursor.AdvanceBlockHeight())

	overlay2 := NewOverlay(store, 2, 0xFFFF, nil)
	es2, ok := state.NewBackend(overlay2).GetEngineState()
	require.True(t, ok)
	require.NotEqual(t, es.HashchainHead, es2.HashchainHead, "each Seal must chain from the previous head")
}

func TestSnapshotReconstructsLatestValuePerKeyAtHeight(t *testing.T) {
	store := newTestStore(t)
	key := []byte("acct/0x1/balance")

	require.NoError(t, store.db.Put(EngineVersionedKey(key, 1, 0), []byte("v1"), nil))
	require.NoError(t, store.db.Put(EngineVersionedKey(key, 3, 0), []byte("v3"), nil))

	snap, err := Snapshot(store, 2)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), snap[string(key)], "height 2 must not see the version written at height 3")

	snap, err = Snapshot(store, 3)
	require.NoError(t, err)
	require.Equal(t, []byte("v3"), snap[string(key)])
}
