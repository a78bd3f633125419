package keys_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine/keys"
)

func TestKeysCarrySchemaVersionAndDistinctPrefixes(t *testing.T) {
	addr := common.HexToAddress("0x000000000000000000000000000000000000aa")

	balance := keys.Balance(addr)
	nonce := keys.Nonce(addr)
	require.Equal(t, keys.SchemaVersion, balance[0])
	require.Equal(t, keys.SchemaVersion, nonce[0])
	require.NotEqual(t, balance, nonce)
	require.Equal(t, byte(keys.PrefixBalance), balance[1])
	require.Equal(t, byte(keys.PrefixNonce), nonce[1])
}

func TestStorageKeyEncodesAddressGenerationAndSlot(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000001")
	slot := common.HexToHash("0x01")

	k1 := keys.Storage(addr, 0, slot)
	k2 := keys.Storage(addr, 1, slot)
	require.NotEqual(t, k1, k2, "different generations must yield different storage keys")

	// version(1) + prefix(1) + address(20) + generation(4) + slot(32)
	require.Len(t, k1, 1+1+20+4+32)
}

func TestStorageRangeBoundsAreHalfOpenOverGeneration(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000002")
	slot := common.HexToHash("0xff")

	start := keys.StorageRangeStart(addr, 3)
	end := keys.StorageRangeEnd(addr, 3)
	key := keys.Storage(addr, 3, slot)

	require.True(t, string(start) <= string(key), "slot key must be >= range start")
	require.True(t, string(key) < string(end), "slot key must be < range end")

	nextGenKey := keys.Storage(addr, 4, slot)
	require.True(t, string(end) <= string(nextGenKey), "range end must not include the next generation's slots")
}

func TestBijectionPrefixesNeverCollide(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000003")
	require.NotEqual(t, keys.Nep141ToErc20("alice.near"), keys.Erc20ToNep141(addr))
}

func TestConfigKeysAreFixedAndDistinct(t *testing.T) {
	require.NotEqual(t, keys.Config(keys.ConfigEngineState), keys.Config(keys.ConfigPauseBitmap))
}

func TestBlockMetadataKeyVariesByHeight(t *testing.T) {
	require.NotEqual(t, keys.BlockMetadata(1), keys.BlockMetadata(2))
}
