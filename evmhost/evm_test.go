package evmhost

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestBlockHashIsDeterministicAndAccountScoped(t *testing.T) {
	var chainID [32]byte
	chainID[31] = 1

	h1 := BlockHash(chainID, "engine.near", 100)
	h2 := BlockHash(chainID, "engine.near", 100)
	require.Equal(t, h1, h2)

	h3 := BlockHash(chainID, "other.near", 100)
	require.NotEqual(t, h1, h3, "the engine account id must be folded into the hash")

	h4 := BlockHash(chainID, "engine.near", 101)
	require.NotEqual(t, h1, h4, "distinct heights must hash differently")
}

func TestBlockHashFuncWindowsToRecent256Heights(t *testing.T) {
	var chainID [32]byte
	fn := blockHashFunc(chainID, "engine.near", 1000)

	require.NotEqual(t, common.Hash{}, fn(999), "the immediately preceding height is in range")
	require.NotEqual(t, common.Hash{}, fn(744), "exactly 256 heights back is in range")
	require.Equal(t, common.Hash{}, fn(743), "more than 256 heights back is out of range")
	require.Equal(t, common.Hash{}, fn(1000), "the current height itself is never resolvable")
	require.Equal(t, common.Hash{}, fn(1001), "future heights are never resolvable")
}
