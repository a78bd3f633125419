package hashchain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine/hashchain"
)

func entry(method string) hashchain.TxLogEntry {
	return hashchain.TxLogEntry{MethodName: method, Input: []byte("in"), Output: []byte("out")}
}

func TestSealIsDeterministicAndContractIDScoped(t *testing.T) {
	var chainID [32]byte
	chainID[31] = 1

	c1 := hashchain.New(chainID, "engine.near", hashchain.Hash256{})
	c1.AddTx(entry("submit"))
	h1 := c1.Seal(1)

	c2 := hashchain.New(chainID, "engine.near", hashchain.Hash256{})
	c2.AddTx(entry("submit"))
	h2 := c2.Seal(1)

	require.Equal(t, h1, h2, "identical inputs must seal to the same hash")

	c3 := hashchain.New(chainID, "other.near", hashchain.Hash256{})
	c3.AddTx(entry("submit"))
	h3 := c3.Seal(1)
	require.NotEqual(t, h1, h3, "a different contract id must change the sealed hash")
}

func TestEmptyBlockSealsProduceAChainOfLinks(t *testing.T) {
	var chainID [32]byte
	c := hashchain.New(chainID, "engine.near", hashchain.Hash256{})

	h1 := c.Seal(10) // empty block
	h2 := c.Seal(11) // another empty block
	require.NotEqual(t, h1, h2, "sealing distinct heights must yield distinct links even with no transactions")
	require.Equal(t, h2, c.Head())
}

func TestSealResetsTxHashchainForNextBlock(t *testing.T) {
	var chainID [32]byte
	withTx := hashchain.New(chainID, "engine.near", hashchain.Hash256{})
	withTx.AddTx(entry("submit"))
	firstSeal := withTx.Seal(1)

	empty := hashchain.New(chainID, "engine.near", firstSeal)
	emptySeal := empty.Seal(2)

	withTxThenEmpty := hashchain.New(chainID, "engine.near", hashchain.Hash256{})
	withTxThenEmpty.AddTx(entry("submit"))
	withTxThenEmpty.Seal(1)
	secondSeal := withTxThenEmpty.Seal(2)

	require.Equal(t, emptySeal, secondSeal, "the accumulated tx-hashchain must reset after Seal")
}

func TestStartHashchainReanchors(t *testing.T) {
	var chainID [32]byte
	var genesis hashchain.Hash256
	genesis[0] = 0x42

	c := hashchain.StartHashchain(chainID, "engine.near", genesis)
	require.Equal(t, genesis, c.Head())
}
