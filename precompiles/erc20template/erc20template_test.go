package erc20template

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	aeio "github.com/aurora-is-near/aurora-engine/io"
	"github.com/aurora-is-near/aurora-engine/state"
)

func newTestBackend() *state.Backend {
	return state.NewBackend(aeio.NewInMemoryIO(nil))
}

func pack(t *testing.T, name string, args ...interface{}) []byte {
	t.Helper()
	m := erc20ABI.Methods[name]
	data, err := m.Inputs.Pack(args...)
	require.NoError(t, err)
	return append(append([]byte{}, m.ID...), data...)
}

func unpackBool(t *testing.T, name string, out []byte) bool {
	t.Helper()
	vals, err := erc20ABI.Methods[name].Outputs.Unpack(out)
	require.NoError(t, err)
	return vals[0].(bool)
}

func TestTransferMovesBalance(t *testing.T) {
	backend := newTestBackend()
	token := common.BytesToAddress([]byte("T0"))
	owner := common.BytesToAddress([]byte("Owner"))
	recipient := common.BytesToAddress([]byte("Recipient"))

	supply := uint256.NewInt(1_000_000)
	h := Deploy(backend, token, "Test Token", "TT", 18, supply, owner)

	out, err := h.Dispatch(pack(t, "transfer", recipient, uint256ToBig(100)), owner)
	require.NoError(t, err)
	require.True(t, unpackBool(t, "transfer", out))

	require.Equal(t, uint256.NewInt(999_900).Uint64(), h.balanceOf(owner).Uint64())
	require.Equal(t, uint256.NewInt(100).Uint64(), h.balanceOf(recipient).Uint64())
}

func TestTransferInsufficientBalanceFails(t *testing.T) {
	backend := newTestBackend()
	token := common.HexToAddress("0xT1")
	owner := common.HexToAddress("0xOwner2")
	recipient := common.HexToAddress("0xRecipient2")

	h := Deploy(backend, token, "Test", "T", 18, uint256.NewInt(10), owner)

	_, err := h.Dispatch(pack(t, "transfer", recipient, uint256ToBig(100)), owner)
	require.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestApproveThenTransferFrom(t *testing.T) {
	backend := newTestBackend()
	token := common.BytesToAddress([]byte("T2"))
	owner := common.BytesToAddress([]byte("Owner3"))
	spender := common.BytesToAddress([]byte("Spender"))
	recipient := common.BytesToAddress([]byte("Recipient3"))

	h := Deploy(backend, token, "Test", "T", 18, uint256.NewInt(500), owner)

	_, err := h.Dispatch(pack(t, "approve", spender, uint256ToBig(200)), owner)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(200).Uint64(), h.allowance(owner, spender).Uint64())

	_, err = h.Dispatch(pack(t, "transferFrom", owner, recipient, uint256ToBig(150)), spender)
	require.NoError(t, err)

	require.Equal(t, uint256.NewInt(350).Uint64(), h.balanceOf(owner).Uint64())
	require.Equal(t, uint256.NewInt(150).Uint64(), h.balanceOf(recipient).Uint64())
	require.Equal(t, uint256.NewInt(50).Uint64(), h.allowance(owner, spender).Uint64())
}

func TestTransferFromOverAllowanceFails(t *testing.T) {
	backend := newTestBackend()
	token := common.HexToAddress("0xT3")
	owner := common.HexToAddress("0xOwner4")
	spender := common.HexToAddress("0xSpender2")
	recipient := common.HexToAddress("0xRecipient4")

	h := Deploy(backend, token, "Test", "T", 18, uint256.NewInt(500), owner)
	_, err := h.Dispatch(pack(t, "approve", spender, uint256ToBig(10)), owner)
	require.NoError(t, err)

	_, err = h.Dispatch(pack(t, "transferFrom", owner, recipient, uint256ToBig(20)), spender)
	require.ErrorIs(t, err, ErrInsufficientAllowance)
}

func TestMetadataAccessors(t *testing.T) {
	backend := newTestBackend()
	token := common.HexToAddress("0xT4")
	owner := common.HexToAddress("0xOwner5")

	h := Deploy(backend, token, "Test Token", "TT", 6, uint256.NewInt(1000), owner)

	out, err := h.Dispatch(pack(t, "name"), owner)
	require.NoError(t, err)
	vals, err := erc20ABI.Methods["name"].Outputs.Unpack(out)
	require.NoError(t, err)
	require.Equal(t, "Test Token", vals[0].(string))

	out, err = h.Dispatch(pack(t, "totalSupply"), owner)
	require.NoError(t, err)
	vals, err = erc20ABI.Methods["totalSupply"].Outputs.Unpack(out)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(1000).ToBig(), vals[0])
}

func TestUnknownSelectorRejected(t *testing.T) {
	backend := newTestBackend()
	token := common.HexToAddress("0xT5")
	h := NewHandle(backend, token)

	_, err := h.Dispatch([]byte{0xde, 0xad, 0xbe, 0xef}, common.Address{})
	require.ErrorIs(t, err, ErrUnknownSelector)
}

func uint256ToBig(v uint64) interface{} {
	return uint256.NewInt(v).ToBig()
}
