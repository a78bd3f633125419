package evmhost

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	aeio "github.com/aurora-is-near/aurora-engine/io"
	"github.com/aurora-is-near/aurora-engine/log"
	"github.com/aurora-is-near/aurora-engine/precompiles"
	"github.com/aurora-is-near/aurora-engine/state"
)

func newTestAdapter(t *testing.T, backend *state.Backend) *precompileAdapter {
	t.Helper()
	return &precompileAdapter{
		addr:    precompiles.AddrIdentity,
		inner:   precompiles.Identity{},
		tracker: NewCallTracker(),
		env:     &EnvInfo{},
		stateDB: state.New(backend, state.NewTxConfig(common.Hash{}, common.Hash{}, 0, 0)),
		backend: backend,
		logger:  log.Nop(),
	}
}

func TestPrecompileAdapterRunSucceedsWhenNotPaused(t *testing.T) {
	backend := state.NewBackend(aeio.NewInMemoryIO(nil))
	a := newTestAdapter(t, backend)

	out, err := a.Run([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), out)
}

func TestPrecompileAdapterRunRejectsWhenBitmapPausesThisAddress(t *testing.T) {
	backend := state.NewBackend(aeio.NewInMemoryIO(nil))
	a := newTestAdapter(t, backend)

	idx, ok := precompiles.PauseIndex(precompiles.AddrIdentity)
	require.True(t, ok)
	backend.SetPauseBitmap(state.PauseBitmap(1 << idx))

	_, err := a.Run([]byte("hello"))
	require.Error(t, err)
}

func TestPrecompileAdapterRunRejectsWhenAllPrecompilesPaused(t *testing.T) {
	backend := state.NewBackend(aeio.NewInMemoryIO(nil))
	a := newTestAdapter(t, backend)

	backend.SetPauseFlags(state.PauseAllPrecompiles)

	_, err := a.Run([]byte("hello"))
	require.Error(t, err)
}
