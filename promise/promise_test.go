package promise_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine/log"
	"github.com/aurora-is-near/aurora-engine/promise"
)

type fakeScheduler struct {
	created   []promise.PromiseCreateArgs
	callbacks [][2]promise.PromiseCreateArgs
	nextID    uint64
}

func (f *fakeScheduler) ScheduleCreate(args promise.PromiseCreateArgs) (uint64, error) {
	f.created = append(f.created, args)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeScheduler) ScheduleCallback(base, callback promise.PromiseCreateArgs) (uint64, error) {
	f.callbacks = append(f.callbacks, [2]promise.PromiseCreateArgs{base, callback})
	f.nextID++
	return f.nextID, nil
}

func TestEncodeDecodePromiseCreateArgsRoundTrip(t *testing.T) {
	args := promise.PromiseCreateArgs{
		TargetAccountID: "token.near",
		Action: promise.PromiseAction{
			MethodName: "ft_transfer",
			Args:       []byte(`{"amount":"1"}`),
			GasNear:    5_000_000,
		},
	}
	args.Action.DepositYocto[15] = 1

	encoded := promise.EncodePromiseArgs(promise.PromiseArgs{Kind: promise.KindCreate, Create: args})
	decoded, err := promise.DecodePromiseArgs(encoded)
	require.NoError(t, err)
	require.Equal(t, promise.KindCreate, decoded.Kind)
	require.Equal(t, args, decoded.Create)
}

func TestEncodeDecodePromiseCallbackRoundTrip(t *testing.T) {
	base := promise.PromiseCreateArgs{TargetAccountID: "a.near", Action: promise.PromiseAction{MethodName: "m1"}}
	cb := promise.PromiseCreateArgs{TargetAccountID: "b.near", Action: promise.PromiseAction{MethodName: "m2"}}

	encoded := promise.EncodePromiseArgs(promise.PromiseArgs{
		Kind: promise.KindCallback,
		Callback: struct {
			Base     promise.PromiseCreateArgs
			Callback promise.PromiseCreateArgs
		}{Base: base, Callback: cb},
	})
	decoded, err := promise.DecodePromiseArgs(encoded)
	require.NoError(t, err)
	require.Equal(t, promise.KindCallback, decoded.Kind)
	require.Equal(t, base, decoded.Callback.Base)
	require.Equal(t, cb, decoded.Callback.Callback)
}

func exitLog(addr common.Address, args promise.PromiseArgs) *ethtypes.Log {
	return &ethtypes.Log{Address: addr, Topics: nil, Data: promise.EncodePromiseArgs(args)}
}

func TestFilterPromisesFromLogsSchedulesExitLogAndDropsIt(t *testing.T) {
	exitAddr := common.HexToAddress("0x01")
	xccAddr := common.HexToAddress("0x02")
	sched := &fakeScheduler{}

	create := promise.PromiseCreateArgs{TargetAccountID: "t.near", Action: promise.PromiseAction{MethodName: "ft_transfer"}}
	logs := []*ethtypes.Log{
		exitLog(exitAddr, promise.PromiseArgs{Kind: promise.KindCreate, Create: create}),
		{Address: common.HexToAddress("0xff"), Topics: []common.Hash{{1}}, Data: []byte("keep me")},
	}

	passthrough, err := promise.FilterPromisesFromLogs(logs, []common.Address{exitAddr}, xccAddr, sched, log.Nop())
	require.NoError(t, err)
	require.Len(t, passthrough, 1, "only the non-promise log should pass through")
	require.Equal(t, []byte("keep me"), passthrough[0].Data)
	require.Len(t, sched.created, 1)
	require.Equal(t, create, sched.created[0])
}

func TestFilterPromisesFromLogsRejectsCrossContractCallMissingTopic(t *testing.T) {
	xccAddr := common.HexToAddress("0x02")
	sched := &fakeScheduler{}
	logs := []*ethtypes.Log{{Address: xccAddr, Topics: nil, Data: []byte{}}}

	_, err := promise.FilterPromisesFromLogs(logs, nil, xccAddr, sched, log.Nop())
	require.Error(t, err)
}

func TestFilterPromisesFromLogsRejectsCrossContractCallTopicHighBitsSet(t *testing.T) {
	xccAddr := common.HexToAddress("0x02")
	sched := &fakeScheduler{}

	create := promise.PromiseCreateArgs{TargetAccountID: "x.near", Action: promise.PromiseAction{MethodName: "m"}}
	w := crossContractCallPayload(create)

	var badTopic common.Hash
	badTopic[0] = 0x01 // high-128-bit byte set: violates the invariant
	logs := []*ethtypes.Log{{Address: xccAddr, Topics: []common.Hash{badTopic}, Data: w}}

	_, err := promise.FilterPromisesFromLogs(logs, nil, xccAddr, sched, log.Nop())
	require.Error(t, err)
}

func TestFilterPromisesFromLogsSchedulesValidCrossContractCall(t *testing.T) {
	xccAddr := common.HexToAddress("0x02")
	sched := &fakeScheduler{}

	create := promise.PromiseCreateArgs{TargetAccountID: "x.near", Action: promise.PromiseAction{MethodName: "m"}}
	w := crossContractCallPayload(create)

	var topic common.Hash
	topic[31] = 5 // only low bits set: valid
	logs := []*ethtypes.Log{{Address: xccAddr, Topics: []common.Hash{topic}, Data: w}}

	passthrough, err := promise.FilterPromisesFromLogs(logs, nil, xccAddr, sched, log.Nop())
	require.NoError(t, err)
	require.Empty(t, passthrough)
	require.Len(t, sched.created, 1)
	require.Equal(t, create, sched.created[0])
}

// crossContractCallPayload mirrors how the CROSS_CONTRACT_CALL precompile
// encodes its log data: a bare PromiseCreateArgs, not the PromiseArgs enum.
func crossContractCallPayload(c promise.PromiseCreateArgs) []byte {
	encoded := promise.EncodePromiseArgs(promise.PromiseArgs{Kind: promise.KindCreate, Create: c})
	// Strip the leading enum tag byte EncodePromiseArgs adds, since the
	// cross-contract-call wire format has no such tag.
	return encoded[1:]
}
