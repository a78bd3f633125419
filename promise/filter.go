package promise

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/aurora-is-near/aurora-engine/borsh"
	"github.com/aurora-is-near/aurora-engine/log"
)

var (
	errCrossContractCallMissingTopic = errors.New("promise: cross-contract-call log missing topic")
	errCrossContractCallTopicOverflow = errors.New("promise: cross-contract-call topic high bits not zero")
	errUnreachablePromiseKind = errors.New("promise: unreachable recursive promise kind")
)

// FilterPromisesFromLogs implements spec.md §4.7 / original_source's
// filter_promises_from_logs: it partitions a transaction's logs into the
// ones the caller should actually see and the ones that were really
// promise-scheduling instructions smuggled out as logs by the exit and
// cross-contract-call precompiles.
//
// A log from one of exitAddrs with no topics is a PromiseArgs, borsh-encoded
// in Data, to hand to sched.ScheduleCreate/ScheduleCallback. A log from
// xccAddr is a PromiseCreateArgs with the invariant that topic[0]'s high 128
// bits are zero (engine.rs guards this as a defensive check against
// misuse of the log-based channel; a violation is a bug in the precompile,
// not attacker-reachable, so it is reported rather than silently dropped).
// Every other log passes through unchanged.
//
// logger receives an Error-level entry for every invariant violation this
// function detects (a malformed PromiseArgs, a cross-contract-call topic
// whose high bits aren't zero, ...) before the typed error is returned to
// the caller; pass log.Nop() when the caller has nothing useful to log to.
func FilterPromisesFromLogs(logs []*ethtypes.Log, exitAddrs []common.Address, xccAddr common.Address, sched Scheduler, logger log.Logger) ([]*ethtypes.Log, error) {
	isExit := make(map[common.Address]bool, len(exitAddrs))
	for _, a := range exitAddrs {
		isExit[a] = true
	}

	var passthrough []*ethtypes.Log
	for _, entry := range logs {
		switch {
		case isExit[entry.Address] && len(entry.Topics) == 0:
			args, err := DecodePromiseArgs(entry.Data)
			if err != nil {
				logger.Error("promise: malformed exit-precompile log", "address", entry.Address, "error", err)
				return nil, err
			}
			if err := scheduleFromArgs(sched, args); err != nil {
				logger.Error("promise: failed to schedule promise from exit-precompile log", "address", entry.Address, "error", err)
				return nil, err
			}
		case entry.Address == xccAddr:
			if len(entry.Topics) == 0 {
				logger.Error("promise: cross-contract-call log missing topic", "address", entry.Address)
				return nil, errCrossContractCallMissingTopic
			}
			if err := checkTopicHighBitsZero(entry.Topics[0]); err != nil {
				logger.Error("promise: cross-contract-call topic invariant violated", "address", entry.Address, "error", err)
				return nil, err
			}
			create, err := decodePromiseCreateArgs(borsh.NewReader(entry.Data))
			if err != nil {
				logger.Error("promise: malformed cross-contract-call log", "address", entry.Address, "error", err)
				return nil, err
			}
			if _, err := sched.ScheduleCreate(create); err != nil {
				logger.Error("promise: failed to schedule cross-contract call", "address", entry.Address, "error", err)
				return nil, err
			}
		default:
			passthrough = append(passthrough, entry)
		}
	}
	return passthrough, nil
}

func scheduleFromArgs(sched Scheduler, args PromiseArgs) error {
	switch args.Kind {
	case KindCreate:
		_, err := sched.ScheduleCreate(args.Create)
		return err
	case KindCallback:
		_, err := sched.ScheduleCallback(args.Callback.Base, args.Callback.Callback)
		return err
	default:
		// Recursive is unreachable from this engine's exit precompiles: the
		// base promise they build can never itself already be recursive.
		return errUnreachablePromiseKind
	}
}

// checkTopicHighBitsZero enforces the invariant engine.rs's
// cross_contract_call handling asserts: topic[0] encodes only a 128-bit
// value (a promise/callback index), so its high 128 bits must be zero.
func checkTopicHighBitsZero(topic common.Hash) error {
	for _, b := range topic[:16] {
		if b != 0 {
			return errCrossContractCallTopicOverflow
		}
	}
	return nil
}
