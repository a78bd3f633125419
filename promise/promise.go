// Package promise implements the cross-contract-call scheduling and
// log-filtering machinery of spec.md §4.7, grounded on
// original_source/engine/src/engine.rs's filter_promises_from_logs and
// promise.rs (the NEAR SDK's PromiseAction/PromiseBatchAction encoding),
// reimplemented in the teacher's borsh-on-the-wire style (this package
// plays the role the teacher's x/evm "NEAR promise" bridging code plays,
// generalized to this engine's own wire format).
package promise

import (
	"github.com/aurora-is-near/aurora-engine/borsh"
)

// PromiseAction is a single scheduled cross-contract call: a NEAR function
// call with attached gas and deposit.
type PromiseAction struct {
	MethodName string
	Args       []byte
	GasNear    uint64
	DepositYocto [16]byte // u128, little-endian per borsh
}

// PromiseCreateArgs schedules a brand-new promise targeting TargetAccountID.
type PromiseCreateArgs struct {
	TargetAccountID string
	Action          PromiseAction
}

// PromiseKind distinguishes the three shapes engine.rs's PromiseArgs enum
// can take: a fresh promise, a callback chained onto an existing one, and
// the (engine-unreachable, since the base promise can't itself recurse)
// Recursive variant. DecodePromiseArgs has no Recursive case: for that tag
// it sets Kind and reads no payload.
type PromiseKind uint8

const (
	KindCreate PromiseKind = iota
	KindCallback
	KindRecursive
)

// PromiseArgs is the decoded payload of an exit precompile's empty-topic log
// (spec.md §4.7). The CROSS_CONTRACT_CALL log carries a bare
// PromiseCreateArgs instead.
type PromiseArgs struct {
	Kind     PromiseKind
	Create   PromiseCreateArgs
	Callback struct {
		Base     PromiseCreateArgs
		Callback PromiseCreateArgs
	}
}

// EncodePromiseAction borsh-serializes a to w.
func EncodePromiseAction(w *borsh.Writer, a PromiseAction) {
	w.Str(a.MethodName)
	w.WriteBytes(a.Args)
	w.U64(a.GasNear)
	w.Fixed(a.DepositYocto[:])
}

func decodePromiseAction(r *borsh.Reader) (PromiseAction, error) {
	var a PromiseAction
	var err error
	if a.MethodName, err = r.Str(); err != nil {
		return a, err
	}
	if a.Args, err = r.Bytes(); err != nil {
		return a, err
	}
	if a.GasNear, err = r.U64(); err != nil {
		return a, err
	}
	dep, err := r.Fixed(16)
	if err != nil {
		return a, err
	}
	copy(a.DepositYocto[:], dep)
	return a, nil
}

// EncodePromiseCreateArgs borsh-serializes c to w.
func EncodePromiseCreateArgs(w *borsh.Writer, c PromiseCreateArgs) {
	w.Str(c.TargetAccountID)
	EncodePromiseAction(w, c.Action)
}

// DecodePromiseCreateArgs borsh-decodes a standalone PromiseCreateArgs value
// (used by the CROSS_CONTRACT_CALL precompile, whose input is exactly this
// shape rather than the full PromiseArgs enum).
func DecodePromiseCreateArgs(data []byte) (PromiseCreateArgs, error) {
	return decodePromiseCreateArgs(borsh.NewReader(data))
}

func decodePromiseCreateArgs(r *borsh.Reader) (PromiseCreateArgs, error) {
	var c PromiseCreateArgs
	var err error
	if c.TargetAccountID, err = r.Str(); err != nil {
		return c, err
	}
	if c.Action, err = decodePromiseAction(r); err != nil {
		return c, err
	}
	return c, nil
}

// EncodePromiseArgs borsh-serializes the PromiseArgs enum: a u8 tag
// followed by the variant's payload, matching engine.rs's derive(BorshSerialize)
// enum layout.
func EncodePromiseArgs(p PromiseArgs) []byte {
	w := borsh.NewWriter()
	w.U8(uint8(p.Kind))
	switch p.Kind {
	case KindCreate:
		EncodePromiseCreateArgs(w, p.Create)
	case KindCallback:
		EncodePromiseCreateArgs(w, p.Callback.Base)
		EncodePromiseCreateArgs(w, p.Callback.Callback)
	}
	return w.Bytes()
}

// DecodePromiseArgs reverses EncodePromiseArgs.
func DecodePromiseArgs(data []byte) (PromiseArgs, error) {
	r := borsh.NewReader(data)
	tag, err := r.U8()
	if err != nil {
		return PromiseArgs{}, err
	}
	var p PromiseArgs
	p.Kind = PromiseKind(tag)
	switch p.Kind {
	case KindCreate:
		if p.Create, err = decodePromiseCreateArgs(r); err != nil {
			return p, err
		}
	case KindCallback:
		if p.Callback.Base, err = decodePromiseCreateArgs(r); err != nil {
			return p, err
		}
		if p.Callback.Callback, err = decodePromiseCreateArgs(r); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Scheduler is the host operation the filter below drives: it hands a
// decoded promise off to whatever NEAR-runtime (or replay-engine) promise
// queue is backing the current execution.
type Scheduler interface {
	// ScheduleCreate registers a brand-new promise and returns its id.
	ScheduleCreate(args PromiseCreateArgs) (id uint64, err error)
	// ScheduleCallback chains callback onto base, returning the callback's id.
	ScheduleCallback(base, callback PromiseCreateArgs) (id uint64, err error)
}
