// Package evmhost wires go-ethereum's vanilla core/vm.EVM into this engine:
// it supplies the state.StateDB backend, installs the custom precompile set
// via EVM.SetPrecompiles, and — since vanilla go-ethereum's
// vm.PrecompiledContract.Run(input []byte) ([]byte, error) carries no
// call-context argument — reconstructs the per-call Context (self address,
// is-static, delegatecall) that the exit precompiles need from a
// tracing.Hooks call-frame tracker, the same documented extension point
// go-ethereum's own debug/trace tooling uses (grounded on
// go-ethereum's core/vm/contracts.go + core/tracing/hooks.go, since the
// teacher's fork bakes this context into a richer PrecompiledContract.Run
// signature that is not available here).
package evmhost

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/aurora-is-near/aurora-engine/precompiles"
)

type callFrame struct {
	self     common.Address
	isStatic bool
	kind     precompiles.CallKind
}

// CallTracker reconstructs, for whichever call frame is currently
// executing, the address the running code observes as address(this) and
// whether it is running under STATICCALL/DELEGATECALL/CALLCODE — the
// information spec.md §4.7's exit-precompile guards need and vanilla
// go-ethereum does not expose to a PrecompiledContract.
//
// It relies on OnEnter/OnExit firing in strict stack discipline (every
// OnEnter at depth d is matched by exactly one OnExit before any further
// OnEnter at depth <= d), which is how go-ethereum's interpreter drives
// tracing.Hooks.
type CallTracker struct {
	stack []callFrame
}

// NewCallTracker returns a tracker with an empty frame stack.
func NewCallTracker() *CallTracker { return &CallTracker{} }

// Hooks returns the tracing.Hooks go-ethereum's vm.Config.Tracer expects.
func (t *CallTracker) Hooks() *tracing.Hooks {
	return &tracing.Hooks{
		OnEnter: t.onEnter,
		OnExit:  t.onExit,
	}
}

func (t *CallTracker) onEnter(depth int, typ byte, from, to common.Address, input []byte, gas uint64, value *big.Int) {
	parentStatic := false
	if len(t.stack) > 0 {
		parentStatic = t.stack[len(t.stack)-1].isStatic
	}

	frame := callFrame{self: to, isStatic: parentStatic, kind: precompiles.KindCall}
	switch vm.OpCode(typ) {
	case vm.STATICCALL:
		frame.isStatic = true
		frame.kind = precompiles.KindStaticCall
	case vm.DELEGATECALL:
		frame.kind = precompiles.KindDelegateCall
		if len(t.stack) > 0 {
			frame.self = t.stack[len(t.stack)-1].self
		} else {
			frame.self = from
		}
	case vm.CALLCODE:
		frame.kind = precompiles.KindCallCode
		if len(t.stack) > 0 {
			frame.self = t.stack[len(t.stack)-1].self
		} else {
			frame.self = from
		}
	}
	t.stack = append(t.stack, frame)
}

func (t *CallTracker) onExit(depth int, output []byte, gasUsed uint64, err error, reverted bool) {
	if len(t.stack) == 0 {
		return
	}
	t.stack = t.stack[:len(t.stack)-1]
}

// Current reports the innermost active call frame. Outside of any call
// (shouldn't happen while a precompile is actually running, but defensive
// against a misconfigured tracer) it reports the zero address as Self with
// a non-static plain CALL.
func (t *CallTracker) Current() (self common.Address, isStatic bool, kind precompiles.CallKind) {
	if len(t.stack) == 0 {
		return common.Address{}, false, precompiles.KindCall
	}
	f := t.stack[len(t.stack)-1]
	return f.self, f.isStatic, f.kind
}
