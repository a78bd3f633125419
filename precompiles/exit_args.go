package precompiles

import (
	"github.com/aurora-is-near/aurora-engine/borsh"
	"github.com/aurora-is-near/aurora-engine/promise"
)

// exitArgs is the borsh-encoded input shape both exit precompiles share:
// the destination NEAR account, the NEP-141 transfer call's JSON-encoded
// arguments, and the NEAR gas to attach to the scheduled promise.
type exitArgs struct {
	TargetAccountID  string
	TransferArgsJSON []byte
	AttachedGas      uint64
}

func parseExitArgs(input []byte) (exitArgs, error) {
	r := borsh.NewReader(input)
	var a exitArgs
	var err error
	if a.TargetAccountID, err = r.Str(); err != nil {
		return a, &Revert{Msg: "ERR_INVALID_EXIT_ARGS"}
	}
	if a.TransferArgsJSON, err = r.Bytes(); err != nil {
		return a, &Revert{Msg: "ERR_INVALID_EXIT_ARGS"}
	}
	if a.AttachedGas, err = r.U64(); err != nil {
		return a, &Revert{Msg: "ERR_INVALID_EXIT_ARGS"}
	}
	return a, nil
}

// decodeBorshPromiseCreateArgs decodes CROSS_CONTRACT_CALL's input, which
// is a bare PromiseCreateArgs rather than the tagged PromiseArgs enum the
// exit precompiles emit.
func decodeBorshPromiseCreateArgs(input []byte) (promise.PromiseCreateArgs, error) {
	return promise.DecodePromiseCreateArgs(input)
}
