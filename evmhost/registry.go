package evmhost

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/aurora-is-near/aurora-engine/log"
	"github.com/aurora-is-near/aurora-engine/precompiles"
	"github.com/aurora-is-near/aurora-engine/state"
)

// precompileSet lists every address spec.md §4.6 assigns a contract,
// fixed first and then the derived/effectful ones.
func precompileSet(backend *state.Backend) map[common.Address]precompiles.Precompile {
	return map[common.Address]precompiles.Precompile{
		precompiles.AddrECRecover:        precompiles.ECRecover{},
		precompiles.AddrSHA256:           precompiles.SHA256{},
		precompiles.AddrRipemd160:        precompiles.Ripemd160{},
		precompiles.AddrIdentity:         precompiles.Identity{},
		precompiles.AddrModExp:           precompiles.MODEXP{},
		precompiles.AddrBN254Add:         precompiles.BN254Add{},
		precompiles.AddrBN254Mul:         precompiles.BN254Mul{},
		precompiles.AddrBN254Pairing:     precompiles.BN254Pairing{},
		precompiles.AddrBlake2F:          precompiles.Blake2F{},
		precompiles.AddrBLSG1Add:         precompiles.BLSG1Add{},
		precompiles.AddrBLSG1MultiExp:    precompiles.BLSG1MultiExp{},
		precompiles.AddrBLSG2Add:         precompiles.BLSG2Add{},
		precompiles.AddrBLSG2MultiExp:    precompiles.BLSG2MultiExp{},
		precompiles.AddrBLSPairing:       precompiles.BLSPairing{},
		precompiles.AddrBLSMapFpToG1:     precompiles.BLSMapFpToG1{},
		precompiles.AddrBLSMapFp2ToG2:    precompiles.BLSMapFp2ToG2{},
		precompiles.AddrSecp256r1Verify:  precompiles.Secp256r1Verify{},
		precompiles.AddrRandomSeed:       precompiles.RandomSeed{},
		precompiles.AddrPrepaidGas:       precompiles.PrepaidGas{},
		precompiles.AddrPromiseResult:    precompiles.PromiseResult{},
		precompiles.AddrExitToNear:       precompiles.ExitToNear{},
		precompiles.AddrExitToEthereum:   precompiles.ExitToEthereum{},
		precompiles.AddrCrossContractCall: precompiles.CrossContractCall{},
		precompiles.AddrSetGasToken:      precompiles.SetGasToken{Backend: backend},
	}
}

// buildVMPrecompiles adapts precompileSet into go-ethereum's
// vm.PrecompiledContracts, wiring each entry through a precompileAdapter
// that shares the supplied tracker/env/stateDB for the lifetime of one EVM
// construction (spec.md §4.7's static/delegatecall guards, §4.6's gas
// figures).
func buildVMPrecompiles(backend *state.Backend, tracker *CallTracker, env *EnvInfo, stateDB *state.StateDB, logger log.Logger) vm.PrecompiledContracts {
	out := make(vm.PrecompiledContracts, len(precompileSet(backend)))
	for addr, p := range precompileSet(backend) {
		out[addr] = &precompileAdapter{addr: addr, inner: p, tracker: tracker, env: env, stateDB: stateDB, backend: backend, logger: logger}
	}
	return out
}
