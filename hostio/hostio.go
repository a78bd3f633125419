// Package hostio declares the two interfaces spec.md §6 names as this
// engine's external collaborators: the register-based NEAR host ABI it
// runs inside (Host) and the NEP-141 fungible-token connector it bridges
// tokens through (Connector), plus the entrypoint catalog. No package in
// this module implements or uses Host or Connector.
package hostio

import "github.com/ethereum/go-ethereum/common"

// Host is the subset of the NEAR runtime host ABI the engine core needs,
// generalized from io.IO's register-based read/write primitives to the
// higher-level operations spec.md §6 lists: promise scheduling, predecessor
// identity, and block metadata.
type Host interface {
	ReadInput() []byte
	ReturnOutput(data []byte)

	PromiseCreate(targetAccountID, methodName string, args []byte, attachedGas uint64, depositYocto [16]byte) (promiseID uint64)
	PromiseThen(basePromiseID uint64, targetAccountID, methodName string, args []byte, attachedGas uint64, depositYocto [16]byte) (promiseID uint64)
	PromiseResults() [][]byte

	PredecessorAccountID() string
	SignerAccountID() string
	CurrentAccountID() string

	BlockHeight() uint64
	BlockTimestampNanos() uint64
	RandomSeed() [32]byte

	Log(message string)
}

// Connector is the NEP-141 fungible-token bridge surface (spec.md §1: "Out
// of scope (external collaborators)" lists deposit/withdraw bookkeeping at
// the host level). This module declares the interface only; no package in
// it implements or calls it.
type Connector interface {
	// MintTo credits amount of the bridged token to addr inside the EVM
	// (for when a deposit notification arrives from the NEP-141 side).
	MintTo(addr common.Address, amount [32]byte) error
	// BurnFrom debits amount from addr (for a withdrawal back to the
	// NEAR/Ethereum side).
	BurnFrom(addr common.Address, amount [32]byte) error
}
