// Package log re-exports cosmossdk.io/log, the same structured logger the
// teacher wires through x/vm/keeper.Keeper.Logger and
// precompiles/staking.Precompile.Logger (With/Info/Error/Debug taking
// alternating key-value pairs). cosmossdk.io/log is a small standalone
// module (backed by github.com/rs/zerolog), not the wider Cosmos SDK, so
// there is no stdlib-fallback justification for avoiding it here.
package log

import (
	"os"

	cosmoslog "cosmossdk.io/log"
)

// Logger is a module-scoped structured logger.
type Logger = cosmoslog.Logger

// NewStdLogger returns a Logger backed by zerolog writing to os.Stderr.
func NewStdLogger() Logger { return cosmoslog.NewLogger(os.Stderr) }

// Nop returns a Logger that discards everything, for tests and pure
// functions that accept an optional logger.
func Nop() Logger { return cosmoslog.NewNopLogger() }
