package state

import (
	"errors"

	errorsmod "cosmossdk.io/errors"

	"github.com/aurora-is-near/aurora-engine/borsh"
	"github.com/aurora-is-near/aurora-engine/keys"
)

// EngineStateSchemaVersion is the first byte of a serialized EngineState
// value, independent of keys.SchemaVersion (the key layout's own version
// byte) per spec.md §3 Engine state / §6 Persisted state layout: "the
// schema version is stored as the first byte of the serialized EngineState
// value *and* as the first byte of every key".
const EngineStateSchemaVersion byte = 0x01

// ErrUnsupportedEngineStateVersion is returned by DecodeEngineState when it
// encounters a schema byte newer than this binary understands.
var ErrUnsupportedEngineStateVersion = errors.New("state: unsupported engine state schema version")

// EngineState is the versioned root configuration record of spec.md §3.
// It is written with Backend.SetEngineState and never destroyed (spec.md §3
// Lifecycle).
type EngineState struct {
	ChainID            [32]byte
	OwnerAccountID     string
	UpgradeDelayBlocks uint64
	KeyManagerAccountID string // empty string means "not set"
	Paused             bool
	HashchainHead      [32]byte
}

// Encode serializes an EngineState with its schema version byte first, so
// that future migrations can dispatch on it before decoding the rest.
func (e EngineState) Encode() []byte {
	w := borsh.NewWriter()
	w.U8(EngineStateSchemaVersion)
	w.Fixed(e.ChainID[:])
	w.Str(e.OwnerAccountID)
	w.U64(e.UpgradeDelayBlocks)
	w.Str(e.KeyManagerAccountID)
	w.Bool(e.Paused)
	w.Fixed(e.HashchainHead[:])
	return w.Bytes()
}

// DecodeEngineState parses a value previously produced by Encode. It reads
// the schema byte first so that a later version's reader can dispatch to a
// v1 decode path while keeping this record's layout stable for all
// versions up to its own length (spec.md §3 Engine state Invariant).
func DecodeEngineState(buf []byte) (EngineState, error) {
	var e EngineState
	r := borsh.NewReader(buf)
	version, err := r.U8()
	if err != nil {
		return e, errorsmod.Wrap(err, "decode engine state version")
	}
	if version != EngineStateSchemaVersion {
		return e, errorsmod.Wrapf(ErrUnsupportedEngineStateVersion, "got %d, want %d", version, EngineStateSchemaVersion)
	}
	chainID, err := r.Fixed(32)
	if err != nil {
		return e, errorsmod.Wrap(err, "decode chain id")
	}
	copy(e.ChainID[:], chainID)
	if e.OwnerAccountID, err = r.Str(); err != nil {
		return e, errorsmod.Wrap(err, "decode owner account id")
	}
	if e.UpgradeDelayBlocks, err = r.U64(); err != nil {
		return e, errorsmod.Wrap(err, "decode upgrade delay blocks")
	}
	if e.KeyManagerAccountID, err = r.Str(); err != nil {
		return e, errorsmod.Wrap(err, "decode key manager account id")
	}
	if e.Paused, err = r.Bool(); err != nil {
		return e, errorsmod.Wrap(err, "decode paused flag")
	}
	hashchainHead, err := r.Fixed(32)
	if err != nil {
		return e, errorsmod.Wrap(err, "decode hashchain head")
	}
	copy(e.HashchainHead[:], hashchainHead)
	return e, nil
}

// HasKeyManager reports whether a key manager account is configured.
func (e EngineState) HasKeyManager() bool { return e.KeyManagerAccountID != "" }

// GetEngineState loads the persisted EngineState, if one has been written
// with SetEngineState.
func (b *Backend) GetEngineState() (EngineState, bool) {
	v, ok := b.io.ReadStorage(keys.Config(keys.ConfigEngineState))
	if !ok {
		return EngineState{}, false
	}
	es, err := DecodeEngineState(v.Bytes())
	if err != nil {
		return EngineState{}, false
	}
	return es, true
}

// SetEngineState persists the EngineState record.
func (b *Backend) SetEngineState(es EngineState) {
	b.io.WriteStorage(keys.Config(keys.ConfigEngineState), es.Encode())
}
