package replay

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"

	"github.com/aurora-is-near/aurora-engine/evmhost"
	"github.com/aurora-is-near/aurora-engine/hashchain"
	"github.com/aurora-is-near/aurora-engine/log"
	"github.com/aurora-is-near/aurora-engine/promise"
	"github.com/aurora-is-near/aurora-engine/state"
	"github.com/aurora-is-near/aurora-engine/txpipeline"
)

// Phase is one state of the replay cursor's state machine (spec.md §4.8):
// a recording is a strict alternation of block metadata followed by zero or
// more transactions, then an advance to the next block height.
type Phase int

const (
	PhaseAwaitingMetadata Phase = iota
	PhaseExecutingTx
	PhaseAdvancingBlockHeight
)

// ErrOutOfPhase is returned when the caller drives the cursor out of its
// expected metadata → tx* → advance sequence.
var ErrOutOfPhase = errors.New("replay: operation invalid in current phase")

// BlockMetadata is the per-block context recorded alongside a replay
// recording's transactions (spec.md §4.8): everything NewEVM's BlockContext
// and EnvInfo need that isn't recoverable from the transaction bytes alone.
type BlockMetadata struct {
	Height    uint64
	Timestamp uint64
	BlockCtx  evmhost.BlockContext
	Env       evmhost.EnvInfo
}

func encodeU64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func decodeU64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// Cursor drives a Store through one full replay, enforcing the
// awaiting-metadata → executing-tx → advancing-block-height cycle and
// feeding each transaction an Overlay scoped to its exact position.
type Cursor struct {
	store       *Store
	chainConfig *params.ChainConfig
	relayer     common.Address
	log         log.Logger

	phase       Phase
	blockHeight uint64
	txPosition  uint16
	meta        *BlockMetadata
	hc          *hashchain.Chain
}

// NewCursor starts a cursor over store, expecting the first call to be
// BeginBlock. logger receives Error-level entries for invariant violations
// surfaced while replaying; nil is treated as log.Nop().
func NewCursor(store *Store, chainConfig *params.ChainConfig, relayer common.Address, logger log.Logger) *Cursor {
	if logger == nil {
		logger = log.Nop()
	}
	return &Cursor{store: store, chainConfig: chainConfig, relayer: relayer, log: logger, phase: PhaseAwaitingMetadata}
}

// ensureHashchain lazily starts the cursor's hashchain.Chain from the
// persisted EngineState.HashchainHead the first time it's needed (spec.md
// §4.9): whether that happens on the block's first ReplayTx or, for an
// empty block, on AdvanceBlockHeight itself.
func (c *Cursor) ensureHashchain(chainID [32]byte, contractID string, backend *state.Backend) {
	if c.hc != nil {
		return
	}
	var head hashchain.Hash256
	if es, ok := backend.GetEngineState(); ok {
		head = hashchain.Hash256(es.HashchainHead)
	}
	c.hc = hashchain.New(chainID, contractID, head)
}

// BeginBlock transitions AwaitingMetadata -> ExecutingTx, persisting meta
// under BlockMetadata/BlockHeight/BlockHash and resetting the tx position.
func (c *Cursor) BeginBlock(meta BlockMetadata, blockHash common.Hash) error {
	if c.phase != PhaseAwaitingMetadata {
		return ErrOutOfPhase
	}
	c.meta = &meta
	c.blockHeight = meta.Height
	c.txPosition = 0
	c.phase = PhaseExecutingTx

	if err := c.store.Put(PrefixBlockMetadata, encodeU64(meta.Height), encodeBlockMetadata(meta)); err != nil {
		return err
	}
	if err := c.store.Put(PrefixBlockHeight, encodeU64(meta.Height), blockHash[:]); err != nil {
		return err
	}
	return c.store.Put(PrefixBlockHash, blockHash[:], encodeU64(meta.Height))
}

// ReplayTx replays one recorded raw transaction at the cursor's current
// position, against an Overlay that reads through the durable store for
// anything the in-flight diff doesn't shadow, committing the diff on
// success. promiseResults feeds the PROMISE_RESULT precompile the same
// recorded outcomes the original execution observed.
func (c *Cursor) ReplayTx(raw []byte, promiseResults [][]byte, sched promise.Scheduler) (*txpipeline.SubmitResult, error) {
	if c.phase != PhaseExecutingTx {
		return nil, ErrOutOfPhase
	}

	overlay := NewOverlay(c.store, c.blockHeight, c.txPosition, nil)
	backend := state.NewBackend(overlay)

	env := c.meta.Env
	env.PromiseResults = promiseResults

	c.ensureHashchain(env.ChainID, env.EngineAccountID, backend)

	pipeline := &txpipeline.Pipeline{
		Backend:                backend,
		ChainConfig:            c.chainConfig,
		BlockCtx:               c.meta.BlockCtx,
		EnvInfo:                &env,
		RelayerAddr:            c.relayer,
		LegacyZeroToCreatesBug: txpipeline.LegacyZeroToCreatesBugAt(c.blockHeight),
		IsPrague:               true,
		InitCodeLimitActive:    true,
		Logger:                 c.log,
		Hashchain:              c.hc,
	}

	result, err := pipeline.Run(raw, sched)
	if err != nil {
		return nil, err
	}

	if err := overlay.Commit(); err != nil {
		return nil, err
	}

	txHash := crypto.Keccak256Hash(raw)
	if err := c.store.Put(PrefixTransactionData, EngineKeySuffix(c.blockHeight, c.txPosition), raw); err != nil {
		return nil, err
	}
	if err := c.store.Put(PrefixTransactionHash, txHash[:], EngineKeySuffix(c.blockHeight, c.txPosition)); err != nil {
		return nil, err
	}

	c.txPosition++
	return result, nil
}

// AdvanceBlockHeight closes out the current block, sealing its
// tx-hashchain into a new block-hashchain head and persisting that head to
// EngineState.HashchainHead (spec.md §4.9), then returns the cursor to
// AwaitingMetadata for the next one. An empty block (no ReplayTx calls)
// still seals over an empty tx-hashchain, matching the "Δ links over an
// empty transaction set" invariant.
func (c *Cursor) AdvanceBlockHeight() error {
	if c.phase != PhaseExecutingTx {
		return ErrOutOfPhase
	}

	overlay := NewOverlay(c.store, c.blockHeight, c.txPosition, nil)
	backend := state.NewBackend(overlay)

	c.ensureHashchain(c.meta.Env.ChainID, c.meta.Env.EngineAccountID, backend)
	head := c.hc.Seal(c.blockHeight)

	es, _ := backend.GetEngineState()
	es.HashchainHead = head
	backend.SetEngineState(es)
	if err := overlay.Commit(); err != nil {
		return err
	}

	c.phase = PhaseAwaitingMetadata
	c.meta = nil
	return nil
}

func encodeBlockMetadata(m BlockMetadata) []byte {
	var out []byte
	out = append(out, encodeU64(m.Height)...)
	out = append(out, encodeU64(m.Timestamp)...)
	return out
}

func decodeBlockMetadata(b []byte) BlockMetadata {
	if len(b) < 16 {
		return BlockMetadata{}
	}
	return BlockMetadata{Height: decodeU64(b[0:8]), Timestamp: decodeU64(b[8:16])}
}

// LoadBlockMetadata reads back the height/timestamp pair BeginBlock
// recorded for height, if any.
func LoadBlockMetadata(store *Store, height uint64) (BlockMetadata, bool, error) {
	v, ok, err := store.Get(PrefixBlockMetadata, encodeU64(height))
	if err != nil || !ok {
		return BlockMetadata{}, ok, err
	}
	return decodeBlockMetadata(v), true, nil
}

// Snapshot reconstructs the full logical key/value set live at (height,
// 0xFFFF) — i.e. as of the end of block height — by scanning every distinct
// Engine logical key and taking SeekForPrevEngine's answer for it, matching
// spec.md §4.8's `seek_for_prev(engine_key ∥ h ∥ 0xFFFF)` snapshot recipe.
func Snapshot(store *Store, height uint64) (map[string][]byte, error) {
	keys, err := store.EngineKeysWithPrefix()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		v, ok, err := store.SeekForPrevEngine(k, height, 0xFFFF)
		if err != nil {
			return nil, err
		}
		if ok {
			out[string(k)] = v
		}
	}
	return out, nil
}
