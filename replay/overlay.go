package replay

import (
	engineio "github.com/aurora-is-near/aurora-engine/io"
)

// Overlay presents the execution core with an io.IO that is a RefCell-backed
// view over the durable store (spec.md §4.8): every read checks the
// in-memory Diff first, then falls back to Store.SeekForPrevEngine for the
// latest version written at or before (blockHeight, txPosition). Writes
// land only in the Diff until Commit flushes them, so a transaction that
// re-executes from scratch (replay's whole point) never mutates the
// durable store until the cursor commits it, which it does once the
// transaction has run without error.
type Overlay struct {
	store *Store
	diff  *Diff

	blockHeight uint64
	txPosition  uint16

	input  []byte
	output []byte
}

// NewOverlay builds an overlay reading through store at the given point in
// the replay timeline, with an empty diff.
func NewOverlay(store *Store, blockHeight uint64, txPosition uint16, input []byte) *Overlay {
	return &Overlay{
		store:       store,
		diff:        NewDiff(),
		blockHeight: blockHeight,
		txPosition:  txPosition,
		input:       input,
	}
}

func (o *Overlay) ReadInput() engineio.Value { return engineio.NewValue(o.input) }

func (o *Overlay) ReturnOutput(value []byte) {
	o.output = append([]byte{}, value...)
}

// Output returns the bytes most recently passed to ReturnOutput.
func (o *Overlay) Output() []byte { return o.output }

func (o *Overlay) ReadStorage(key []byte) (engineio.Value, bool) {
	if v, removed, found := o.diff.Get(key); found {
		if removed {
			return nil, false
		}
		return engineio.NewValue(v), true
	}
	v, ok, err := o.store.SeekForPrevEngine(key, o.blockHeight, o.txPosition)
	if err != nil || !ok {
		return nil, false
	}
	return engineio.NewValue(v), true
}

func (o *Overlay) HasKey(key []byte) bool {
	_, ok := o.ReadStorage(key)
	return ok
}

func (o *Overlay) WriteStorage(key []byte, value []byte) (engineio.Value, bool) {
	prev, had := o.ReadStorage(key)
	o.diff.Set(key, value)
	return prev, had
}

func (o *Overlay) RemoveStorage(key []byte) (engineio.Value, bool) {
	prev, had := o.ReadStorage(key)
	o.diff.Remove(key)
	return prev, had
}

// Diff exposes the accumulated write set for Commit to flush, or for a
// caller to discard entirely (replaying a transaction that turned out to
// diverge from the recorded output).
func (o *Overlay) Diff() *Diff { return o.diff }

// Commit flushes the overlay's accumulated diff into the durable store at
// this overlay's (blockHeight, txPosition), as new Engine-prefixed versioned
// entries. Nothing is written under the Diff prefix: the diff itself is
// not persisted.
func (o *Overlay) Commit() error {
	for _, e := range o.diff.Entries() {
		versioned := EngineVersionedKey(e.Key, o.blockHeight, o.txPosition)
		if e.Removed {
			if err := o.store.db.Delete(versioned, nil); err != nil {
				return err
			}
			continue
		}
		if err := o.store.db.Put(versioned, e.Value, nil); err != nil {
			return err
		}
	}
	return nil
}
