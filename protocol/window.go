package protocol

import (
	"github.com/holiman/uint256"

	"github.com/freshe4qa/taiko-mono/core/types"
)

// SlotEntry tracks one proposed block through its lifecycle:
// proposed -> proven -> retained in history. Entries are owned exclusively
// by the SlotWindow; accessors hand out copies.
type SlotEntry struct {
	BlockID    types.Hash
	Proposer   types.Address
	ProposedAt uint64
	FeeCharged *uint256.Int
	Proven     bool
	ProvenAt   uint64
}

// copy returns a deep copy safe to hand to callers.
func (e *SlotEntry) copy() *SlotEntry {
	cp := *e
	if e.FeeCharged != nil {
		cp.FeeCharged = new(uint256.Int).Set(e.FeeCharged)
	}
	return &cp
}

// SlotWindow is the bounded buffer of proposed-but-unproven blocks. Its
// unproven count is the system's sole congestion signal and never exceeds
// the configured capacity. Proven entries move to an append-only history
// and stop counting toward congestion.
//
// The window is not internally synchronized: the Engine serializes all
// access under its transaction lock.
type SlotWindow struct {
	capacity uint64
	pending  []*SlotEntry // unproven, oldest first
	index    map[types.Hash]*SlotEntry
	history  []*SlotEntry // proven, in proof order
}

// NewSlotWindow creates an empty window with the given capacity.
func NewSlotWindow(capacity uint64) *SlotWindow {
	return &SlotWindow{
		capacity: capacity,
		pending:  make([]*SlotEntry, 0, capacity),
		index:    make(map[types.Hash]*SlotEntry),
	}
}

// Admit inserts a new unproven entry. It fails with ErrWindowFull when the
// unproven count is at capacity (the backpressure gate) and with
// ErrDuplicateBlock if the ID is already tracked. Returns a copy of the
// created entry.
func (w *SlotWindow) Admit(blockID types.Hash, proposer types.Address, fee *uint256.Int, now uint64) (*SlotEntry, error) {
	if uint64(len(w.pending)) >= w.capacity {
		return nil, ErrWindowFull
	}
	if _, ok := w.index[blockID]; ok {
		return nil, ErrDuplicateBlock
	}

	entry := &SlotEntry{
		BlockID:    blockID,
		Proposer:   proposer,
		ProposedAt: now,
		FeeCharged: new(uint256.Int).Set(fee),
	}
	w.pending = append(w.pending, entry)
	w.index[blockID] = entry
	return entry.copy(), nil
}

// Contains reports whether blockID is currently tracked as unproven.
func (w *SlotWindow) Contains(blockID types.Hash) bool {
	_, ok := w.index[blockID]
	return ok
}

// MarkProven flips the matching unproven entry to proven, removes it from
// the congestion tally, and retains it in history. Fails with
// ErrUnknownBlock if no matching unproven entry exists (already proven or
// never proposed). Returns a copy of the proven entry.
func (w *SlotWindow) MarkProven(blockID types.Hash, now uint64) (*SlotEntry, error) {
	entry, ok := w.index[blockID]
	if !ok {
		return nil, ErrUnknownBlock
	}

	entry.Proven = true
	entry.ProvenAt = now
	delete(w.index, blockID)
	for i, e := range w.pending {
		if e == entry {
			w.pending = append(w.pending[:i], w.pending[i+1:]...)
			break
		}
	}
	w.history = append(w.history, entry)
	return entry.copy(), nil
}

// Congestion returns the current unproven count, recomputed from live state
// on every call.
func (w *SlotWindow) Congestion() uint64 {
	return uint64(len(w.pending))
}

// Capacity returns the window's unproven-count bound.
func (w *SlotWindow) Capacity() uint64 {
	return w.capacity
}

// Unproven returns copies of the pending entries, oldest first.
func (w *SlotWindow) Unproven() []*SlotEntry {
	out := make([]*SlotEntry, len(w.pending))
	for i, e := range w.pending {
		out[i] = e.copy()
	}
	return out
}

// History returns copies of the proven entries in proof order.
func (w *SlotWindow) History() []*SlotEntry {
	out := make([]*SlotEntry, len(w.history))
	for i, e := range w.history {
		out[i] = e.copy()
	}
	return out
}
