package protocol

import (
	"github.com/holiman/uint256"

	"github.com/freshe4qa/taiko-mono/core/types"
)

// EventKind identifies the transaction type recorded in the journal.
type EventKind uint8

const (
	// EventFund records a provisioning mint into a participant account.
	EventFund EventKind = iota
	// EventPropose records a committed block proposal and the fee charged.
	EventPropose
	// EventProve records a committed proof and the reward paid.
	EventProve
)

// String returns the lowercase name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventFund:
		return "fund"
	case EventPropose:
		return "propose"
	case EventProve:
		return "prove"
	default:
		return "unknown"
	}
}

// Event is one committed engine transition. Amount is the fee charged, the
// reward paid, or the amount funded, depending on Kind.
type Event struct {
	Seq     uint64
	Kind    EventKind
	BlockID types.Hash
	Account types.Address
	Amount  *uint256.Int
	Time    uint64
}

// Journal is the append-only log of committed transitions, kept for
// auditability. Entries are written only after a transaction commits; the
// pricing curves never consult it.
type Journal struct {
	events []Event
	seq    uint64
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Append records a committed transition and returns the assigned entry.
func (j *Journal) Append(kind EventKind, blockID types.Hash, account types.Address, amount *uint256.Int, now uint64) Event {
	j.seq++
	ev := Event{
		Seq:     j.seq,
		Kind:    kind,
		BlockID: blockID,
		Account: account,
		Amount:  new(uint256.Int).Set(amount),
		Time:    now,
	}
	j.events = append(j.events, ev)
	return ev
}

// Entries returns a copy of the log in append order.
func (j *Journal) Entries() []Event {
	out := make([]Event, len(j.events))
	for i, ev := range j.events {
		out[i] = ev
		out[i].Amount = new(uint256.Int).Set(ev.Amount)
	}
	return out
}

// Len returns the number of committed entries.
func (j *Journal) Len() int {
	return len(j.events)
}
