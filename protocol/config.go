// Package protocol implements the rollup block-economics engine: a
// time-and-congestion-driven block fee curve, a bounded slot window of
// blocks awaiting proof, a backlog-proportional proof reward curve, and a
// token ledger that debits and credits participant balances atomically with
// proposal and proof events.
package protocol

import (
	"github.com/holiman/uint256"
)

// Config holds the immutable economic parameters fixed at genesis.
type Config struct {
	// FeeBase is the steady-state block fee the bootstrap discount decays
	// toward, in base token units.
	FeeBase *uint256.Int

	// BootstrapDiscountHalvingPeriod is the interval, in seconds, after
	// which the remaining bootstrap discount halves.
	BootstrapDiscountHalvingPeriod uint64

	// MaxNumBlocks is the slot window capacity: the maximum number of
	// proposed-but-unproven blocks tolerated at once.
	MaxNumBlocks uint64

	// CommitConfirmations is the number of confirmations a proposer's
	// commitment must accumulate before it is eligible for proposal. The
	// engine only carries the value; enforcement belongs to the proposer
	// collaborator.
	CommitConfirmations uint64
}

// DefaultConfig returns a Config with testnet-scale defaults.
func DefaultConfig() Config {
	return Config{
		FeeBase:                        uint256.NewInt(1_000_000_000), // 1 gwei-scale unit
		BootstrapDiscountHalvingPeriod: 180,
		MaxNumBlocks:                   2048,
		CommitConfirmations:            5,
	}
}

// Validate checks the construction-time invariants: every field must be
// strictly positive.
func (c Config) Validate() error {
	if c.FeeBase == nil || c.FeeBase.IsZero() {
		return ErrInvalidConfig
	}
	if c.BootstrapDiscountHalvingPeriod == 0 {
		return ErrInvalidConfig
	}
	if c.MaxNumBlocks == 0 {
		return ErrInvalidConfig
	}
	if c.CommitConfirmations == 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Copy returns a deep copy so callers cannot mutate the engine's parameters
// through the shared FeeBase pointer.
func (c Config) Copy() Config {
	cp := c
	if c.FeeBase != nil {
		cp.FeeBase = new(uint256.Int).Set(c.FeeBase)
	}
	return cp
}

// slotPremium is the per-slot congestion surcharge: FeeBase spread across
// the window capacity, floored at 1 so the fee is strictly increasing in
// congestion even for tiny FeeBase values.
func (c Config) slotPremium() *uint256.Int {
	p := new(uint256.Int).Div(c.FeeBase, uint256.NewInt(c.MaxNumBlocks))
	if p.IsZero() {
		p.SetOne()
	}
	return p
}
