package protocol

import (
	"github.com/freshe4qa/taiko-mono/core/types"
)

// GenesisState pins the deployment anchor of the engine. GenesisTimestamp
// fixes t=0 for the fee curve's elapsed-time term. Immutable after
// construction.
type GenesisState struct {
	// GenesisHeight is the chain height the engine was deployed at.
	GenesisHeight uint64

	// GenesisTimestamp is the deployment time in seconds; elapsed time for
	// the bootstrap discount is measured from here.
	GenesisTimestamp uint64

	// GenesisHash anchors the block identifier chain: the first proposed
	// block references it as its parent.
	GenesisHash types.Hash
}

// Validate checks the construction-time invariants of the genesis anchor.
func (g GenesisState) Validate() error {
	if g.GenesisHash.IsZero() {
		return ErrInvalidGenesis
	}
	return nil
}
