package protocol

import (
	"github.com/holiman/uint256"
)

// maxHalvings caps the discount shift: after 256 halvings any 256-bit
// discount has decayed to zero.
const maxHalvings = 256

// FeeCurve prices block proposal as a pure function of elapsed time since
// genesis and the current congestion level.
//
// The time term implements a geometrically decaying bootstrap discount:
// after k full halving periods the remaining discount is FeeBase >> k, so
// the charged fee is FeeBase - (FeeBase >> k). It is 0 at genesis, grows by
// FeeBase >> (k+1) once per period, and approaches FeeBase as the discount
// vanishes.
//
// The congestion term adds slotPremium per unproven block in the window,
// making the fee strictly increasing in congestion at any fixed time.
type FeeCurve struct {
	feeBase       *uint256.Int
	halvingPeriod uint64
	slotPremium   *uint256.Int
	genesisTime   uint64
}

// NewFeeCurve derives a fee curve from validated config and genesis state.
func NewFeeCurve(cfg Config, gen GenesisState) *FeeCurve {
	return &FeeCurve{
		feeBase:       new(uint256.Int).Set(cfg.FeeBase),
		halvingPeriod: cfg.BootstrapDiscountHalvingPeriod,
		slotPremium:   cfg.slotPremium(),
		genesisTime:   gen.GenesisTimestamp,
	}
}

// BlockFee returns the fee charged to propose a block at the given time with
// the given number of unproven blocks outstanding. It fails with
// ErrArithmeticOverflow instead of wrapping.
func (f *FeeCurve) BlockFee(now uint64, congestion uint64) (*uint256.Int, error) {
	fee := f.timeFee(now)

	premium, overflow := new(uint256.Int).MulOverflow(f.slotPremium, uint256.NewInt(congestion))
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	if _, overflow = fee.AddOverflow(fee, premium); overflow {
		return nil, ErrArithmeticOverflow
	}
	return fee, nil
}

// SlotPremium returns the per-slot congestion surcharge.
func (f *FeeCurve) SlotPremium() *uint256.Int {
	return new(uint256.Int).Set(f.slotPremium)
}

// timeFee computes the bootstrap-discounted base term. Times before genesis
// clamp to genesis.
func (f *FeeCurve) timeFee(now uint64) *uint256.Int {
	var elapsed uint64
	if now > f.genesisTime {
		elapsed = now - f.genesisTime
	}
	k := elapsed / f.halvingPeriod

	discount := new(uint256.Int)
	if k < maxHalvings {
		discount.Rsh(f.feeBase, uint(k))
	}
	// discount <= feeBase, so the subtraction cannot underflow.
	return new(uint256.Int).Sub(f.feeBase, discount)
}
