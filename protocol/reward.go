package protocol

import (
	"github.com/holiman/uint256"
)

// RewardCurve prices proof submission as a pure function of the backlog
// being relieved: the reward grows by rewardStep per unproven block sitting
// in the window, so a deeper backlog offers a larger incentive to the next
// successful prover. The floor at zero congestion is 0.
type RewardCurve struct {
	rewardStep *uint256.Int
}

// NewRewardCurve derives a reward curve from validated config. The step
// mirrors the fee curve's slot premium, so fees drained into the vault at a
// given congestion level cover the rewards paid to relieve it.
func NewRewardCurve(cfg Config) *RewardCurve {
	return &RewardCurve{rewardStep: cfg.slotPremium()}
}

// ProofReward returns the reward offered for proving one block while the
// given number of unproven blocks is outstanding. It fails with
// ErrArithmeticOverflow instead of wrapping.
func (r *RewardCurve) ProofReward(congestion uint64) (*uint256.Int, error) {
	reward, overflow := new(uint256.Int).MulOverflow(r.rewardStep, uint256.NewInt(congestion))
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return reward, nil
}

// RewardStep returns the per-backlog-slot reward increment.
func (r *RewardCurve) RewardStep() *uint256.Int {
	return new(uint256.Int).Set(r.rewardStep)
}
