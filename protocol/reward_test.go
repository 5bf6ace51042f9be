package protocol

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestProofRewardFloorAtZeroCongestion(t *testing.T) {
	r := NewRewardCurve(testConfig())

	reward, err := r.ProofReward(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reward.IsZero() {
		t.Errorf("reward at zero congestion = %v, want 0", reward)
	}
}

func TestProofRewardStrictlyIncreasing(t *testing.T) {
	r := NewRewardCurve(testConfig())

	prev := new(uint256.Int)
	for c := uint64(1); c <= 20; c++ {
		reward, err := r.ProofReward(c)
		if err != nil {
			t.Fatalf("congestion %d: unexpected error: %v", c, err)
		}
		if !reward.Gt(prev) {
			t.Fatalf("congestion %d: reward %v not strictly above %v", c, reward, prev)
		}
		prev = reward
	}
}

func TestProofRewardLinearInBacklog(t *testing.T) {
	// feeBase=1000 over 5 slots: 200 per backlog slot.
	r := NewRewardCurve(testConfig())

	tests := []struct {
		congestion uint64
		want       uint64
	}{
		{1, 200},
		{2, 400},
		{5, 1000},
	}
	for _, tt := range tests {
		reward, err := r.ProofReward(tt.congestion)
		if err != nil {
			t.Fatalf("congestion %d: unexpected error: %v", tt.congestion, err)
		}
		if !reward.Eq(uint256.NewInt(tt.want)) {
			t.Errorf("reward at congestion %d = %v, want %d", tt.congestion, reward, tt.want)
		}
	}
}

func TestProofRewardOverflow(t *testing.T) {
	cfg := testConfig()
	cfg.FeeBase = new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	cfg.MaxNumBlocks = 1
	r := NewRewardCurve(cfg)

	if _, err := r.ProofReward(4); err != ErrArithmeticOverflow {
		t.Errorf("expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestProofRewardPure(t *testing.T) {
	r := NewRewardCurve(testConfig())

	a, _ := r.ProofReward(3)
	a.SetUint64(0)
	b, _ := r.ProofReward(3)
	if !b.Eq(uint256.NewInt(600)) {
		t.Errorf("mutating a result changed later pricing: %v", b)
	}
}
