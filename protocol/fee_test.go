package protocol

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/freshe4qa/taiko-mono/core/types"
)

func testConfig() Config {
	return Config{
		FeeBase:                        uint256.NewInt(1000),
		BootstrapDiscountHalvingPeriod: 10,
		MaxNumBlocks:                   5,
		CommitConfirmations:            1,
	}
}

func testGenesis() GenesisState {
	return GenesisState{
		GenesisHeight:    100,
		GenesisTimestamp: 5000,
		GenesisHash:      types.BytesToHash([]byte{0xaa}),
	}
}

func TestBlockFeeZeroAtGenesis(t *testing.T) {
	f := NewFeeCurve(testConfig(), testGenesis())

	fee, err := f.BlockFee(5000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fee.IsZero() {
		t.Errorf("fee at genesis = %v, want 0", fee)
	}
}

func TestBlockFeeBeforeGenesisClamps(t *testing.T) {
	f := NewFeeCurve(testConfig(), testGenesis())

	fee, err := f.BlockFee(100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fee.IsZero() {
		t.Errorf("fee before genesis = %v, want 0", fee)
	}
}

func TestBlockFeeHalvingSchedule(t *testing.T) {
	// feeBase=1000, period=10: discount halves each period, so the fee is
	// feeBase - (feeBase >> k) after k full periods.
	f := NewFeeCurve(testConfig(), testGenesis())

	tests := []struct {
		elapsed uint64
		want    uint64
	}{
		{0, 0},
		{9, 0},    // within the first period
		{10, 500}, // one full period: discount 1000 -> 500
		{19, 500},
		{20, 750},
		{30, 875},
		{40, 938}, // discount 1000 >> 4 = 62
	}
	for _, tt := range tests {
		fee, err := f.BlockFee(5000+tt.elapsed, 0)
		if err != nil {
			t.Fatalf("elapsed %d: unexpected error: %v", tt.elapsed, err)
		}
		if !fee.Eq(uint256.NewInt(tt.want)) {
			t.Errorf("fee after %ds = %v, want %d", tt.elapsed, fee, tt.want)
		}
	}
}

func TestBlockFeeIdleMonotonicity(t *testing.T) {
	cfg := testConfig()
	f := NewFeeCurve(cfg, testGenesis())

	// Strict growth holds while the discount is nonzero; 1000 >> 10 == 0,
	// so the last strict step is into period 10.
	prev := new(uint256.Int)
	for k := uint64(1); k <= 10; k++ {
		now := 5000 + k*cfg.BootstrapDiscountHalvingPeriod
		fee, err := f.BlockFee(now, 0)
		if err != nil {
			t.Fatalf("period %d: unexpected error: %v", k, err)
		}
		if !fee.Gt(prev) {
			t.Fatalf("period %d: fee %v not strictly above previous %v", k, fee, prev)
		}
		if fee.Gt(cfg.FeeBase) {
			t.Fatalf("period %d: fee %v exceeds feeBase %v", k, fee, cfg.FeeBase)
		}
		prev = fee
	}
}

func TestBlockFeeDiscountFullyDecays(t *testing.T) {
	cfg := testConfig()
	f := NewFeeCurve(cfg, testGenesis())

	// Far beyond 256 halvings the discount is exactly zero.
	fee, err := f.BlockFee(5000+1000*cfg.BootstrapDiscountHalvingPeriod, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fee.Eq(cfg.FeeBase) {
		t.Errorf("fully decayed fee = %v, want feeBase %v", fee, cfg.FeeBase)
	}
}

func TestBlockFeeCongestionStrictlyIncreasing(t *testing.T) {
	f := NewFeeCurve(testConfig(), testGenesis())

	for _, now := range []uint64{5000, 5010, 5100} {
		prev := new(uint256.Int)
		for c := uint64(1); c <= 10; c++ {
			fee, err := f.BlockFee(now, c)
			if err != nil {
				t.Fatalf("congestion %d: unexpected error: %v", c, err)
			}
			if !fee.Gt(prev) {
				t.Fatalf("t=%d congestion %d: fee %v not strictly above %v", now, c, fee, prev)
			}
			prev = fee
		}
	}
}

func TestSlotPremiumFloor(t *testing.T) {
	// feeBase smaller than the window capacity would round the premium to
	// zero; the floor of 1 keeps congestion pricing strict.
	cfg := testConfig()
	cfg.FeeBase = uint256.NewInt(3)
	cfg.MaxNumBlocks = 10
	f := NewFeeCurve(cfg, testGenesis())

	if !f.SlotPremium().Eq(uint256.NewInt(1)) {
		t.Errorf("slot premium = %v, want 1", f.SlotPremium())
	}

	low, _ := f.BlockFee(5000, 1)
	high, _ := f.BlockFee(5000, 2)
	if !high.Gt(low) {
		t.Errorf("fee not strict in congestion with tiny feeBase: %v then %v", low, high)
	}
}

func TestBlockFeeOverflow(t *testing.T) {
	cfg := testConfig()
	cfg.FeeBase = new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	cfg.MaxNumBlocks = 1
	f := NewFeeCurve(cfg, testGenesis())

	// premium = 4 * 2^255 does not fit in 256 bits.
	if _, err := f.BlockFee(5000, 4); err != ErrArithmeticOverflow {
		t.Errorf("expected ErrArithmeticOverflow, got %v", err)
	}

	// The time term alone still prices fine.
	if _, err := f.BlockFee(5000+100, 0); err != nil {
		t.Errorf("time term errored: %v", err)
	}
}

func TestBlockFeePure(t *testing.T) {
	f := NewFeeCurve(testConfig(), testGenesis())

	a, _ := f.BlockFee(5025, 3)
	b, _ := f.BlockFee(5025, 3)
	if !a.Eq(b) {
		t.Errorf("same inputs priced differently: %v vs %v", a, b)
	}

	// Returned values are independent copies.
	a.SetUint64(0)
	c, _ := f.BlockFee(5025, 3)
	if !c.Eq(b) {
		t.Errorf("mutating a result changed later pricing: %v vs %v", c, b)
	}
}
