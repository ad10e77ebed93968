package rewards

import (
	"errors"
	"math/big"
	"testing"

	"taprush/core/types"
)

func TestAmountPerPoint(t *testing.T) {
	cfg := DefaultConfig()

	// 500 points at 0.1 token each, baseline multiplier.
	got := cfg.Amount(500, 1, 100)
	want := Units(50)
	if got.Cmp(want) != 0 {
		t.Fatalf("reward = %s, want %s", got, want)
	}

	// Same score at a 140% multiplier.
	got = cfg.Amount(500, 1, 140)
	want = Units(70)
	if got.Cmp(want) != 0 {
		t.Fatalf("boosted reward = %s, want %s", got, want)
	}

	// 150% multiplier with a fractional token result.
	got = cfg.Amount(250, 3, 150)
	want = new(big.Int).Mul(big.NewInt(375), new(big.Int).Quo(TokenUnit(), big.NewInt(10)))
	if got.Cmp(want) != 0 {
		t.Fatalf("fractional reward = %s, want %s", got, want)
	}
}

func TestAmountPerRound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyPerRound

	// 5 rounds at 1 token each, 120% multiplier.
	got := cfg.Amount(9999, 5, 120)
	want := Units(6)
	if got.Cmp(want) != 0 {
		t.Fatalf("reward = %s, want %s", got, want)
	}
}

func TestAmountFloorsDivision(t *testing.T) {
	cfg := Config{
		Strategy:       StrategyPerPoint,
		TokensPerPoint: big.NewInt(1),
	}
	// 3 x 1 x 150 / 100 = 4.5, floors to 4.
	got := cfg.Amount(3, 1, 150)
	if got.Cmp(big.NewInt(4)) != 0 {
		t.Fatalf("reward = %s, want 4", got)
	}
}

func TestCheckPlausibility(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.CheckPlausibility(types.ModeClassic, 500, 1); err != nil {
		t.Fatalf("score at ceiling rejected: %v", err)
	}
	if err := cfg.CheckPlausibility(types.ModeClassic, 501, 1); !errors.Is(err, ErrImplausibleScore) {
		t.Fatalf("expected ErrImplausibleScore, got %v", err)
	}
	if err := cfg.CheckPlausibility(types.ModeArcade, 7500, 10); err != nil {
		t.Fatalf("10-round arcade ceiling rejected: %v", err)
	}
	if err := cfg.CheckPlausibility(types.ModeWhackLight, 3001, 3); !errors.Is(err, ErrImplausibleScore) {
		t.Fatalf("expected ErrImplausibleScore, got %v", err)
	}
}

func TestCheckSupply(t *testing.T) {
	headroom := Units(10)
	total := new(big.Int).Sub(MaxSupply(), headroom)

	if err := CheckSupply(total, Units(10)); err != nil {
		t.Fatalf("mint to exactly the cap rejected: %v", err)
	}
	if err := CheckSupply(total, Units(11)); !errors.Is(err, ErrSupplyCapExceeded) {
		t.Fatalf("expected ErrSupplyCapExceeded, got %v", err)
	}
	if err := CheckSupply(MaxSupply(), big.NewInt(0)); err != nil {
		t.Fatalf("zero mint at cap rejected: %v", err)
	}
	if err := CheckSupply(nil, Units(1)); err != nil {
		t.Fatalf("nil total treated as nonzero: %v", err)
	}
}

func TestParseStrategy(t *testing.T) {
	for _, raw := range []string{"per-point", "per_point", "PerPoint"} {
		strategy, err := ParseStrategy(raw)
		if err != nil || strategy != StrategyPerPoint {
			t.Fatalf("parse %q = %v, %v", raw, strategy, err)
		}
	}
	strategy, err := ParseStrategy("per-round")
	if err != nil || strategy != StrategyPerRound {
		t.Fatalf("parse per-round = %v, %v", strategy, err)
	}
	if _, err := ParseStrategy("per-minute"); !errors.Is(err, ErrInvalidStrategy) {
		t.Fatalf("expected ErrInvalidStrategy, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}

	bad := DefaultConfig()
	delete(bad.PerRoundCap, types.ModeArcade)
	if err := bad.Validate(); err == nil {
		t.Fatalf("missing per-round cap accepted")
	}

	bad = DefaultConfig()
	bad.TokensPerPoint = big.NewInt(-1)
	if err := bad.Validate(); err == nil {
		t.Fatalf("negative tokensPerPoint accepted")
	}
}
