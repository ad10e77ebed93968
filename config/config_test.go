package config

import (
	"os"
	"path/filepath"
	"testing"

	"taprush/core/types"
	"taprush/native/rewards"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.RPCAddress != ":8546" {
		t.Fatalf("rpc address = %q", cfg.RPCAddress)
	}
	pricing, err := cfg.PricingValue()
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if pricing.RefillCost.Cmp(rewards.Units(5)) != 0 {
		t.Fatalf("refill cost = %s", pricing.RefillCost)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
RPCAddress = ":9000"
Owner = "0x00000000000000000000000000000000000000aa"
Oracle = "0x00000000000000000000000000000000000000ab"
Submitters = ["0x00000000000000000000000000000000000000ac"]

[pricing]
RefillCost = "7000000000000000000"
PassCost = "70000000000000000000"
PassDurationHours = 24

[claims]
BaseAmount = "50000000000000000000"
BonusPerDay = "5000000000000000000"
MaxStreak = 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.RPCAddress != ":9000" {
		t.Fatalf("rpc address = %q", cfg.RPCAddress)
	}

	owner, err := cfg.OwnerAddress()
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	var wantOwner types.Address
	wantOwner[19] = 0xAA
	if owner != wantOwner {
		t.Fatalf("owner = %s", owner.Hex())
	}

	submitters, err := cfg.SubmitterAddresses()
	if err != nil {
		t.Fatalf("submitters: %v", err)
	}
	if len(submitters) != 1 {
		t.Fatalf("submitters = %d, want 1", len(submitters))
	}

	pricing, err := cfg.PricingValue()
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if pricing.RefillCost.Cmp(rewards.Units(7)) != 0 {
		t.Fatalf("refill cost = %s", pricing.RefillCost)
	}
	if pricing.PassDuration != 24*3600 {
		t.Fatalf("pass duration = %d", pricing.PassDuration)
	}

	claimCfg, err := cfg.ClaimConfig()
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	if claimCfg.MaxStreak != 10 {
		t.Fatalf("max streak = %d", claimCfg.MaxStreak)
	}
	if claimCfg.BaseAmount.Cmp(rewards.Units(50)) != 0 {
		t.Fatalf("base amount = %s", claimCfg.BaseAmount)
	}

	// Sections not present in the file keep their defaults.
	rewardCfg, err := cfg.RewardConfig()
	if err != nil {
		t.Fatalf("rewards: %v", err)
	}
	if rewardCfg.PerRoundCap[types.ModeClassic] != 500 {
		t.Fatalf("classic cap = %d", rewardCfg.PerRoundCap[types.ModeClassic])
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad owner", `Owner = "not-an-address"`},
		{"negative amount", "[pricing]\nRefillCost = \"-1\""},
		{"bad strategy", "[rewards]\nStrategy = \"per-minute\""},
		{"bad round cap mode", "[rewards]\n[rewards.RoundCaps]\nbonusround = 100"},
		{"zero max streak", "[claims]\nMaxStreak = 0"},
		{"multiplier off baseline", "[multipliers]\nDocument = 110"},
	}
	for _, tc := range cases {
		path := writeConfig(t, tc.body)
		cfg, err := Load(path)
		if err != nil {
			continue
		}
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: accepted", tc.name)
		}
	}
}

func TestValidateRequiresAddresses(t *testing.T) {
	cfg := Default()
	cfg.RPCAddress = " "
	if err := cfg.Validate(); err == nil {
		t.Fatalf("blank rpc address accepted")
	}

	cfg = Default()
	cfg.DataDir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("blank data dir accepted")
	}
}
