package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"taprush/core/types"
	"taprush/native/claims"
	"taprush/native/rewards"
	"taprush/native/turns"
	"taprush/native/verify"
)

// Config is the daemon configuration. Token amounts are decimal wei strings
// so 18-decimal values survive TOML round trips exactly.
type Config struct {
	RPCAddress     string   `toml:"RPCAddress"`
	MetricsAddress string   `toml:"MetricsAddress"`
	DataDir        string   `toml:"DataDir"`
	Env            string   `toml:"Env"`
	Owner          string   `toml:"Owner"`
	Oracle         string   `toml:"Oracle"`
	Submitters     []string `toml:"Submitters"`

	Pricing     PricingConfig     `toml:"pricing"`
	Rewards     RewardsConfig     `toml:"rewards"`
	Claims      ClaimsConfig      `toml:"claims"`
	Multipliers MultipliersConfig `toml:"multipliers"`
}

// PricingConfig mirrors turns.Pricing.
type PricingConfig struct {
	RefillCost        string `toml:"RefillCost"`
	PassCost          string `toml:"PassCost"`
	PassDurationHours uint64 `toml:"PassDurationHours"`
}

// RewardsConfig mirrors rewards.Config.
type RewardsConfig struct {
	Strategy       string            `toml:"Strategy"`
	TokensPerPoint string            `toml:"TokensPerPoint"`
	TokensPerRound string            `toml:"TokensPerRound"`
	RoundCaps      map[string]uint64 `toml:"RoundCaps"`
}

// ClaimsConfig mirrors claims.Config.
type ClaimsConfig struct {
	BaseAmount  string `toml:"BaseAmount"`
	BonusPerDay string `toml:"BonusPerDay"`
	MaxStreak   uint32 `toml:"MaxStreak"`
}

// MultipliersConfig mirrors verify.MultiplierTable.
type MultipliersConfig struct {
	Document       uint32 `toml:"Document"`
	SecureDocument uint32 `toml:"SecureDocument"`
	Orb            uint32 `toml:"Orb"`
	OrbPlus        uint32 `toml:"OrbPlus"`
}

// Default returns the launch configuration.
func Default() *Config {
	pricing := turns.DefaultPricing()
	rewardCfg := rewards.DefaultConfig()
	claimCfg := claims.DefaultConfig()
	table := verify.DefaultMultiplierTable()
	roundCaps := make(map[string]uint64, len(rewardCfg.PerRoundCap))
	for mode, limit := range rewardCfg.PerRoundCap {
		roundCaps[mode.String()] = limit
	}
	return &Config{
		RPCAddress:     ":8546",
		MetricsAddress: ":9464",
		DataDir:        "./taprush-data",
		Env:            "local",
		Pricing: PricingConfig{
			RefillCost:        pricing.RefillCost.String(),
			PassCost:          pricing.PassCost.String(),
			PassDurationHours: pricing.PassDuration / 3600,
		},
		Rewards: RewardsConfig{
			Strategy:       rewardCfg.Strategy.String(),
			TokensPerPoint: rewardCfg.TokensPerPoint.String(),
			TokensPerRound: rewardCfg.TokensPerRound.String(),
			RoundCaps:      roundCaps,
		},
		Claims: ClaimsConfig{
			BaseAmount:  claimCfg.BaseAmount.String(),
			BonusPerDay: claimCfg.BonusPerDay.String(),
			MaxStreak:   claimCfg.MaxStreak,
		},
		Multipliers: MultipliersConfig{
			Document:       table.Document,
			SecureDocument: table.SecureDocument,
			Orb:            table.Orb,
			OrbPlus:        table.OrbPlus,
		},
	}
}

// Load reads the configuration from the given path. A missing file resolves
// to the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Validate resolves every derived value once so startup fails fast on a bad
// file.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RPCAddress) == "" {
		return fmt.Errorf("config: RPCAddress must be set")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: DataDir must be set")
	}
	if _, err := c.OwnerAddress(); err != nil {
		return err
	}
	if _, err := c.OracleAddress(); err != nil {
		return err
	}
	if _, err := c.SubmitterAddresses(); err != nil {
		return err
	}
	pricing, err := c.PricingValue()
	if err != nil {
		return err
	}
	if err := pricing.Validate(); err != nil {
		return err
	}
	rewardCfg, err := c.RewardConfig()
	if err != nil {
		return err
	}
	if err := rewardCfg.Validate(); err != nil {
		return err
	}
	claimCfg, err := c.ClaimConfig()
	if err != nil {
		return err
	}
	if err := claimCfg.Validate(); err != nil {
		return err
	}
	return c.MultiplierTable().Validate()
}

// OwnerAddress parses the configured owner. The zero address means "unset".
func (c *Config) OwnerAddress() (types.Address, error) {
	return parseOptionalAddress(c.Owner, "Owner")
}

// OracleAddress parses the configured identity oracle.
func (c *Config) OracleAddress() (types.Address, error) {
	return parseOptionalAddress(c.Oracle, "Oracle")
}

// SubmitterAddresses parses the initial authorized submitter set.
func (c *Config) SubmitterAddresses() ([]types.Address, error) {
	out := make([]types.Address, 0, len(c.Submitters))
	for _, raw := range c.Submitters {
		addr, err := types.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("config: Submitters: %w", err)
		}
		out = append(out, addr)
	}
	return out, nil
}

// PricingValue materialises the paid-turn pricing.
func (c *Config) PricingValue() (turns.Pricing, error) {
	refill, err := parseAmount(c.Pricing.RefillCost, "pricing.RefillCost")
	if err != nil {
		return turns.Pricing{}, err
	}
	pass, err := parseAmount(c.Pricing.PassCost, "pricing.PassCost")
	if err != nil {
		return turns.Pricing{}, err
	}
	return turns.Pricing{
		RefillCost:   refill,
		PassCost:     pass,
		PassDuration: c.Pricing.PassDurationHours * 3600,
	}, nil
}

// RewardConfig materialises the reward calculator parameters.
func (c *Config) RewardConfig() (rewards.Config, error) {
	strategy, err := rewards.ParseStrategy(c.Rewards.Strategy)
	if err != nil {
		return rewards.Config{}, err
	}
	perPoint, err := parseAmount(c.Rewards.TokensPerPoint, "rewards.TokensPerPoint")
	if err != nil {
		return rewards.Config{}, err
	}
	perRound, err := parseAmount(c.Rewards.TokensPerRound, "rewards.TokensPerRound")
	if err != nil {
		return rewards.Config{}, err
	}
	caps := make(map[types.GameMode]uint64, len(c.Rewards.RoundCaps))
	for name, limit := range c.Rewards.RoundCaps {
		mode, err := types.ParseGameMode(name)
		if err != nil {
			return rewards.Config{}, fmt.Errorf("config: rewards.RoundCaps: %w", err)
		}
		caps[mode] = limit
	}
	return rewards.Config{
		Strategy:       strategy,
		TokensPerPoint: perPoint,
		TokensPerRound: perRound,
		PerRoundCap:    caps,
	}, nil
}

// ClaimConfig materialises the daily claim parameters.
func (c *Config) ClaimConfig() (claims.Config, error) {
	base, err := parseAmount(c.Claims.BaseAmount, "claims.BaseAmount")
	if err != nil {
		return claims.Config{}, err
	}
	bonus, err := parseAmount(c.Claims.BonusPerDay, "claims.BonusPerDay")
	if err != nil {
		return claims.Config{}, err
	}
	return claims.Config{
		BaseAmount:  base,
		BonusPerDay: bonus,
		MaxStreak:   c.Claims.MaxStreak,
	}, nil
}

// MultiplierTable materialises the tier multiplier table.
func (c *Config) MultiplierTable() verify.MultiplierTable {
	return verify.MultiplierTable{
		Document:       c.Multipliers.Document,
		SecureDocument: c.Multipliers.SecureDocument,
		Orb:            c.Multipliers.Orb,
		OrbPlus:        c.Multipliers.OrbPlus,
	}
}

func parseAmount(raw, field string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("config: %s: invalid amount %q", field, raw)
	}
	return value, nil
}

func parseOptionalAddress(raw, field string) (types.Address, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return types.Address{}, nil
	}
	addr, err := types.ParseAddress(trimmed)
	if err != nil {
		return types.Address{}, fmt.Errorf("config: %s: %w", field, err)
	}
	return addr, nil
}
