package claims

import (
	"fmt"
	"math/big"
	"time"

	"taprush/core/types"
)

// Cooldown is the minimum spacing between successful claims.
const Cooldown = 24 * time.Hour

// Config controls the daily check-in reward. Amounts are wei-style integers.
type Config struct {
	BaseAmount  *big.Int
	BonusPerDay *big.Int
	MaxStreak   uint32
}

// DefaultConfig returns the launch claim parameters: 100 tokens base plus 10
// tokens per consecutive day, with the bonus expiring at a 30 day streak.
func DefaultConfig() Config {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return Config{
		BaseAmount:  new(big.Int).Mul(big.NewInt(100), unit),
		BonusPerDay: new(big.Int).Mul(big.NewInt(10), unit),
		MaxStreak:   30,
	}
}

// Clone produces a deep copy of the configuration.
func (c Config) Clone() Config {
	clone := Config{MaxStreak: c.MaxStreak}
	if c.BaseAmount != nil {
		clone.BaseAmount = new(big.Int).Set(c.BaseAmount)
	}
	if c.BonusPerDay != nil {
		clone.BonusPerDay = new(big.Int).Set(c.BonusPerDay)
	}
	return clone
}

// Normalize ensures all pointer fields are non-nil for ease of use.
func (c *Config) Normalize() *Config {
	if c == nil {
		return nil
	}
	if c.BaseAmount == nil || c.BaseAmount.Sign() < 0 {
		c.BaseAmount = big.NewInt(0)
	}
	if c.BonusPerDay == nil || c.BonusPerDay.Sign() < 0 {
		c.BonusPerDay = big.NewInt(0)
	}
	return c
}

// Validate performs static validation of the configuration.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("claims: nil config")
	}
	if c.BaseAmount == nil || c.BaseAmount.Sign() <= 0 {
		return fmt.Errorf("claims: base amount must be positive")
	}
	if c.BonusPerDay != nil && c.BonusPerDay.Sign() < 0 {
		return fmt.Errorf("claims: bonus per day must not be negative")
	}
	if c.MaxStreak == 0 {
		return fmt.Errorf("claims: max streak must be positive")
	}
	return nil
}

// Status is the claim projection surfaced to the presentation layer.
type Status struct {
	CanClaim      bool
	TimeRemaining time.Duration
	Streak        uint32
	NextReward    *big.Int
}

// StatusFor derives the claimability projection without mutating the account.
func StatusFor(cfg Config, acct *types.PlayerAccount, now time.Time) Status {
	cfg = cfg.Clone()
	cfg.Normalize()
	status := Status{NextReward: nextReward(cfg, 0)}
	if acct == nil {
		status.CanClaim = true
		return status
	}
	status.Streak = acct.DailyClaimStreak
	status.NextReward = nextReward(cfg, acct.DailyClaimStreak)
	if acct.LastDailyClaim == 0 {
		status.CanClaim = true
		return status
	}
	nextAt := time.Unix(int64(acct.LastDailyClaim), 0).Add(Cooldown)
	remaining := nextAt.Sub(now.UTC())
	if remaining <= 0 {
		status.CanClaim = true
		return status
	}
	status.TimeRemaining = remaining
	return status
}

// Claim settles a daily check-in: it enforces the cooldown, advances the
// streak counter and returns the reward to mint. The streak increments
// unconditionally; only the bonus it yields is bounded by MaxStreak.
func Claim(cfg Config, acct *types.PlayerAccount, now time.Time) (*big.Int, error) {
	status := StatusFor(cfg, acct, now)
	if !status.CanClaim {
		return nil, fmt.Errorf("%w: next claim in %s", ErrCooldownActive, status.TimeRemaining.Round(time.Second))
	}
	reward := status.NextReward
	acct.LastDailyClaim = uint64(now.UTC().Unix())
	acct.DailyClaimStreak++
	return reward, nil
}

func nextReward(cfg Config, streak uint32) *big.Int {
	reward := new(big.Int).Set(cfg.BaseAmount)
	if streak > 0 && streak < cfg.MaxStreak {
		bonus := new(big.Int).Mul(cfg.BonusPerDay, new(big.Int).SetUint64(uint64(streak)))
		reward.Add(reward, bonus)
	}
	return reward
}
