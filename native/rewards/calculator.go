package rewards

import (
	"fmt"
	"math/big"
	"strings"

	"taprush/core/types"
)

const (
	// TokenDecimals is the implied fixed-point precision of the reward token.
	TokenDecimals = 18
	// MultiplierDenominator scales the verification multiplier percentage.
	MultiplierDenominator = 100
)

var (
	tokenUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)
	maxSupply = new(big.Int).Mul(big.NewInt(1_000_000_000), tokenUnit)
)

// TokenUnit returns 10^18, one whole reward token in wei.
func TokenUnit() *big.Int {
	return new(big.Int).Set(tokenUnit)
}

// MaxSupply returns the hard supply ceiling: one billion whole tokens.
func MaxSupply() *big.Int {
	return new(big.Int).Set(maxSupply)
}

// Units converts a whole-token count to wei.
func Units(tokens int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(tokens), tokenUnit)
}

// Strategy selects which reward scheme the calculator applies. Both schemes
// appeared across the economy's evolution, so the active one is configured
// rather than hard-coded.
type Strategy uint8

const (
	// StrategyPerPoint pays score x tokensPerPoint x multiplier / 100.
	StrategyPerPoint Strategy = iota
	// StrategyPerRound pays round x tokensPerRound x multiplier / 100.
	StrategyPerRound
)

func (s Strategy) String() string {
	switch s {
	case StrategyPerPoint:
		return "per-point"
	case StrategyPerRound:
		return "per-round"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// ParseStrategy resolves the canonical strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "per-point", "per_point", "perpoint":
		return StrategyPerPoint, nil
	case "per-round", "per_round", "perround":
		return StrategyPerRound, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// Config controls the reward calculator. Amounts are wei-style integers.
type Config struct {
	Strategy       Strategy
	TokensPerPoint *big.Int
	TokensPerRound *big.Int
	PerRoundCap    map[types.GameMode]uint64
}

// DefaultConfig returns the launch reward parameters: 0.1 token per score
// point with per-mode plausibility caps.
func DefaultConfig() Config {
	return Config{
		Strategy:       StrategyPerPoint,
		TokensPerPoint: new(big.Int).Quo(TokenUnit(), big.NewInt(10)),
		TokensPerRound: Units(1),
		PerRoundCap: map[types.GameMode]uint64{
			types.ModeClassic:    500,
			types.ModeArcade:     750,
			types.ModeWhackLight: 1000,
		},
	}
}

// Clone produces a deep copy of the configuration.
func (c Config) Clone() Config {
	clone := Config{Strategy: c.Strategy}
	if c.TokensPerPoint != nil {
		clone.TokensPerPoint = new(big.Int).Set(c.TokensPerPoint)
	}
	if c.TokensPerRound != nil {
		clone.TokensPerRound = new(big.Int).Set(c.TokensPerRound)
	}
	if c.PerRoundCap != nil {
		clone.PerRoundCap = make(map[types.GameMode]uint64, len(c.PerRoundCap))
		for mode, limit := range c.PerRoundCap {
			clone.PerRoundCap[mode] = limit
		}
	}
	return clone
}

// Normalize ensures all pointer fields are non-nil for ease of use.
func (c *Config) Normalize() *Config {
	if c == nil {
		return nil
	}
	if c.TokensPerPoint == nil || c.TokensPerPoint.Sign() < 0 {
		c.TokensPerPoint = big.NewInt(0)
	}
	if c.TokensPerRound == nil || c.TokensPerRound.Sign() < 0 {
		c.TokensPerRound = big.NewInt(0)
	}
	if c.PerRoundCap == nil {
		c.PerRoundCap = map[types.GameMode]uint64{}
	}
	return c
}

// Validate performs static validation of the configuration.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("rewards: nil config")
	}
	if c.Strategy != StrategyPerPoint && c.Strategy != StrategyPerRound {
		return fmt.Errorf("%w: %d", ErrInvalidStrategy, uint8(c.Strategy))
	}
	if c.TokensPerPoint != nil && c.TokensPerPoint.Sign() < 0 {
		return fmt.Errorf("rewards: tokensPerPoint must not be negative")
	}
	if c.TokensPerRound != nil && c.TokensPerRound.Sign() < 0 {
		return fmt.Errorf("rewards: tokensPerRound must not be negative")
	}
	for _, mode := range types.GameModes() {
		if c.PerRoundCap[mode] == 0 {
			return fmt.Errorf("rewards: per-round cap for %s must be positive", mode)
		}
	}
	return nil
}

// Amount computes the reward for an attested result. Integer arithmetic only;
// the multiplier division floors.
func (c Config) Amount(score, round uint64, multiplier uint32) *big.Int {
	cfg := c.Clone()
	cfg.Normalize()
	var base *big.Int
	switch cfg.Strategy {
	case StrategyPerRound:
		base = new(big.Int).Mul(new(big.Int).SetUint64(round), cfg.TokensPerRound)
	default:
		base = new(big.Int).Mul(new(big.Int).SetUint64(score), cfg.TokensPerPoint)
	}
	reward := new(big.Int).Mul(base, new(big.Int).SetUint64(uint64(multiplier)))
	return reward.Quo(reward, big.NewInt(MultiplierDenominator))
}

// MaxTheoreticalScore is the deterministic plausibility ceiling for an
// attested score: no run can earn more than the per-round cap each round.
func (c Config) MaxTheoreticalScore(mode types.GameMode, round uint64) uint64 {
	limit, ok := c.PerRoundCap[mode]
	if !ok {
		return 0
	}
	return round * limit
}

// CheckPlausibility rejects scores above the theoretical ceiling.
func (c Config) CheckPlausibility(mode types.GameMode, score, round uint64) error {
	if ceiling := c.MaxTheoreticalScore(mode, round); score > ceiling {
		return fmt.Errorf("%w: score %d exceeds ceiling %d for %s round %d", ErrImplausibleScore, score, ceiling, mode, round)
	}
	return nil
}

// CheckSupply verifies the mint fits under the hard cap. The caller must hold
// the global write path so the check cannot interleave with another mint.
func CheckSupply(total, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	if total == nil {
		total = big.NewInt(0)
	}
	next := new(big.Int).Add(total, amount)
	if next.Cmp(maxSupply) > 0 {
		return fmt.Errorf("%w: supply %s + mint %s exceeds cap %s", ErrSupplyCapExceeded, total, amount, maxSupply)
	}
	return nil
}
