package turns

import (
	"fmt"
	"math/big"
	"time"
)

// Pricing controls the paid turn products. Costs are wei-style integers.
type Pricing struct {
	RefillCost   *big.Int `json:"refillCost"`
	PassCost     *big.Int `json:"passCost"`
	PassDuration uint64   `json:"passDurationSeconds"`
}

// DefaultPricing returns the launch pricing: 5 tokens per refill, 50 tokens
// for a 7 day unlimited pass.
func DefaultPricing() Pricing {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return Pricing{
		RefillCost:   new(big.Int).Mul(big.NewInt(5), unit),
		PassCost:     new(big.Int).Mul(big.NewInt(50), unit),
		PassDuration: uint64(7 * 24 * time.Hour / time.Second),
	}
}

// Clone produces a deep copy of the pricing.
func (p Pricing) Clone() Pricing {
	clone := Pricing{PassDuration: p.PassDuration}
	if p.RefillCost != nil {
		clone.RefillCost = new(big.Int).Set(p.RefillCost)
	}
	if p.PassCost != nil {
		clone.PassCost = new(big.Int).Set(p.PassCost)
	}
	return clone
}

// Normalize ensures all pointer fields are non-nil for ease of use.
func (p *Pricing) Normalize() *Pricing {
	if p == nil {
		return nil
	}
	if p.RefillCost == nil || p.RefillCost.Sign() < 0 {
		p.RefillCost = big.NewInt(0)
	}
	if p.PassCost == nil || p.PassCost.Sign() < 0 {
		p.PassCost = big.NewInt(0)
	}
	return p
}

// Validate performs static validation of the pricing.
func (p *Pricing) Validate() error {
	if p == nil {
		return fmt.Errorf("turns: nil pricing")
	}
	if p.RefillCost == nil || p.RefillCost.Sign() <= 0 {
		return fmt.Errorf("turns: refill cost must be positive")
	}
	if p.PassCost == nil || p.PassCost.Sign() <= 0 {
		return fmt.Errorf("turns: pass cost must be positive")
	}
	if p.PassDuration == 0 {
		return fmt.Errorf("turns: pass duration must be positive")
	}
	return nil
}

// Duration returns the pass window as a time.Duration.
func (p Pricing) Duration() time.Duration {
	return time.Duration(p.PassDuration) * time.Second
}
