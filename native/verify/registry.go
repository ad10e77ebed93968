package verify

import (
	"fmt"

	"taprush/core/types"
)

// MinimumTier is the lowest verification tier permitted to play. It is also
// the multiplier baseline: Document always resolves to 100%.
const MinimumTier = types.TierDocument

// BaselineMultiplier is the percentage applied at the Document floor.
const BaselineMultiplier uint32 = 100

// MultiplierTable maps the eligible verification tiers to their reward
// multiplier percentage. The hierarchy OrbPlus >= Orb >= SecureDocument >=
// Document is enforced on every update, with Document pinned to the baseline.
type MultiplierTable struct {
	Document       uint32 `json:"document"`
	SecureDocument uint32 `json:"secureDocument"`
	Orb            uint32 `json:"orb"`
	OrbPlus        uint32 `json:"orbPlus"`
}

// DefaultMultiplierTable returns the launch configuration.
func DefaultMultiplierTable() MultiplierTable {
	return MultiplierTable{
		Document:       100,
		SecureDocument: 120,
		Orb:            150,
		OrbPlus:        200,
	}
}

type multiplierBound struct {
	name string
	min  uint32
	max  uint32
}

// Validate enforces the per-tier percentage ranges and the tier hierarchy.
func (t MultiplierTable) Validate() error {
	bounds := []struct {
		multiplierBound
		value uint32
	}{
		{multiplierBound{"document", 100, 120}, t.Document},
		{multiplierBound{"secureDocument", 100, 150}, t.SecureDocument},
		{multiplierBound{"orb", 100, 180}, t.Orb},
		{multiplierBound{"orbPlus", 100, 200}, t.OrbPlus},
	}
	for _, b := range bounds {
		if b.value < b.min || b.value > b.max {
			return fmt.Errorf("%w: %s must lie in [%d, %d]", ErrInvalidMultiplierBounds, b.name, b.min, b.max)
		}
	}
	if t.Document != BaselineMultiplier {
		return fmt.Errorf("%w: document is the baseline and must equal %d", ErrInvalidMultiplierBounds, BaselineMultiplier)
	}
	if t.OrbPlus < t.Orb || t.Orb < t.SecureDocument || t.SecureDocument < t.Document {
		return fmt.Errorf("%w: hierarchy orbPlus >= orb >= secureDocument >= document violated", ErrInvalidMultiplierBounds)
	}
	return nil
}

// Eligible reports whether the account may start games and earn rewards.
func Eligible(acct *types.PlayerAccount) bool {
	if acct == nil {
		return false
	}
	return acct.Verified && acct.VerificationTier >= MinimumTier
}

// MultiplierFor resolves the reward percentage for the account's tier.
// Document is the floor: tiers without a dedicated row fall back to the
// baseline.
func MultiplierFor(acct *types.PlayerAccount, table MultiplierTable) (uint32, error) {
	if !Eligible(acct) {
		return 0, ErrVerificationRequired
	}
	switch acct.VerificationTier {
	case types.TierOrbPlus:
		return table.OrbPlus, nil
	case types.TierOrb:
		return table.Orb, nil
	case types.TierSecureDocument:
		return table.SecureDocument, nil
	default:
		return table.Document, nil
	}
}

// SetVerification overwrites the account's attested tier and verified flag.
// Callers are responsible for authorizing the write.
func SetVerification(acct *types.PlayerAccount, tier types.VerificationTier, verified bool) error {
	if acct == nil {
		return fmt.Errorf("verify: nil account")
	}
	if !tier.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidVerificationLevel, uint8(tier))
	}
	acct.VerificationTier = tier
	acct.Verified = verified
	return nil
}
