package types

import (
	"errors"
	"fmt"
	"strings"
)

// VerificationTier is the ordinal trust level attested by the upstream
// identity oracle. The ordering is load-bearing: eligibility and multiplier
// lookups are plain integer comparisons.
type VerificationTier uint8

const (
	TierNone VerificationTier = iota
	TierDevice
	TierDocument
	TierSecureDocument
	TierOrb
	TierOrbPlus

	tierCount
)

// ErrInvalidVerificationTier indicates an unknown tier identifier.
var ErrInvalidVerificationTier = errors.New("types: invalid verification tier")

// Valid reports whether the tier is one of the known levels.
func (t VerificationTier) Valid() bool {
	return t < tierCount
}

func (t VerificationTier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierDevice:
		return "device"
	case TierDocument:
		return "document"
	case TierSecureDocument:
		return "secure_document"
	case TierOrb:
		return "orb"
	case TierOrbPlus:
		return "orb_plus"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// ParseVerificationTier resolves the canonical tier name.
func ParseVerificationTier(s string) (VerificationTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return TierNone, nil
	case "device":
		return TierDevice, nil
	case "document":
		return TierDocument, nil
	case "secure_document", "securedocument":
		return TierSecureDocument, nil
	case "orb":
		return TierOrb, nil
	case "orb_plus", "orbplus":
		return TierOrbPlus, nil
	default:
		return TierNone, fmt.Errorf("%w: %q", ErrInvalidVerificationTier, s)
	}
}
