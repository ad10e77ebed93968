package verify

import "errors"

var (
	ErrVerificationRequired     = errors.New("verify: verification required")
	ErrInvalidVerificationLevel = errors.New("verify: invalid verification level")
	ErrInvalidMultiplierBounds  = errors.New("verify: invalid multiplier bounds")
)
