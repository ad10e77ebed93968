package types

import (
	"errors"
	"fmt"
	"strings"

	gethcommon "github.com/ethereum/go-ethereum/common"
)

// Address identifies a player, submitter or treasury account.
type Address [20]byte

// ErrInvalidAddress indicates a malformed address string.
var ErrInvalidAddress = errors.New("types: invalid address")

// ParseAddress decodes a 0x-prefixed hex address.
func ParseAddress(s string) (Address, error) {
	trimmed := strings.TrimSpace(s)
	if !gethcommon.IsHexAddress(trimmed) {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return Address(gethcommon.HexToAddress(trimmed)), nil
}

// Bytes returns the raw 20-byte representation.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

// Hex renders the checksummed 0x-prefixed form.
func (a Address) Hex() string {
	return gethcommon.Address(a).Hex()
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText renders the address as checksummed hex for JSON persistence.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText parses a 0x-prefixed hex address.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
