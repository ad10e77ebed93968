package token

import (
	"errors"
	"math/big"

	"taprush/core/types"
)

var (
	ErrInvalidAmount       = errors.New("token: invalid amount")
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	ErrNotAuthorized       = errors.New("token: spender not authorized")
)

// Ledger is the fungible-token capability the engine mints and charges
// through. Amounts carry 18 implied decimals. The implementation is external
// to the engine; every call through it is treated as an untrusted reentry
// point.
type Ledger interface {
	BalanceOf(addr types.Address) (*big.Int, error)
	Transfer(from, to types.Address, amount *big.Int) error
	TransferFrom(spender, from, to types.Address, amount *big.Int) error
	Mint(to types.Address, amount *big.Int) error
	TotalSupply() (*big.Int, error)
}

// LegacyBalances is the read-only view of the pre-migration ledger consumed
// by the one-shot token migration.
type LegacyBalances interface {
	BalanceOf(addr types.Address) (*big.Int, error)
}
