package token

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"taprush/core/types"
	"taprush/storage"
)

const (
	balancePrefix = "token:balance:"
	supplyKey     = "token:supply"
)

// KVLedger is the reference Ledger implementation backed by a key-value
// store. The daemon wires it when no external chain ledger is configured; the
// engine module account is the only authorized TransferFrom spender.
type KVLedger struct {
	mu       sync.Mutex
	db       storage.Database
	operator types.Address
}

// NewKVLedger opens a ledger over the given store. Transfers initiated by
// operator on behalf of another account are treated as pre-approved.
func NewKVLedger(db storage.Database, operator types.Address) *KVLedger {
	return &KVLedger{db: db, operator: operator}
}

func (l *KVLedger) BalanceOf(addr types.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance(addr)
}

func (l *KVLedger) TotalSupply() (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadAmount([]byte(supplyKey))
}

func (l *KVLedger) Transfer(from, to types.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(from, to, amount)
}

func (l *KVLedger) TransferFrom(spender, from, to types.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if spender != from && spender != l.operator {
		return fmt.Errorf("%w: %s", ErrNotAuthorized, spender.Hex())
	}
	return l.move(from, to, amount)
}

func (l *KVLedger) Mint(to types.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	balance, err := l.balance(to)
	if err != nil {
		return err
	}
	supply, err := l.loadAmount([]byte(supplyKey))
	if err != nil {
		return err
	}
	if err := l.storeAmount(balanceKey(to), new(big.Int).Add(balance, amount)); err != nil {
		return err
	}
	return l.storeAmount([]byte(supplyKey), new(big.Int).Add(supply, amount))
}

func (l *KVLedger) move(from, to types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	fromBalance, err := l.balance(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from.Hex(), fromBalance, amount)
	}
	toBalance, err := l.balance(to)
	if err != nil {
		return err
	}
	if err := l.storeAmount(balanceKey(from), new(big.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}
	return l.storeAmount(balanceKey(to), new(big.Int).Add(toBalance, amount))
}

func (l *KVLedger) balance(addr types.Address) (*big.Int, error) {
	return l.loadAmount(balanceKey(addr))
}

func (l *KVLedger) loadAmount(key []byte) (*big.Int, error) {
	raw, err := l.db.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return big.NewInt(0), nil
	}
	if err != nil {
		return nil, err
	}
	value, ok := new(big.Int).SetString(string(raw), 10)
	if !ok {
		return nil, fmt.Errorf("token: corrupt amount at %q", key)
	}
	return value, nil
}

func (l *KVLedger) storeAmount(key []byte, value *big.Int) error {
	return l.db.Put(key, []byte(value.String()))
}

func balanceKey(addr types.Address) []byte {
	return append([]byte(balancePrefix), addr.Bytes()...)
}
