package token

import (
	"errors"
	"math/big"
	"testing"

	"taprush/core/types"
	"taprush/storage"
)

func testAddr(n byte) types.Address {
	var a types.Address
	a[19] = n
	return a
}

func newTestLedger() (*KVLedger, types.Address) {
	operator := testAddr(0xFF)
	return NewKVLedger(storage.NewMemDB(), operator), operator
}

func TestMintUpdatesBalanceAndSupply(t *testing.T) {
	ledger, _ := newTestLedger()
	alice := testAddr(1)

	if err := ledger.Mint(alice, big.NewInt(500)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	balance, err := ledger.BalanceOf(alice)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("balance = %s, want 500", balance)
	}
	supply, err := ledger.TotalSupply()
	if err != nil {
		t.Fatalf("supply: %v", err)
	}
	if supply.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("supply = %s, want 500", supply)
	}

	if err := ledger.Mint(alice, big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero mint: expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransfer(t *testing.T) {
	ledger, _ := newTestLedger()
	alice, bob := testAddr(1), testAddr(2)

	if err := ledger.Mint(alice, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.Transfer(alice, bob, big.NewInt(40)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	balance, _ := ledger.BalanceOf(alice)
	if balance.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("alice = %s, want 60", balance)
	}
	balance, _ = ledger.BalanceOf(bob)
	if balance.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("bob = %s, want 40", balance)
	}

	if err := ledger.Transfer(alice, bob, big.NewInt(1000)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// Supply is untouched by transfers.
	supply, _ := ledger.TotalSupply()
	if supply.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("supply = %s, want 100", supply)
	}
}

func TestTransferFromAuthorization(t *testing.T) {
	ledger, operator := newTestLedger()
	alice, sink := testAddr(1), testAddr(2)
	mallory := testAddr(3)

	if err := ledger.Mint(alice, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	// The configured operator may move player funds.
	if err := ledger.TransferFrom(operator, alice, sink, big.NewInt(30)); err != nil {
		t.Fatalf("operator transfer: %v", err)
	}
	// A player may always move their own funds.
	if err := ledger.TransferFrom(alice, alice, sink, big.NewInt(10)); err != nil {
		t.Fatalf("self transfer: %v", err)
	}
	// Anyone else is rejected.
	if err := ledger.TransferFrom(mallory, alice, sink, big.NewInt(1)); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	balance, _ := ledger.BalanceOf(sink)
	if balance.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("sink = %s, want 40", balance)
	}
}

func TestBalancesSurviveReopen(t *testing.T) {
	db := storage.NewMemDB()
	operator := testAddr(0xFF)
	alice := testAddr(1)

	first := NewKVLedger(db, operator)
	if err := first.Mint(alice, big.NewInt(777)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	second := NewKVLedger(db, operator)
	balance, err := second.BalanceOf(alice)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cmp(big.NewInt(777)) != 0 {
		t.Fatalf("balance = %s, want 777", balance)
	}
	supply, _ := second.TotalSupply()
	if supply.Cmp(big.NewInt(777)) != 0 {
		t.Fatalf("supply = %s, want 777", supply)
	}
}
