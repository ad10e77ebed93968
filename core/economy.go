package core

import (
	"fmt"
	"math/big"

	"taprush/core/events"
	"taprush/core/types"
	"taprush/native/claims"
	"taprush/native/common"
	"taprush/native/turns"
)

// ClaimReceipt reports a settled daily check-in.
type ClaimReceipt struct {
	Amount *big.Int
	Streak uint32
}

// ClaimDaily settles the player's once-per-24h check-in reward.
func (n *Node) ClaimDaily(player types.Address) (ClaimReceipt, error) {
	if err := n.enter(); err != nil {
		return ClaimReceipt{}, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := common.Guard(n, moduleGame); err != nil {
		return ClaimReceipt{}, err
	}
	acct, err := n.loadPlayer(player)
	if err != nil {
		return ClaimReceipt{}, err
	}
	reward, err := claims.Claim(n.claimCfg, acct, n.now())
	if err != nil {
		return ClaimReceipt{}, err
	}
	total, err := n.mintChecked(player, reward)
	if err != nil {
		return ClaimReceipt{}, err
	}
	if err := n.state.PutPlayer(player, acct); err != nil {
		return ClaimReceipt{}, err
	}

	n.emit(events.DailyClaimed{Player: player, Streak: acct.DailyClaimStreak, Amount: reward})
	n.emit(events.TokenMinted{To: player, Amount: reward, Total: total, Reason: events.MintReasonClaim})
	return ClaimReceipt{Amount: reward, Streak: acct.DailyClaimStreak}, nil
}

// PurchaseRefill charges the refill price and restores the daily free bucket.
// It is only available once the player is completely out of turns.
func (n *Node) PurchaseRefill(player types.Address) (turns.Status, error) {
	if err := n.enter(); err != nil {
		return turns.Status{}, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := common.Guard(n, moduleGame); err != nil {
		return turns.Status{}, err
	}
	acct, err := n.loadPlayer(player)
	if err != nil {
		return turns.Status{}, err
	}
	now := n.now()
	if status := turns.Available(acct, now); status.Unlimited || status.Remaining > 0 {
		return turns.Status{}, turns.ErrTurnsRemaining
	}

	cost := n.pricing.Clone().RefillCost
	if err := n.charge(player, cost); err != nil {
		return turns.Status{}, err
	}
	if err := turns.Refill(acct, now); err != nil {
		return turns.Status{}, err
	}
	if err := n.state.PutPlayer(player, acct); err != nil {
		return turns.Status{}, err
	}

	n.emit(events.TurnRefilled{Player: player, Cost: cost})
	return turns.Available(acct, now), nil
}

// PurchasePass charges the pass price and opens an unlimited-play window. A
// new pass overwrites any remaining window rather than stacking.
func (n *Node) PurchasePass(player types.Address) (uint64, error) {
	if err := n.enter(); err != nil {
		return 0, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := common.Guard(n, moduleGame); err != nil {
		return 0, err
	}
	acct, err := n.loadPlayer(player)
	if err != nil {
		return 0, err
	}

	pricing := n.pricing.Clone()
	if err := n.charge(player, pricing.PassCost); err != nil {
		return 0, err
	}
	expiry := turns.ApplyPass(acct, n.now(), pricing.Duration())
	if err := n.state.PutPlayer(player, acct); err != nil {
		return 0, err
	}

	n.emit(events.PassPurchased{Player: player, Cost: pricing.PassCost, ExpiresAt: expiry})
	return expiry, nil
}

// MigrateTokens mints the player's legacy-ledger balance onto the live ledger
// exactly once.
func (n *Node) MigrateTokens(player types.Address) (*big.Int, error) {
	if err := n.enter(); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := common.Guard(n, moduleGame); err != nil {
		return nil, err
	}
	acct, err := n.loadPlayer(player)
	if err != nil {
		return nil, err
	}
	if acct.HasMigratedTokens {
		return nil, ErrAlreadyMigrated
	}
	if n.legacy == nil {
		return nil, ErrNoFundsToMigrate
	}

	balance, err := n.legacyBalance(player)
	if err != nil {
		return nil, err
	}
	if balance == nil || balance.Sign() <= 0 {
		return nil, ErrNoFundsToMigrate
	}
	total, err := n.mintChecked(player, balance)
	if err != nil {
		return nil, err
	}
	acct.HasMigratedTokens = true
	if err := n.state.PutPlayer(player, acct); err != nil {
		return nil, err
	}

	n.emit(events.TokenMinted{To: player, Amount: balance, Total: total, Reason: events.MintReasonMigration})
	return balance, nil
}

func (n *Node) legacyBalance(player types.Address) (*big.Int, error) {
	if err := n.calls.Begin(); err != nil {
		return nil, err
	}
	defer n.calls.End()
	balance, err := n.legacy.BalanceOf(player)
	if err != nil {
		return nil, fmt.Errorf("%w: legacy balance: %v", ErrTransferFailed, err)
	}
	return balance, nil
}
