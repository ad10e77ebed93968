package core

import (
	"fmt"
	"math/big"

	"taprush/core/events"
	"taprush/core/types"
	"taprush/native/turns"
	"taprush/native/verify"
)

func (n *Node) requireOwner(caller types.Address) error {
	if caller != n.owner {
		return fmt.Errorf("%w: %s is not the owner", ErrUnauthorized, caller.Hex())
	}
	return nil
}

// SetVerification records the identity oracle's attestation for a player.
// Only the owner or the configured oracle may call it.
func (n *Node) SetVerification(caller, player types.Address, tier types.VerificationTier, verified bool) error {
	if err := n.enter(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if caller != n.owner && (n.oracle.IsZero() || caller != n.oracle) {
		return fmt.Errorf("%w: %s may not attest verification", ErrUnauthorized, caller.Hex())
	}
	acct, err := n.loadPlayer(player)
	if err != nil {
		return err
	}
	if err := verify.SetVerification(acct, tier, verified); err != nil {
		return err
	}
	return n.state.PutPlayer(player, acct)
}

// UpdatePricing replaces the paid-turn pricing.
func (n *Node) UpdatePricing(caller types.Address, pricing turns.Pricing) error {
	if err := n.enter(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.requireOwner(caller); err != nil {
		return err
	}
	pricing = pricing.Clone()
	if err := pricing.Validate(); err != nil {
		return err
	}
	if err := n.state.SetPricing(pricing); err != nil {
		return err
	}
	n.pricing = pricing
	return nil
}

// UpdateVerificationMultipliers replaces the tier multiplier table. Bounds
// and the tier hierarchy are enforced; a violating table is rejected whole.
func (n *Node) UpdateVerificationMultipliers(caller types.Address, table verify.MultiplierTable) error {
	if err := n.enter(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.requireOwner(caller); err != nil {
		return err
	}
	if err := table.Validate(); err != nil {
		return err
	}
	if err := n.state.SetMultiplierTable(table); err != nil {
		return err
	}
	n.multipliers = table
	return nil
}

// SetAuthorizedSubmitter grants or revokes the trusted score-submission role.
func (n *Node) SetAuthorizedSubmitter(caller, submitter types.Address, authorized bool) error {
	if err := n.enter(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.requireOwner(caller); err != nil {
		return err
	}
	next := make(map[types.Address]bool, len(n.submitters)+1)
	for addr, ok := range n.submitters {
		if ok {
			next[addr] = true
		}
	}
	if authorized {
		next[submitter] = true
	} else {
		delete(next, submitter)
	}
	if err := n.state.SetSubmitters(next); err != nil {
		return err
	}
	n.submitters = next
	return nil
}

// ClearLeaderboard administratively resets one mode's board.
func (n *Node) ClearLeaderboard(caller types.Address, mode types.GameMode) error {
	if err := n.enter(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.requireOwner(caller); err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", types.ErrInvalidGameMode, uint8(mode))
	}
	board, err := n.state.Board(mode)
	if err != nil {
		return err
	}
	if err := n.state.PutBoard(mode, nil); err != nil {
		return err
	}
	n.emit(events.LeaderboardCleared{Mode: mode, Entries: len(board)})
	return nil
}

// Pause halts every player-facing mutation.
func (n *Node) Pause(caller types.Address) error {
	return n.setPaused(caller, true)
}

// Unpause resumes player-facing mutations.
func (n *Node) Unpause(caller types.Address) error {
	return n.setPaused(caller, false)
}

func (n *Node) setPaused(caller types.Address, paused bool) error {
	if err := n.enter(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.requireOwner(caller); err != nil {
		return err
	}
	if err := n.state.SetPaused(paused); err != nil {
		return err
	}
	n.paused = paused
	return nil
}

// WithdrawFees transfers the accumulated purchase fees out of the module
// account.
func (n *Node) WithdrawFees(caller, to types.Address) (*big.Int, error) {
	if err := n.enter(); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.requireOwner(caller); err != nil {
		return nil, err
	}
	if err := n.calls.Begin(); err != nil {
		return nil, err
	}
	defer n.calls.End()
	balance, err := n.ledger.BalanceOf(n.moduleAccount)
	if err != nil {
		return nil, fmt.Errorf("%w: fee balance: %v", ErrTransferFailed, err)
	}
	if balance == nil || balance.Sign() <= 0 {
		return nil, ErrNoFeesToWithdraw
	}
	if err := n.ledger.Transfer(n.moduleAccount, to, balance); err != nil {
		return nil, fmt.Errorf("%w: withdraw: %v", ErrTransferFailed, err)
	}
	return balance, nil
}
