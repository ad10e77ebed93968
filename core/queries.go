package core

import (
	"fmt"
	"math/big"
	"time"

	"taprush/core/types"
	"taprush/native/claims"
	"taprush/native/leaderboard"
	"taprush/native/rewards"
	"taprush/native/turns"
	"taprush/native/verify"
)

// PlayerStats is the aggregate projection consumed by the presentation layer.
type PlayerStats struct {
	Player            types.Address
	VerificationTier  types.VerificationTier
	Verified          bool
	Eligible          bool
	TotalGamesPlayed  uint64
	TotalPointsEarned uint64
	HighScore         uint64
	Turns             turns.Status
	TimeUntilReset    time.Duration
	Claim             claims.Status
	HasMigratedTokens bool
}

// ContractStats is the global projection consumed by the presentation layer.
type ContractStats struct {
	TotalSupply  *big.Int
	MaxSupply    *big.Int
	TotalGames   uint64
	TotalPlayers uint64
}

// AvailableTurns projects the player's playable turns right now.
func (n *Node) AvailableTurns(player types.Address) (turns.Status, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	acct, err := n.loadPlayer(player)
	if err != nil {
		return turns.Status{}, err
	}
	return turns.Available(acct, n.now()), nil
}

// TimeUntilReset reports how long until the player's free bucket refills.
func (n *Node) TimeUntilReset(player types.Address) (time.Duration, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	acct, err := n.loadPlayer(player)
	if err != nil {
		return 0, err
	}
	return turns.TimeUntilReset(acct, n.now()), nil
}

// DailyClaimStatus projects the player's check-in state.
func (n *Node) DailyClaimStatus(player types.Address) (claims.Status, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	acct, err := n.loadPlayer(player)
	if err != nil {
		return claims.Status{}, err
	}
	return claims.StatusFor(n.claimCfg, acct, n.now()), nil
}

// TopN returns the first n entries of a mode's board.
func (n *Node) TopN(mode types.GameMode, count int) ([]types.LeaderboardEntry, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidGameMode, uint8(mode))
	}
	board, err := n.state.Board(mode)
	if err != nil {
		return nil, err
	}
	return leaderboard.TopN(board, count)
}

// RankOf returns the player's 1-based rank on a mode's board, 0 when absent.
func (n *Node) RankOf(mode types.GameMode, player types.Address) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !mode.Valid() {
		return 0, fmt.Errorf("%w: %d", types.ErrInvalidGameMode, uint8(mode))
	}
	board, err := n.state.Board(mode)
	if err != nil {
		return 0, err
	}
	return leaderboard.RankOf(board, player), nil
}

// Stats aggregates the player projection.
func (n *Node) Stats(player types.Address) (PlayerStats, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	acct, err := n.loadPlayer(player)
	if err != nil {
		return PlayerStats{}, err
	}
	now := n.now()
	return PlayerStats{
		Player:            player,
		VerificationTier:  acct.VerificationTier,
		Verified:          acct.Verified,
		Eligible:          verify.Eligible(acct),
		TotalGamesPlayed:  acct.TotalGamesPlayed,
		TotalPointsEarned: acct.TotalPointsEarned,
		HighScore:         acct.HighScore,
		Turns:             turns.Available(acct, now),
		TimeUntilReset:    turns.TimeUntilReset(acct, now),
		Claim:             claims.StatusFor(n.claimCfg, acct, now),
		HasMigratedTokens: acct.HasMigratedTokens,
	}, nil
}

// CurrentPricing returns the active paid-turn pricing.
func (n *Node) CurrentPricing() turns.Pricing {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pricing.Clone()
}

// VerificationMultipliers returns the active tier multiplier table.
func (n *Node) VerificationMultipliers() verify.MultiplierTable {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.multipliers
}

// ContractStats aggregates the global projection. The supply read goes
// through the external capability and is therefore guarded.
func (n *Node) ContractStats() (ContractStats, error) {
	if err := n.enter(); err != nil {
		return ContractStats{}, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.calls.Begin(); err != nil {
		return ContractStats{}, err
	}
	total, err := n.ledger.TotalSupply()
	n.calls.End()
	if err != nil {
		return ContractStats{}, fmt.Errorf("%w: total supply: %v", ErrTransferFailed, err)
	}
	totalGames, err := n.state.TotalGames()
	if err != nil {
		return ContractStats{}, err
	}
	totalPlayers, err := n.state.TotalPlayers()
	if err != nil {
		return ContractStats{}, err
	}
	return ContractStats{
		TotalSupply:  total,
		MaxSupply:    rewards.MaxSupply(),
		TotalGames:   totalGames,
		TotalPlayers: totalPlayers,
	}, nil
}
