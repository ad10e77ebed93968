package events

import (
	"math/big"
	"strings"

	"taprush/core/types"
)

const (
	// TypeTokenMinted is emitted whenever the reward token supply grows.
	TypeTokenMinted = "token.minted"

	// MintReasonGame identifies score settlement mints.
	MintReasonGame = "game_reward"
	// MintReasonClaim identifies daily check-in mints.
	MintReasonClaim = "daily_claim"
	// MintReasonMigration identifies one-shot legacy balance migrations.
	MintReasonMigration = "migration"
)

// TokenMinted captures a supply increase for the reward token.
type TokenMinted struct {
	To     types.Address
	Amount *big.Int
	Total  *big.Int
	Reason string
}

func (TokenMinted) EventType() string { return TypeTokenMinted }

// Event renders the structured form for downstream consumers.
func (e TokenMinted) Event() *types.Event {
	amount := big.NewInt(0)
	if e.Amount != nil {
		amount = new(big.Int).Set(e.Amount)
	}
	total := big.NewInt(0)
	if e.Total != nil {
		total = new(big.Int).Set(e.Total)
	}
	attrs := map[string]string{
		"to":     e.To.Hex(),
		"amount": amount.String(),
		"total":  total.String(),
	}
	if reason := strings.TrimSpace(e.Reason); reason != "" {
		attrs["reason"] = reason
	}
	return &types.Event{Type: TypeTokenMinted, Attributes: attrs}
}
