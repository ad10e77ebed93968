package events

import (
	"math/big"
	"strconv"

	"taprush/core/types"
)

const (
	// TypeTurnRefilled is emitted when a player buys back the daily bucket.
	TypeTurnRefilled = "turns.refilled"
	// TypePassPurchased is emitted when an unlimited-play pass is bought.
	TypePassPurchased = "turns.pass_purchased"
)

// TurnRefilled captures a paid refill of the daily turn bucket.
type TurnRefilled struct {
	Player types.Address
	Cost   *big.Int
}

func (TurnRefilled) EventType() string { return TypeTurnRefilled }

// Event renders the structured form for downstream consumers.
func (e TurnRefilled) Event() *types.Event {
	cost := big.NewInt(0)
	if e.Cost != nil {
		cost = new(big.Int).Set(e.Cost)
	}
	return &types.Event{Type: TypeTurnRefilled, Attributes: map[string]string{
		"player": e.Player.Hex(),
		"cost":   cost.String(),
	}}
}

// PassPurchased captures an unlimited-play pass purchase. ExpiresAt is the
// unix timestamp the pass window closes; a purchase overwrites any remaining
// window rather than stacking.
type PassPurchased struct {
	Player    types.Address
	Cost      *big.Int
	ExpiresAt uint64
}

func (PassPurchased) EventType() string { return TypePassPurchased }

// Event renders the structured form for downstream consumers.
func (e PassPurchased) Event() *types.Event {
	cost := big.NewInt(0)
	if e.Cost != nil {
		cost = new(big.Int).Set(e.Cost)
	}
	return &types.Event{Type: TypePassPurchased, Attributes: map[string]string{
		"player":    e.Player.Hex(),
		"cost":      cost.String(),
		"expiresAt": strconv.FormatUint(e.ExpiresAt, 10),
	}}
}
