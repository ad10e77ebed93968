package events

import (
	"math/big"
	"strconv"

	"taprush/core/types"
)

// TypeDailyClaimed is emitted when a daily check-in reward is minted.
const TypeDailyClaimed = "claims.daily_claimed"

// DailyClaimed captures a successful daily check-in. Streak is the counter
// value after the claim.
type DailyClaimed struct {
	Player types.Address
	Streak uint32
	Amount *big.Int
}

func (DailyClaimed) EventType() string { return TypeDailyClaimed }

// Event renders the structured form for downstream consumers.
func (e DailyClaimed) Event() *types.Event {
	amount := big.NewInt(0)
	if e.Amount != nil {
		amount = new(big.Int).Set(e.Amount)
	}
	return &types.Event{Type: TypeDailyClaimed, Attributes: map[string]string{
		"player": e.Player.Hex(),
		"streak": strconv.FormatUint(uint64(e.Streak), 10),
		"amount": amount.String(),
	}}
}
