package events

import (
	"math/big"
	"strconv"

	"taprush/core/types"
)

const (
	// TypeGameStarted is emitted when a turn is consumed and a session opens.
	TypeGameStarted = "game.started"
	// TypeGameScored is emitted when an attested score settles a session.
	TypeGameScored = "game.scored"
)

// GameStarted captures the opening of a play session.
type GameStarted struct {
	Player types.Address
	GameID uint64
	Mode   types.GameMode
}

func (GameStarted) EventType() string { return TypeGameStarted }

// Event renders the structured form for downstream consumers.
func (e GameStarted) Event() *types.Event {
	return &types.Event{Type: TypeGameStarted, Attributes: map[string]string{
		"player": e.Player.Hex(),
		"gameId": strconv.FormatUint(e.GameID, 10),
		"mode":   e.Mode.String(),
	}}
}

// GameScored captures the settlement of a session: the attested score, the
// minted reward and whether a new personal best was set.
type GameScored struct {
	Player    types.Address
	GameID    uint64
	Mode      types.GameMode
	Score     uint64
	Round     uint32
	Reward    *big.Int
	HighScore bool
}

func (GameScored) EventType() string { return TypeGameScored }

// Event renders the structured form for downstream consumers.
func (e GameScored) Event() *types.Event {
	reward := big.NewInt(0)
	if e.Reward != nil {
		reward = new(big.Int).Set(e.Reward)
	}
	return &types.Event{Type: TypeGameScored, Attributes: map[string]string{
		"player":    e.Player.Hex(),
		"gameId":    strconv.FormatUint(e.GameID, 10),
		"mode":      e.Mode.String(),
		"score":     strconv.FormatUint(e.Score, 10),
		"round":     strconv.FormatUint(uint64(e.Round), 10),
		"reward":    reward.String(),
		"highScore": strconv.FormatBool(e.HighScore),
	}}
}
